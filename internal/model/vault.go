package model

// Sealer encrypts secrets at rest. Decrypt returns ErrKeyUnrecoverable when
// the ciphertext does not authenticate.
type Sealer interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(ciphertext string) ([]byte, error)
}
