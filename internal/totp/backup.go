package totp

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

const (
	// BackupCodeAlphabet omits 0/O and 1/I.
	BackupCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	BackupCodeLength   = 10
	BackupCodeCount    = 10
)

// GenerateBackupCodes returns n single-use codes. The alphabet has 32
// symbols, so taking each byte mod 32 is unbiased.
func GenerateBackupCodes(r io.Reader, n int) ([]string, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, n*BackupCodeLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("failed to read backup code entropy: %w", err)
	}

	codes := make([]string, n)
	for i := range codes {
		var sb strings.Builder
		sb.Grow(BackupCodeLength)
		for _, b := range buf[i*BackupCodeLength : (i+1)*BackupCodeLength] {
			sb.WriteByte(BackupCodeAlphabet[b&31])
		}
		codes[i] = sb.String()
	}
	return codes, nil
}

// NormalizeBackupCode uppercases and strips separators users tend to type.
func NormalizeBackupCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.NewReplacer("-", "", " ", "").Replace(code)
}

// HashBackupCode returns the hex SHA-256 of the normalized code.
func HashBackupCode(code string) string {
	sum := sha256.Sum256([]byte(NormalizeBackupCode(code)))
	return hex.EncodeToString(sum[:])
}

// HashBackupCodes hashes every code in order.
func HashBackupCodes(codes []string) []string {
	hashes := make([]string, len(codes))
	for i, c := range codes {
		hashes[i] = HashBackupCode(c)
	}
	return hashes
}
