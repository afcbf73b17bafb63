// Package totp implements RFC 6238 time-based one-time passwords
// (HMAC-SHA1, 6 digits, 30 second period).
package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
)

const (
	Digits     = 6
	Period     = 30 * time.Second
	SecretSize = 20 // 160 bits
	// DefaultWindow accepts the previous and next time step.
	DefaultWindow = 1
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateSecret returns a new 160-bit secret, raw and base32 encoded.
func GenerateSecret(r io.Reader) (raw []byte, encoded string, err error) {
	if r == nil {
		r = rand.Reader
	}
	raw = make([]byte, SecretSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, "", fmt.Errorf("failed to read secret entropy: %w", err)
	}
	return raw, b32.EncodeToString(raw), nil
}

// DecodeSecret accepts the base32 secret with or without padding, in any case.
func DecodeSecret(encoded string) ([]byte, error) {
	s := strings.ToUpper(strings.TrimSpace(encoded))
	s = strings.TrimRight(s, "=")
	raw, err := b32.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base32 secret: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty secret")
	}
	return raw, nil
}

// Counter returns the time step for t.
func Counter(t time.Time) int64 {
	return t.Unix() / int64(Period/time.Second)
}

// Code returns the 6-digit code for secret at t.
func Code(secret []byte, t time.Time) string {
	return hotp(secret, Counter(t))
}

// Verify reports whether code matches secret at any step in
// [counter-window, counter+window], and the matching step.
func Verify(secret []byte, code string, t time.Time, window int) (bool, int64) {
	code = strings.TrimSpace(code)
	if len(code) != Digits {
		return false, 0
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false, 0
		}
	}

	counter := Counter(t)
	for c := counter - int64(window); c <= counter+int64(window); c++ {
		if subtle.ConstantTimeCompare([]byte(hotp(secret, c)), []byte(code)) == 1 {
			return true, c
		}
	}
	return false, 0
}

// ProvisioningURI builds the otpauth:// URI for authenticator enrollment.
func ProvisioningURI(issuer, account, secret string) string {
	label := url.PathEscape(issuer + ":" + account)
	q := url.Values{}
	q.Set("secret", secret)
	q.Set("issuer", issuer)
	q.Set("algorithm", "SHA1")
	q.Set("digits", "6")
	q.Set("period", "30")
	return fmt.Sprintf("otpauth://totp/%s?%s", label, q.Encode())
}

// hotp is RFC 4226 HOTP with dynamic truncation.
func hotp(secret []byte, counter int64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	m := hmac.New(sha1.New, secret)
	_, _ = m.Write(msg[:])
	sum := m.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff
	return fmt.Sprintf("%06d", bin%1_000_000)
}
