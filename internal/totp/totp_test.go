package totp

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 6238 appendix B, SHA1 secret "12345678901234567890".
func TestCode_RFC6238Vectors(t *testing.T) {
	secret := []byte("12345678901234567890")

	tests := []struct {
		unix int64
		want string // last 6 digits of the 8-digit reference
	}{
		{unix: 59, want: "287082"},
		{unix: 1111111109, want: "081804"},
		{unix: 1111111111, want: "050471"},
		{unix: 1234567890, want: "005924"},
		{unix: 2000000000, want: "279037"},
		{unix: 20000000000, want: "353130"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(secret, time.Unix(tt.unix, 0)), "t=%d", tt.unix)
	}
}

func TestVerify_DriftWindow(t *testing.T) {
	secret := []byte("12345678901234567890")
	base := time.Unix(1_700_000_015, 0)
	code := Code(secret, base)

	for _, d := range []time.Duration{0, 29 * time.Second, -29 * time.Second} {
		ok, _ := Verify(secret, code, base.Add(d), DefaultWindow)
		assert.True(t, ok, "offset %s", d)
	}

	ok, _ := Verify(secret, code, base.Add(95*time.Second), DefaultWindow)
	assert.False(t, ok)
}

func TestVerify_MatchedCounter(t *testing.T) {
	secret := []byte("12345678901234567890")
	now := time.Unix(1_700_000_015, 0)
	prev := now.Add(-Period)

	ok, c := Verify(secret, Code(secret, prev), now, DefaultWindow)
	require.True(t, ok)
	assert.Equal(t, Counter(prev), c)
}

func TestVerify_RejectsMalformed(t *testing.T) {
	secret := []byte("12345678901234567890")
	now := time.Now()

	for _, code := range []string{"", "12345", "1234567", "abcdef", "12 456"} {
		ok, _ := Verify(secret, code, now, DefaultWindow)
		assert.False(t, ok, code)
	}
}

func TestGenerateSecret(t *testing.T) {
	raw, enc, err := GenerateSecret(nil)
	require.NoError(t, err)
	assert.Len(t, raw, SecretSize)
	assert.Len(t, enc, 32)

	decoded, err := DecodeSecret(strings.ToLower(enc))
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestGenerateSecret_ReaderError(t *testing.T) {
	_, _, err := GenerateSecret(bytes.NewReader([]byte{1, 2}))
	assert.Error(t, err)
}

func TestProvisioningURI(t *testing.T) {
	uri := ProvisioningURI("Attest Keeper", "alice@example.com", "JBSWY3DPEHPK3PXP")

	u, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", u.Scheme)
	assert.Equal(t, "totp", u.Host)
	assert.Equal(t, "/Attest Keeper:alice@example.com", u.Path)

	q := u.Query()
	assert.Equal(t, "JBSWY3DPEHPK3PXP", q.Get("secret"))
	assert.Equal(t, "Attest Keeper", q.Get("issuer"))
	assert.Equal(t, "SHA1", q.Get("algorithm"))
	assert.Equal(t, "6", q.Get("digits"))
	assert.Equal(t, "30", q.Get("period"))
}
