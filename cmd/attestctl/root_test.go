package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/attestkeeper-server/internal/model"
	"github.com/dtroode/attestkeeper-server/internal/token"
	"github.com/dtroode/attestkeeper-server/internal/totp"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "image.png")
	head := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 24)...)
	require.NoError(t, os.WriteFile(png, head, 0o600))

	fake := filepath.Join(dir, "fake.png")
	require.NoError(t, os.WriteFile(fake, []byte("definitely not an image at all"), 0o600))

	exe := filepath.Join(dir, "setup.exe")
	require.NoError(t, os.WriteFile(exe, []byte("MZ"), 0o600))

	t.Run("accepted", func(t *testing.T) {
		out, err := run(t, "", "validate", png, "--mime", "image/png")
		require.NoError(t, err)
		assert.Contains(t, out, `"Accepted": true`)
		assert.Contains(t, out, `"Category": "image"`)
	})

	t.Run("signature mismatch", func(t *testing.T) {
		_, err := run(t, "", "validate", fake)
		var rej *model.FileRejectedError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, model.RejectSignatureMismatch, rej.Reason)
	})

	t.Run("denied extension", func(t *testing.T) {
		_, err := run(t, "", "validate", exe)
		var rej *model.FileRejectedError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, model.RejectExtensionDenied, rej.Reason)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "", "validate", filepath.Join(dir, "nope.png"))
		require.Error(t, err)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := run(t, "", "validate", png, "--profile", "identity")
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})

	t.Run("profile from policy file", func(t *testing.T) {
		policies := filepath.Join(dir, "policies.yaml")
		require.NoError(t, os.WriteFile(policies, []byte("default: {}\nprofiles:\n  docs:\n    allowed_categories: [document]\n"), 0o600))

		_, err := run(t, "", "validate", png, "--policies", policies, "--profile", "docs")
		var rej *model.FileRejectedError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, model.RejectExtensionUnsupported, rej.Reason)
	})
}

func TestTOTP(t *testing.T) {
	_, secret, err := totp.GenerateSecret(nil)
	require.NoError(t, err)

	t.Run("code", func(t *testing.T) {
		out, err := run(t, "", "totp", "code", "--secret", secret)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^\d{6} \(\d+s left\)\n$`), out)
	})

	t.Run("code with bad secret", func(t *testing.T) {
		_, err := run(t, "", "totp", "code", "--secret", "not base32!")
		require.Error(t, err)
	})

	t.Run("uri", func(t *testing.T) {
		out, err := run(t, "", "totp", "uri", "--secret", secret, "--account", "alice@example.com", "--issuer", "Acme")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "otpauth://totp/"))
		assert.Contains(t, out, "secret="+secret)
		assert.Contains(t, out, "issuer=Acme")
	})

	t.Run("uri generates a secret", func(t *testing.T) {
		out, err := run(t, "", "totp", "uri", "--account", "bob")
		require.NoError(t, err)
		assert.Contains(t, out, "secret=")
	})

	t.Run("uri requires account", func(t *testing.T) {
		_, err := run(t, "", "totp", "uri", "--secret", secret)
		require.Error(t, err)
	})
}

func TestVault(t *testing.T) {
	t.Setenv("VAULT_SECRET", "")
	args := []string{"--secret", "correct horse battery staple", "--iterations", "100000"}

	sealed, err := run(t, "", append([]string{"vault", "encrypt", "hello"}, args...)...)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "hello")

	opened, err := run(t, sealed, append([]string{"vault", "decrypt"}, args...)...)
	require.NoError(t, err)
	assert.Equal(t, "hello", opened)

	_, err = run(t, sealed, "vault", "decrypt", "--secret", "another secret", "--iterations", "100000")
	require.Error(t, err)

	_, err = run(t, "", "vault", "encrypt", "x")
	require.Error(t, err, "empty secret must be refused")
}

func TestTokenIssue(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	owner := uuid.New()

	out, err := run(t, "", "token", "--secret", "s3cret", "--issuer", "test", "--owner", owner.String(), "--ttl", "1m")
	require.NoError(t, err)

	parsed, err := token.NewJWT("s3cret", "test", time.Minute).ParseAccessToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, owner, parsed)

	_, err = run(t, "", "token", "--owner", owner.String())
	require.Error(t, err)

	_, err = run(t, "", "token", "--secret", "s3cret", "--owner", "nope")
	require.Error(t, err)
}
