package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtroode/attestkeeper-server/internal/filecheck"
	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/model"
	"github.com/dtroode/attestkeeper-server/internal/token"
	"github.com/dtroode/attestkeeper-server/internal/totp"
	"github.com/dtroode/attestkeeper-server/internal/vault"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "attestctl",
		Short:         "Operator tooling for attestkeeper",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd(), newTOTPCmd(), newVaultCmd(), newTokenCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	var profile, policiesFile, mimeType string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a file against an upload policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quiet := logger.NewWithFormat(int(slog.LevelError), "text", cmd.ErrOrStderr())
			policies, err := filecheck.NewPolicyStore(policiesFile, quiet)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			st, err := f.Stat()
			if err != nil {
				return err
			}

			policy, err := policies.Get(profile)
			if err != nil {
				return err
			}

			info := model.FileInfo{Name: st.Name(), Size: st.Size(), MIMEType: mimeType}
			res, err := filecheck.NewValidator(quiet, nil).Validate(policy, info, f)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&profile, "profile", filecheck.DefaultProfile, "upload policy profile")
	cmd.Flags().StringVar(&policiesFile, "policies", envOr("UPLOAD_POLICIES_FILE", ""), "policy YAML file (env UPLOAD_POLICIES_FILE)")
	cmd.Flags().StringVar(&mimeType, "mime", "", "declared MIME type")
	return cmd
}

func newTOTPCmd() *cobra.Command {
	var secret, issuer, account string

	cmd := &cobra.Command{
		Use:   "totp",
		Short: "TOTP helpers",
	}
	cmd.PersistentFlags().StringVar(&secret, "secret", "", "base32 TOTP secret")

	codeCmd := &cobra.Command{
		Use:   "code",
		Short: "Print the current code for a secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := totp.DecodeSecret(secret)
			if err != nil {
				return err
			}
			now := time.Now()
			period := int64(totp.Period / time.Second)
			remaining := period - now.Unix()%period
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%ds left)\n", totp.Code(raw, now), remaining)
			return nil
		},
	}

	uriCmd := &cobra.Command{
		Use:   "uri",
		Short: "Print the otpauth URI for a secret, generating one when omitted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := secret
			if s == "" {
				_, generated, err := totp.GenerateSecret(nil)
				if err != nil {
					return err
				}
				s = generated
			} else if _, err := totp.DecodeSecret(s); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), totp.ProvisioningURI(issuer, account, s))
			return nil
		},
	}
	uriCmd.Flags().StringVar(&issuer, "issuer", envOr("TOTP_ISSUER", "AttestKeeper"), "issuer label")
	uriCmd.Flags().StringVar(&account, "account", "", "account label")
	_ = uriCmd.MarkFlagRequired("account")

	cmd.AddCommand(codeCmd, uriCmd)
	return cmd
}

func newVaultCmd() *cobra.Command {
	var secret, salt string
	var iterations int

	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Seal or open values with the deployment vault secret",
	}
	cmd.PersistentFlags().StringVar(&secret, "secret", envOr("VAULT_SECRET", ""), "vault secret (env VAULT_SECRET)")
	cmd.PersistentFlags().StringVar(&salt, "salt", envOr("VAULT_SALT", vault.DefaultSalt), "vault salt (env VAULT_SALT)")
	cmd.PersistentFlags().IntVar(&iterations, "iterations", vault.DefaultIterations, "PBKDF2 iterations")

	open := func() (*vault.Vault, error) {
		return vault.New(secret, vault.WithSalt(salt), vault.WithIterations(iterations))
	}

	encryptCmd := &cobra.Command{
		Use:   "encrypt [plaintext]",
		Short: "Encrypt an argument or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := open()
			if err != nil {
				return err
			}
			in, err := input(cmd, args)
			if err != nil {
				return err
			}
			out, err := v.Encrypt(in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	decryptCmd := &cobra.Command{
		Use:   "decrypt [ciphertext]",
		Short: "Decrypt an argument or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := open()
			if err != nil {
				return err
			}
			in, err := input(cmd, args)
			if err != nil {
				return err
			}
			out, err := v.Decrypt(strings.TrimSpace(string(in)))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.AddCommand(encryptCmd, decryptCmd)
	return cmd
}

func newTokenCmd() *cobra.Command {
	var secret, issuer, owner string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for an owner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				return fmt.Errorf("invalid --owner: %w", err)
			}
			tok, err := token.NewJWT(secret, issuer, ttl).GenerateAccessToken(ownerID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", envOr("JWT_SECRET", ""), "signing secret (env JWT_SECRET)")
	cmd.Flags().StringVar(&issuer, "issuer", envOr("JWT_ISSUER", "attestkeeper"), "token issuer (env JWT_ISSUER)")
	cmd.Flags().StringVar(&owner, "owner", "", "owner id")
	cmd.Flags().DurationVar(&ttl, "ttl", token.DefaultAccessTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func input(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 {
		return []byte(args[0]), nil
	}
	return io.ReadAll(cmd.InOrStdin())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
