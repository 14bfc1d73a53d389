package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"matte/internal/common/auth"
	"matte/internal/common/config"
	"matte/internal/models"
)

func newTokenCmd() *cobra.Command {
	var (
		secret string
		issuer string
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <company-id>",
		Short: "Sign a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.AuthConfig
			cfg.JWT.Secret = secret
			cfg.JWT.Issuer = issuer
			return cmdToken(cmd.OutOrStdout(), cfg, models.TenantContext{CompanyID: args[0], UserID: userID}, ttl)
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret (auth.jwt.secret)")
	cmd.Flags().StringVar(&issuer, "issuer", "", "token issuer (auth.jwt.issuer)")
	cmd.Flags().StringVar(&userID, "user", "", "user id to embed")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime, 0 for no expiry")
	_ = cmd.MarkFlagRequired("secret")
	return cmd
}

func cmdToken(w io.Writer, cfg config.AuthConfig, tenant models.TenantContext, ttl time.Duration) error {
	resolver, err := auth.NewTenantResolver(cfg)
	if err != nil {
		return err
	}
	token, err := resolver.Issue(tenant, ttl)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	fmt.Fprintln(w, token)
	return nil
}
