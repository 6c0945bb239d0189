package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tripcrew/internal/config"
	"tripcrew/pkg/utils"
)

func newTokenCmd() *cobra.Command {
	var subject, role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API",
		Long:  `token signs an HS256 token with AUTH_JWT_SECRET for calling /itinerary endpoints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read()
			if err != nil {
				return err
			}
			token, err := utils.CreateToken([]byte(cfg.JWTSecret), subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "planner-cli", "token subject")
	cmd.Flags().StringVar(&role, "role", "", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", utils.DefaultTokenTTL, "token lifetime")

	return cmd
}
