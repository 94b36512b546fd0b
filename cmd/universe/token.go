package main

import (
	"errors"
	"fmt"

	"repo-universe/internal/auth"
	"repo-universe/internal/shared/config"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a viewer token for the HTTP surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		viewer, _ := cmd.Flags().GetString("viewer")
		if viewer == "" {
			return errors.New("--viewer is required")
		}

		if err := config.Init(); err != nil {
			return err
		}

		token, err := auth.GenerateJWT(viewer, config.GlobalConfig.Auth.JWTSecret, config.GlobalConfig.Auth.TokenExpiration)
		if err != nil {
			return fmt.Errorf("failed to mint token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("viewer", "", "viewer name carried in the token")
	rootCmd.AddCommand(tokenCmd)
}
