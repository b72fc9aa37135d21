package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pquill/hostdesk/internal/session"
)

func newLogoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd, *configPath)
		},
	}
}

func runLogout(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	store := session.NewStore(cfg.SessionPath())
	if err := store.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}
