package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pquill/hostdesk/internal/history"
)

func newStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and backend status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, *configPath)
		},
	}
}

func runStatus(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	client, sess, _, err := connect(cfg, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Server:   %s\n", cfg.Server.URL)
	if sess.Valid() {
		fmt.Fprintf(out, "Session:  logged in as %s\n", sess.Role)
	} else {
		fmt.Fprintln(out, "Session:  not logged in")
	}

	health, err := client.Health(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "Backend:  unreachable (%v)\n", err)
		return nil
	}
	fmt.Fprintf(out, "Backend:  %s (platform configured: %v, push configured: %v)\n",
		health.Status, health.HosttoolsConfigured, health.NtfyConfigured)

	// Stats need an authenticated session; skip quietly without one.
	if !sess.Valid() {
		return nil
	}
	stats, err := client.Stats(cmd.Context())
	if err != nil {
		return nil
	}
	fmt.Fprintf(out, "Data:     %d listings, %d reservations, %d messages (%d from guests)\n",
		stats.Listings, stats.Reservations, stats.TotalMessages, stats.GuestMessages)

	if hist, err := history.Open(cfg.HistoryPath()); err == nil {
		if total, drafted, err := hist.Counts(); err == nil && total > 0 {
			fmt.Fprintf(out, "Sent:     %d from this client (%d AI-drafted)\n", total, drafted)
		}
	}
	return nil
}
