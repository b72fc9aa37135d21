package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pquill/hostdesk/internal/api"
)

func newSyncCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull listings and reservations from the booking platform",
		Long:  "Runs the two-step platform sync: listings first, then reservations with their message history. Aborts if the listing step fails.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, *configPath)
		},
	}
}

func runSync(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	client, sess, _, err := connect(cfg, nil)
	if err != nil {
		return err
	}
	if !sess.Valid() {
		return fmt.Errorf("sync: not logged in, run `hd login`")
	}

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	fmt.Fprint(out, "Syncing listings... ")
	listings, err := client.SyncListings(ctx)
	if err != nil {
		fmt.Fprintln(out, "failed")
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("sync: session expired, run `hd login`")
		}
		return fmt.Errorf("sync listings: %w", err)
	}
	fmt.Fprintf(out, "%d synced", listings.Synced)
	if len(listings.Listings) > 0 {
		fmt.Fprintf(out, " (%s)", strings.Join(listings.Listings, ", "))
	}
	fmt.Fprintln(out)

	fmt.Fprint(out, "Syncing reservations... ")
	res, err := client.SyncReservations(ctx)
	if err != nil {
		fmt.Fprintln(out, "failed")
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("sync: session expired, run `hd login`")
		}
		return fmt.Errorf("sync reservations: %w", err)
	}
	fmt.Fprintf(out, "%d synced, %d messages imported, %d templates tagged\n",
		res.Synced, res.MessagesImported, res.TemplatesTagged)
	return nil
}
