package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pquill/hostdesk/internal/notify"
	"github.com/pquill/hostdesk/internal/watch"
)

func newWatchCmd(configPath *string) *cobra.Command {
	var (
		schedule string
		noSync   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for new guest messages and raise desktop notifications",
		Long:  "Runs in the foreground on a cron schedule, syncing the backend and notifying on conversations that need attention. Emergency keywords escalate the notification.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchCmd(cmd, *configPath, schedule, noSync)
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule override (default from config)")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "skip platform syncs, only poll conversations")
	return cmd
}

func runWatchCmd(cmd *cobra.Command, configPath, schedule string, noSync bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := newFileLogger(cfg.LogPath())
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, sess, _, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	if !sess.Valid() {
		return fmt.Errorf("watch: not logged in, run `hd login`")
	}

	if schedule == "" {
		schedule = cfg.Watch.Schedule
	}
	sync := cfg.Watch.Sync
	if noSync {
		sync = false
	}

	w, err := watch.New(watch.Opts{
		Backend:  client,
		Notifier: notify.New(cfg.Watch.NotifyCommand, logger),
		Logger:   logger,
		Schedule: schedule,
		Sync:     sync,
		Out:      cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return w.Run(ctx)
}
