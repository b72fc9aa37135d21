package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pquill/hostdesk/internal/history"
	"github.com/pquill/hostdesk/internal/ui"
)

// runUI launches the interactive client. This is what plain `hd` does.
func runUI(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := newFileLogger(cfg.LogPath())
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, sess, store, err := connect(cfg, logger)
	if err != nil {
		return err
	}

	// The send log is an extra; a broken local DB must not stop the UI.
	var hist *history.Store
	if h, err := history.Open(cfg.HistoryPath()); err != nil {
		logger.Warn("history store unavailable", zap.Error(err))
	} else {
		hist = h
	}

	model := ui.New(ui.Opts{
		Backend:  client,
		Sessions: store,
		History:  hist,
		Logger:   logger,
		Houses:   cfg.Houses,
		Session:  sess,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
