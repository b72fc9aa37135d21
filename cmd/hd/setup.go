package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pquill/hostdesk/internal/api"
	"github.com/pquill/hostdesk/internal/config"
	"github.com/pquill/hostdesk/internal/session"
)

// loadConfig reads the config file, falling back to the default location
// (and defaults-only config) when no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// newFileLogger builds a zap logger writing JSON to the given file. The
// terminal belongs to the UI, so nothing may log to stdout or stderr.
func newFileLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

// connect builds an API client from the config and any persisted session.
func connect(cfg *config.Config, logger *zap.Logger) (*api.Client, *session.Session, *session.Store, error) {
	store := session.NewStore(cfg.SessionPath())
	sess, err := store.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load session: %w", err)
	}
	cookie := ""
	if sess.Valid() {
		cookie = sess.Cookie
	}
	client, err := api.New(api.Opts{
		BaseURL: cfg.Server.URL,
		Cookie:  cookie,
		Timeout: cfg.Server.Timeout(),
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return client, sess, store, nil
}
