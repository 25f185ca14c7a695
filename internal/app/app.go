package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/readaloud/internal/config"
	"github.com/five82/readaloud/internal/logging"
	"github.com/five82/readaloud/internal/prefs"
	"github.com/five82/readaloud/internal/readaloud"
	"github.com/five82/readaloud/internal/state"
	"github.com/five82/readaloud/internal/ui"
)

// Options configure the panel. Non-zero fields override the config file and
// the environment.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses the default prefs.toml
	APIBase    string
	PollEvery  time.Duration
	LogLevel   string
}

// LoadConfig reads the panel config and applies command-line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load panel config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIBase); v != "" {
		cfg.APIBase = v
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// NewClient builds the backend client for cfg.
func NewClient(cfg config.Config, logger *log.Logger) (*readaloud.Client, error) {
	client, err := readaloud.NewClient(cfg.APIBase,
		readaloud.WithTimeout(cfg.RequestTimeout),
		readaloud.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("init readaloud client: %w", err)
	}
	return client, nil
}

// Run boots the panel TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open panel log: %w", err)
	}
	defer closer.Close()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)
	themeName := userPrefs.Theme
	if cfg.Theme != "" {
		themeName = cfg.Theme
	}

	client, err := NewClient(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("panel started", "api", client.BaseURL(), "poll", cfg.PollInterval)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := &state.Store{}
	poller := NewPoller(store, client, cfg.PollInterval, cfg.RequestTimeout, logger)
	pollerDone := poller.Start(runCtx)

	err = ui.Run(ui.Options{
		Context:       runCtx,
		Client:        client,
		Store:         store,
		Refresh:       poller.Refresh,
		Logger:        logger,
		LogPath:       cfg.LogFile,
		ToastDuration: cfg.ToastDuration,
		ThemeName:     themeName,
		TestText:      userPrefs.TestText,
		PrefsPath:     prefsPath,
	})

	cancel()
	<-pollerDone
	logger.Info("panel stopped")

	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
