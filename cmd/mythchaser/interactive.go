package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/config"
	"github.com/csheth/mythchaser/internal/dropzone"
	"github.com/csheth/mythchaser/internal/history"
	"github.com/csheth/mythchaser/internal/logging"
	"github.com/csheth/mythchaser/internal/tui"
)

func runInteractive(c *cli.Context) error {
	if c.Args().Len() > 0 {
		return cli.Exit(fmt.Sprintf("unexpected argument %q (did you mean \"mythchaser check\"?)", c.Args().First()), 1)
	}
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer func() { _ = closeLog() }()
	logger.Info("starting",
		zap.String("endpoint", cfg.Endpoint),
		zap.Duration("request_timeout", cfg.RequestTimeout.Duration),
		zap.String("drop_dir", cfg.DropDir),
	)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	recent, err := history.NewRecent(cfg.HistorySize)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	tuiConfig := tui.Config{
		Client:      client,
		History:     recent,
		HistoryFile: cfg.HistoryFile,
		ClaimFile:   c.String("claim-file"),
		Context:     ctx,
	}
	if cfg.DropDir != "" {
		watcher, err := dropzone.New(cfg.DropDir, dropzone.DefaultDebounce, logger)
		if err != nil {
			return cli.Exit(fmt.Sprintf("drop folder: %v", err), 1)
		}
		if err := watcher.Start(ctx); err != nil {
			watcher.Stop()
			return cli.Exit(fmt.Sprintf("drop folder: %v", err), 1)
		}
		defer watcher.Stop()
		tuiConfig.DropZone = watcher
	}

	model, err := tui.New(tuiConfig, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	opts := []tea.ProgramOption{tea.WithMouseAllMotion(), tea.WithContext(ctx)}
	if !c.Bool("no-alt-screen") {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		logger.Error("program error", zap.Error(err))
		return cli.Exit(fmt.Sprintf("program error: %v", err), 1)
	}
	return nil
}

func newClient(cfg config.Config, logger *zap.Logger) (classify.Client, error) {
	client, err := classify.New(classify.Config{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.RequestTimeout.Duration,
		Logger:   logger,
	})
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	return client, nil
}
