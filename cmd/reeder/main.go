package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/glabrego/reeder/internal/app"
	"github.com/glabrego/reeder/internal/config"
	"github.com/glabrego/reeder/internal/feedbin"
	"github.com/glabrego/reeder/internal/storage"
	"github.com/glabrego/reeder/internal/tui"
)

func main() {
	config.RegisterFlags(pflag.CommandLine)
	pflag.Parse()

	cfg, err := config.Load(pflag.CommandLine)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, closeLog, err := newLogger(cfg.LogPath)
	if err != nil {
		log.Fatalf("log file error: %v", err)
	}
	defer closeLog()

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}

	client := feedbin.NewClient(cfg.APIBaseURL, cfg.Email, cfg.Password, nil)
	service := app.NewService(client, repo, logger)
	if err := service.Authenticate(ctx); err != nil {
		log.Fatalf("authentication error: %v", err)
	}

	cacheLoadStart := time.Now()
	articles, err := service.ArticleList(ctx, cfg.Filter, cfg.Order, cfg.PageSize)
	if err != nil {
		log.Fatalf("cannot load cached entries: %v", err)
	}
	tree, err := service.FeedTree(ctx, cfg.Filter)
	if err != nil {
		log.Fatalf("cannot load cached feeds: %v", err)
	}
	logger.Info("loaded cache",
		slog.Int("articles", articles.Len()),
		slog.Int("feeds", tree.Len()),
		slog.Duration("duration", time.Since(cacheLoadStart)),
	)

	model := tui.NewModel(service, articles, tree, tui.Options{
		Filter:  cfg.Filter,
		Order:   cfg.Order,
		PerPage: cfg.PageSize,
		Logger:  logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}

// newLogger writes text logs to path. The terminal belongs to the TUI, so an
// empty path discards them.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}
