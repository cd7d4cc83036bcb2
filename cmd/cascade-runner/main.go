// Command cascade-runner resumes delete cascades that never reached
// completion and drives each to the end. It is intended to be invoked by
// an external cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/funnelforge/graphcore-backend/internal/app"
	"github.com/funnelforge/graphcore-backend/internal/config"
	"github.com/funnelforge/graphcore-backend/internal/metrics"
)

func main() {
	limit := flag.Int("limit", 100, "maximum cascades to resume in one pass")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.Close()

	m := metrics.New(cfg.Metrics.Namespace)

	results, err := a.Cascades.Resume(ctx, nil, *limit)
	if err != nil {
		logger.Error("cascade resume failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, res := range results {
		m.ObserveCascade(res)
	}

	if err := m.Push(cfg.Metrics.PushURL, "cascade-runner"); err != nil {
		logger.Warn("metrics push failed", slog.String("error", err.Error()))
	}

	logger.Info("cascade resume completed",
		slog.Int("completed", len(results)),
		slog.Int("limit", *limit),
	)
}
