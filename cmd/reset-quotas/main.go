// Command reset-quotas rolls expired usage buckets over into fresh
// zero-value buckets for the current period. It is intended to be invoked
// by an external cron job shortly after midnight UTC.
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
	limit := flag.Int("limit", 500, "maximum buckets to roll over in one pass")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.Close()

	m := metrics.New(cfg.Metrics.Namespace)

	fresh, err := a.Quotas.ResetExpired(ctx, *limit)
	if err != nil {
		logger.Error("quota reset failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m.BucketsReset.Add(float64(len(fresh)))

	if err := m.Push(cfg.Metrics.PushURL, "reset-quotas"); err != nil {
		logger.Warn("metrics push failed", slog.String("error", err.Error()))
	}

	logger.Info("quota reset completed",
		slog.Int("buckets_reset", len(fresh)),
		slog.Int("limit", *limit),
	)
}
