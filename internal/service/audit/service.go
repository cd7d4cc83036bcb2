// Package audit implements the append-only event log: the immutable record
// of every state change in the graph. Events are never updated except to
// set the archived flag, and never deleted.
package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type eventRepo interface {
	Append(ctx context.Context, e domain.Event) (domain.Event, error)
	Archive(ctx context.Context, ids []uuid.UUID) (int64, error)
	List(ctx context.Context, f domain.EventFilter) ([]domain.Event, error)
	ListForReplay(ctx context.Context, f domain.EventFilter) ([]domain.Event, error)
}

// Service provides audit log operations.
type Service struct {
	events eventRepo
	log    *slog.Logger
}

// NewService creates a new Audit service.
func NewService(log *slog.Logger, events eventRepo) *Service {
	return &Service{
		events: events,
		log:    log.With("service", "audit"),
	}
}
