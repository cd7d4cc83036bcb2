package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
	"github.com/funnelforge/graphcore-backend/pkg/ctxutil"
)

//go:generate moq -out entity_finder_mock_test.go -pkg auth . entityFinder

type entityFinder interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error)
	FindByTypeAndName(ctx context.Context, tenantID uuid.UUID, entityType, name string) (domain.Entity, error)
}

// ActorResolver maps the authenticated actor carried in the context to a
// same-tenant entity of type "user" before it is recorded as an event
// actor. When no actor is authenticated it falls back to the tenant's
// system actor, and when even that is missing the write proceeds
// unattributed — the actor policy is uniform across every write path.
type ActorResolver struct {
	entities entityFinder
	log      *slog.Logger
}

// NewActorResolver creates an ActorResolver.
func NewActorResolver(log *slog.Logger, entities entityFinder) *ActorResolver {
	return &ActorResolver{
		entities: entities,
		log:      log.With("component", "actor_resolver"),
	}
}

// ResolveActor returns the entity ID events should be attributed to, or nil
// when no attribution target exists. An authenticated actor that cannot be
// resolved inside the tenant is an error, not a silent fallback: a token
// for another tenant's user must not write here.
func (r *ActorResolver) ResolveActor(ctx context.Context, tenantID uuid.UUID) (*uuid.UUID, error) {
	if actorID, ok := ctxutil.ActorIDFromCtx(ctx); ok {
		e, err := r.entities.GetByID(ctx, tenantID, actorID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("actor %s not in tenant %s: %w", actorID, tenantID, domain.ErrUnauthorized)
			}
			return nil, fmt.Errorf("resolve actor: %w", err)
		}
		if e.Type != domain.TypeUser {
			return nil, fmt.Errorf("actor %s is %q, not a user: %w", actorID, e.Type, domain.ErrUnauthorized)
		}
		return &e.ID, nil
	}

	sys, err := r.entities.FindByTypeAndName(ctx, tenantID, domain.TypeUser, domain.SystemActorName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.log.DebugContext(ctx, "no system actor for tenant, write will be unattributed",
				slog.String("tenant_id", tenantID.String()))
			return nil, nil
		}
		return nil, fmt.Errorf("resolve system actor: %w", err)
	}
	return &sys.ID, nil
}
