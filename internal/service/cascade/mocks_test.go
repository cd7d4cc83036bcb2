package cascade

// Manual mocks (moq-style with func fields). Methods without a configured
// func fall back to a safe default so tests only wire what they assert on.
// The cascade mock keeps an in-memory cursor so multi-step runs behave
// like the real repo.

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type mockCascadeRepo struct {
	GetOrCreateFunc    func(ctx context.Context, tenantID, entityID uuid.UUID) (domain.CascadeState, error)
	AdvanceFunc        func(ctx context.Context, s domain.CascadeState) (domain.CascadeState, error)
	ListIncompleteFunc func(ctx context.Context, tenantID *uuid.UUID, limit int) ([]domain.CascadeState, error)

	mu     sync.Mutex
	states map[uuid.UUID]domain.CascadeState
}

func (m *mockCascadeRepo) GetOrCreate(ctx context.Context, tenantID, entityID uuid.UUID) (domain.CascadeState, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, tenantID, entityID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.states == nil {
		m.states = make(map[uuid.UUID]domain.CascadeState)
	}
	if s, ok := m.states[entityID]; ok {
		return s, nil
	}
	s := domain.CascadeState{EntityID: entityID, TenantID: tenantID, StartedAt: time.Now()}
	m.states[entityID] = s
	return s, nil
}

func (m *mockCascadeRepo) Advance(ctx context.Context, s domain.CascadeState) (domain.CascadeState, error) {
	if m.AdvanceFunc != nil {
		return m.AdvanceFunc(ctx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.states == nil {
		m.states = make(map[uuid.UUID]domain.CascadeState)
	}
	// Same fence as the real repo: only a cursor at the previous step may
	// commit this one.
	if cur, ok := m.states[s.EntityID]; ok && cur.Step != s.Step-1 {
		return domain.CascadeState{}, fmt.Errorf("cascade %s advanced past step %d elsewhere: %w",
			s.EntityID, s.Step-1, domain.ErrInvalidStateTransition)
	}
	s.UpdatedAt = time.Now()
	m.states[s.EntityID] = s
	return s, nil
}

func (m *mockCascadeRepo) ListIncomplete(ctx context.Context, tenantID *uuid.UUID, limit int) ([]domain.CascadeState, error) {
	if m.ListIncompleteFunc != nil {
		return m.ListIncompleteFunc(ctx, tenantID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CascadeState
	for _, s := range m.states {
		if !s.Completed() {
			out = append(out, s)
		}
	}
	return out, nil
}

// state returns the stored cursor for assertions.
func (m *mockCascadeRepo) state(entityID uuid.UUID) (domain.CascadeState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[entityID]
	return s, ok
}

// seed installs a cursor, for resume and idempotence tests.
func (m *mockCascadeRepo) seed(s domain.CascadeState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.states == nil {
		m.states = make(map[uuid.UUID]domain.CascadeState)
	}
	m.states[s.EntityID] = s
}

type mockEntityRepo struct {
	MarkDeletedFunc func(ctx context.Context, tenantID, id uuid.UUID, at time.Time) (domain.Entity, error)

	markedDeleted []uuid.UUID
}

func (m *mockEntityRepo) MarkDeleted(ctx context.Context, tenantID, id uuid.UUID, at time.Time) (domain.Entity, error) {
	m.markedDeleted = append(m.markedDeleted, id)
	if m.MarkDeletedFunc != nil {
		return m.MarkDeletedFunc(ctx, tenantID, id, at)
	}
	return domain.Entity{ID: id, TenantID: tenantID, Status: domain.EntityStatusArchived, DeletedAt: &at}, nil
}

type mockConnectionRepo struct {
	HardDeleteForEntityFunc func(ctx context.Context, tenantID, entityID uuid.UUID) (int64, error)

	hardDeletes int
}

func (m *mockConnectionRepo) HardDeleteForEntity(ctx context.Context, tenantID, entityID uuid.UUID) (int64, error) {
	m.hardDeletes++
	if m.HardDeleteForEntityFunc != nil {
		return m.HardDeleteForEntityFunc(ctx, tenantID, entityID)
	}
	return 0, nil
}

type mockEventRepo struct {
	AppendFunc           func(ctx context.Context, e domain.Event) (domain.Event, error)
	ArchiveForEntityFunc func(ctx context.Context, tenantID, entityID uuid.UUID) (int64, error)

	appended []domain.Event
	archives int
}

func (m *mockEventRepo) Append(ctx context.Context, e domain.Event) (domain.Event, error) {
	m.appended = append(m.appended, e)
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, e)
	}
	e.ID = uuid.New()
	return e, nil
}

func (m *mockEventRepo) ArchiveForEntity(ctx context.Context, tenantID, entityID uuid.UUID) (int64, error) {
	m.archives++
	if m.ArchiveForEntityFunc != nil {
		return m.ArchiveForEntityFunc(ctx, tenantID, entityID)
	}
	return 0, nil
}

type mockKnowledgeRepo struct {
	DeleteLinksForEntityFunc func(ctx context.Context, entityID uuid.UUID) (int64, []uuid.UUID, error)
	CountLinksFunc           func(ctx context.Context, knowledgeID uuid.UUID) (int64, error)
	SoftDeleteFunc           func(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error

	softDeleted []uuid.UUID
}

func (m *mockKnowledgeRepo) DeleteLinksForEntity(ctx context.Context, entityID uuid.UUID) (int64, []uuid.UUID, error) {
	if m.DeleteLinksForEntityFunc != nil {
		return m.DeleteLinksForEntityFunc(ctx, entityID)
	}
	return 0, nil, nil
}

func (m *mockKnowledgeRepo) CountLinks(ctx context.Context, knowledgeID uuid.UUID) (int64, error) {
	if m.CountLinksFunc != nil {
		return m.CountLinksFunc(ctx, knowledgeID)
	}
	return 0, nil
}

func (m *mockKnowledgeRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error {
	m.softDeleted = append(m.softDeleted, id)
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, tenantID, id, at)
	}
	return nil
}

type mockActorResolver struct {
	ResolveActorFunc func(ctx context.Context, tenantID uuid.UUID) (*uuid.UUID, error)
}

func (m *mockActorResolver) ResolveActor(ctx context.Context, tenantID uuid.UUID) (*uuid.UUID, error) {
	if m.ResolveActorFunc != nil {
		return m.ResolveActorFunc(ctx, tenantID)
	}
	return nil, nil
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}
