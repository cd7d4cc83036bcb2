package batch

// Manual mocks (moq-style with func fields). Methods without a configured
// func fall back to a safe default so tests only wire what they assert on.

import (
	"context"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type mockEntityRepo struct {
	CreateFunc     func(ctx context.Context, e domain.Entity) (domain.Entity, error)
	GetByIDFunc    func(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error)
	UpdateFunc     func(ctx context.Context, e domain.Entity) (domain.Entity, error)
	ExistByIDsFunc func(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error)

	created []domain.Entity
	updated []domain.Entity
}

func (m *mockEntityRepo) Create(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	e.ID = uuid.New()
	m.created = append(m.created, e)
	return e, nil
}

func (m *mockEntityRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	return domain.Entity{ID: id, TenantID: tenantID, Status: domain.EntityStatusActive, SchemaVersion: 1}, nil
}

func (m *mockEntityRepo) Update(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, e)
	}
	m.updated = append(m.updated, e)
	return e, nil
}

func (m *mockEntityRepo) ExistByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	if m.ExistByIDsFunc != nil {
		return m.ExistByIDsFunc(ctx, tenantID, ids)
	}
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

type mockConnectionRepo struct {
	CreateFunc func(ctx context.Context, c domain.Connection) (domain.Connection, error)

	created []domain.Connection
}

func (m *mockConnectionRepo) Create(ctx context.Context, c domain.Connection) (domain.Connection, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	c.ID = uuid.New()
	m.created = append(m.created, c)
	return c, nil
}

type mockTenantRepo struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.Tenant, error)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tenant, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return domain.Tenant{
		ID:       id,
		Status:   domain.TenantStatusActive,
		Settings: domain.DefaultSettingsFor(domain.TenantTypeGeneric),
	}, nil
}

type mockEventRepo struct {
	AppendFunc func(ctx context.Context, e domain.Event) (domain.Event, error)

	appended []domain.Event
}

func (m *mockEventRepo) Append(ctx context.Context, e domain.Event) (domain.Event, error) {
	m.appended = append(m.appended, e)
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, e)
	}
	e.ID = uuid.New()
	return e, nil
}

type mockQuotaTracker struct {
	EnforceQuotaFunc func(ctx context.Context, tenantID uuid.UUID, metric string, requested int64) error
	RecordUsageFunc  func(ctx context.Context, tenantID uuid.UUID, metric string, amount int64) (domain.UsageRecord, error)

	recorded []int64
}

func (m *mockQuotaTracker) EnforceQuota(ctx context.Context, tenantID uuid.UUID, metric string, requested int64) error {
	if m.EnforceQuotaFunc != nil {
		return m.EnforceQuotaFunc(ctx, tenantID, metric, requested)
	}
	return nil
}

func (m *mockQuotaTracker) RecordUsage(ctx context.Context, tenantID uuid.UUID, metric string, amount int64) (domain.UsageRecord, error) {
	m.recorded = append(m.recorded, amount)
	if m.RecordUsageFunc != nil {
		return m.RecordUsageFunc(ctx, tenantID, metric, amount)
	}
	return domain.UsageRecord{TenantID: tenantID, Metric: metric, Value: amount}, nil
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
