package connection

// Manual mocks (moq-style with func fields). Methods without a configured
// func fall back to a safe default so tests only wire what they assert on.

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type mockConnectionRepo struct {
	CreateFunc       func(ctx context.Context, c domain.Connection) (domain.Connection, error)
	GetByIDFunc      func(ctx context.Context, tenantID, id uuid.UUID) (domain.Connection, error)
	ExistsActiveFunc func(ctx context.Context, tenantID, from, to uuid.UUID, connType string) (bool, error)
	ExpireFunc       func(ctx context.Context, tenantID, id uuid.UUID, at time.Time) (int64, error)
	ListFunc         func(ctx context.Context, f domain.ConnectionFilter) ([]domain.Connection, error)
}

func (m *mockConnectionRepo) Create(ctx context.Context, c domain.Connection) (domain.Connection, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	c.ID = uuid.New()
	return c, nil
}

func (m *mockConnectionRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Connection, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	return domain.Connection{}, domain.ErrNotFound
}

func (m *mockConnectionRepo) ExistsActive(ctx context.Context, tenantID, from, to uuid.UUID, connType string) (bool, error) {
	if m.ExistsActiveFunc != nil {
		return m.ExistsActiveFunc(ctx, tenantID, from, to, connType)
	}
	return false, nil
}

func (m *mockConnectionRepo) Expire(ctx context.Context, tenantID, id uuid.UUID, at time.Time) (int64, error) {
	if m.ExpireFunc != nil {
		return m.ExpireFunc(ctx, tenantID, id, at)
	}
	return 1, nil
}

func (m *mockConnectionRepo) List(ctx context.Context, f domain.ConnectionFilter) ([]domain.Connection, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, nil
}

type mockEntityRepo struct {
	GetByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error)
}

func (m *mockEntityRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	return domain.Entity{ID: id, TenantID: tenantID, Status: domain.EntityStatusActive}, nil
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

	recorded []string
}

func (m *mockQuotaTracker) EnforceQuota(ctx context.Context, tenantID uuid.UUID, metric string, requested int64) error {
	if m.EnforceQuotaFunc != nil {
		return m.EnforceQuotaFunc(ctx, tenantID, metric, requested)
	}
	return nil
}

func (m *mockQuotaTracker) RecordUsage(ctx context.Context, tenantID uuid.UUID, metric string, amount int64) (domain.UsageRecord, error) {
	m.recorded = append(m.recorded, metric)
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
