package entity

// Manual mocks (moq-style with func fields). Methods without a configured
// func fall back to a safe default so tests only wire what they assert on.

import (
	"context"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type mockEntityRepo struct {
	CreateFunc    func(ctx context.Context, e domain.Entity) (domain.Entity, error)
	GetByIDFunc   func(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error)
	ListFunc      func(ctx context.Context, f domain.EntityFilter) ([]domain.Entity, error)
	UpdateFunc    func(ctx context.Context, e domain.Entity) (domain.Entity, error)
	SetStatusFunc func(ctx context.Context, tenantID, id uuid.UUID, status domain.EntityStatus) (domain.Entity, error)
}

func (m *mockEntityRepo) Create(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	e.ID = uuid.New()
	return e, nil
}

func (m *mockEntityRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	return domain.Entity{}, domain.ErrNotFound
}

func (m *mockEntityRepo) List(ctx context.Context, f domain.EntityFilter) ([]domain.Entity, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, nil
}

func (m *mockEntityRepo) Update(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, e)
	}
	return e, nil
}

func (m *mockEntityRepo) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.EntityStatus) (domain.Entity, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, tenantID, id, status)
	}
	return domain.Entity{ID: id, TenantID: tenantID, Status: status}, nil
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

type mockCascadeRunner struct {
	RunFunc func(ctx context.Context, tenantID, entityID uuid.UUID) (domain.CascadeResult, error)

	runs int
}

func (m *mockCascadeRunner) Run(ctx context.Context, tenantID, entityID uuid.UUID) (domain.CascadeResult, error) {
	m.runs++
	if m.RunFunc != nil {
		return m.RunFunc(ctx, tenantID, entityID)
	}
	return domain.CascadeResult{TenantID: tenantID, EntityID: entityID}, nil
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
