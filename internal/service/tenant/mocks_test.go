package tenant

// Manual mocks (moq-style with func fields). Methods without a configured
// func fall back to a safe default so tests only wire what they assert on.

import (
	"context"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type mockTenantRepo struct {
	CreateFunc         func(ctx context.Context, t domain.Tenant) (domain.Tenant, error)
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (domain.Tenant, error)
	GetBySlugFunc      func(ctx context.Context, slug string) (domain.Tenant, error)
	UpdateSettingsFunc func(ctx context.Context, id uuid.UUID, s domain.TenantSettings) (domain.Tenant, error)
	SetStatusFunc      func(ctx context.Context, id uuid.UUID, status domain.TenantStatus) (domain.Tenant, error)
}

func (m *mockTenantRepo) Create(ctx context.Context, t domain.Tenant) (domain.Tenant, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	t.ID = uuid.New()
	return t, nil
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tenant, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return domain.Tenant{}, domain.ErrNotFound
}

func (m *mockTenantRepo) GetBySlug(ctx context.Context, slug string) (domain.Tenant, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return domain.Tenant{}, domain.ErrNotFound
}

func (m *mockTenantRepo) UpdateSettings(ctx context.Context, id uuid.UUID, s domain.TenantSettings) (domain.Tenant, error) {
	if m.UpdateSettingsFunc != nil {
		return m.UpdateSettingsFunc(ctx, id, s)
	}
	return domain.Tenant{ID: id, Settings: s, Status: domain.TenantStatusActive}, nil
}

func (m *mockTenantRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.TenantStatus) (domain.Tenant, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return domain.Tenant{ID: id, Status: status}, nil
}

type mockEntityRepo struct {
	CreateFunc            func(ctx context.Context, e domain.Entity) (domain.Entity, error)
	FindByTypeAndNameFunc func(ctx context.Context, tenantID uuid.UUID, entityType, name string) (domain.Entity, error)
}

func (m *mockEntityRepo) Create(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	e.ID = uuid.New()
	return e, nil
}

func (m *mockEntityRepo) FindByTypeAndName(ctx context.Context, tenantID uuid.UUID, entityType, name string) (domain.Entity, error) {
	if m.FindByTypeAndNameFunc != nil {
		return m.FindByTypeAndNameFunc(ctx, tenantID, entityType, name)
	}
	return domain.Entity{}, domain.ErrNotFound
}

type mockEventRepo struct {
	AppendFunc func(ctx context.Context, e domain.Event) (domain.Event, error)

	// appended collects every event the service emitted, in order.
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
