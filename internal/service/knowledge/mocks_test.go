package knowledge

// Manual mocks (moq-style with func fields). Methods without a configured
// func fall back to a safe default so tests only wire what they assert on.

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type mockKnowledgeRepo struct {
	CreateFunc     func(ctx context.Context, k domain.Knowledge) (domain.Knowledge, error)
	BulkCreateFunc func(ctx context.Context, items []domain.Knowledge) ([]uuid.UUID, error)
	GetByIDFunc    func(ctx context.Context, tenantID, id uuid.UUID) (domain.Knowledge, error)
	LinkFunc       func(ctx context.Context, j domain.EntityKnowledge) (domain.EntityKnowledge, error)
	UnlinkFunc     func(ctx context.Context, entityID, knowledgeID uuid.UUID, role domain.KnowledgeRole) (int64, error)
	ListLinksFunc  func(ctx context.Context, entityID uuid.UUID) ([]domain.EntityKnowledge, error)
	CountLinksFunc func(ctx context.Context, knowledgeID uuid.UUID) (int64, error)
	SoftDeleteFunc func(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error

	softDeleted []uuid.UUID
}

func (m *mockKnowledgeRepo) Create(ctx context.Context, k domain.Knowledge) (domain.Knowledge, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, k)
	}
	k.ID = uuid.New()
	return k, nil
}

func (m *mockKnowledgeRepo) BulkCreate(ctx context.Context, items []domain.Knowledge) ([]uuid.UUID, error) {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, items)
	}
	ids := make([]uuid.UUID, len(items))
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids, nil
}

func (m *mockKnowledgeRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Knowledge, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	text := "stub"
	return domain.Knowledge{ID: id, TenantID: tenantID, Type: domain.KnowledgeTypeDocument, Text: &text}, nil
}

func (m *mockKnowledgeRepo) Link(ctx context.Context, j domain.EntityKnowledge) (domain.EntityKnowledge, error) {
	if m.LinkFunc != nil {
		return m.LinkFunc(ctx, j)
	}
	return j, nil
}

func (m *mockKnowledgeRepo) Unlink(ctx context.Context, entityID, knowledgeID uuid.UUID, role domain.KnowledgeRole) (int64, error) {
	if m.UnlinkFunc != nil {
		return m.UnlinkFunc(ctx, entityID, knowledgeID, role)
	}
	return 1, nil
}

func (m *mockKnowledgeRepo) ListLinks(ctx context.Context, entityID uuid.UUID) ([]domain.EntityKnowledge, error) {
	if m.ListLinksFunc != nil {
		return m.ListLinksFunc(ctx, entityID)
	}
	return nil, nil
}

func (m *mockKnowledgeRepo) CountLinks(ctx context.Context, knowledgeID uuid.UUID) (int64, error) {
	if m.CountLinksFunc != nil {
		return m.CountLinksFunc(ctx, knowledgeID)
	}
	return 1, nil
}

func (m *mockKnowledgeRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error {
	m.softDeleted = append(m.softDeleted, id)
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, tenantID, id, at)
	}
	return nil
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
