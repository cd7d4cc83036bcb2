package quota

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// Manual mocks (moq-style with func fields).

type mockUsageRepo struct {
	IncrementFunc     func(ctx context.Context, rec domain.UsageRecord, amount int64) (domain.UsageRecord, error)
	GetBucketFunc     func(ctx context.Context, tenantID uuid.UUID, metric string, periodStart time.Time) (domain.UsageRecord, error)
	ListByTenantFunc  func(ctx context.Context, tenantID uuid.UUID) ([]domain.UsageRecord, error)
	ListExpiredFunc   func(ctx context.Context, now time.Time, limit int) ([]domain.UsageRecord, error)
	DeleteExpiredFunc func(ctx context.Context, tenantID uuid.UUID, metric string, now time.Time) (int64, error)
}

func (m *mockUsageRepo) Increment(ctx context.Context, rec domain.UsageRecord, amount int64) (domain.UsageRecord, error) {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, rec, amount)
	}
	rec.ID = uuid.New()
	rec.Value = amount
	return rec, nil
}

func (m *mockUsageRepo) GetBucket(ctx context.Context, tenantID uuid.UUID, metric string, periodStart time.Time) (domain.UsageRecord, error) {
	if m.GetBucketFunc != nil {
		return m.GetBucketFunc(ctx, tenantID, metric, periodStart)
	}
	return domain.UsageRecord{}, domain.ErrNotFound
}

func (m *mockUsageRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.UsageRecord, error) {
	if m.ListByTenantFunc != nil {
		return m.ListByTenantFunc(ctx, tenantID)
	}
	return nil, nil
}

func (m *mockUsageRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.UsageRecord, error) {
	if m.ListExpiredFunc != nil {
		return m.ListExpiredFunc(ctx, now, limit)
	}
	return nil, nil
}

func (m *mockUsageRepo) DeleteExpired(ctx context.Context, tenantID uuid.UUID, metric string, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, tenantID, metric, now)
	}
	return 0, nil
}

type mockTenantRepo struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.Tenant, error)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tenant, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return domain.Tenant{
		ID:     id,
		Status: domain.TenantStatusActive,
		Settings: domain.TenantSettings{
			Visibility: domain.VisibilityPrivate,
			JoinPolicy: domain.JoinPolicyInviteOnly,
			Plan:       domain.PlanStarter,
		}.WithPlanLimits(),
	}, nil
}

type mockEventRepo struct {
	appended []domain.Event
}

func (m *mockEventRepo) Append(ctx context.Context, e domain.Event) (domain.Event, error) {
	m.appended = append(m.appended, e)
	e.ID = uuid.New()
	return e, nil
}

type mockActorResolver struct{}

func (m *mockActorResolver) ResolveActor(ctx context.Context, tenantID uuid.UUID) (*uuid.UUID, error) {
	return nil, nil
}

type mockTxManager struct{}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T, usage *mockUsageRepo, tenants *mockTenantRepo, events *mockEventRepo) *Service {
	t.Helper()
	if usage == nil {
		usage = &mockUsageRepo{}
	}
	if tenants == nil {
		tenants = &mockTenantRepo{}
	}
	if events == nil {
		events = &mockEventRepo{}
	}
	return NewService(slog.Default(), usage, tenants, events, &mockActorResolver{}, &mockTxManager{})
}

// --- RecordUsage tests ---

func TestRecordUsage_AnnualBucketForTotalMetric(t *testing.T) {
	t.Parallel()

	usage := &mockUsageRepo{
		IncrementFunc: func(_ context.Context, rec domain.UsageRecord, amount int64) (domain.UsageRecord, error) {
			if rec.PeriodType != domain.PeriodAnnual {
				t.Errorf("period: got %s, want annual", rec.PeriodType)
			}
			if rec.Limit != 10_000 {
				t.Errorf("limit: got %d, want starter entities limit", rec.Limit)
			}
			rec.Value = amount
			return rec, nil
		},
	}
	svc := newTestService(t, usage, nil, nil)

	got, err := svc.RecordUsage(context.Background(), uuid.New(), domain.MetricEntitiesTotal, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != 3 {
		t.Errorf("value: got %d, want 3", got.Value)
	}
}

func TestRecordUsage_MonthlyBucketForMonthlyMetric(t *testing.T) {
	t.Parallel()

	usage := &mockUsageRepo{
		IncrementFunc: func(_ context.Context, rec domain.UsageRecord, amount int64) (domain.UsageRecord, error) {
			if rec.PeriodType != domain.PeriodMonthly {
				t.Errorf("period: got %s, want monthly", rec.PeriodType)
			}
			if rec.PeriodStart.Day() != 1 {
				t.Errorf("monthly bucket must start on day 1, got %v", rec.PeriodStart)
			}
			return rec, nil
		},
	}
	svc := newTestService(t, usage, nil, nil)

	_, err := svc.RecordUsage(context.Background(), uuid.New(), domain.MetricConnectionsMonthly, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecordUsage_DailyBucketForOtherMetrics(t *testing.T) {
	t.Parallel()

	usage := &mockUsageRepo{
		IncrementFunc: func(_ context.Context, rec domain.UsageRecord, amount int64) (domain.UsageRecord, error) {
			if rec.PeriodType != domain.PeriodDaily {
				t.Errorf("period: got %s, want daily", rec.PeriodType)
			}
			if rec.Limit != 0 {
				t.Errorf("unknown metric limit: got %d, want 0 (unlimited)", rec.Limit)
			}
			return rec, nil
		},
	}
	svc := newTestService(t, usage, nil, nil)

	_, err := svc.RecordUsage(context.Background(), uuid.New(), "api_calls", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecordUsage_NegativeAmount(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil, nil, nil)

	_, err := svc.RecordUsage(context.Background(), uuid.New(), domain.MetricEntitiesTotal, -1)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordUsage_TenantNotFound(t *testing.T) {
	t.Parallel()

	tenants := &mockTenantRepo{
		GetByIDFunc: func(_ context.Context, _ uuid.UUID) (domain.Tenant, error) {
			return domain.Tenant{}, domain.ErrNotFound
		},
	}
	svc := newTestService(t, nil, tenants, nil)

	_, err := svc.RecordUsage(context.Background(), uuid.New(), domain.MetricEntitiesTotal, 1)
	if !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

// --- EnforceQuota tests ---

func TestEnforceQuota_UnderLimit(t *testing.T) {
	t.Parallel()

	usage := &mockUsageRepo{
		GetBucketFunc: func(_ context.Context, tid uuid.UUID, metric string, _ time.Time) (domain.UsageRecord, error) {
			return domain.UsageRecord{TenantID: tid, Metric: metric, Value: 9_999, Limit: 10_000}, nil
		},
	}
	svc := newTestService(t, usage, nil, nil)

	// 9999 + 1 = 10000 <= limit: allowed
	err := svc.EnforceQuota(context.Background(), uuid.New(), domain.MetricEntitiesTotal, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnforceQuota_AtLimit(t *testing.T) {
	t.Parallel()

	usage := &mockUsageRepo{
		GetBucketFunc: func(_ context.Context, tid uuid.UUID, metric string, _ time.Time) (domain.UsageRecord, error) {
			return domain.UsageRecord{TenantID: tid, Metric: metric, Value: 10_000, Limit: 10_000}, nil
		},
	}
	svc := newTestService(t, usage, nil, nil)

	err := svc.EnforceQuota(context.Background(), uuid.New(), domain.MetricEntitiesTotal, 1)
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	var qErr *domain.QuotaExceededError
	if !errors.As(err, &qErr) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if qErr.Current != 10_000 || qErr.Limit != 10_000 {
		t.Errorf("quota error numbers: got current=%d limit=%d", qErr.Current, qErr.Limit)
	}
}

func TestEnforceQuota_NoBucketYet(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil, nil, nil)

	// default GetBucket returns ErrNotFound: current usage is zero
	err := svc.EnforceQuota(context.Background(), uuid.New(), domain.MetricEntitiesTotal, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnforceQuota_UnlimitedMetric(t *testing.T) {
	t.Parallel()

	reads := 0
	usage := &mockUsageRepo{
		GetBucketFunc: func(_ context.Context, _ uuid.UUID, _ string, _ time.Time) (domain.UsageRecord, error) {
			reads++
			return domain.UsageRecord{}, domain.ErrNotFound
		},
	}
	svc := newTestService(t, usage, nil, nil)

	err := svc.EnforceQuota(context.Background(), uuid.New(), "api_calls", 1_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reads != 0 {
		t.Errorf("unlimited metric must skip the bucket read, got %d reads", reads)
	}
}

// --- ResetPeriod tests ---

func TestResetPeriod_OpensZeroBucket(t *testing.T) {
	t.Parallel()

	var deleted bool
	usage := &mockUsageRepo{
		DeleteExpiredFunc: func(_ context.Context, _ uuid.UUID, _ string, _ time.Time) (int64, error) {
			deleted = true
			return 2, nil
		},
		IncrementFunc: func(_ context.Context, rec domain.UsageRecord, amount int64) (domain.UsageRecord, error) {
			if amount != 0 {
				t.Errorf("fresh bucket amount: got %d, want 0", amount)
			}
			rec.Value = amount
			return rec, nil
		},
	}
	events := &mockEventRepo{}
	svc := newTestService(t, usage, nil, events)

	got, err := svc.ResetPeriod(context.Background(), uuid.New(), domain.MetricConnectionsMonthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expired buckets must be deleted")
	}
	if got.Value != 0 {
		t.Errorf("fresh bucket value: got %d, want 0", got.Value)
	}
	if len(events.appended) != 1 || events.appended[0].Type != domain.EventQuotaPeriodReset {
		t.Errorf("expected one quota_period_reset event, got %+v", events.appended)
	}
	if events.appended[0].Metadata["buckets_removed"] != int64(2) {
		t.Errorf("buckets_removed metadata: got %v, want 2", events.appended[0].Metadata["buckets_removed"])
	}
}

func TestResetPeriod_TenantNotFound(t *testing.T) {
	t.Parallel()

	tenants := &mockTenantRepo{
		GetByIDFunc: func(_ context.Context, _ uuid.UUID) (domain.Tenant, error) {
			return domain.Tenant{}, domain.ErrNotFound
		},
	}
	svc := newTestService(t, nil, tenants, nil)

	_, err := svc.ResetPeriod(context.Background(), uuid.New(), domain.MetricConnectionsMonthly)
	if !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestResetExpired_RollsOverEachBucket(t *testing.T) {
	t.Parallel()

	tenantA, tenantB := uuid.New(), uuid.New()
	usage := &mockUsageRepo{
		ListExpiredFunc: func(_ context.Context, _ time.Time, _ int) ([]domain.UsageRecord, error) {
			return []domain.UsageRecord{
				{TenantID: tenantA, Metric: domain.MetricConnectionsMonthly},
				{TenantID: tenantB, Metric: "api_calls"},
			}, nil
		},
	}
	events := &mockEventRepo{}
	svc := newTestService(t, usage, nil, events)

	fresh, err := svc.ResetExpired(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("fresh buckets: got %d, want 2", len(fresh))
	}
	if len(events.appended) != 2 {
		t.Errorf("expected one reset event per bucket, got %d", len(events.appended))
	}
	for _, rec := range fresh {
		if rec.Value != 0 {
			t.Errorf("fresh bucket %s value: got %d, want 0", rec.Metric, rec.Value)
		}
	}
}

func TestResetExpired_SkipsFailingTenant(t *testing.T) {
	t.Parallel()

	broken, healthy := uuid.New(), uuid.New()
	usage := &mockUsageRepo{
		ListExpiredFunc: func(_ context.Context, _ time.Time, _ int) ([]domain.UsageRecord, error) {
			return []domain.UsageRecord{
				{TenantID: broken, Metric: domain.MetricEntitiesTotal},
				{TenantID: healthy, Metric: domain.MetricEntitiesTotal},
			}, nil
		},
	}
	tenants := &mockTenantRepo{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (domain.Tenant, error) {
			if id == broken {
				return domain.Tenant{}, domain.ErrNotFound
			}
			return domain.Tenant{ID: id, Status: domain.TenantStatusActive,
				Settings: domain.DefaultSettingsFor(domain.TenantTypeBusiness)}, nil
		},
	}
	svc := newTestService(t, usage, tenants, nil)

	fresh, err := svc.ResetExpired(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fresh) != 1 {
		t.Fatalf("fresh buckets: got %d, want 1", len(fresh))
	}
	if fresh[0].TenantID != healthy {
		t.Errorf("rolled-over tenant: got %s, want %s", fresh[0].TenantID, healthy)
	}
}

// --- CurrentUsage tests ---

func TestCurrentUsage_ReturnsBuckets(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	usage := &mockUsageRepo{
		ListByTenantFunc: func(_ context.Context, tid uuid.UUID) ([]domain.UsageRecord, error) {
			if tid != tenantID {
				t.Errorf("tenant: got %s, want %s", tid, tenantID)
			}
			return []domain.UsageRecord{
				{Metric: domain.MetricEntitiesTotal, Value: 12},
				{Metric: domain.MetricConnectionsMonthly, Value: 4},
			}, nil
		},
	}
	svc := newTestService(t, usage, nil, nil)

	got, err := svc.CurrentUsage(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("buckets: got %d, want 2", len(got))
	}
}
