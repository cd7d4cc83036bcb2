package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

var _ entityFinder = &entityFinderMock{}

type entityFinderMock struct {
	GetByIDFunc           func(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error)
	FindByTypeAndNameFunc func(ctx context.Context, tenantID uuid.UUID, entityType, name string) (domain.Entity, error)

	calls struct {
		GetByID []struct {
			TenantID uuid.UUID
			ID       uuid.UUID
		}
		FindByTypeAndName []struct {
			TenantID   uuid.UUID
			EntityType string
			Name       string
		}
	}
	lockGetByID           sync.RWMutex
	lockFindByTypeAndName sync.RWMutex
}

func (mock *entityFinderMock) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error) {
	if mock.GetByIDFunc == nil {
		panic("entityFinderMock.GetByIDFunc: method is nil but entityFinder.GetByID was just called")
	}
	callInfo := struct {
		TenantID uuid.UUID
		ID       uuid.UUID
	}{TenantID: tenantID, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, tenantID, id)
}

func (mock *entityFinderMock) GetByIDCalls() []struct {
	TenantID uuid.UUID
	ID       uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *entityFinderMock) FindByTypeAndName(ctx context.Context, tenantID uuid.UUID, entityType, name string) (domain.Entity, error) {
	if mock.FindByTypeAndNameFunc == nil {
		panic("entityFinderMock.FindByTypeAndNameFunc: method is nil but entityFinder.FindByTypeAndName was just called")
	}
	callInfo := struct {
		TenantID   uuid.UUID
		EntityType string
		Name       string
	}{TenantID: tenantID, EntityType: entityType, Name: name}
	mock.lockFindByTypeAndName.Lock()
	mock.calls.FindByTypeAndName = append(mock.calls.FindByTypeAndName, callInfo)
	mock.lockFindByTypeAndName.Unlock()
	return mock.FindByTypeAndNameFunc(ctx, tenantID, entityType, name)
}

func (mock *entityFinderMock) FindByTypeAndNameCalls() []struct {
	TenantID   uuid.UUID
	EntityType string
	Name       string
} {
	mock.lockFindByTypeAndName.RLock()
	calls := mock.calls.FindByTypeAndName
	mock.lockFindByTypeAndName.RUnlock()
	return calls
}
