package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stemsi/kelas-backend/internal/model"
)

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, jti string, userID int, ttl time.Duration) error {
	args := m.Called(ctx, jti, userID, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Lookup(ctx context.Context, jti string) (int, error) {
	args := m.Called(ctx, jti)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

type MockClassCache struct {
	mock.Mock
}

func (m *MockClassCache) Get(ctx context.Context) ([]model.Class, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]model.Class), args.Bool(1), args.Error(2)
}

func (m *MockClassCache) Set(ctx context.Context, classes []model.Class) error {
	args := m.Called(ctx, classes)
	return args.Error(0)
}

func (m *MockClassCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockActivityPublisher struct {
	mock.Mock
}

func (m *MockActivityPublisher) Publish(ctx context.Context, event model.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
