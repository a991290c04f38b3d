package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/kelas-backend/internal/config"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/repository"
	"github.com/stemsi/kelas-backend/internal/service/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:     "test-secret",
		SessionExpiry: time.Hour,
		BcryptCost:    4,
	}
}

func TestAuthService_IssueAndValidate(t *testing.T) {
	store := new(mocks.MockSessionStore)
	svc := NewAuthService(testConfig(), store)
	user := &model.User{ID: 7, Role: model.RoleStudent}

	store.On("Save", mock.Anything, mock.AnythingOfType("string"), 7, time.Hour).Return(nil)

	token, err := svc.IssueSession(context.Background(), user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, model.RoleStudent, claims.Role)
	assert.NotEmpty(t, claims.ID)

	store.On("Lookup", mock.Anything, claims.ID).Return(7, nil)
	assert.NoError(t, svc.ValidateSession(context.Background(), claims))
	store.AssertExpectations(t)
}

func TestAuthService_IssueSession_StoreFailure(t *testing.T) {
	store := new(mocks.MockSessionStore)
	svc := NewAuthService(testConfig(), store)

	store.On("Save", mock.Anything, mock.Anything, 7, time.Hour).Return(errors.New("redis down"))

	_, err := svc.IssueSession(context.Background(), &model.User{ID: 7})
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	store := new(mocks.MockSessionStore)
	store.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	token, err := NewAuthService(testConfig(), store).IssueSession(context.Background(), &model.User{ID: 1})
	require.NoError(t, err)

	other := testConfig()
	other.SecretKey = "another-secret"
	_, err = NewAuthService(other, store).ValidateToken(token)
	assert.Error(t, err)

	_, err = NewAuthService(testConfig(), store).ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestAuthService_ValidateSession(t *testing.T) {
	tests := []struct {
		name     string
		storedID int
		lookup   error
		wantErr  error
	}{
		{"revoked", 0, repository.ErrSessionNotFound, ErrUnauthenticated},
		{"bound to someone else", 8, nil, ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.MockSessionStore)
			store.On("Lookup", mock.Anything, "jti-1").Return(tt.storedID, tt.lookup)

			claims := &Claims{UserID: 7}
			claims.ID = "jti-1"

			err := NewAuthService(testConfig(), store).ValidateSession(context.Background(), claims)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_RevokeSession(t *testing.T) {
	store := new(mocks.MockSessionStore)
	store.On("Delete", mock.Anything, "jti-1").Return(nil)

	require.NoError(t, NewAuthService(testConfig(), store).RevokeSession(context.Background(), "jti-1"))
	store.AssertExpectations(t)
}
