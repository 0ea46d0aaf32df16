package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/nasiyahub/ledger-engine/internal/domain"
	customError "github.com/nasiyahub/ledger-engine/pkg/errors"
)

const testJWTSecret = "test-secret"

func newAuthService(t *testing.T) (*AuthService, *MockStoreRepository) {
	t.Helper()

	storeRepo := new(MockStoreRepository)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return NewAuthService(storeRepo, testJWTSecret, time.Hour, log), storeRepo
}

func hashedPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestSignIn_IssuesTokenForStore(t *testing.T) {
	svc, storeRepo := newAuthService(t)
	ctx := context.Background()

	store := &domain.Store{
		ID:             uuid.New(),
		Login:          "doniyor-market",
		HashedPassword: hashedPassword(t, "secret123"),
		IsActive:       true,
	}
	storeRepo.On("GetByLogin", ctx, "doniyor-market").Return(store, nil)

	result, err := svc.SignIn(ctx, &domain.SignInRequest{Login: "doniyor-market", Password: "secret123"})

	assert.NoError(t, err)
	assert.Equal(t, store.ID.String(), result.StoreID)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(result.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, store.ID.String(), claims.Subject)
}

func TestSignIn_WrongPassword(t *testing.T) {
	svc, storeRepo := newAuthService(t)
	ctx := context.Background()

	store := &domain.Store{
		ID:             uuid.New(),
		Login:          "doniyor-market",
		HashedPassword: hashedPassword(t, "secret123"),
		IsActive:       true,
	}
	storeRepo.On("GetByLogin", ctx, "doniyor-market").Return(store, nil)

	_, err := svc.SignIn(ctx, &domain.SignInRequest{Login: "doniyor-market", Password: "wrong"})

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeUnauthorized, customError.CodeOf(err))
}

func TestSignIn_UnknownLogin(t *testing.T) {
	svc, storeRepo := newAuthService(t)
	ctx := context.Background()

	storeRepo.On("GetByLogin", ctx, "ghost").Return(nil, sql.ErrNoRows)

	_, err := svc.SignIn(ctx, &domain.SignInRequest{Login: "ghost", Password: "secret123"})

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeUnauthorized, customError.CodeOf(err))
}

func TestSignIn_DeactivatedStore(t *testing.T) {
	svc, storeRepo := newAuthService(t)
	ctx := context.Background()

	store := &domain.Store{
		ID:             uuid.New(),
		Login:          "closed-shop",
		HashedPassword: hashedPassword(t, "secret123"),
		IsActive:       false,
	}
	storeRepo.On("GetByLogin", ctx, "closed-shop").Return(store, nil)

	_, err := svc.SignIn(ctx, &domain.SignInRequest{Login: "closed-shop", Password: "secret123"})

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeUnauthorized, customError.CodeOf(err))
}
