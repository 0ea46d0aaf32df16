package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/nasiyahub/ledger-engine/internal/domain"
	"github.com/nasiyahub/ledger-engine/internal/repository"
	customError "github.com/nasiyahub/ledger-engine/pkg/errors"
)

// AuthService signs stores in and issues the bearer tokens the statistics
// endpoints identify callers by.
type AuthService struct {
	StoreRepo repository.StoreRepository
	secret    []byte
	ttl       time.Duration
	log       *logrus.Logger
}

func NewAuthService(storeRepo repository.StoreRepository, secret string, ttl time.Duration, log *logrus.Logger) *AuthService {
	return &AuthService{
		StoreRepo: storeRepo,
		secret:    []byte(secret),
		ttl:       ttl,
		log:       log,
	}
}

// SignIn checks the store's credentials and returns an HS256 token whose
// subject is the store id.
func (s *AuthService) SignIn(ctx context.Context, request *domain.SignInRequest) (*domain.SignInResponse, error) {
	store, err := s.StoreRepo.GetByLogin(ctx, request.Login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapUnauthorized("invalid login or password")
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if !store.IsActive {
		return nil, customError.WrapUnauthorized("store is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(store.HashedPassword), []byte(request.Password)); err != nil {
		return nil, customError.WrapUnauthorized("invalid login or password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   store.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, customError.NewBusinessError(customError.ErrCodeUnauthorized, "failed to issue token", err)
	}

	s.log.WithField("store_id", store.ID).Info("store signed in")

	return &domain.SignInResponse{
		AccessToken: signed,
		StoreID:     store.ID.String(),
	}, nil
}
