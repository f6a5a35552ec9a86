// Package auth authenticates store accounts and issues session tokens for
// the dashboard.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/splashngo/dashboard-service/internal/domain"
	"github.com/splashngo/dashboard-service/internal/domain/models"
	"github.com/splashngo/dashboard-service/internal/domain/ports"
)

// DefaultTokenTTL is the session lifetime when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the JWT payload for a store session.
type Claims struct {
	StoreID   int64  `json:"store_id"`
	StoreName string `json:"store_name"`
	jwt.RegisteredClaims
}

// Service signs and verifies store session tokens.
type Service struct {
	stores     ports.StoreRepository
	signingKey []byte
	tokenTTL   time.Duration
	logger     *zap.Logger
}

// NewService creates an auth service. A zero ttl gets the default.
func NewService(stores ports.StoreRepository, signingKey []byte, tokenTTL time.Duration, logger *zap.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		stores:     stores,
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// Login authenticates a store by mail and password and returns the store with
// a signed session token.
func (s *Service) Login(ctx context.Context, mail, password string) (*models.Store, string, error) {
	store, err := s.stores.GetByCredentials(ctx, mail, password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			s.logger.Info("store login rejected", zap.String("mail", mail))
			return nil, "", domain.WrapError(domain.ErrorCodeAuthInvalid, "invalid credentials", err)
		}
		return nil, "", domain.WrapError(domain.ErrorCodeStorageFailure, "credential lookup", err)
	}

	now := time.Now()
	claims := Claims{
		StoreID:   store.ID,
		StoreName: store.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   store.Mail,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrorCodeInternalError, "sign session token", err)
	}

	s.logger.Info("store logged in",
		zap.Int64("store_id", store.ID),
		zap.String("store_name", store.Name),
	)
	return store, token, nil
}

// Verify parses and validates a session token.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.NewDomainError(domain.ErrorCodeAuthInvalid, "unexpected signing method")
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeAuthInvalid, "invalid session token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.NewDomainError(domain.ErrorCodeAuthInvalid, "invalid session token")
	}
	return claims, nil
}
