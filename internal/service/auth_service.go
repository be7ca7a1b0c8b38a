package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/auth"
	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/pkg/errorutil"
)

const adminSubject = "admin"

// AuthService gates the admin operations behind the configured password.
type AuthService struct {
	credential *auth.AdminCredential
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
}

// NewAuthService builds the service. The admin password is hashed here when
// only the plaintext is configured.
func NewAuthService(cfg config.AuthConfig, logger *zap.Logger) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	credential, err := auth.NewAdminCredential(cfg.AdminPasswordHash, cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	if !credential.Enabled() {
		logger.Warn("no admin password configured; admin login disabled")
	}
	return &AuthService{
		credential: credential,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		logger:     logger,
	}, nil
}

// LoginAdmin exchanges the admin password for an access token.
func (s *AuthService) LoginAdmin(_ context.Context, password string) (string, time.Time, error) {
	if err := s.credential.Verify(password); err != nil {
		if errors.Is(err, auth.ErrAdminDisabled) {
			return "", time.Time{}, errorutil.NewForbidden("admin access is disabled")
		}
		s.logger.Warn("admin login rejected")
		return "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(adminSubject, domain.SubjectTypeAdmin)
	if err != nil {
		return "", time.Time{}, errorutil.NewInternalError(err)
	}
	s.logger.Info("admin logged in")
	return token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
