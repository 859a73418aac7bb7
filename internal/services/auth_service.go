// internal/services/auth_service.go
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/foodmarket/marketplace/internal/config"
	"github.com/foodmarket/marketplace/internal/models"
	"github.com/foodmarket/marketplace/internal/repository"
	"github.com/foodmarket/marketplace/internal/utils"
)

type AuthService struct {
	store  *repository.Store
	hasher utils.PasswordHasher
	cfg    *config.Config
}

type RegisterRequest struct {
	Name     string `form:"name" json:"name" validate:"required,max=255"`
	Username string `form:"username" json:"username" validate:"required,max=100"`
	Password string `form:"password" json:"password" validate:"required,max=255"`
}

type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type AuthResponse struct {
	User        *models.Account `json:"user"`
	Role        string          `json:"role"`
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"` // in seconds
}

func NewAuthService(store *repository.Store, hasher utils.PasswordHasher, cfg *config.Config) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		cfg:    cfg,
	}
}

// Register creates a seller or buyer. Usernames are unique per kind only.
func (s *AuthService) Register(ctx context.Context, kind models.ActorKind, req *RegisterRequest) (*models.Account, error) {
	if kind.Table() == "" {
		return nil, ErrInvalidActorKind
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	// Check if username is taken
	_, err := s.store.Accounts.FindByUsername(ctx, kind, req.Username)
	switch {
	case err == nil:
		return nil, ErrDuplicateUsername
	case !errors.Is(err, repository.ErrNotFound):
		return nil, dbError(err)
	}

	password, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Name:     req.Name,
		Username: req.Username,
		Password: password,
	}

	// The unique index settles a race between two registrations.
	if err := s.store.Accounts.Create(ctx, kind, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, dbError(err)
	}

	logrus.WithFields(logrus.Fields{
		"kind":     kind,
		"actor_id": account.ID,
	}).Info("Account registered")
	return account, nil
}

// Login never tells an unknown username apart from a wrong password.
func (s *AuthService) Login(ctx context.Context, kind models.ActorKind, req *LoginRequest) (*AuthResponse, error) {
	if kind.Table() == "" {
		return nil, ErrInvalidActorKind
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	account, err := s.store.Accounts.FindByUsername(ctx, kind, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, dbError(err)
	}

	if !s.hasher.Matches(account.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(account, kind)
}

// AdminLogin checks the configured administrator credentials.
func (s *AuthService) AdminLogin(_ context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.Admin.Password)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	admin := &models.Account{Name: "Administrator", Username: s.cfg.Admin.Username}
	return s.issue(admin, models.ActorAdmin)
}

func (s *AuthService) issue(account *models.Account, role models.ActorKind) (*AuthResponse, error) {
	ttl := time.Duration(s.cfg.JWT.AccessTokenTTL) * time.Hour
	token, err := utils.GenerateJWT(account.ID, account.Username, account.Name, string(role), ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:        account,
		Role:        string(role),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl.Seconds()),
	}, nil
}
