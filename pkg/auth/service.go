package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/logger"
	"github.com/autoigdm/api/pkg/metrics"
	"github.com/autoigdm/api/pkg/models"
)

const invalidCredentials = "Invalid email or password"

// Service handles registration, login and token revocation.
type Service struct {
	users           domain.UserRepository
	blacklist       *TokenBlacklist
	secret          string
	expirationHours int
	metrics         *metrics.Metrics
	logger          logger.Logger
}

// NewService creates a new auth service. A nil blacklist disables revocation.
func NewService(users domain.UserRepository, blacklist *TokenBlacklist, secret string, expirationHours int,
	m *metrics.Metrics, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		users:           users,
		blacklist:       blacklist,
		secret:          secret,
		expirationHours: expirationHours,
		metrics:         m,
		logger:          log.With("component", "auth"),
	}
}

// Register creates a user and issues a token
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.NewConflictError("Email already registered")
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if domain.IsConflict(err) {
			return nil, domain.NewConflictError("Email already registered")
		}
		return nil, err
	}

	s.metrics.RecordUserRegistered()
	s.logger.Info("user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login checks credentials and issues a token
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if domain.IsNotFound(err) {
			s.metrics.RecordLoginAttempt(false)
			return nil, domain.NewUnauthorizedError(invalidCredentials)
		}
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		s.metrics.RecordLoginAttempt(false)
		return nil, domain.NewUnauthorizedError(invalidCredentials)
	}

	s.metrics.RecordLoginAttempt(true)
	return s.issue(user)
}

// Me returns the public profile of the authenticated user
func (s *Service) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.NewUserInfo(user), nil
}

// Logout revokes the token for the rest of its lifetime
func (s *Service) Logout(ctx context.Context, token string) error {
	if s.blacklist == nil {
		return nil
	}
	claims, err := ValidateJWT(token, s.secret)
	if err != nil {
		return domain.NewUnauthorizedError("Invalid token")
	}
	if err := s.blacklist.Add(ctx, token, remaining(claims)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Blacklist returns the revocation list, nil when revocation is disabled
func (s *Service) Blacklist() *TokenBlacklist {
	return s.blacklist
}

func (s *Service) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := GenerateJWT(user.ID, user.Email, s.secret, s.expirationHours)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: models.NewUserInfo(user)}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
