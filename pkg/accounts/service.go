// Package accounts manages the simulated Instagram accounts campaigns send from.
package accounts

import (
	"context"
	"strings"

	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/logger"
	"github.com/autoigdm/api/pkg/models"
)

// Service handles Instagram account operations.
type Service struct {
	store  domain.Store
	logger logger.Logger
}

// NewService creates a new account service.
func NewService(store domain.Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{store: store, logger: log.With("component", "accounts")}
}

// List returns the owner's accounts in creation order
func (s *Service) List(ctx context.Context, ownerID string) ([]*models.InstagramAccount, error) {
	return s.store.Accounts().ListByOwner(ctx, ownerID)
}

// Create registers a demo account. Accounts start active.
func (s *Service) Create(ctx context.Context, ownerID string, req models.CreateInstagramAccountRequest) (*models.InstagramAccount, error) {
	username := strings.TrimSpace(req.Username)
	displayName := strings.TrimSpace(req.DisplayName)
	if username == "" || displayName == "" {
		return nil, domain.NewValidationError("username and displayName are required")
	}

	account := &models.InstagramAccount{
		UserID:      ownerID,
		Username:    username,
		DisplayName: displayName,
		IsActive:    true,
	}
	if err := s.store.Accounts().Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("instagram account added", "account_id", account.ID, "user_id", ownerID)
	return account, nil
}

// Delete removes the account. Campaigns created from it keep its ID.
func (s *Service) Delete(ctx context.Context, ownerID, accountID string) error {
	return s.store.Accounts().Delete(ctx, accountID, ownerID)
}
