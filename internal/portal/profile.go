package portal

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/petgasmx/petgas-portal/internal/errs"
	"github.com/petgasmx/petgas-portal/internal/models"
)

// GetOrCreateProfile returns the client profile for an authenticated email,
// creating it on first login. The unique index on email is the concurrency
// guard: the insert is ON CONFLICT DO NOTHING and the winner is re-fetched,
// so two simultaneous first logins yield exactly one row.
func (s *Service) GetOrCreateProfile(ctx context.Context, email string) (*models.Client, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errs.Validation("email is required")
	}

	candidate := models.Client{
		ID:    uuid.NewString(),
		Email: email,
	}
	if errCreate := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&candidate).Error; errCreate != nil {
		return nil, errCreate
	}

	var client models.Client
	if errFind := s.db.WithContext(ctx).Where("email = ?", email).First(&client).Error; errFind != nil {
		return nil, errFind
	}
	return &client, nil
}

// GetProfile loads a client by id.
func (s *Service) GetProfile(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	if errFind := s.db.WithContext(ctx).First(&client, "id = ?", id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("client %s", id)
		}
		return nil, errFind
	}
	return &client, nil
}

// ProfileUpdate carries the self-service mutable profile fields. Nil fields
// are left untouched. ID and email are immutable after creation.
type ProfileUpdate struct {
	DisplayName            *string
	WalletAddress          *string
	SecondaryWalletAddress *string
}

// UpdateProfile applies a partial update of the self-service fields.
func (s *Service) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*models.Client, error) {
	client, errGet := s.GetProfile(ctx, id)
	if errGet != nil {
		return nil, errGet
	}

	fields := map[string]any{}
	if update.DisplayName != nil {
		fields["display_name"] = strings.TrimSpace(*update.DisplayName)
	}
	if update.WalletAddress != nil {
		fields["wallet_address"] = strings.TrimSpace(*update.WalletAddress)
	}
	if update.SecondaryWalletAddress != nil {
		fields["secondary_wallet_address"] = strings.TrimSpace(*update.SecondaryWalletAddress)
	}
	if len(fields) == 0 {
		return client, nil
	}

	if errUpdate := s.db.WithContext(ctx).Model(client).Updates(fields).Error; errUpdate != nil {
		return nil, errUpdate
	}
	return s.GetProfile(ctx, id)
}
