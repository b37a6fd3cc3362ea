package portal

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	dbutil "github.com/petgasmx/petgas-portal/internal/db"
	"github.com/petgasmx/petgas-portal/internal/errs"
	"github.com/petgasmx/petgas-portal/internal/models"
)

// RewardInput carries the admin-editable fields of a reward definition.
type RewardInput struct {
	Name                 string
	Description          string
	PointValue           int64
	MinMitigationKg      *float64
	MinConsumptionLiters *float64
}

// validate checks the definition fields.
func (in RewardInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errs.Validation("reward name is required")
	}
	if in.PointValue <= 0 {
		return errs.Validation("point value must be positive, got %d", in.PointValue)
	}
	if in.MinMitigationKg != nil && *in.MinMitigationKg <= 0 {
		return errs.Validation("mitigation threshold must be positive")
	}
	if in.MinConsumptionLiters != nil && *in.MinConsumptionLiters <= 0 {
		return errs.Validation("consumption threshold must be positive")
	}
	return nil
}

// CreateReward adds a reward definition to the catalog.
func (s *Service) CreateReward(ctx context.Context, in RewardInput) (*models.RewardDefinition, error) {
	if errValidate := in.validate(); errValidate != nil {
		return nil, errValidate
	}
	def := models.RewardDefinition{
		Name:                 strings.TrimSpace(in.Name),
		Description:          strings.TrimSpace(in.Description),
		PointValue:           in.PointValue,
		MinMitigationKg:      in.MinMitigationKg,
		MinConsumptionLiters: in.MinConsumptionLiters,
	}
	if errCreate := s.db.WithContext(ctx).Create(&def).Error; errCreate != nil {
		return nil, errCreate
	}
	return &def, nil
}

// GetReward loads one reward definition.
func (s *Service) GetReward(ctx context.Context, id uint64) (*models.RewardDefinition, error) {
	var def models.RewardDefinition
	if errFind := s.db.WithContext(ctx).First(&def, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("reward definition %d", id)
		}
		return nil, errFind
	}
	return &def, nil
}

// UpdateReward overwrites a reward definition. Already-granted ledger
// entries keep the point value frozen at their grant time.
func (s *Service) UpdateReward(ctx context.Context, id uint64, in RewardInput) (*models.RewardDefinition, error) {
	if errValidate := in.validate(); errValidate != nil {
		return nil, errValidate
	}
	def, errGet := s.GetReward(ctx, id)
	if errGet != nil {
		return nil, errGet
	}

	if errUpdate := s.db.WithContext(ctx).Model(def).Updates(map[string]any{
		"name":                   strings.TrimSpace(in.Name),
		"description":            strings.TrimSpace(in.Description),
		"point_value":            in.PointValue,
		"min_mitigation_kg":      in.MinMitigationKg,
		"min_consumption_liters": in.MinConsumptionLiters,
	}).Error; errUpdate != nil {
		return nil, errUpdate
	}
	return s.GetReward(ctx, id)
}

// DeleteReward removes a definition from the catalog. Deletion is blocked
// while any ledger entry references it.
func (s *Service) DeleteReward(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var def models.RewardDefinition
		if errFind := tx.First(&def, id).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return errs.NotFound("reward definition %d", id)
			}
			return errFind
		}

		var refs int64
		if errCount := tx.Model(&models.RewardLedgerEntry{}).
			Where("reward_id = ?", id).
			Count(&refs).Error; errCount != nil {
			return errCount
		}
		if refs > 0 {
			return errs.Conflict("reward definition %d is referenced by %d ledger entries", id, refs)
		}

		return tx.Delete(&def).Error
	})
}

// ListRewards returns the catalog ordered by name.
func (s *Service) ListRewards(ctx context.Context) ([]models.RewardDefinition, error) {
	var defs []models.RewardDefinition
	if errFind := s.db.WithContext(ctx).Order("name ASC").Find(&defs).Error; errFind != nil {
		return nil, errFind
	}
	return defs, nil
}

// AssignReward grants a reward to a client. The ledger insert and the
// balance increment run in one transaction, and the increment is evaluated
// server-side so concurrent grants cannot lose an update. The definition's
// point value is frozen into the ledger row at grant time.
func (s *Service) AssignReward(ctx context.Context, clientID string, rewardID uint64, note string) (*models.RewardLedgerEntry, error) {
	var entry models.RewardLedgerEntry
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if errClient := tx.First(&client, "id = ?", clientID).Error; errClient != nil {
			if errors.Is(errClient, gorm.ErrRecordNotFound) {
				return errs.NotFound("client %s", clientID)
			}
			return errClient
		}

		var def models.RewardDefinition
		if errDef := tx.First(&def, rewardID).Error; errDef != nil {
			if errors.Is(errDef, gorm.ErrRecordNotFound) {
				return errs.NotFound("reward definition %d", rewardID)
			}
			return errDef
		}

		entry = models.RewardLedgerEntry{
			ClientID:   clientID,
			RewardID:   rewardID,
			PointValue: def.PointValue,
			Note:       strings.TrimSpace(note),
		}
		if errCreate := tx.Create(&entry).Error; errCreate != nil {
			return errCreate
		}

		return tx.Model(&models.Client{}).
			Where("id = ?", clientID).
			Update("point_balance", gorm.Expr("point_balance + ?", def.PointValue)).Error
	})
	if errTx != nil {
		return nil, errTx
	}
	return &entry, nil
}

// RevokeReward removes a granted reward. The ledger delete and the clamped
// balance decrement run in one transaction; the balance never goes below
// zero even when the frozen point value exceeds it. Revoking an already
// revoked entry is a not-found error.
func (s *Service) RevokeReward(ctx context.Context, clientID string, ledgerID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.RewardLedgerEntry
		if errFind := tx.Where("id = ? AND client_id = ?", ledgerID, clientID).
			First(&entry).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return errs.NotFound("ledger entry %d for client %s", ledgerID, clientID)
			}
			return errFind
		}

		if errDelete := tx.Delete(&entry).Error; errDelete != nil {
			return errDelete
		}

		return tx.Model(&models.Client{}).
			Where("id = ?", clientID).
			Update("point_balance",
				gorm.Expr(dbutil.ClampedDecrementExpr(tx, "point_balance"), entry.PointValue)).Error
	})
}

// ListClientLedger returns a client's granted rewards, newest first, with
// definitions preloaded.
func (s *Service) ListClientLedger(ctx context.Context, clientID string) ([]models.RewardLedgerEntry, error) {
	var entries []models.RewardLedgerEntry
	if errFind := s.db.WithContext(ctx).
		Preload("Reward").
		Where("client_id = ?", clientID).
		Order("awarded_at DESC, id DESC").
		Find(&entries).Error; errFind != nil {
		return nil, errFind
	}
	return entries, nil
}
