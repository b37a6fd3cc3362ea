package portal

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	dbutil "github.com/petgasmx/petgas-portal/internal/db"
	"github.com/petgasmx/petgas-portal/internal/errs"
	"github.com/petgasmx/petgas-portal/internal/models"
)

// ListClients returns client profiles for the admin panel, optionally
// filtered by a case-insensitive search over email and display name.
func (s *Service) ListClients(ctx context.Context, search string, page Page) ([]models.Client, int64, error) {
	page = page.normalize()
	q := s.db.WithContext(ctx).Model(&models.Client{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := dbutil.NormalizeLikePattern(s.db, "%"+search+"%")
		q = q.Where(
			s.db.Where(dbutil.CaseInsensitiveLikeExpr(s.db, "email"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(s.db, "display_name"), pattern),
		)
	}

	var total int64
	if errCount := q.Count(&total).Error; errCount != nil {
		return nil, 0, errCount
	}

	var clients []models.Client
	if errFind := q.Order("created_at DESC").
		Offset(page.Offset).Limit(page.Limit).
		Find(&clients).Error; errFind != nil {
		return nil, 0, errFind
	}
	return clients, total, nil
}

// AdminClientUpdate carries the admin-editable profile fields. Email and id
// stay immutable even for admins.
type AdminClientUpdate struct {
	DisplayName            *string
	WalletAddress          *string
	SecondaryWalletAddress *string
}

// AdminUpdateClient applies a partial profile update on behalf of an admin.
func (s *Service) AdminUpdateClient(ctx context.Context, id string, update AdminClientUpdate) (*models.Client, error) {
	return s.UpdateProfile(ctx, id, ProfileUpdate{
		DisplayName:            update.DisplayName,
		WalletAddress:          update.WalletAddress,
		SecondaryWalletAddress: update.SecondaryWalletAddress,
	})
}

// DeleteClient hard-deletes a client and everything it owns: ledger rows,
// consumption entries, review events, evidence rows and mitigation entries.
// Stored evidence objects are deleted after the transaction commits; any
// object that survives is reported as a partial failure.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if _, errGet := s.GetProfile(ctx, id); errGet != nil {
		return errGet
	}

	var keys []string
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entryIDs []uint64
		if errIDs := tx.Model(&models.MitigationEntry{}).
			Where("client_id = ?", id).
			Pluck("id", &entryIDs).Error; errIDs != nil {
			return errIDs
		}

		if len(entryIDs) > 0 {
			if errKeys := tx.Model(&models.EvidenceImage{}).
				Where("entry_id IN ?", entryIDs).
				Pluck("storage_key", &keys).Error; errKeys != nil {
				return errKeys
			}
			if errImages := tx.Where("entry_id IN ?", entryIDs).
				Delete(&models.EvidenceImage{}).Error; errImages != nil {
				return errImages
			}
			if errEvents := tx.Where("entry_id IN ?", entryIDs).
				Delete(&models.ReviewEvent{}).Error; errEvents != nil {
				return errEvents
			}
		}

		for _, model := range []any{
			&models.RewardLedgerEntry{},
			&models.ConsumptionEntry{},
			&models.MitigationEntry{},
		} {
			if errDelete := tx.Where("client_id = ?", id).Delete(model).Error; errDelete != nil {
				return errDelete
			}
		}

		return tx.Delete(&models.Client{ID: id}).Error
	})
	if errTx != nil {
		return errTx
	}

	var orphaned []string
	for _, key := range keys {
		if errDelete := s.store.Delete(ctx, key); errDelete != nil {
			orphaned = append(orphaned, key)
			log.WithError(errDelete).WithField("key", key).Error("stored evidence object not deleted")
		}
	}
	if len(orphaned) > 0 {
		return errs.PartialFailure("client %s deleted but objects remain in bucket: %s", id, strings.Join(orphaned, ", "))
	}
	return nil
}

// DashboardTotals aggregates portal-wide numbers for the admin dashboard.
type DashboardTotals struct {
	Clients          int64   `json:"clients"`
	PendingEntries   int64   `json:"pending_entries"`
	ApprovedKg       float64 `json:"approved_kg"`
	TotalLiters      float64 `json:"total_liters"`
	PointsInBalances int64   `json:"points_in_balances"`
	RewardsGranted   int64   `json:"rewards_granted"`
}

// Dashboard computes portal-wide totals.
func (s *Service) Dashboard(ctx context.Context) (*DashboardTotals, error) {
	var totals DashboardTotals

	if errClients := s.db.WithContext(ctx).Model(&models.Client{}).
		Count(&totals.Clients).Error; errClients != nil {
		return nil, errClients
	}
	if errPending := s.db.WithContext(ctx).Model(&models.MitigationEntry{}).
		Where("status = ?", models.StatusPending).
		Count(&totals.PendingEntries).Error; errPending != nil {
		return nil, errPending
	}
	if errKg := s.db.WithContext(ctx).Model(&models.MitigationEntry{}).
		Select("COALESCE(SUM(amount_kg), 0)").
		Where("status = ?", models.StatusApproved).
		Scan(&totals.ApprovedKg).Error; errKg != nil {
		return nil, errKg
	}
	if errLiters := s.db.WithContext(ctx).Model(&models.ConsumptionEntry{}).
		Select("COALESCE(SUM(amount_liters), 0)").
		Scan(&totals.TotalLiters).Error; errLiters != nil {
		return nil, errLiters
	}
	if errPoints := s.db.WithContext(ctx).Model(&models.Client{}).
		Select("COALESCE(SUM(point_balance), 0)").
		Scan(&totals.PointsInBalances).Error; errPoints != nil {
		return nil, errPoints
	}
	if errRewards := s.db.WithContext(ctx).Model(&models.RewardLedgerEntry{}).
		Count(&totals.RewardsGranted).Error; errRewards != nil {
		return nil, errRewards
	}

	return &totals, nil
}

// UpdateConsumption overwrites the amount and transaction time of a
// consumption entry on behalf of an admin.
func (s *Service) UpdateConsumption(ctx context.Context, entryID uint64, liters float64, transactedAt *string) (*models.ConsumptionEntry, error) {
	if liters <= 0 {
		return nil, errs.Validation("consumption amount must be positive, got %v", liters)
	}

	var entry models.ConsumptionEntry
	if errFind := s.db.WithContext(ctx).First(&entry, entryID).Error; errFind != nil {
		if isNotFound(errFind) {
			return nil, errs.NotFound("consumption entry %d", entryID)
		}
		return nil, errFind
	}

	fields := map[string]any{"amount_liters": liters}
	if transactedAt != nil {
		parsed, errParse := parseRFC3339(*transactedAt)
		if errParse != nil {
			return nil, errParse
		}
		fields["transacted_at"] = parsed
	}
	if errUpdate := s.db.WithContext(ctx).Model(&entry).Updates(fields).Error; errUpdate != nil {
		return nil, errUpdate
	}
	return &entry, nil
}

// DeleteConsumption removes a consumption entry.
func (s *Service) DeleteConsumption(ctx context.Context, entryID uint64) error {
	result := s.db.WithContext(ctx).Delete(&models.ConsumptionEntry{}, entryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("consumption entry %d", entryID)
	}
	return nil
}
