package portal

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/petgasmx/petgas-portal/internal/errs"
	"github.com/petgasmx/petgas-portal/internal/models"
)

// ImageUpload is one evidence photo submitted with a mitigation entry.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// objectKey builds the storage key for an upload, namespaced by client id.
func objectKey(clientID string, upload ImageUpload) string {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("clients/%s/%s%s", clientID, uuid.NewString(), ext)
}

// SubmitMitigation stores the evidence images and creates a pending
// mitigation entry with its evidence rows in one transaction.
//
// If any upload fails, the images uploaded so far are compensating-deleted
// and no entry is created. If the database transaction fails after all
// uploads succeeded, the uploads are compensating-deleted the same way. A
// failed compensating delete leaves orphaned objects in the bucket and is
// surfaced as a partial failure for manual reconciliation.
func (s *Service) SubmitMitigation(ctx context.Context, clientID string, kg float64, images []ImageUpload) (*models.MitigationEntry, error) {
	if kg <= 0 {
		return nil, errs.Validation("mitigation amount must be positive, got %v", kg)
	}
	if _, errClient := s.GetProfile(ctx, clientID); errClient != nil {
		return nil, errClient
	}

	type uploaded struct {
		key string
		url string
	}
	stored := make([]uploaded, 0, len(images))

	cleanup := func() error {
		var failed []string
		for _, obj := range stored {
			if errDelete := s.store.Delete(ctx, obj.key); errDelete != nil {
				failed = append(failed, obj.key)
				log.WithError(errDelete).WithField("key", obj.key).Error("compensating delete failed")
			}
		}
		if len(failed) > 0 {
			return errs.PartialFailure("orphaned evidence objects in bucket: %s", strings.Join(failed, ", "))
		}
		return nil
	}

	for _, img := range images {
		key := objectKey(clientID, img)
		url, errPut := s.store.Put(ctx, key, img.Data, img.ContentType)
		if errPut != nil {
			if errCleanup := cleanup(); errCleanup != nil {
				return nil, errCleanup
			}
			return nil, errs.Upload(errPut)
		}
		stored = append(stored, uploaded{key: key, url: url})
	}

	entry := models.MitigationEntry{
		ClientID: clientID,
		AmountKg: kg,
		Status:   models.StatusPending,
	}
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errCreate := tx.Create(&entry).Error; errCreate != nil {
			return errCreate
		}
		for _, obj := range stored {
			image := models.EvidenceImage{
				EntryID:    entry.ID,
				StorageKey: obj.key,
				URL:        obj.url,
			}
			if errImage := tx.Create(&image).Error; errImage != nil {
				return errImage
			}
			entry.Images = append(entry.Images, image)
		}
		return nil
	})
	if errTx != nil {
		if errCleanup := cleanup(); errCleanup != nil {
			return nil, errCleanup
		}
		return nil, errTx
	}

	return &entry, nil
}

// SubmitConsumption creates a consumption entry. transactedAt defaults to
// submission time when zero.
func (s *Service) SubmitConsumption(ctx context.Context, clientID string, liters float64, transactedAt time.Time) (*models.ConsumptionEntry, error) {
	if liters <= 0 {
		return nil, errs.Validation("consumption amount must be positive, got %v", liters)
	}
	if _, errClient := s.GetProfile(ctx, clientID); errClient != nil {
		return nil, errClient
	}
	if transactedAt.IsZero() {
		transactedAt = time.Now().UTC()
	}

	entry := models.ConsumptionEntry{
		ClientID:     clientID,
		AmountLiters: liters,
		TransactedAt: transactedAt.UTC(),
	}
	if errCreate := s.db.WithContext(ctx).Create(&entry).Error; errCreate != nil {
		return nil, errCreate
	}
	return &entry, nil
}

// ListClientMitigations returns a client's mitigation entries with evidence,
// newest first.
func (s *Service) ListClientMitigations(ctx context.Context, clientID string, page Page) ([]models.MitigationEntry, int64, error) {
	page = page.normalize()
	q := s.db.WithContext(ctx).Model(&models.MitigationEntry{}).Where("client_id = ?", clientID)

	var total int64
	if errCount := q.Count(&total).Error; errCount != nil {
		return nil, 0, errCount
	}

	var entries []models.MitigationEntry
	if errFind := q.Preload("Images").
		Order("created_at DESC").
		Offset(page.Offset).Limit(page.Limit).
		Find(&entries).Error; errFind != nil {
		return nil, 0, errFind
	}
	return entries, total, nil
}

// ListClientConsumptions returns a client's consumption entries, newest first.
func (s *Service) ListClientConsumptions(ctx context.Context, clientID string, page Page) ([]models.ConsumptionEntry, int64, error) {
	page = page.normalize()
	q := s.db.WithContext(ctx).Model(&models.ConsumptionEntry{}).Where("client_id = ?", clientID)

	var total int64
	if errCount := q.Count(&total).Error; errCount != nil {
		return nil, 0, errCount
	}

	var entries []models.ConsumptionEntry
	if errFind := q.Order("transacted_at DESC").
		Offset(page.Offset).Limit(page.Limit).
		Find(&entries).Error; errFind != nil {
		return nil, 0, errFind
	}
	return entries, total, nil
}

// ClientSummary aggregates a client's activity and reward standing.
type ClientSummary struct {
	ApprovedKg   float64 `json:"approved_kg"`
	PendingKg    float64 `json:"pending_kg"`
	TotalLiters  float64 `json:"total_liters"`
	PointBalance int64   `json:"point_balance"`
	RewardsHeld  int64   `json:"rewards_held"`
}

// Summary computes per-client totals for the portal dashboard.
func (s *Service) Summary(ctx context.Context, clientID string) (*ClientSummary, error) {
	client, errClient := s.GetProfile(ctx, clientID)
	if errClient != nil {
		return nil, errClient
	}

	summary := ClientSummary{PointBalance: client.PointBalance}

	type kgRow struct {
		Status string
		Total  float64
	}
	var kgRows []kgRow
	if errKg := s.db.WithContext(ctx).Model(&models.MitigationEntry{}).
		Select("status, COALESCE(SUM(amount_kg), 0) AS total").
		Where("client_id = ?", clientID).
		Group("status").
		Scan(&kgRows).Error; errKg != nil {
		return nil, errKg
	}
	for _, row := range kgRows {
		switch row.Status {
		case models.StatusApproved:
			summary.ApprovedKg = row.Total
		case models.StatusPending:
			summary.PendingKg = row.Total
		}
	}

	if errLiters := s.db.WithContext(ctx).Model(&models.ConsumptionEntry{}).
		Select("COALESCE(SUM(amount_liters), 0)").
		Where("client_id = ?", clientID).
		Scan(&summary.TotalLiters).Error; errLiters != nil {
		return nil, errLiters
	}

	if errRewards := s.db.WithContext(ctx).Model(&models.RewardLedgerEntry{}).
		Where("client_id = ?", clientID).
		Count(&summary.RewardsHeld).Error; errRewards != nil {
		return nil, errRewards
	}

	return &summary, nil
}
