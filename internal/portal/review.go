package portal

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/petgasmx/petgas-portal/internal/errs"
	"github.com/petgasmx/petgas-portal/internal/models"
)

// allowedTransitions is the review state machine: pending entries can be
// approved or rejected, and a decided entry can be reopened. Flipping
// directly between approved and rejected is not allowed.
var allowedTransitions = map[string][]string{
	models.StatusPending:  {models.StatusApproved, models.StatusRejected},
	models.StatusApproved: {models.StatusPending},
	models.StatusRejected: {models.StatusPending},
}

// validStatus reports whether status is a known review status.
func validStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
		return true
	}
	return false
}

// transitionAllowed reports whether from -> to is a legal review transition.
func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// GetMitigation loads one mitigation entry with evidence and owner.
func (s *Service) GetMitigation(ctx context.Context, entryID uint64) (*models.MitigationEntry, error) {
	var entry models.MitigationEntry
	if errFind := s.db.WithContext(ctx).
		Preload("Images").
		Preload("Client").
		First(&entry, entryID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("mitigation entry %d", entryID)
		}
		return nil, errFind
	}
	return &entry, nil
}

// MitigationFilter narrows admin mitigation listings.
type MitigationFilter struct {
	ClientID string
	Status   string
}

// ListMitigations returns mitigation entries for the admin review queue,
// joined with owning client display fields, newest first.
func (s *Service) ListMitigations(ctx context.Context, filter MitigationFilter, page Page) ([]models.MitigationEntry, int64, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, 0, errs.Validation("unknown status %q", filter.Status)
	}
	page = page.normalize()

	q := s.db.WithContext(ctx).Model(&models.MitigationEntry{})
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if errCount := q.Count(&total).Error; errCount != nil {
		return nil, 0, errCount
	}

	var entries []models.MitigationEntry
	if errFind := q.Preload("Images").
		Preload("Client").
		Order("created_at DESC").
		Offset(page.Offset).Limit(page.Limit).
		Find(&entries).Error; errFind != nil {
		return nil, 0, errFind
	}
	return entries, total, nil
}

// TransitionMitigation applies a review status transition and appends the
// matching review event in one transaction.
func (s *Service) TransitionMitigation(ctx context.Context, adminID, entryID uint64, to string) (*models.MitigationEntry, error) {
	if !validStatus(to) {
		return nil, errs.Validation("unknown status %q", to)
	}

	var entry models.MitigationEntry
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errFind := tx.First(&entry, entryID).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return errs.NotFound("mitigation entry %d", entryID)
			}
			return errFind
		}
		if entry.Status == to {
			return errs.Conflict("entry %d already %s", entryID, to)
		}
		if !transitionAllowed(entry.Status, to) {
			return errs.Conflict("cannot move entry %d from %s to %s", entryID, entry.Status, to)
		}

		from := entry.Status
		if errUpdate := tx.Model(&entry).Update("status", to).Error; errUpdate != nil {
			return errUpdate
		}
		event := models.ReviewEvent{
			EntryID:    entryID,
			AdminID:    adminID,
			FromStatus: from,
			ToStatus:   to,
		}
		return tx.Create(&event).Error
	})
	if errTx != nil {
		return nil, errTx
	}
	return &entry, nil
}

// UpdateMitigationAmount overwrites the kg amount of an entry at any status.
func (s *Service) UpdateMitigationAmount(ctx context.Context, entryID uint64, kg float64) (*models.MitigationEntry, error) {
	if kg <= 0 {
		return nil, errs.Validation("mitigation amount must be positive, got %v", kg)
	}

	var entry models.MitigationEntry
	if errFind := s.db.WithContext(ctx).First(&entry, entryID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("mitigation entry %d", entryID)
		}
		return nil, errFind
	}
	if errUpdate := s.db.WithContext(ctx).Model(&entry).Update("amount_kg", kg).Error; errUpdate != nil {
		return nil, errUpdate
	}
	return &entry, nil
}

// ListReviewEvents returns the transition history of an entry, oldest first.
func (s *Service) ListReviewEvents(ctx context.Context, entryID uint64) ([]models.ReviewEvent, error) {
	var events []models.ReviewEvent
	if errFind := s.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("created_at ASC, id ASC").
		Find(&events).Error; errFind != nil {
		return nil, errFind
	}
	return events, nil
}

// DeleteEvidence removes an evidence row and its backing stored object. The
// row delete commits first; a failed object delete afterwards is surfaced as
// a partial failure and logged for manual reconciliation.
func (s *Service) DeleteEvidence(ctx context.Context, imageID uint64) error {
	var image models.EvidenceImage
	if errFind := s.db.WithContext(ctx).First(&image, imageID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return errs.NotFound("evidence image %d", imageID)
		}
		return errFind
	}

	if errDelete := s.db.WithContext(ctx).Delete(&image).Error; errDelete != nil {
		return errDelete
	}

	if errStore := s.store.Delete(ctx, image.StorageKey); errStore != nil {
		log.WithError(errStore).WithField("key", image.StorageKey).Error("stored evidence object not deleted")
		return errs.PartialFailure("evidence row %d deleted but object %s remains", imageID, image.StorageKey)
	}
	return nil
}
