package models

import "time"

// Mitigation review statuses.
const (
	// StatusPending marks an entry awaiting admin review.
	StatusPending = "pending"
	// StatusApproved marks an entry accepted by an admin.
	StatusApproved = "approved"
	// StatusRejected marks an entry declined by an admin.
	StatusRejected = "rejected"
)

// MitigationEntry records plastic waste processed by a client, in kilograms.
type MitigationEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ClientID string  `gorm:"type:text;not null;index"`           // Owning client.
	Client   *Client `gorm:"foreignKey:ClientID"`                // Owning client record.
	AmountKg float64 `gorm:"not null"`                           // Processed weight, always positive.
	Status   string  `gorm:"type:text;not null;default:pending"` // Review status.

	Images []EvidenceImage `gorm:"foreignKey:EntryID"` // Attached photo evidence.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Submission timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// EvidenceImage is one stored photo attached to a mitigation entry.
type EvidenceImage struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	EntryID    uint64 `gorm:"not null;index"`     // Owning mitigation entry.
	StorageKey string `gorm:"type:text;not null"` // Object key in the storage bucket.
	URL        string `gorm:"type:text;not null"` // Public URL of the stored object.

	UploadedAt time.Time `gorm:"not null;autoCreateTime"` // Upload timestamp.
}

// ReviewEvent is an append-only record of one review status transition.
type ReviewEvent struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	EntryID    uint64 `gorm:"not null;index"`     // Reviewed mitigation entry.
	AdminID    uint64 `gorm:"not null"`           // Admin who applied the transition.
	FromStatus string `gorm:"type:text;not null"` // Status before the transition.
	ToStatus   string `gorm:"type:text;not null"` // Status after the transition.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Transition timestamp.
}
