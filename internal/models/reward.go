package models

import "time"

// RewardDefinition is an admin-authored template for a grantable reward.
// Qualifying thresholds are informational only; granting stays manual.
type RewardDefinition struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name        string `gorm:"type:text;not null"` // Display name.
	Description string `gorm:"type:text"`          // Optional description.
	PointValue  int64  `gorm:"not null"`           // Points granted per award, always positive.

	MinMitigationKg      *float64 // Optional qualifying mitigation threshold.
	MinConsumptionLiters *float64 // Optional qualifying consumption threshold.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// RewardLedgerEntry records one reward actually granted to one client. Its
// existence must correspond to the owning client's point balance; ledger and
// balance are always written inside one transaction.
type RewardLedgerEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ClientID string            `gorm:"type:text;not null;index"` // Receiving client.
	Client   *Client           `gorm:"foreignKey:ClientID"`      // Receiving client record.
	RewardID uint64            `gorm:"not null;index"`           // Granted reward definition.
	Reward   *RewardDefinition `gorm:"foreignKey:RewardID"`      // Granted reward record.

	PointValue int64  `gorm:"not null"`  // Point value frozen at grant time.
	Note       string `gorm:"type:text"` // Optional admin note.

	AwardedAt time.Time `gorm:"not null;autoCreateTime"` // Grant timestamp.
}
