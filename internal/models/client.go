package models

import "time"

// Client represents a portal end user who logs activity and accrues points.
// The primary key is the identity subject issued by the login-link flow, so a
// profile row exists per authenticated identity, created lazily on first login.
type Client struct {
	ID string `gorm:"type:text;primaryKey"` // Identity subject, immutable.

	Email       string `gorm:"type:text;not null;uniqueIndex"` // Login email, immutable after creation.
	DisplayName string `gorm:"type:text"`                      // Self-service display name.

	WalletAddress          *string `gorm:"type:text"` // Optional primary wallet address.
	SecondaryWalletAddress *string `gorm:"type:text"` // Optional secondary wallet address.

	PointBalance int64 `gorm:"not null;default:0"` // Cached reward balance, never negative.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
