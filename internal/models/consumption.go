package models

import "time"

// ConsumptionEntry records fuel volume consumed by a client, in liters.
type ConsumptionEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ClientID     string  `gorm:"type:text;not null;index"` // Owning client.
	Client       *Client `gorm:"foreignKey:ClientID"`      // Owning client record.
	AmountLiters float64 `gorm:"not null"`                 // Consumed volume, always positive.

	TransactedAt time.Time `gorm:"not null"`                // When the consumption happened.
	CreatedAt    time.Time `gorm:"not null;autoCreateTime"` // Submission timestamp.
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
