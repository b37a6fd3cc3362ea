package models

import (
	"encoding/json"
	"time"
)

// Setting is an admin-tunable portal configuration row. Known keys and
// their typed readers live in the settings package.
type Setting struct {
	Key       string          `gorm:"type:varchar(255);primaryKey"`                      // Setting name, e.g. PORTAL_NAME.
	Value     json.RawMessage `gorm:"type:jsonb"`                                        // JSON-encoded value.
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime;default:CURRENT_TIMESTAMP"` // Last write time, surfaced to admins.
}
