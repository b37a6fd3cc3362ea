// Package portal implements the service core: profile lifecycle, activity
// submission, admin review, and reward/balance bookkeeping.
package portal

import (
	"gorm.io/gorm"

	"github.com/petgasmx/petgas-portal/internal/storage"
)

// Service bundles the database and object storage dependencies behind the
// portal's operations. All multi-write operations run inside one database
// transaction; the ledger/balance pair is never split across transactions.
type Service struct {
	db    *gorm.DB
	store storage.ObjectStore
}

// NewService constructs a Service.
func NewService(db *gorm.DB, store storage.ObjectStore) *Service {
	return &Service{db: db, store: store}
}

// Page bounds list reads.
type Page struct {
	Offset int
	Limit  int
}

// normalize clamps paging values to sane bounds.
func (p Page) normalize() Page {
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
