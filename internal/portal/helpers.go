package portal

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/petgasmx/petgas-portal/internal/errs"
)

// isNotFound reports whether err is a missing-record error.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// parseRFC3339 parses a timestamp string into UTC.
func parseRFC3339(value string) (time.Time, error) {
	parsed, errParse := time.Parse(time.RFC3339, value)
	if errParse != nil {
		return time.Time{}, errs.Validation("invalid timestamp %q", value)
	}
	return parsed.UTC(), nil
}
