package settings

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// DB-backed setting keys and defaults.
const (
	// PortalNameKey is the key for the portal display name.
	PortalNameKey = "PORTAL_NAME"
	// DefaultPortalName is the fallback portal display name.
	DefaultPortalName = "Petgas Portal"
	// AnnouncementKey is the key for the banner announcement text.
	AnnouncementKey = "ANNOUNCEMENT"
	// MaxEvidenceImagesKey caps evidence photos per mitigation entry.
	MaxEvidenceImagesKey = "MAX_EVIDENCE_IMAGES"
	// DefaultMaxEvidenceImages is the fallback evidence photo cap.
	DefaultMaxEvidenceImages = 5
)

// snapshot holds the in-memory copy of DB-backed settings.
type snapshot struct {
	updatedAt time.Time
	values    map[string]json.RawMessage
}

var global atomic.Value // stores snapshot

func init() {
	global.Store(snapshot{values: map[string]json.RawMessage{}})
}

// Store replaces the in-memory snapshot of DB-backed settings.
func Store(updatedAt time.Time, values map[string]json.RawMessage) {
	next := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		if v == nil {
			next[key] = nil
			continue
		}
		copied := make([]byte, len(v))
		copy(copied, v)
		next[key] = copied
	}

	global.Store(snapshot{
		updatedAt: updatedAt.UTC(),
		values:    next,
	})
}

// UpdatedAt returns the last update timestamp of the snapshot.
func UpdatedAt() time.Time {
	return load().updatedAt
}

// Value returns a copy of the raw value for a key.
func Value(key string) (json.RawMessage, bool) {
	cfg := load()
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	val, ok := cfg.values[key]
	if !ok {
		return nil, false
	}
	if val == nil {
		return nil, true
	}
	copied := make([]byte, len(val))
	copy(copied, val)
	return copied, true
}

// String reads a string setting, falling back when absent or malformed.
func String(key, fallback string) string {
	raw, ok := Value(key)
	if !ok {
		return fallback
	}
	if s := parseString(raw); s != "" {
		return s
	}
	return fallback
}

// Int reads an integer setting, falling back when absent or malformed.
func Int(key string, fallback int) int {
	raw, ok := Value(key)
	if !ok {
		return fallback
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return fallback
	}
	var n int
	if errUnmarshal := json.Unmarshal(raw, &n); errUnmarshal == nil {
		return n
	}
	if s := parseString(raw); s != "" {
		if n, errParse := strconv.Atoi(s); errParse == nil {
			return n
		}
	}
	return fallback
}

// parseString extracts a string from JSON payloads, accepting values
// wrapped in a { "value": ... } object.
func parseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if errUnmarshal := json.Unmarshal(raw, &s); errUnmarshal == nil {
		return strings.TrimSpace(s)
	}
	var wrapper struct {
		Value json.RawMessage `json:"value"`
	}
	if errUnmarshal := json.Unmarshal(raw, &wrapper); errUnmarshal == nil {
		if len(wrapper.Value) > 0 {
			return parseString(wrapper.Value)
		}
	}
	return ""
}

// load returns the current snapshot with safe defaults.
func load() snapshot {
	v := global.Load()
	cfg, ok := v.(snapshot)
	if !ok {
		return snapshot{values: map[string]json.RawMessage{}}
	}
	if cfg.values == nil {
		return snapshot{updatedAt: cfg.updatedAt, values: map[string]json.RawMessage{}}
	}
	return cfg
}
