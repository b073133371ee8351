package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ISOTimestampLayout is the millisecond-precision UTC layout used in API responses.
const ISOTimestampLayout = "2006-01-02T15:04:05.000Z"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// FormatISOTimestamp renders t in UTC with millisecond precision, or nil when
// t is nil or zero.
func FormatISOTimestamp(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(ISOTimestampLayout)
	return &s
}
