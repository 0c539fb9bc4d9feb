package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	parsed, ok := ParseDate("1990-03-14")
	assert.True(t, ok)
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 14, parsed.Day())

	_, ok = ParseDate("")
	assert.False(t, ok)

	_, ok = ParseDate("   ")
	assert.False(t, ok)

	_, ok = ParseDate("not-a-date")
	assert.False(t, ok)

	// timestamps stored in a date column still parse
	parsed, ok = ParseDate("1990-03-14T00:00:00Z")
	assert.True(t, ok)
	assert.Equal(t, time.March, parsed.Month())
}

func TestParseInstant(t *testing.T) {
	parsed, ok := ParseInstant("2024-03-10T09:30:00Z")
	assert.True(t, ok)
	assert.Equal(t, 9, parsed.UTC().Hour())

	// datetime-local form value without a zone
	parsed, ok = ParseInstant("2024-03-10T09:30")
	assert.True(t, ok)
	assert.Equal(t, 30, parsed.Minute())

	// bare date anchors at midnight
	parsed, ok = ParseInstant("2024-03-10")
	assert.True(t, ok)
	assert.Equal(t, 0, parsed.Hour())

	_, ok = ParseInstant("")
	assert.False(t, ok)

	_, ok = ParseInstant("soon")
	assert.False(t, ok)
}

func TestStartOfDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 17, 45, 12, 999, time.UTC)
	start := StartOfDay(now)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), start)
}
