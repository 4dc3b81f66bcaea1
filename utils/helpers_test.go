package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTraceID(t *testing.T) {
	id := GenerateTraceID()
	assert.Len(t, id, traceIDLen)
	assert.Regexp(t, "^[a-zA-Z0-9]+$", id)
	assert.NotEqual(t, id, GenerateTraceID())
}

func TestTimeProviders(t *testing.T) {
	fixed := TimeProviderFixedTime{FixedTime: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, fixed.FixedTime, fixed.Now())

	before := time.Now()
	assert.False(t, NewTimeProviderSystemLocalTime().Now().Before(before))
}
