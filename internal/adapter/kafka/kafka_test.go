package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)
	rec := soil.SeriesRecord{
		ID:            "amarillo-1a2b3c4d5e6f7a8b",
		Series:        "AMARILLO",
		States:        []string{"TX", "NM"},
		DrainageClass: "well drained",
		ProcessedAt:   now,
	}

	msg, err := serializeToMessage(rec)
	require.NoError(t, err)

	assert.Equal(t, []byte("amarillo-1a2b3c4d5e6f7a8b"), msg.Key)
	assert.Contains(t, string(msg.Value), `"series":"AMARILLO"`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "series", msg.Headers[0].Key)
	assert.Equal(t, []byte("AMARILLO"), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}
