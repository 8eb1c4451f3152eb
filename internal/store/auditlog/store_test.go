package auditlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendAndRecent(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(ctx, Entry{
		Timestamp: base.UnixMilli(),
		TradeID:   "T-1",
		Kind:      "weight",
		Action:    "set",
		Detail:    "0.60/0.40",
		Reason:    "desk call",
		ExpireAt:  base.Add(time.Hour),
	}))
	require.NoError(t, s.Append(ctx, Entry{
		Timestamp: base.Add(time.Minute).UnixMilli(),
		TradeID:   "T-1",
		Kind:      "weight",
		Action:    "clear",
	}))

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "clear", entries[0].Action)
	assert.Equal(t, "set", entries[1].Action)
	assert.Equal(t, base.Add(time.Hour).UnixMilli(), entries[1].ExpireAt.UnixMilli())
	assert.True(t, entries[0].ExpireAt.IsZero())
}

func TestStore_RejectsEmptyPath(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}
