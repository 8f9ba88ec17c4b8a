package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not re-run applied migrations.
	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestSaveAndRecentTurns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveTurn(ctx, "s1", "user", "hottest day in July?", nil))
	require.NoError(t, db.SaveTurn(ctx, "s1", "assistant", "July 19, 36.2 C", []string{"SELECT MAX(temp) FROM t"}))
	require.NoError(t, db.SaveTurn(ctx, "s2", "user", "other session", nil))

	turns, err := db.RecentTurns(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "assistant", turns[1].Role)
	assert.Equal(t, JSONStringArray{}, turns[0].SQLQueries)
	assert.Equal(t, JSONStringArray{"SELECT MAX(temp) FROM t"}, turns[1].SQLQueries)
}

func TestRecentTurnsLimitKeepsNewest(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, content := range []string{"a", "b", "c", "d"} {
		require.NoError(t, db.SaveTurn(ctx, "s1", "user", content, nil))
	}

	turns, err := db.RecentTurns(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "c", turns[0].Content)
	assert.Equal(t, "d", turns[1].Content)
}

func TestClearSession(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveTurn(ctx, "s1", "user", "hello", nil))
	require.NoError(t, db.SaveTurn(ctx, "s2", "user", "kept", nil))

	require.NoError(t, db.ClearSession(ctx, "s1"))

	turns, err := db.RecentTurns(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, turns)

	kept, err := db.RecentTurns(ctx, "s2", 0)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestJSONStringArrayScan(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  JSONStringArray
	}{
		{"nil", nil, JSONStringArray{}},
		{"empty string", "", JSONStringArray{}},
		{"empty array", "[]", JSONStringArray{}},
		{"values", `["SELECT 1","SELECT 2"]`, JSONStringArray{"SELECT 1", "SELECT 2"}},
		{"bytes", []byte(`["a"]`), JSONStringArray{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got JSONStringArray
			require.NoError(t, got.Scan(tt.input))
			assert.Equal(t, tt.want, got)
		})
	}
}
