package statefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state", "last_issue.txt"))

	n, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_LoadContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "plain number", content: "42", want: 42},
		{name: "trailing newline", content: "17\n", want: 17},
		{name: "surrounding spaces", content: "  9  ", want: 9},
		{name: "zero", content: "0", want: 0},
		{name: "empty", content: "", want: 0},
		{name: "garbage", content: "not-a-number", want: 0},
		{name: "negative", content: "-3", want: 0},
		{name: "float", content: "4.5", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "last_issue.txt")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			n, err := NewStore(path).Load(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
		})
	}
}

func TestStore_LoadDirectoryIsError(t *testing.T) {
	dir := t.TempDir()

	_, err := NewStore(dir).Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read watermark file")
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "nested", "last_issue.txt")
	store := NewStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 7))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7", string(data))

	n, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_issue.txt")
	store := NewStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 5))
	require.NoError(t, store.Save(ctx, 11))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "11", string(data))
}

func TestStore_SaveRejectsNegative(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "last_issue.txt"))

	err := store.Save(context.Background(), -1)

	require.Error(t, err)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}
