package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryStore_LoadMissingFile(t *testing.T) {
	s := NewDirectoryStore(filepath.Join(t.TempDir(), "missing.json"))

	entries, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDirectoryStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "directory.json")
	s := NewDirectoryStore(path)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, map[string]string{"alice": "GA", "bob": "GB"}))
	require.NoError(t, s.Save(ctx, map[string]string{"alice": "GA", "bob": "GB", "carol": "GC"}))

	entries, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"alice": "GA", "bob": "GB", "carol": "GC"}, entries)

	// no temp files left behind
	files, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDirectoryStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewDirectoryStore(path).Load(context.Background())

	assert.Error(t, err)
}

func TestDirectoryStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	entries, err := NewDirectoryStore(path).Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDirectoryStore_SaveCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDirectoryStore(path).Save(ctx, map[string]string{"alice": "GA"})

	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDirectoryStore_Name(t *testing.T) {
	assert.Equal(t, "file", NewDirectoryStore("x").Name())
}
