package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	assert.Empty(t, store.Get(KeyToken))

	require.NoError(t, store.Set(KeyToken, "tok"))
	require.NoError(t, store.Set(KeyRefreshToken, "refresh"))
	assert.Equal(t, "tok", store.Get(KeyToken))
	assert.Equal(t, "refresh", store.Get(KeyRefreshToken))

	// Entries survive a new store instance reading the same file.
	reopened := NewFileStore(path)
	assert.Equal(t, "tok", reopened.Get(KeyToken))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreDelete(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Set(KeyToken, "tok"))
	require.NoError(t, store.Delete(KeyToken))
	assert.Empty(t, store.Get(KeyToken))
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	require.NoError(t, store.Set(KeyToken, "tok"))
	require.NoError(t, store.Set(KeyIdentity, `{"id":"u-1"}`))

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Get(KeyToken))
	assert.Empty(t, store.Get(KeyIdentity))

	// Clearing an already-empty store is fine.
	require.NoError(t, store.Clear())
}

func TestFileStoreCorruptFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileStore(path)
	assert.Empty(t, store.Get(KeyToken))
	require.NoError(t, store.Set(KeyToken, "tok"))
	assert.Equal(t, "tok", store.Get(KeyToken))
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Set(KeyToken, "tok"))
	assert.Equal(t, "tok", store.Get(KeyToken))
	require.NoError(t, store.Clear())
	assert.Empty(t, store.Get(KeyToken))
}
