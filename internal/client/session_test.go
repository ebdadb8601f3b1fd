package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSessionStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	store := NewFileSessionStoreAt(path)

	_, ok := store.Read()
	assert.False(t, ok, "fresh store should hold no token")

	require.NoError(t, store.Save("tok-1"))
	token, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)

	// Saving replaces; there is only ever one session.
	require.NoError(t, store.Save("tok-2"))
	token, _ = store.Read()
	assert.Equal(t, "tok-2", token)

	require.NoError(t, store.Clear())
	_, ok = store.Read()
	assert.False(t, ok)
}

func TestFileSessionStoreClearIsIdempotent(t *testing.T) {
	store := NewFileSessionStoreAt(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}

func TestFileSessionStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileSessionStoreAt(path)
	require.NoError(t, store.Save("tok"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileSessionStoreIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	store := NewFileSessionStoreAt(path)
	_, ok := store.Read()
	assert.False(t, ok)
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()

	_, ok := store.Read()
	assert.False(t, ok)

	require.NoError(t, store.Save("tok"))
	token, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Clear())
	_, ok = store.Read()
	assert.False(t, ok)
}
