package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// exerciseStore runs the behavior every Store implementation shares
func exerciseStore(t *testing.T, store Store) {
	t.Helper()

	v, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.Empty(t, v, "unset key should read as empty")

	require.NoError(t, store.Set(KeyToken, "abc"))
	v, err = store.Get(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	require.NoError(t, store.Set(KeyToken, "def"))
	v, _ = store.Get(KeyToken)
	assert.Equal(t, "def", v, "last write wins")

	require.NoError(t, store.Remove(KeyToken))
	v, err = store.Get(KeyToken)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, store.Remove(KeyToken), "removing a missing key is not an error")
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(nil))
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	exerciseStore(t, NewKeyringStore("http://localhost:8080"))
}

func TestKeyringStore_NamespacedByOrigin(t *testing.T) {
	keyring.MockInit()
	a := NewKeyringStore("http://a.test")
	b := NewKeyringStore("http://b.test")

	require.NoError(t, a.Set(KeyToken, "token-a"))
	v, err := b.Get(KeyToken)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	exerciseStore(t, NewFileStore(path, "http://localhost:8080"))
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	require.NoError(t, NewFileStore(path, "http://a.test").Set(KeyUserID, "12"))
	require.NoError(t, NewFileStore(path, "http://b.test").Set(KeyUserID, "34"))

	v, err := NewFileStore(path, "http://a.test").Get(KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, "12", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path, "http://a.test").Get(KeyToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse storage file")
}
