package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *ConfigStore {
	t.Helper()

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".pagevault", "config.toml"), store.Path())
}

func TestConfigStore_StorageKeys(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Set(KeyDataDir, "/srv/pagevault/data"))
	require.NoError(t, store.Set(KeyBlobDir, "/srv/pagevault/blobs"))

	assert.Equal(t, "/srv/pagevault/data", store.GetString(KeyDataDir))
	assert.Equal(t, "/srv/pagevault/blobs", store.GetString(KeyBlobDir))
}

func TestConfigStore_SetWritesNestedTable(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Set(KeyDataDir, "/srv/pagevault/data"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[storage]")
	assert.Contains(t, string(data), "data_dir = '/srv/pagevault/data'")
	assert.NotContains(t, string(data), "storage.data_dir")
}

func TestConfigStore_ReloadAfterSet(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyBlobDir, "/srv/pagevault/blobs"))
	require.NoError(t, store.Set("extraction.lang", "deu"))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/pagevault/blobs", reopened.GetString(KeyBlobDir))
	assert.Equal(t, "deu", reopened.GetString("extraction.lang"))
}

func TestConfigStore_GetMissingKey(t *testing.T) {
	store := setupTestStore(t)

	val, ok := store.Get(KeyDataDir)

	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Equal(t, "", store.GetString(KeyDataDir))
}

func TestConfigStore_GetMissingTable(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Set(KeyDataDir, "/srv/pagevault/data"))

	_, ok := store.Get("extraction.lang")

	assert.False(t, ok)
}

func TestConfigStore_GetStringWrongType(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Set("storage.cache_pages", int64(32)))

	assert.Equal(t, "", store.GetString("storage.cache_pages"))

	val, ok := store.Get("storage.cache_pages")
	require.True(t, ok)
	assert.Equal(t, int64(32), val)
}

func TestConfigStore_GetTableValue(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Set(KeyDataDir, "/srv/pagevault/data"))

	val, ok := store.Get("storage")

	require.True(t, ok)
	table, ok := val.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/srv/pagevault/data", table["data_dir"])
}

func TestConfigStore_SetThroughValueFails(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Set(KeyDataDir, "/srv/pagevault/data"))

	err := store.Set(KeyDataDir+".nested", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a table")
	// The original value survives the failed set.
	assert.Equal(t, "/srv/pagevault/data", store.GetString(KeyDataDir))
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Set(KeyBlobDir, "/old/blobs"))
	require.NoError(t, store.Set(KeyBlobDir, "/new/blobs"))

	assert.Equal(t, "/new/blobs", store.GetString(KeyBlobDir))
}

func TestConfigStore_LoadExistingFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[storage]\ndata_dir = \"/data\"\nblob_dir = \"/blobs\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "/data", store.GetString(KeyDataDir))
	assert.Equal(t, "/blobs", store.GetString(KeyBlobDir))
}

func TestConfigStore_LoadMalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = [toml"), 0600))

	_, err := NewConfigStore(tmpDir)

	require.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{KeyDataDir, KeyBlobDir}, Keys())
}
