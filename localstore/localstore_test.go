package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, exists, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Set(KeyToken, "abc"))
	value, exists, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "abc", value)

	// overwrite keeps a single row per key
	require.NoError(t, store.Set(KeyToken, "def"))
	value, _, err = store.Get(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "def", value)

	require.NoError(t, store.Delete(KeyToken))
	_, exists, err = store.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteMissingKey(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Delete("never-set"))
}

func TestStateSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyRememberedUsername, "demo"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	value, exists, err := reopened.Get(KeyRememberedUsername)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "demo", value)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
