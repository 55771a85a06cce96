package keychain

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewWithKeyring(keyring.NewArrayKeyring(nil))
}

func TestManager_GetMissing(t *testing.T) {
	m := newTestManager(t)

	v, ok, err := m.Get(KeySessionFlag)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestManager_SetGetRemove(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Set(KeySessionFlag, "true"))
	v, ok, err := m.Get(KeySessionFlag)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	require.NoError(t, m.Set(KeySessionFlag, "false"))
	v, _, _ = m.Get(KeySessionFlag)
	assert.Equal(t, "false", v)

	require.NoError(t, m.Remove(KeySessionFlag))
	_, ok, err = m.Get(KeySessionFlag)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_RemoveMissingIsNoop(t *testing.T) {
	m := newTestManager(t)
	assert.NoError(t, m.Remove(KeyIDToken))
}

func TestManager_ClearAll(t *testing.T) {
	m := newTestManager(t)
	for _, k := range []string{KeySessionFlag, KeyIDToken, KeyRefreshToken, KeyDBDSN} {
		require.NoError(t, m.Set(k, "v"))
	}

	require.NoError(t, m.ClearAll())

	for _, k := range []string{KeySessionFlag, KeyIDToken, KeyRefreshToken, KeyDBDSN} {
		_, ok, err := m.Get(k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}
}
