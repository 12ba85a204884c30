package chain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore(t *testing.T) {
	s := NewMemStore()

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("k", "v1"))
	val, err = s.Get("k")
	require.NoError(t, err)
	require.NotNil(t, val)
	assert.Equal(t, "v1", *val)

	require.NoError(t, s.Set("k", "v2"))
	val, err = s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", *val)

	require.NoError(t, s.Close())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	// binary state is not valid UTF-8; it must round-trip byte for byte
	raw := string([]byte{0x01, 0x00, 0xFF, 0x7C, 0x80})
	require.NoError(t, s.Set("hp_state", raw))
	val, err = s.Get("hp_state")
	require.NoError(t, err)
	require.NotNil(t, val)
	assert.Equal(t, raw, *val)

	require.NoError(t, s.Set("hp_state", "updated"))
	val, err = s.Get("hp_state")
	require.NoError(t, err)
	assert.Equal(t, "updated", *val)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "persisted"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	val, err := s.Get("k")
	require.NoError(t, err)
	require.NotNil(t, val)
	assert.Equal(t, "persisted", *val)
}
