package server

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-app/internal/config"
)

func TestOpenStorage(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, err := OpenStorage(&config.ConfigStorage{Driver: "memory"})
		require.NoError(t, err)
		assert.NotNil(t, s.Notes)
		assert.NotNil(t, s.Users)
		assert.NoError(t, s.Close())
	})

	t.Run("bolt", func(t *testing.T) {
		s, err := OpenStorage(&config.ConfigStorage{Driver: "bolt", Path: filepath.Join(t.TempDir(), "notes.db")})
		require.NoError(t, err)
		assert.NoError(t, s.Close())
	})

	t.Run("bolt without path", func(t *testing.T) {
		_, err := OpenStorage(&config.ConfigStorage{Driver: "bolt"})
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenStorage(&config.ConfigStorage{Driver: "postgres"})
		assert.Error(t, err)
	})
}

func TestNewTokenManager_GeneratesSecret(t *testing.T) {
	m, err := newTokenManager(&config.ConfigAuth{TokenTTLMinutes: 5})
	require.NoError(t, err)

	token, _, err := m.Issue("u1", "a@b.c", "A")
	require.NoError(t, err)
	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.OwnerID)
}

func TestDialAddr(t *testing.T) {
	assert.Equal(t, "localhost:50051", dialAddr("0.0.0.0:50051"))
	assert.Equal(t, "localhost:50051", dialAddr("[::]:50051"))
	assert.Equal(t, "10.0.0.1:9000", dialAddr("10.0.0.1:9000"))
}
