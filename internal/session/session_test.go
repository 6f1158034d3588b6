package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_IsAuthenticated(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		s    Session
		want bool
	}{
		{"empty", Session{}, false},
		{"no expiry", Session{OwnerID: "u1"}, true},
		{"valid", Session{OwnerID: "u1", ExpiresAt: now.Add(time.Minute)}, true},
		{"expired", Session{OwnerID: "u1", ExpiresAt: now.Add(-time.Minute)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.IsAuthenticatedAt(now))
		})
	}
}

func TestHolder_NotifiesOnOwnerChangeOnly(t *testing.T) {
	h := NewHolder(Session{})
	var seen []string
	h.OnOwnerChange(func(s Session) { seen = append(seen, s.OwnerID) })

	h.Set(Session{OwnerID: "u1", Token: "a"})
	h.Set(Session{OwnerID: "u1", Token: "b"})
	h.Clear()

	assert.Equal(t, []string{"u1", ""}, seen)
	assert.Equal(t, Session{}, h.Current())
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs, err := NewFileStore(path)
	require.NoError(t, err)

	empty, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, Session{}, empty)

	want := Session{OwnerID: "u1", Email: "a@b.c", Token: "tok", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, fs.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, fs.Clear())
	require.NoError(t, fs.Clear())
	got, err = fs.Load()
	require.NoError(t, err)
	assert.Equal(t, Session{}, got)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	fs, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = fs.Load()
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.notes/session.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".notes", "session.json"), got)

	got, err = ExpandHome("/tmp/x")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", got)
}
