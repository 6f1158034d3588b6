package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-app/internal/api/grpc/grpctest"
	"notes-app/internal/config"
	"notes-app/internal/model"
	"notes-app/internal/remote/grpcstore"
	"notes-app/internal/session"
)

// holderProxy отдает сессию держателя последнего созданного clientApp
type holderProxy struct {
	mu sync.Mutex
	h  *session.Holder
}

func (p *holderProxy) set(h *session.Holder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.h = h
}

func (p *holderProxy) Current() session.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.h == nil {
		return session.Session{}
	}
	return p.h.Current()
}

type cli struct {
	t   *testing.T
	dir string
}

// newCLI подменяет сборку clientApp: сервер в памяти процесса, файлы во временном каталоге
func newCLI(t *testing.T) *cli {
	t.Helper()
	proxy := &holderProxy{}
	env := grpctest.Start(t, grpcstore.TokenDialOptions(proxy)...)
	dir := t.TempDir()

	newApp = func(cfg *config.Config, offline bool) (*clientApp, error) {
		cfg.Client.SessionFile = filepath.Join(dir, "session.json")
		cfg.Client.OfflinePath = filepath.Join(dir, "offline.db")
		if offline {
			return openApp(cfg, true)
		}

		files, err := session.NewFileStore(cfg.Client.SessionFile)
		if err != nil {
			return nil, err
		}
		saved, err := files.Load()
		if err != nil {
			return nil, err
		}

		a := &clientApp{cfg: cfg, files: files, sessions: session.NewHolder(saved)}
		proxy.set(a.sessions)
		a.auth = grpcstore.NewAuthClient(env.Conn)
		a.watcher = grpcstore.New(env.Conn, a.sessions)
		a.wireDispatcher(a.watcher)
		return a, nil
	}
	t.Cleanup(func() { newApp = openApp })

	return &cli{t: t, dir: dir}
}

// run выполняет команду как из терминала и возвращает stdout
func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(c.dir, "missing.yml")}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	if app != nil {
		app.Close()
		app = nil
	}
	resetFlags(rootCmd)
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func addedID(t *testing.T, out string) string {
	t.Helper()
	id := strings.TrimSpace(strings.TrimPrefix(out, "Note added:"))
	require.NotEmpty(t, id, out)
	return id
}

func TestCLI_NoteLifecycle(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "list")
	require.ErrorIs(t, err, errNotLoggedIn)

	out, err := c.run("", "register", "--email", "alice@example.com", "--password", "password1", "--name", "Alice")
	require.NoError(t, err)
	assert.Contains(t, out, "alice@example.com")

	out, err = c.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")

	_, err = c.run("", "add", "   ")
	require.Error(t, err)
	assert.Equal(t, "note text cannot be blank", err.Error())

	out, err = c.run("", "add", "Buy", "milk")
	require.NoError(t, err)
	id := addedID(t, out)

	out, err = c.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Buy milk")

	_, err = c.run("", "edit", id, "--text", "Buy oat milk")
	require.NoError(t, err)

	out, err = c.run("", "list", "--json")
	require.NoError(t, err)
	var notes []model.Note
	require.NoError(t, json.Unmarshal([]byte(out), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "Buy oat milk", notes[0].Text)

	out, err = c.run("n\n", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")

	out, err = c.run("", "rm", id, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Note deleted")

	_, err = c.run("", "rm", id, "--yes")
	require.Error(t, err)
	assert.Equal(t, "note not found", err.Error())

	out, err = c.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No notes yet")

	_, err = c.run("", "logout")
	require.NoError(t, err)

	_, err = c.run("", "list")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestCLI_LoginReadsPasswordFromStdin(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "register", "--email", "bob@example.com", "--password", "password1")
	require.NoError(t, err)
	_, err = c.run("", "logout")
	require.NoError(t, err)

	_, err = c.run("wrong-password\n", "login", "--email", "bob@example.com")
	require.Error(t, err)

	out, err := c.run("password1\n", "login", "--email", "bob@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as bob@example.com")

	_, err = c.run("", "list")
	assert.NoError(t, err)
}

func TestCLI_Offline(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "--offline", "add", "local", "note")
	require.NoError(t, err)
	id := addedID(t, out)

	out, err = c.run("", "--offline", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "local note")

	_, err = c.run("", "--offline", "watch")
	assert.Error(t, err)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, confirm(strings.NewReader(tt.input), io.Discard, "? "), "input %q", tt.input)
	}
}
