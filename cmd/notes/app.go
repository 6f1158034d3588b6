package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"notes-app/internal/config"
	"notes-app/internal/model"
	"notes-app/internal/notelist"
	"notes-app/internal/remote"
	"notes-app/internal/remote/direct"
	"notes-app/internal/remote/grpcstore"
	"notes-app/internal/repository/bolt"
	"notes-app/internal/service/notes"
	"notes-app/internal/session"
)

// offlineOwner владелец заметок в локальной базе без входа
const offlineOwner = "local"

// errNotLoggedIn возвращается командам заметок без сессии
var errNotLoggedIn = errors.New("not logged in, run `notes login` or `notes register`")

// authClient операции AuthService, нужные CLI
type authClient interface {
	Register(ctx context.Context, email, password, name string) (session.Session, error)
	Login(ctx context.Context, email, password string) (session.Session, error)
	CurrentUser(ctx context.Context) (model.User, error)
	Logout(ctx context.Context) error
}

// clientApp все зависимости одной команды CLI
type clientApp struct {
	cfg      *config.Config
	offline  bool
	sessions *session.Holder
	files    *session.FileStore

	auth       authClient       // nil в офлайн режиме
	watcher    *grpcstore.Store // nil в офлайн режиме
	dispatcher *notelist.Dispatcher

	closers []io.Closer
}

// openApp собирает клиента: сессия из файла, хранилище заметок и диспетчер
func openApp(cfg *config.Config, offline bool) (*clientApp, error) {
	files, err := session.NewFileStore(cfg.Client.SessionFile)
	if err != nil {
		return nil, err
	}
	saved, err := files.Load()
	if err != nil {
		// Испорченный файл не должен блокировать login
		logrus.WithError(err).Warn("ignoring unreadable session file")
		saved = session.Session{}
	}

	a := &clientApp{cfg: cfg, offline: offline, files: files}

	var store remote.NoteStore
	if offline {
		path, err := session.ExpandHome(cfg.Client.OfflinePath)
		if err != nil {
			return nil, err
		}
		repo, err := bolt.NewRepository(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open offline database: %w", err)
		}
		a.closers = append(a.closers, repo)

		a.sessions = session.NewHolder(session.Session{OwnerID: offlineOwner, Name: "offline"})
		store = direct.New(notes.NewNoteService(repo.Notes(), notes.NewEventService()), a.sessions)
	} else {
		a.sessions = session.NewHolder(saved)
		conn, err := grpcstore.Dial(cfg.Client.Address, a.sessions)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Client.Address, err)
		}
		a.closers = append(a.closers, conn)

		a.auth = grpcstore.NewAuthClient(conn)
		a.watcher = grpcstore.New(conn, a.sessions)
		store = a.watcher
	}

	a.wireDispatcher(store)
	return a, nil
}

func (a *clientApp) wireDispatcher(store remote.NoteStore) {
	a.dispatcher = notelist.NewDispatcher(store, a.sessions)
	a.sessions.OnOwnerChange(func(s session.Session) {
		a.dispatcher.Reset(s.OwnerID)
	})
}

func (a *clientApp) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, requestTimeout(a.cfg))
}

// requireSession пропускает только действующую сессию. Сессия проверяется на сервере;
// отозванная или истекшая удаляется из файла.
func (a *clientApp) requireSession(ctx context.Context) error {
	if a.offline {
		return nil
	}

	current := a.sessions.Current()
	if !current.IsAuthenticated() {
		return errNotLoggedIn
	}

	user, err := a.auth.CurrentUser(ctx)
	if err != nil {
		if remote.CodeOf(err) == remote.CodeUnauthenticated {
			a.forgetSession()
			return errNotLoggedIn
		}
		return err
	}

	current.Email = user.Email
	current.Name = user.Name
	a.sessions.Set(current)
	return nil
}

// startSession запоминает новую сессию и сохраняет ее в файл
func (a *clientApp) startSession(s session.Session) error {
	a.sessions.Set(s)
	return a.files.Save(s)
}

func (a *clientApp) forgetSession() {
	a.sessions.Clear()
	if err := a.files.Clear(); err != nil {
		logrus.WithError(err).Warn("failed to remove session file")
	}
}

// owner владелец текущей сессии
func (a *clientApp) owner() string {
	return a.sessions.Current().OwnerID
}

// Close закрывает список и соединения
func (a *clientApp) Close() {
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			logrus.WithError(err).Debug("close failed")
		}
	}
	a.closers = nil
}
