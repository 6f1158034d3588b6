package notelist

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"notes-app/internal/model"
	"notes-app/internal/remote"
	"notes-app/internal/session"
)

var (
	// ErrBlankText текст заметки пуст после обрезки пробелов
	ErrBlankText = errors.New("note text cannot be blank")
	// ErrEmptyPatch патч ничего не меняет
	ErrEmptyPatch = errors.New("nothing to update")
	// ErrMissingID не указан id заметки
	ErrMissingID = errors.New("note id is required")
	// ErrNotAuthenticated нет сессии или она принадлежит другому владельцу
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrClosed список закрыт
	ErrClosed = errors.New("note list is closed")
	// ErrDiscarded результат пришел после смены владельца или закрытия и не был применен
	ErrDiscarded = errors.New("result discarded: note list was reset")
)

// FailedError ошибка удаленной операции в том виде, в каком ее видит пользователь
type FailedError struct {
	Op      Op
	Message string
}

func (e *FailedError) Error() string {
	return e.Message
}

// Dispatcher выполняет команды над списком заметок: вызывает удаленное хранилище
// и применяет результат к Store. Ошибки хранилища не выходят наружу как есть.
type Dispatcher struct {
	store    *Store
	remote   remote.NoteStore
	sessions session.Provider
	log      logrus.FieldLogger
}

// Option настраивает Dispatcher
type Option func(*Dispatcher)

// WithLogger задает логгер
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// NewDispatcher создает диспетчер со списком владельца текущей сессии
func NewDispatcher(store remote.NoteStore, sessions session.Provider, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		remote:   store,
		sessions: sessions,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.store = NewStore(sessions.Current().OwnerID, d.log)
	return d
}

// State текущий снимок списка
func (d *Dispatcher) State() State {
	return d.store.Snapshot()
}

// Subscribe подписка на снимки списка
func (d *Dispatcher) Subscribe() <-chan State {
	return d.store.Subscribe()
}

// Unsubscribe отписка
func (d *Dispatcher) Unsubscribe(ch <-chan State) {
	d.store.Unsubscribe(ch)
}

// Reset сбрасывает список для нового владельца (смена сессии, logout)
func (d *Dispatcher) Reset(owner string) {
	d.store.Reset(owner)
}

// Close закрывает список; операции в полете завершатся без изменения состояния
func (d *Dispatcher) Close() {
	d.store.Close()
}

// List загружает заметки владельца и заменяет ими список
func (d *Dispatcher) List(ctx context.Context, ownerID string) error {
	if err := d.requireOwner(ownerID); err != nil {
		return err
	}

	t, ok := d.store.Begin()
	if !ok {
		return ErrClosed
	}

	notes, err := d.remote.List(ctx, t.Owner())
	return d.finish(t, Outcome{Op: OpList, Notes: notes, Err: err})
}

// Refresh перезагружает список для владельца текущей сессии
func (d *Dispatcher) Refresh(ctx context.Context) error {
	return d.List(ctx, d.sessions.Current().OwnerID)
}

// Create создает заметку и добавляет ее в начало списка.
// Пустой текст отклоняется без обращения к хранилищу.
func (d *Dispatcher) Create(ctx context.Context, ownerID, text string) (model.Note, error) {
	if strings.TrimSpace(text) == "" {
		return model.Note{}, ErrBlankText
	}
	if err := d.requireOwner(ownerID); err != nil {
		return model.Note{}, err
	}

	t, ok := d.store.Begin()
	if !ok {
		return model.Note{}, ErrClosed
	}

	note, err := d.remote.Create(ctx, t.Owner(), text)
	if err := d.finish(t, Outcome{Op: OpCreate, Note: note, Err: err}); err != nil {
		return model.Note{}, err
	}
	return note, nil
}

// Update применяет патч к заметке id и заменяет ее на месте
func (d *Dispatcher) Update(ctx context.Context, id string, patch model.NotePatch) (model.Note, error) {
	if strings.TrimSpace(id) == "" {
		return model.Note{}, ErrMissingID
	}
	if patch.IsEmpty() {
		return model.Note{}, ErrEmptyPatch
	}
	if patch.Text != nil && strings.TrimSpace(*patch.Text) == "" {
		return model.Note{}, ErrBlankText
	}
	d.syncOwner()

	t, ok := d.store.Begin()
	if !ok {
		return model.Note{}, ErrClosed
	}

	note, err := d.remote.Update(ctx, id, patch)
	if err := d.finish(t, Outcome{Op: OpUpdate, ID: id, Note: note, Err: err}); err != nil {
		return model.Note{}, err
	}
	return note, nil
}

// Delete удаляет заметку id. Подтверждение удаления - забота вызывающего.
func (d *Dispatcher) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	d.syncOwner()

	t, ok := d.store.Begin()
	if !ok {
		return ErrClosed
	}

	err := d.remote.Delete(ctx, id)
	return d.finish(t, Outcome{Op: OpDelete, ID: id, Err: err})
}

func (d *Dispatcher) finish(t Ticket, o Outcome) error {
	applied := d.store.Commit(t, o)

	if o.Err != nil {
		d.log.WithFields(logrus.Fields{"op": o.Op, "owner_id": t.Owner()}).WithError(o.Err).Warn("note operation failed")
		return &FailedError{Op: o.Op, Message: ErrorMessage(o.Err)}
	}
	if !applied {
		return ErrDiscarded
	}
	return nil
}

// requireOwner проверяет, что ownerID - владелец текущей сессии, и переключает список на него
func (d *Dispatcher) requireOwner(ownerID string) error {
	current := d.sessions.Current()
	if ownerID == "" || current.OwnerID != ownerID || !current.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	d.syncOwner()
	return nil
}

// syncOwner сбрасывает список, если владелец сессии сменился
func (d *Dispatcher) syncOwner() {
	owner := d.sessions.Current().OwnerID
	if d.store.EnsureOwner(owner) {
		d.log.WithFields(logrus.Fields{"owner_id": owner}).Info("session owner changed, note list reset")
	}
}
