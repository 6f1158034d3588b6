package grpcstore

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"notes-app/internal/converter"
	"notes-app/internal/model"
	"notes-app/internal/remote"
	"notes-app/internal/session"
	notesv1 "notes-app/pkg/api/notes/v1"
)

// Store remote.NoteStore поверх NotesService
type Store struct {
	client   notesv1.NotesServiceClient
	sessions session.Provider
}

var _ remote.NoteStore = (*Store)(nil)

// New создает хранилище. Соединение должно подписывать вызовы токеном (см. Dial).
func New(conn grpc.ClientConnInterface, sessions session.Provider) *Store {
	return &Store{
		client:   notesv1.NewNotesServiceClient(conn),
		sessions: sessions,
	}
}

// List возвращает заметки владельца. Сервер определяет владельца по токену,
// поэтому ownerID сверяется с сессией, а чужие записи отбрасываются.
func (s *Store) List(ctx context.Context, ownerID string) ([]model.Note, error) {
	if err := s.checkOwner("list", ownerID); err != nil {
		return nil, err
	}

	resp, err := s.client.ListNotes(ctx, &notesv1.ListNotesRequest{})
	if err != nil {
		return nil, toRemoteError("list", err)
	}

	notes := remote.NormalizeAll(converter.APIsToModels(resp.Notes))
	owned := notes[:0]
	for _, n := range notes {
		if n.OwnerID != ownerID {
			logrus.WithFields(logrus.Fields{"note_id": n.ID, "owner_id": n.OwnerID}).Warn("dropping note of another owner")
			continue
		}
		owned = append(owned, n)
	}
	return owned, nil
}

// Create создает заметку с текстом text
func (s *Store) Create(ctx context.Context, ownerID, text string) (model.Note, error) {
	if err := s.checkOwner("create", ownerID); err != nil {
		return model.Note{}, err
	}

	resp, err := s.client.CreateNote(ctx, &notesv1.CreateNoteRequest{Text: text})
	if err != nil {
		return model.Note{}, toRemoteError("create", err)
	}
	return noteFromResponse("create", resp.Note)
}

// Update применяет патч к заметке id
func (s *Store) Update(ctx context.Context, id string, patch model.NotePatch) (model.Note, error) {
	resp, err := s.client.UpdateNote(ctx, &notesv1.UpdateNoteRequest{Id: id, Title: patch.Title, Text: patch.Text})
	if err != nil {
		return model.Note{}, toRemoteError("update", err)
	}
	return noteFromResponse("update", resp.Note)
}

// noteFromResponse требует от сервера заметку с id
func noteFromResponse(op string, n *notesv1.Note) (model.Note, error) {
	if n == nil {
		return model.Note{}, &remote.Error{Op: op, Code: remote.CodeInternal, Message: "malformed server response"}
	}
	note := remote.Normalize(converter.APIToModel(n))
	if note.ID == "" {
		return model.Note{}, &remote.Error{Op: op, Code: remote.CodeInternal, Message: "malformed server response"}
	}
	return note, nil
}

// Delete удаляет заметку id
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.client.DeleteNote(ctx, &notesv1.DeleteNoteRequest{Id: id}); err != nil {
		return toRemoteError("delete", err)
	}
	return nil
}

// Event изменение заметки, пришедшее из стрима
type Event struct {
	Type string
	Note model.Note
}

// Watch слушает изменения заметок владельца сессии и вызывает fn для каждого.
// Блокируется до отмены ctx или закрытия стрима сервером.
func (s *Store) Watch(ctx context.Context, fn func(Event)) error {
	stream, err := s.client.WatchNotes(ctx, &notesv1.WatchNotesRequest{})
	if err != nil {
		return toRemoteError("watch", err)
	}

	for {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return toRemoteError("watch", err)
		}
		fn(Event{Type: ev.Type, Note: remote.Normalize(converter.APIToModel(ev.Note))})
	}
}

func (s *Store) checkOwner(op, ownerID string) error {
	if s.sessions == nil {
		return nil
	}
	if current := s.sessions.Current().OwnerID; current != ownerID {
		return &remote.Error{Op: op, Code: remote.CodeUnauthenticated, Message: "session does not belong to this owner"}
	}
	return nil
}
