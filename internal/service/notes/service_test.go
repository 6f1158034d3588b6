package notes

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"testing"
	"time"

	"notes-app/internal/model"
	"notes-app/internal/repository"
)

// mockRepository - простой mock репозитория для тестирования
type mockRepository struct {
	notes       map[string]model.Note
	seq         int
	createError error
	listError   error
	updateError error
	deleteError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		notes: make(map[string]model.Note),
	}
}

func (m *mockRepository) Create(ctx context.Context, note model.Note) (model.Note, error) {
	if m.createError != nil {
		return model.Note{}, m.createError
	}

	m.seq++
	note.ID = "test-id-" + strconv.Itoa(m.seq)
	m.notes[note.ID] = note
	return note, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (model.Note, error) {
	note, exists := m.notes[id]
	if !exists {
		return model.Note{}, model.ErrNoteNotFound
	}
	return note, nil
}

func (m *mockRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	if m.listError != nil {
		return nil, m.listError
	}

	notes := make([]model.Note, 0, len(m.notes))
	for _, note := range m.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, note)
		}
	}
	repository.SortNewestFirst(notes)
	return notes, nil
}

func (m *mockRepository) Update(ctx context.Context, note model.Note) (model.Note, error) {
	if m.updateError != nil {
		return model.Note{}, m.updateError
	}
	if _, exists := m.notes[note.ID]; !exists {
		return model.Note{}, model.ErrNoteNotFound
	}

	note.UpdatedAt = note.UpdatedAt.Add(time.Second)
	m.notes[note.ID] = note
	return note, nil
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	if _, exists := m.notes[id]; !exists {
		return model.ErrNoteNotFound
	}

	delete(m.notes, id)
	return nil
}

// Проверяем, что mockRepository реализует интерфейс
var _ repository.NoteRepository = (*mockRepository)(nil)

func TestNoteService_Create_Success(t *testing.T) {
	ctx := context.Background()
	mockRepo := newMockRepository()
	service := NewNoteService(mockRepo, nil)

	note, err := service.Create(ctx, "u1", " Groceries ", "  Buy milk  ")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if note.Text != "Buy milk" {
		t.Errorf("Expected trimmed text, got %q", note.Text)
	}
	if note.Title != "Groceries" {
		t.Errorf("Expected trimmed title, got %q", note.Title)
	}
	if note.OwnerID != "u1" {
		t.Errorf("Expected owner u1, got %q", note.OwnerID)
	}
	if note.ID == "" {
		t.Error("Expected note to have ID")
	}
	if note.CreatedAt.IsZero() || note.UpdatedAt.IsZero() {
		t.Error("Expected note to have timestamps")
	}
}

func TestNoteService_Create_BlankText(t *testing.T) {
	ctx := context.Background()
	service := NewNoteService(newMockRepository(), nil)

	for _, text := range []string{"", "   "} {
		note, err := service.Create(ctx, "u1", "", text)
		if !errors.Is(err, model.ErrEmptyText) {
			t.Errorf("Expected ErrEmptyText for %q, got: %v", text, err)
		}
		if !note.IsEmpty() {
			t.Error("Expected empty note on error")
		}
	}
}

func TestNoteService_Create_NoOwner(t *testing.T) {
	service := NewNoteService(newMockRepository(), nil)

	_, err := service.Create(context.Background(), "", "", "text")
	if !errors.Is(err, model.ErrEmptyOwner) {
		t.Errorf("Expected ErrEmptyOwner, got: %v", err)
	}
}

func TestNoteService_Create_RepositoryError(t *testing.T) {
	mockRepo := newMockRepository()
	mockRepo.createError = errors.New("disk full")
	service := NewNoteService(mockRepo, nil)

	_, err := service.Create(context.Background(), "u1", "", "text")
	if err == nil || err.Error() != "disk full" {
		t.Errorf("Expected repository error, got: %v", err)
	}
}

func TestNoteService_Get_ForeignNoteIsNotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := newMockRepository()
	mockRepo.notes["n1"] = model.Note{ID: "n1", OwnerID: "u2", Text: "secret"}
	service := NewNoteService(mockRepo, nil)

	_, err := service.Get(ctx, "u1", "n1")
	if !errors.Is(err, model.ErrNoteNotFound) {
		t.Errorf("Expected ErrNoteNotFound, got: %v", err)
	}

	_, err = service.Get(ctx, "u1", "")
	if err == nil || err.Error() != "id cannot be empty" {
		t.Errorf("Expected 'id cannot be empty', got: %v", err)
	}
}

func TestNoteService_List_OnlyOwnerNotes(t *testing.T) {
	ctx := context.Background()
	mockRepo := newMockRepository()
	now := time.Now()
	mockRepo.notes["n1"] = model.Note{ID: "n1", OwnerID: "u1", Text: "a", CreatedAt: now}
	mockRepo.notes["n2"] = model.Note{ID: "n2", OwnerID: "u1", Text: "b", CreatedAt: now.Add(time.Minute)}
	mockRepo.notes["n3"] = model.Note{ID: "n3", OwnerID: "u2", Text: "c", CreatedAt: now}
	service := NewNoteService(mockRepo, nil)

	notes, err := service.List(ctx, "u1")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("Expected 2 notes, got %d", len(notes))
	}
	if notes[0].ID != "n2" {
		t.Errorf("Expected newest note first, got %q", notes[0].ID)
	}
}

func TestNoteService_List_Error(t *testing.T) {
	mockRepo := newMockRepository()
	mockRepo.listError = errors.New("list error")
	service := NewNoteService(mockRepo, nil)

	if _, err := service.List(context.Background(), "u1"); err == nil {
		t.Error("Expected error")
	}
	if _, err := service.List(context.Background(), ""); !errors.Is(err, model.ErrEmptyOwner) {
		t.Errorf("Expected ErrEmptyOwner, got: %v", err)
	}
}

func TestNoteService_Update_AppliesPatch(t *testing.T) {
	ctx := context.Background()
	mockRepo := newMockRepository()
	created := time.Now()
	mockRepo.notes["n1"] = model.Note{ID: "n1", OwnerID: "u1", Title: "keep", Text: "old", CreatedAt: created, UpdatedAt: created}
	service := NewNoteService(mockRepo, nil)

	updated, err := service.Update(ctx, "u1", "n1", model.TextPatch("new"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if updated.Text != "new" {
		t.Errorf("Expected text %q, got %q", "new", updated.Text)
	}
	if updated.Title != "keep" {
		t.Errorf("Expected title untouched, got %q", updated.Title)
	}
	if !updated.UpdatedAt.After(created) {
		t.Error("Expected UpdatedAt to move forward")
	}
}

func TestNoteService_Update_Errors(t *testing.T) {
	ctx := context.Background()
	mockRepo := newMockRepository()
	mockRepo.notes["n1"] = model.Note{ID: "n1", OwnerID: "u1", Text: "old"}
	service := NewNoteService(mockRepo, nil)

	if _, err := service.Update(ctx, "u1", "n1", model.TextPatch("  ")); !errors.Is(err, model.ErrEmptyText) {
		t.Errorf("Expected ErrEmptyText, got: %v", err)
	}
	if _, err := service.Update(ctx, "u2", "n1", model.TextPatch("x")); !errors.Is(err, model.ErrNoteNotFound) {
		t.Errorf("Expected ErrNoteNotFound for foreign owner, got: %v", err)
	}
	if _, err := service.Update(ctx, "u1", "missing", model.TextPatch("x")); !errors.Is(err, model.ErrNoteNotFound) {
		t.Errorf("Expected ErrNoteNotFound, got: %v", err)
	}
}

func TestNoteService_Delete(t *testing.T) {
	ctx := context.Background()
	mockRepo := newMockRepository()
	mockRepo.notes["n1"] = model.Note{ID: "n1", OwnerID: "u1", Text: "x"}
	service := NewNoteService(mockRepo, nil)

	if err := service.Delete(ctx, "u2", "n1"); !errors.Is(err, model.ErrNoteNotFound) {
		t.Errorf("Expected ErrNoteNotFound for foreign owner, got: %v", err)
	}
	if err := service.Delete(ctx, "u1", "n1"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, exists := mockRepo.notes["n1"]; exists {
		t.Error("Expected note to be deleted")
	}
}

func TestNoteService_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	events := NewEventService()
	service := NewNoteService(newMockRepository(), events)

	ch := events.Subscribe("u1")
	defer events.Unsubscribe(ch)
	foreign := events.Subscribe("u2")
	defer events.Unsubscribe(foreign)

	note, err := service.Create(ctx, "u1", "", "hello")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := service.Update(ctx, "u1", note.ID, model.TextPatch("bye")); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := service.Delete(ctx, "u1", note.ID); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := []EventType{EventCreated, EventUpdated, EventDeleted}
	for _, w := range want {
		select {
		case ev := <-ch:
			if ev.Type != w {
				t.Errorf("Expected event %s, got %s", w, ev.Type)
			}
			if ev.Note.ID != note.ID {
				t.Errorf("Expected event for %s, got %s", note.ID, ev.Note.ID)
			}
		case <-time.After(time.Second):
			t.Fatalf("Timed out waiting for %s event", w)
		}
	}

	select {
	case ev := <-foreign:
		t.Errorf("Foreign subscriber must not receive events, got %+v", ev)
	default:
	}
}

func TestEventService_DropsWhenSubscriberIsSlow(t *testing.T) {
	events := NewEventService()
	ch := events.Subscribe("u1")

	for i := 0; i < 20; i++ {
		events.Publish(NoteEvent{Type: EventCreated, Note: model.Note{ID: strconv.Itoa(i), OwnerID: "u1"}})
	}

	if len(ch) != cap(ch) {
		t.Errorf("Expected buffer to be full (%d), got %d", cap(ch), len(ch))
	}

	events.Unsubscribe(ch)
	// Повторная отписка не должна паниковать
	events.Unsubscribe(ch)
}

func TestEventService_SubscriptionIsReadOnly(t *testing.T) {
	events := NewEventService()
	ch := events.Subscribe("u1")

	if dir := reflect.TypeOf(ch).ChanDir(); dir != reflect.RecvDir {
		t.Errorf("Expected receive-only channel, got %v", dir)
	}

	events.Publish(NoteEvent{Type: EventCreated, Note: model.Note{ID: "n1", OwnerID: "u1"}})
	events.Unsubscribe(ch)

	ev, ok := <-ch
	if !ok || ev.Note.ID != "n1" {
		t.Errorf("Expected buffered event before close, got %+v (open=%v)", ev, ok)
	}
	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed after Unsubscribe")
	}
}
