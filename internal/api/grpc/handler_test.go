package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"notes-app/internal/api/grpc/interceptors"
	"notes-app/internal/model"
	"notes-app/internal/service/auth"
	notesv1 "notes-app/pkg/api/notes/v1"
)

// mockNoteService - мок сервиса для тестирования handler
type mockNoteService struct {
	createFunc func(ctx context.Context, ownerID, title, text string) (model.Note, error)
	getFunc    func(ctx context.Context, ownerID, id string) (model.Note, error)
	listFunc   func(ctx context.Context, ownerID string) ([]model.Note, error)
	updateFunc func(ctx context.Context, ownerID, id string, patch model.NotePatch) (model.Note, error)
	deleteFunc func(ctx context.Context, ownerID, id string) error
}

func (m *mockNoteService) Create(ctx context.Context, ownerID, title, text string) (model.Note, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, ownerID, title, text)
	}
	return model.Note{}, nil
}

func (m *mockNoteService) Get(ctx context.Context, ownerID, id string) (model.Note, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, ownerID, id)
	}
	return model.Note{}, nil
}

func (m *mockNoteService) List(ctx context.Context, ownerID string) ([]model.Note, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockNoteService) Update(ctx context.Context, ownerID, id string, patch model.NotePatch) (model.Note, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, ownerID, id, patch)
	}
	return model.Note{}, nil
}

func (m *mockNoteService) Delete(ctx context.Context, ownerID, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, ownerID, id)
	}
	return nil
}

func authed(ownerID string) context.Context {
	return interceptors.WithPrincipal(context.Background(), interceptors.Principal{
		Claims: auth.Claims{OwnerID: ownerID},
		Token:  "token",
	})
}

func errorInfo(t *testing.T, err error) *errdetails.ErrorInfo {
	t.Helper()
	st, ok := status.FromError(err)
	require.True(t, ok, "Error should be a gRPC status")
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info
		}
	}
	t.Fatalf("ErrorInfo not found in %v", st.Details())
	return nil
}

func TestGetNote_NotFoundWithDetails(t *testing.T) {
	// Arrange
	mockService := &mockNoteService{
		getFunc: func(ctx context.Context, ownerID, id string) (model.Note, error) {
			return model.Note{}, model.ErrNoteNotFound
		},
	}
	handler := NewHandler(mockService, nil, nil)

	// Act
	_, err := handler.GetNote(authed("u1"), &notesv1.GetNoteRequest{Id: "missing"})

	// Assert
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))

	info := errorInfo(t, err)
	assert.Equal(t, ReasonNoteNotFound, info.Reason)
	assert.Equal(t, "missing", info.Metadata["note_id"])
}

func TestCreateNote_PassesOwnerFromToken(t *testing.T) {
	now := time.Now()
	var gotOwner string
	mockService := &mockNoteService{
		createFunc: func(ctx context.Context, ownerID, title, text string) (model.Note, error) {
			gotOwner = ownerID
			return model.Note{ID: "n1", OwnerID: ownerID, Text: text, CreatedAt: now, UpdatedAt: now}, nil
		},
	}
	handler := NewHandler(mockService, nil, nil)

	resp, err := handler.CreateNote(authed("u1"), &notesv1.CreateNoteRequest{Text: "Buy milk"})
	require.NoError(t, err)

	assert.Equal(t, "u1", gotOwner)
	assert.Equal(t, "n1", resp.Note.Id)
	assert.Equal(t, "Buy milk", resp.Note.Text)
}

func TestCreateNote_ValidationError(t *testing.T) {
	mockService := &mockNoteService{
		createFunc: func(ctx context.Context, ownerID, title, text string) (model.Note, error) {
			return model.Note{}, model.ErrEmptyText
		},
	}
	handler := NewHandler(mockService, nil, nil)

	_, err := handler.CreateNote(authed("u1"), &notesv1.CreateNoteRequest{Text: ""})

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, ReasonValidation, errorInfo(t, err).Reason)
}

func TestHandler_RequiresPrincipal(t *testing.T) {
	handler := NewHandler(&mockNoteService{}, nil, nil)

	_, err := handler.ListNotes(context.Background(), &notesv1.ListNotesRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestListNotes_InternalErrorHidesCause(t *testing.T) {
	mockService := &mockNoteService{
		listFunc: func(ctx context.Context, ownerID string) ([]model.Note, error) {
			return nil, errors.New("db password is hunter2")
		},
	}
	handler := NewHandler(mockService, nil, nil)

	_, err := handler.ListNotes(authed("u1"), &notesv1.ListNotesRequest{})

	st := status.Convert(err)
	assert.Equal(t, codes.Internal, st.Code())
	assert.NotContains(t, st.Message(), "hunter2")
}

func TestUpdateNote_MapsPatch(t *testing.T) {
	var gotPatch model.NotePatch
	mockService := &mockNoteService{
		updateFunc: func(ctx context.Context, ownerID, id string, patch model.NotePatch) (model.Note, error) {
			gotPatch = patch
			return patch.Apply(model.Note{ID: id, OwnerID: ownerID, Title: "t", Text: "old"}), nil
		},
	}
	handler := NewHandler(mockService, nil, nil)

	text := "new"
	resp, err := handler.UpdateNote(authed("u1"), &notesv1.UpdateNoteRequest{Id: "n1", Text: &text})
	require.NoError(t, err)

	assert.Nil(t, gotPatch.Title)
	require.NotNil(t, gotPatch.Text)
	assert.Equal(t, "new", resp.Note.Text)
	assert.Equal(t, "t", resp.Note.Title)
}

func TestDeleteNote(t *testing.T) {
	deleted := ""
	mockService := &mockNoteService{
		deleteFunc: func(ctx context.Context, ownerID, id string) error {
			deleted = id
			return nil
		},
	}
	handler := NewHandler(mockService, nil, nil)

	_, err := handler.DeleteNote(authed("u1"), &notesv1.DeleteNoteRequest{Id: "n1"})
	require.NoError(t, err)
	assert.Equal(t, "n1", deleted)
}
