package grpc

import (
	"context"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"notes-app/internal/api/grpc/interceptors"
	"notes-app/internal/converter"
	svc "notes-app/internal/service"
	"notes-app/internal/service/notes"
	notesv1 "notes-app/pkg/api/notes/v1"
)

// Handler реализует gRPC сервер для NotesService
type Handler struct {
	notesv1.UnimplementedNotesServiceServer

	noteService svc.NoteService
	events      *notes.EventService
	// serverCtx отменяется при shutdown, стримы должны его слушать
	serverCtx context.Context
}

// NewHandler создает новый экземпляр gRPC хэндлера
func NewHandler(noteService svc.NoteService, events *notes.EventService, serverCtx context.Context) *Handler {
	if serverCtx == nil {
		serverCtx = context.Background()
	}
	return &Handler{
		noteService: noteService,
		events:      events,
		serverCtx:   serverCtx,
	}
}

// CreateNote создает новую заметку
func (h *Handler) CreateNote(ctx context.Context, req *notesv1.CreateNoteRequest) (*notesv1.CreateNoteResponse, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	note, err := h.noteService.Create(ctx, ownerID, req.Title, req.Text)
	if err != nil {
		return nil, handleError(err, nil)
	}

	return &notesv1.CreateNoteResponse{Note: converter.ModelToAPI(note)}, nil
}

// GetNote возвращает заметку по её ID
func (h *Handler) GetNote(ctx context.Context, req *notesv1.GetNoteRequest) (*notesv1.GetNoteResponse, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	note, err := h.noteService.Get(ctx, ownerID, req.Id)
	if err != nil {
		return nil, handleError(err, map[string]string{"note_id": req.Id})
	}

	return &notesv1.GetNoteResponse{Note: converter.ModelToAPI(note)}, nil
}

// ListNotes возвращает заметки вызывающего
func (h *Handler) ListNotes(ctx context.Context, req *notesv1.ListNotesRequest) (*notesv1.ListNotesResponse, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := h.noteService.List(ctx, ownerID)
	if err != nil {
		return nil, handleError(err, nil)
	}

	return &notesv1.ListNotesResponse{Notes: converter.ModelsToAPIs(list)}, nil
}

// UpdateNote обновляет существующую заметку
func (h *Handler) UpdateNote(ctx context.Context, req *notesv1.UpdateNoteRequest) (*notesv1.UpdateNoteResponse, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	note, err := h.noteService.Update(ctx, ownerID, req.Id, converter.PatchFromAPI(req))
	if err != nil {
		return nil, handleError(err, map[string]string{"note_id": req.Id})
	}

	return &notesv1.UpdateNoteResponse{Note: converter.ModelToAPI(note)}, nil
}

// DeleteNote удаляет заметку
func (h *Handler) DeleteNote(ctx context.Context, req *notesv1.DeleteNoteRequest) (*notesv1.DeleteNoteResponse, error) {
	ownerID, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.noteService.Delete(ctx, ownerID, req.Id); err != nil {
		return nil, handleError(err, map[string]string{"note_id": req.Id})
	}

	return &notesv1.DeleteNoteResponse{}, nil
}

// WatchNotes отправляет события об изменениях заметок вызывающего,
// пока клиент не отключится или сервер не начнет shutdown
func (h *Handler) WatchNotes(req *notesv1.WatchNotesRequest, stream notesv1.NotesService_WatchNotesServer) error {
	ownerID, err := ownerFromContext(stream.Context())
	if err != nil {
		return err
	}
	if h.events == nil {
		return status.Errorf(codes.Unavailable, "events are disabled")
	}

	ch := h.events.Subscribe(ownerID)
	defer h.events.Unsubscribe(ch)

	logrus.WithField("owner_id", ownerID).Info("watch subscribed")

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case <-h.serverCtx.Done():
			return status.Errorf(codes.Unavailable, "server is shutting down")
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			err := stream.Send(&notesv1.NoteEvent{
				Type: string(event.Type),
				Note: converter.ModelToAPI(event.Note),
			})
			if err != nil {
				return err
			}
		}
	}
}

func ownerFromContext(ctx context.Context) (string, error) {
	p, ok := interceptors.PrincipalFromContext(ctx)
	if !ok || p.Claims.OwnerID == "" {
		return "", status.Errorf(codes.Unauthenticated, "not authenticated")
	}
	return p.Claims.OwnerID, nil
}
