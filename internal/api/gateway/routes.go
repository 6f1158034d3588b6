package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/sirupsen/logrus"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	notesv1 "notes-app/pkg/api/notes/v1"
)

type routes struct {
	mux   *runtime.ServeMux
	notes notesv1.NotesServiceClient
	auth  notesv1.AuthServiceClient
}

func (rt *routes) registerRoutes() error {
	table := []struct {
		method  string
		pattern string
		rpc     string
		fn      func(ctx context.Context, r *http.Request, params map[string]string) (any, error)
	}{
		{http.MethodPost, "/v1/auth/register", notesv1.AuthService_Register_FullMethodName, rt.registerUser},
		{http.MethodPost, "/v1/auth/login", notesv1.AuthService_Login_FullMethodName, rt.login},
		{http.MethodGet, "/v1/auth/me", notesv1.AuthService_CurrentUser_FullMethodName, rt.currentUser},
		{http.MethodPost, "/v1/auth/logout", notesv1.AuthService_Logout_FullMethodName, rt.logout},
		{http.MethodGet, "/v1/notes", notesv1.NotesService_ListNotes_FullMethodName, rt.listNotes},
		{http.MethodPost, "/v1/notes", notesv1.NotesService_CreateNote_FullMethodName, rt.createNote},
		{http.MethodGet, "/v1/notes/{id}", notesv1.NotesService_GetNote_FullMethodName, rt.getNote},
		{http.MethodPatch, "/v1/notes/{id}", notesv1.NotesService_UpdateNote_FullMethodName, rt.updateNote},
		{http.MethodDelete, "/v1/notes/{id}", notesv1.NotesService_DeleteNote_FullMethodName, rt.deleteNote},
		{http.MethodGet, "/v1/notes/{id}/text", notesv1.NotesService_GetNote_FullMethodName, rt.noteText},
	}

	for _, e := range table {
		if err := rt.mux.HandlePath(e.method, e.pattern, rt.unary(e.rpc, e.pattern, e.fn)); err != nil {
			return err
		}
	}

	return rt.mux.HandlePath(http.MethodGet, "/v1/events/notes", rt.watchNotes)
}

// unary оборачивает вызов gRPC метода: метаданные запроса, ответ и ошибка через marshaler мультиплексора
func (rt *routes) unary(rpc, pattern string, fn func(ctx context.Context, r *http.Request, params map[string]string) (any, error)) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		_, outbound := runtime.MarshalerForRequest(rt.mux, r)

		ctx, err := runtime.AnnotateContext(r.Context(), rt.mux, r, rpc, runtime.WithHTTPPathPattern(pattern))
		if err != nil {
			runtime.HTTPError(r.Context(), rt.mux, outbound, w, r, err)
			return
		}

		resp, err := fn(ctx, r, params)
		if err != nil {
			runtime.HTTPError(ctx, rt.mux, outbound, w, r, err)
			return
		}

		body, err := outbound.Marshal(resp)
		if err != nil {
			runtime.HTTPError(ctx, rt.mux, outbound, w, r, err)
			return
		}
		w.Header().Set("Content-Type", outbound.ContentType(resp))
		if _, err := w.Write(body); err != nil {
			logrus.WithError(err).Debug("failed to write gateway response")
		}
	}
}

// decode читает тело запроса через inbound marshaler
func (rt *routes) decode(r *http.Request, v any) error {
	inbound, _ := runtime.MarshalerForRequest(rt.mux, r)
	if err := inbound.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return status.Errorf(codes.InvalidArgument, "invalid request body: %v", err)
	}
	return nil
}

func (rt *routes) registerUser(ctx context.Context, r *http.Request, _ map[string]string) (any, error) {
	var req notesv1.RegisterRequest
	if err := rt.decode(r, &req); err != nil {
		return nil, err
	}
	return rt.auth.Register(ctx, &req)
}

func (rt *routes) login(ctx context.Context, r *http.Request, _ map[string]string) (any, error) {
	var req notesv1.LoginRequest
	if err := rt.decode(r, &req); err != nil {
		return nil, err
	}
	return rt.auth.Login(ctx, &req)
}

func (rt *routes) currentUser(ctx context.Context, _ *http.Request, _ map[string]string) (any, error) {
	return rt.auth.CurrentUser(ctx, &notesv1.CurrentUserRequest{})
}

func (rt *routes) logout(ctx context.Context, _ *http.Request, _ map[string]string) (any, error) {
	return rt.auth.Logout(ctx, &notesv1.LogoutRequest{})
}

func (rt *routes) listNotes(ctx context.Context, _ *http.Request, _ map[string]string) (any, error) {
	return rt.notes.ListNotes(ctx, &notesv1.ListNotesRequest{})
}

func (rt *routes) createNote(ctx context.Context, r *http.Request, _ map[string]string) (any, error) {
	var req notesv1.CreateNoteRequest
	if err := rt.decode(r, &req); err != nil {
		return nil, err
	}
	return rt.notes.CreateNote(ctx, &req)
}

func (rt *routes) getNote(ctx context.Context, _ *http.Request, params map[string]string) (any, error) {
	return rt.notes.GetNote(ctx, &notesv1.GetNoteRequest{Id: params["id"]})
}

func (rt *routes) updateNote(ctx context.Context, r *http.Request, params map[string]string) (any, error) {
	var req notesv1.UpdateNoteRequest
	if err := rt.decode(r, &req); err != nil {
		return nil, err
	}
	// id из пути главнее тела
	req.Id = params["id"]
	return rt.notes.UpdateNote(ctx, &req)
}

// noteText отдает текст заметки как text/plain
func (rt *routes) noteText(ctx context.Context, _ *http.Request, params map[string]string) (any, error) {
	resp, err := rt.notes.GetNote(ctx, &notesv1.GetNoteRequest{Id: params["id"]})
	if err != nil {
		return nil, err
	}
	return &httpbody.HttpBody{ContentType: "text/plain; charset=utf-8", Data: []byte(resp.Note.Text)}, nil
}

func (rt *routes) deleteNote(ctx context.Context, _ *http.Request, params map[string]string) (any, error) {
	return rt.notes.DeleteNote(ctx, &notesv1.DeleteNoteRequest{Id: params["id"]})
}

// streamChunk строка NDJSON потока, в формате grpc-gateway
type streamChunk struct {
	Result *notesv1.NoteEvent `json:"result,omitempty"`
	Error  *streamError       `json:"error,omitempty"`
}

type streamError struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// watchNotes отдает события заметок построчно (NDJSON) до закрытия стрима
func (rt *routes) watchNotes(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	_, outbound := runtime.MarshalerForRequest(rt.mux, r)

	ctx, err := runtime.AnnotateContext(r.Context(), rt.mux, r, notesv1.NotesService_WatchNotes_FullMethodName, runtime.WithHTTPPathPattern("/v1/events/notes"))
	if err != nil {
		runtime.HTTPError(r.Context(), rt.mux, outbound, w, r, err)
		return
	}

	stream, err := rt.notes.WatchNotes(ctx, &notesv1.WatchNotesRequest{})
	if err != nil {
		runtime.HTTPError(ctx, rt.mux, outbound, w, r, err)
		return
	}

	// Первое сообщение ждем до записи заголовков, чтобы Unauthenticated ушел обычной ошибкой
	event, err := stream.Recv()
	if err != nil && !errors.Is(err, io.EOF) {
		runtime.HTTPError(ctx, rt.mux, outbound, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	for {
		if errors.Is(err, io.EOF) {
			return
		}
		chunk := streamChunk{Result: event}
		if err != nil {
			st := status.Convert(err)
			if st.Code() == codes.Canceled {
				return
			}
			chunk = streamChunk{Error: &streamError{Code: int32(st.Code()), Message: st.Message()}}
		}

		line, mErr := outbound.Marshal(chunk)
		if mErr != nil {
			logrus.WithError(mErr).Error("failed to marshal stream chunk")
			return
		}
		if _, wErr := w.Write(append(line, '\n')); wErr != nil {
			logrus.WithError(wErr).Debug("event stream client went away")
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		if chunk.Error != nil {
			return
		}

		event, err = stream.Recv()
	}
}
