// Command client прогоняет gRPC API сервера заметок: успешный сценарий,
// ошибку с деталями и подписку на события.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"

	"notes-app/internal/remote/grpcstore"
	"notes-app/internal/session"
	notesv1 "notes-app/pkg/api/notes/v1"
)

const (
	defaultAddress  = "localhost:50051"
	defaultEmail    = "smoke@example.com"
	defaultPassword = "smoke-password"
)

func main() {
	address := envOr("SERVER_ADDRESS", defaultAddress)
	testType := os.Getenv("TEST_TYPE")
	if testType == "" && len(os.Args) > 1 {
		testType = os.Args[1]
	}

	holder := session.NewHolder(session.Session{})
	conn, err := grpcstore.Dial(address, holder)
	if err != nil {
		logrus.Fatalf("failed to create client: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := &smokeClient{
		notes:  notesv1.NewNotesServiceClient(conn),
		auth:   notesv1.NewAuthServiceClient(conn),
		holder: holder,
		out:    os.Stdout,
	}
	if err := c.signIn(ctx, envOr("CLIENT_EMAIL", defaultEmail), envOr("CLIENT_PASSWORD", defaultPassword)); err != nil {
		logrus.Fatalf("sign in: %v", err)
	}

	if err := c.run(ctx, testType); err != nil {
		logrus.Fatalf("%s: %v", testType, err)
	}
}

type smokeClient struct {
	notes  notesv1.NotesServiceClient
	auth   notesv1.AuthServiceClient
	holder *session.Holder
	out    io.Writer
}

func (c *smokeClient) run(ctx context.Context, testType string) error {
	switch testType {
	case "streaming", "stream":
		return c.testWatchNotes(ctx)
	case "error":
		return c.testErrorHandling(ctx)
	case "success", "":
		return c.testSuccessfulRequest(ctx)
	default:
		return fmt.Errorf("unknown test type %q, available: success, error, streaming", testType)
	}
}

// signIn входит под аккаунтом, создавая его при первом запуске
func (c *smokeClient) signIn(ctx context.Context, email, password string) error {
	resp, err := c.auth.Login(ctx, &notesv1.LoginRequest{Email: email, Password: password})
	if status.Code(err) == codes.Unauthenticated {
		resp, err = c.auth.Register(ctx, &notesv1.RegisterRequest{Email: email, Password: password, Name: "smoke"})
	}
	if err != nil {
		return err
	}
	c.holder.Set(session.Session{OwnerID: resp.User.Id, Email: resp.User.Email, Token: resp.Token, ExpiresAt: resp.ExpiresAt})
	fmt.Fprintf(c.out, "signed in as %s (%s)\n", resp.User.Email, resp.User.Id)
	return nil
}

// testSuccessfulRequest создает, читает, обновляет и удаляет заметку
func (c *smokeClient) testSuccessfulRequest(ctx context.Context) error {
	created, err := c.notes.CreateNote(ctx, &notesv1.CreateNoteRequest{Title: "Smoke", Text: "Buy milk"})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	id := created.Note.Id
	fmt.Fprintf(c.out, "created %s\n", id)

	got, err := c.notes.GetNote(ctx, &notesv1.GetNoteRequest{Id: id})
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	fmt.Fprintf(c.out, "got %s: %s\n", got.Note.Id, got.Note.Text)

	text := "Buy oat milk"
	updated, err := c.notes.UpdateNote(ctx, &notesv1.UpdateNoteRequest{Id: id, Text: &text})
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	fmt.Fprintf(c.out, "updated %s: %s\n", updated.Note.Id, updated.Note.Text)

	if _, err := c.notes.DeleteNote(ctx, &notesv1.DeleteNoteRequest{Id: id}); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	fmt.Fprintf(c.out, "deleted %s\n", id)
	return nil
}

// testErrorHandling запрашивает несуществующую заметку и печатает ErrorInfo
func (c *smokeClient) testErrorHandling(ctx context.Context) error {
	const missingID = "non-existent-id-12345"

	_, err := c.notes.GetNote(ctx, &notesv1.GetNoteRequest{Id: missingID})
	if err == nil {
		return errors.New("note found, expected NotFound")
	}

	st := status.Convert(err)
	fmt.Fprintf(c.out, "status: %s: %s\n", st.Code(), st.Message())
	if st.Code() != codes.NotFound {
		return fmt.Errorf("unexpected status code %s", st.Code())
	}

	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			fmt.Fprintf(c.out, "reason: %s\n", info.GetReason())
			fmt.Fprintf(c.out, "details: %s\n", protojson.Format(info))
		}
	}
	return nil
}

// testWatchNotes подписывается на события и создает заметку, чтобы получить одно из них
func (c *smokeClient) testWatchNotes(ctx context.Context) error {
	stream, err := c.notes.WatchNotes(ctx, &notesv1.WatchNotesRequest{})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	events := make(chan *notesv1.NoteEvent, 1)
	errs := make(chan error, 1)
	go func() {
		ev, err := stream.Recv()
		if err != nil {
			errs <- err
			return
		}
		events <- ev
	}()

	// Подписка регистрируется на сервере асинхронно, поэтому создаем заметки до первого события
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev := <-events:
			fmt.Fprintf(c.out, "event: %s %s\n", ev.Type, ev.Note.Id)
			return nil
		case err := <-errs:
			return fmt.Errorf("recv: %w", err)
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := c.notes.CreateNote(ctx, &notesv1.CreateNoteRequest{Text: "event probe"}, grpc.WaitForReady(true)); err != nil {
				return fmt.Errorf("create: %w", err)
			}
		}
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
