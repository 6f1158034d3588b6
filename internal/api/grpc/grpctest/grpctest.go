// Package grpctest поднимает полный gRPC сервер заметок в памяти процесса для тестов.
package grpctest

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	grpcapi "notes-app/internal/api/grpc"
	"notes-app/internal/repository/memory"
	svc "notes-app/internal/service"
	"notes-app/internal/service/auth"
	"notes-app/internal/service/notes"
)

const bufSize = 1024 * 1024

// Env сервер и клиентское соединение к нему
type Env struct {
	Conn   *grpc.ClientConn
	Notes  svc.NoteService
	Auth   svc.AuthService
	Tokens *auth.TokenManager
	Events *notes.EventService
}

// Start запускает сервер на bufconn; все ресурсы освобождаются в t.Cleanup.
// opts добавляются к параметрам клиентского соединения.
func Start(t testing.TB, opts ...grpc.DialOption) *Env {
	t.Helper()
	logrus.SetLevel(logrus.WarnLevel)

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}

	events := notes.NewEventService()
	noteSvc := notes.NewNoteService(memory.NewRepository(), events)
	authSvc := auth.NewAuthService(memory.NewUserRepository(), tokens)

	serverCtx, cancel := context.WithCancel(context.Background())
	srv := grpcapi.NewServer(grpcapi.NewHandler(noteSvc, events, serverCtx), grpcapi.NewAuthHandler(authSvc), tokens)

	lis := bufconn.Listen(bufSize)
	go func() {
		_ = srv.Serve(lis)
	}()

	dialOpts := append([]grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)
	conn, err := grpc.NewClient("passthrough:///bufnet", dialOpts...)
	if err != nil {
		t.Fatalf("dial bufnet: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		srv.Stop()
	})

	return &Env{Conn: conn, Notes: noteSvc, Auth: authSvc, Tokens: tokens, Events: events}
}
