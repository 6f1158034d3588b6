package grpc

import (
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"notes-app/internal/api/grpc/interceptors"
	notesv1 "notes-app/pkg/api/notes/v1"
)

// NewServer создает и настраивает gRPC сервер с интерцепторами.
// Порядок интерцепторов: Logger → Validate → Auth.
func NewServer(handler notesv1.NotesServiceServer, authHandler notesv1.AuthServiceServer, verifier interceptors.TokenVerifier) *grpc.Server {
	grpcServer := grpc.NewServer(
		// Ограничиваем количество одновременных стримов
		grpc.MaxConcurrentStreams(25),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     30 * time.Minute,
			MaxConnectionAge:      1 * time.Hour,
			MaxConnectionAgeGrace: 5 * time.Second,
			Time:                  10 * time.Minute,
			Timeout:               20 * time.Second,
		}),
		grpc.ChainUnaryInterceptor(
			interceptors.LoggerUnaryInterceptor,
			interceptors.ValidateUnaryInterceptor,
			interceptors.AuthUnaryInterceptor(verifier),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamInterceptor,
			interceptors.AuthStreamInterceptor(verifier),
		),
	)

	notesv1.RegisterNotesServiceServer(grpcServer, handler)
	notesv1.RegisterAuthServiceServer(grpcServer, authHandler)
	logrus.Info("registered NotesService and AuthService")

	return grpcServer
}
