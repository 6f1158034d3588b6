package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"notes-app/internal/api/gateway"
	grpcapi "notes-app/internal/api/grpc"
	"notes-app/internal/config"
	"notes-app/internal/service/auth"
	notesService "notes-app/internal/service/notes"
)

// Server представляет сервер приложения с gRPC и HTTP Gateway
type Server struct {
	HTTPAddr      string
	GatewayCtx    context.Context
	GatewayCancel context.CancelFunc

	GRPCServer *grpc.Server
	GRPCAddr   string
	Listener   net.Listener

	// Контекст сервера для graceful shutdown стримов
	// Этот контекст отменяется при shutdown для корректного завершения стримов
	Ctx    context.Context
	Cancel context.CancelFunc

	Config *config.Config

	storage *Storage
}

// NewServer создает сервер и занимает порт gRPC
func NewServer(cfg *config.Config) (*Server, error) {
	cfg.FillDefaults()

	grpcPort := cfg.Server.PortGRPC
	httpPort := cfg.Server.PortHTTP
	if grpcPort == 0 {
		grpcPort = 50051
		logrus.Warn("port_grpc is 0, using default 50051")
	}
	if httpPort == 0 {
		httpPort = 8080
		logrus.Warn("port_http is 0, using default 8080")
	}

	grpcAddr := "0.0.0.0:" + strconv.Itoa(grpcPort)
	httpAddr := "0.0.0.0:" + strconv.Itoa(httpPort)

	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}

	// В отличие от unary методов, стримы должны явно слушать этот контекст
	serverCtx, serverCancel := context.WithCancel(context.Background())
	gatewayCtx, gatewayCancel := context.WithCancel(context.Background())

	return &Server{
		HTTPAddr:      httpAddr,
		GatewayCtx:    gatewayCtx,
		GatewayCancel: gatewayCancel,
		GRPCAddr:      grpcAddr,
		Listener:      listener,
		Ctx:           serverCtx,
		Cancel:        serverCancel,
		Config:        cfg,
	}, nil
}

// Initialize инициализирует компоненты сервера (Repository → Service → Handler)
func (s *Server) Initialize() error {
	storage, err := OpenStorage(s.Config.Storage)
	if err != nil {
		return err
	}
	s.storage = storage

	tokens, err := newTokenManager(s.Config.Auth)
	if err != nil {
		return err
	}

	events := notesService.NewEventService()
	noteSvc := notesService.NewNoteService(storage.Notes, events)
	authSvc := auth.NewAuthService(storage.Users, tokens)
	logrus.Info("initialized note and auth services")

	s.GRPCServer = grpcapi.NewServer(
		grpcapi.NewHandler(noteSvc, events, s.Ctx),
		grpcapi.NewAuthHandler(authSvc),
		tokens,
	)
	return nil
}

// Start запускает gRPC и HTTP Gateway серверы в горутинах
// Возвращает канал ошибок для отслеживания ошибок серверов
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 2)

	go func() {
		logrus.WithField("addr", s.GRPCAddr).Info("gRPC server listening")
		if err := s.GRPCServer.Serve(s.Listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	grpcAddr := dialAddr(s.Listener.Addr().String())
	go func() {
		if err := gateway.Setup(s.GatewayCtx, grpcAddr, s.HTTPAddr, s.Config.Gateway, s.Config.Server); err != nil {
			errChan <- fmt.Errorf("HTTP Gateway error: %w", err)
		}
	}()

	return errChan
}

// Shutdown выполняет graceful shutdown сервера
func (s *Server) Shutdown() error {
	logrus.Info("starting graceful shutdown")

	// Отменяем контекст сервера ПЕРЕД GracefulStop(), иначе стримы его не дождутся
	s.Cancel()
	s.GatewayCancel()

	defer func() {
		if s.storage != nil {
			if err := s.storage.Close(); err != nil {
				logrus.WithError(err).Error("failed to close storage")
			}
		}
	}()

	shutdownTimeout := time.Duration(s.Config.Server.GracefulShutdownTimeout) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.GRPCServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		logrus.Info("gRPC server stopped gracefully")
		return nil
	case <-ctx.Done():
		logrus.Warn("graceful shutdown timeout, forcing stop")
		s.GRPCServer.Stop()
		return ctx.Err()
	}
}

// newTokenManager без секрета в конфиге генерирует случайный; токены живут до рестарта
func newTokenManager(cfg *config.ConfigAuth) (*auth.TokenManager, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		logrus.Warn("auth.jwt_secret is empty, using a random secret; sessions will not survive a restart")
	}
	return auth.NewTokenManager(secret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
}

// dialAddr превращает адрес прослушивания в адрес для подключения
func dialAddr(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return listenAddr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
