package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/tmc/grpc-websocket-proxy/wsproxy"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"notes-app/internal/api/http/middleware"
	"notes-app/internal/config"
	notesv1 "notes-app/pkg/api/notes/v1"
)

// Setup поднимает HTTP Gateway и блокируется до отмены ctx
func Setup(ctx context.Context, grpcAddr string, httpAddr string, cfg *config.ConfigGateway, srvCfg *config.ConfigServer) error {
	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to dial gRPC server %s: %w", grpcAddr, err)
	}
	defer conn.Close()

	handler, err := NewHandler(notesv1.NewNotesServiceClient(conn), notesv1.NewAuthServiceClient(conn), cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadTimeout:       time.Duration(srvCfg.HTTPReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(srvCfg.HTTPReadHeaderTimeout) * time.Second,
		IdleTimeout:       time.Duration(srvCfg.HTTPIdleTimeout) * time.Second,
		// WriteTimeout не задаем: /v1/events/notes держит соединение открытым
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(srvCfg.GracefulShutdownTimeout)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("HTTP gateway shutdown")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr": httpAddr,
		"cors": cfg.CORSAllowedOrigins,
	}).Info("HTTP gateway listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewHandler собирает REST маршруты поверх gRPC клиентов и оборачивает их middleware.
// Порядок выполнения: WebSocket Proxy → CORS → Logging → Rate Limiting → маршруты.
func NewHandler(notes notesv1.NotesServiceClient, auth notesv1.AuthServiceClient, cfg *config.ConfigGateway) (http.Handler, error) {
	gwMux := runtime.NewServeMux()

	r := &routes{mux: gwMux, notes: notes, auth: auth}
	if err := r.registerRoutes(); err != nil {
		return nil, fmt.Errorf("failed to register gateway routes: %w", err)
	}

	var handler http.Handler = gwMux
	handler = middleware.RateLimit(handler, cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler = middleware.Logging(handler)
	handler = setupCORS(cfg).Handler(handler)
	// WebSocket proxy самый внешний, чтобы корректно обрабатывать upgrade
	handler = wsproxy.WebsocketProxy(handler, wsproxy.WithLogger(logrus.StandardLogger()))

	return handler, nil
}

// setupCORS настраивает CORS middleware используя конфигурацию
func setupCORS(cfg *config.ConfigGateway) *cors.Cors {
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	maxAge := cfg.CORSMaxAge
	if maxAge == 0 {
		maxAge = 86400 // 24 часа по умолчанию
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Requested-With",
		},
		AllowCredentials: true,
		MaxAge:           maxAge,
	})
}
