package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"notes-app/internal/config"
	"notes-app/internal/logger"
	"notes-app/internal/server"
)

func main() {
	configFile := flag.String("config", "config.yml", "path to config file")
	flag.Parse()

	appConfig, err := config.Load(*configFile, false)
	if err != nil {
		logrus.Fatalf("error initializing config: %v", err)
	}
	logger.Init(appConfig.Logger)

	srv, err := server.NewServer(appConfig)
	if err != nil {
		logrus.Fatalf("failed to create server: %v", err)
	}
	if err := srv.Initialize(); err != nil {
		logrus.Fatalf("failed to initialize server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := srv.Start()

	select {
	case err := <-errChan:
		logrus.WithError(err).Error("server error")
	case sig := <-sigChan:
		logrus.WithField("signal", sig.String()).Info("received signal")
	}

	if err := srv.Shutdown(); err != nil {
		logrus.WithError(err).Error("shutdown finished with error")
	}
	logrus.Info("notes server stopped")
}
