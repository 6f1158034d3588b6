package server

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"notes-app/internal/config"
	"notes-app/internal/repository"
	"notes-app/internal/repository/bolt"
	"notes-app/internal/repository/memory"
)

// Storage репозитории выбранного драйвера
type Storage struct {
	Notes  repository.NoteRepository
	Users  repository.UserRepository
	closer io.Closer
}

// Close освобождает файл базы, если он был открыт
func (s *Storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// OpenStorage создает репозитории по storage.driver
func OpenStorage(cfg *config.ConfigStorage) (*Storage, error) {
	switch cfg.Driver {
	case "", "memory":
		logrus.Info("using in-memory storage")
		return &Storage{
			Notes: memory.NewRepository(),
			Users: memory.NewUserRepository(),
		}, nil
	case "bolt":
		if cfg.Path == "" {
			return nil, fmt.Errorf("storage.path is required for driver %q", cfg.Driver)
		}
		repo, err := bolt.NewRepository(cfg.Path)
		if err != nil {
			return nil, err
		}
		logrus.WithField("path", cfg.Path).Info("using bbolt storage")
		return &Storage{Notes: repo.Notes(), Users: repo.Users(), closer: repo}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
