package memory

import (
	"context"
	"strings"
	"sync"

	"notes-app/internal/model"
	"notes-app/internal/repository"

	"github.com/google/uuid"
)

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct {
	mu      sync.RWMutex
	users   map[string]model.User
	byEmail map[string]string
}

// NewUserRepository создает in-memory хранилище пользователей
func NewUserRepository() repository.UserRepository {
	return &userRepo{
		users:   make(map[string]model.User),
		byEmail: make(map[string]string),
	}
}

func (r *userRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return model.User{}, model.ErrUserExists
	}

	user.ID = uuid.New().String()
	user.Email = email
	if user.CreatedAt.IsZero() {
		user.CreatedAt = model.Now()
	}

	r.users[user.ID] = user
	r.byEmail[email] = user.ID

	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return r.users[id], nil
}
