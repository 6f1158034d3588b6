package model

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists возвращается при регистрации уже занятого email
	ErrUserExists = errors.New("user already exists")
)

// User представляет учетную запись владельца заметок
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
