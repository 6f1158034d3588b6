package model

import "time"

// Session - результат успешного входа: пользователь и выданный ему токен
type Session struct {
	User      User
	Token     string
	ExpiresAt time.Time
}
