package notesv1

import (
	"errors"
	"strings"
	"time"
)

// Note заметка в формате API
type Note struct {
	Id        string    `json:"id"`
	OwnerId   string    `json:"owner_id"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User публичные данные пользователя
type User struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type CreateNoteRequest struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// Validate проверяет запрос до вызова хэндлера
func (m *CreateNoteRequest) Validate() error {
	if strings.TrimSpace(m.Text) == "" {
		return errors.New("field Text cannot be empty")
	}
	return nil
}

type CreateNoteResponse struct {
	Note *Note `json:"note"`
}

type GetNoteRequest struct {
	Id string `json:"id"`
}

func (m *GetNoteRequest) Validate() error {
	return validateID(m.Id)
}

type GetNoteResponse struct {
	Note *Note `json:"note"`
}

type ListNotesRequest struct{}

type ListNotesResponse struct {
	Notes []*Note `json:"notes"`
}

// UpdateNoteRequest частичное обновление: nil поля не меняются
type UpdateNoteRequest struct {
	Id    string  `json:"id"`
	Title *string `json:"title,omitempty"`
	Text  *string `json:"text,omitempty"`
}

func (m *UpdateNoteRequest) Validate() error {
	if err := validateID(m.Id); err != nil {
		return err
	}
	if m.Title == nil && m.Text == nil {
		return errors.New("at least one of Title or Text must be set")
	}
	if m.Text != nil && strings.TrimSpace(*m.Text) == "" {
		return errors.New("field Text cannot be empty")
	}
	return nil
}

type UpdateNoteResponse struct {
	Note *Note `json:"note"`
}

type DeleteNoteRequest struct {
	Id string `json:"id"`
}

func (m *DeleteNoteRequest) Validate() error {
	return validateID(m.Id)
}

type DeleteNoteResponse struct{}

type WatchNotesRequest struct{}

// NoteEvent событие об изменении заметки владельца
type NoteEvent struct {
	Type string `json:"type"`
	Note *Note  `json:"note"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

func (m *RegisterRequest) Validate() error {
	if strings.TrimSpace(m.Email) == "" {
		return errors.New("field Email cannot be empty")
	}
	if m.Password == "" {
		return errors.New("field Password cannot be empty")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (m *LoginRequest) Validate() error {
	if strings.TrimSpace(m.Email) == "" {
		return errors.New("field Email cannot be empty")
	}
	if m.Password == "" {
		return errors.New("field Password cannot be empty")
	}
	return nil
}

// AuthResponse токен сессии и пользователь
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

type CurrentUserRequest struct{}

type CurrentUserResponse struct {
	User *User `json:"user"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("field Id cannot be empty")
	}
	return nil
}
