package model

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNoteNotFound возвращается, когда заметка не найдена (или принадлежит другому владельцу)
	ErrNoteNotFound = errors.New("note not found")
	// ErrEmptyText возвращается при попытке сохранить заметку без текста
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrEmptyOwner возвращается, если у заметки нет владельца
	ErrEmptyOwner = errors.New("owner id cannot be empty")
)

// Now текущее время в UTC без монотонной части: в таком виде время
// переживает запись в хранилище и передачу по сети без изменений
func Now() time.Time {
	return time.Now().UTC().Round(0)
}

// Note представляет заметку (доменная модель)
type Note struct {
	ID        string    // Идентификатор, назначается хранилищем
	OwnerID   string    // Владелец заметки, не меняется после создания
	Title     string    // Необязательный заголовок
	Text      string    // Текст заметки
	CreatedAt time.Time // Дата создания
	UpdatedAt time.Time // Дата последнего обновления
}

// Validate проверяет валидность заметки
func (n *Note) Validate() error {
	if strings.TrimSpace(n.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(n.Text) == "" {
		return ErrEmptyText
	}
	if !n.UpdatedAt.IsZero() && n.UpdatedAt.Before(n.CreatedAt) {
		return errors.New("updated_at cannot be before created_at")
	}
	return nil
}

// IsEmpty проверяет, пуста ли заметка
func (n *Note) IsEmpty() bool {
	return n.ID == "" && n.Title == "" && n.Text == ""
}

// NotePatch описывает частичное обновление заметки.
// nil означает "поле не меняется".
type NotePatch struct {
	Title *string
	Text  *string
}

// IsEmpty возвращает true, если патч ничего не меняет
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Text == nil
}

// Apply применяет патч к заметке и возвращает результат.
// Текст и заголовок обрезаются по пробелам.
func (p NotePatch) Apply(n Note) Note {
	if p.Title != nil {
		n.Title = strings.TrimSpace(*p.Title)
	}
	if p.Text != nil {
		n.Text = strings.TrimSpace(*p.Text)
	}
	return n
}

// TextPatch - короткий способ собрать патч, меняющий только текст
func TextPatch(text string) NotePatch {
	return NotePatch{Text: &text}
}
