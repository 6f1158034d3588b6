// Package session хранит сессию аутентифицированного пользователя на стороне клиента.
package session

import (
	"sync"
	"time"
)

// Session сессия пользователя. Пустой OwnerID означает отсутствие сессии.
type Session struct {
	OwnerID   string    `json:"owner_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// IsAuthenticated true, если есть владелец и сессия не истекла
func (s Session) IsAuthenticated() bool {
	return s.IsAuthenticatedAt(time.Now())
}

// IsAuthenticatedAt то же относительно момента now
func (s Session) IsAuthenticatedAt(now time.Time) bool {
	if s.OwnerID == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// Provider источник текущей сессии; ядро только читает ее
type Provider interface {
	Current() Session
}

// Holder потокобезопасный держатель сессии с уведомлением о смене владельца
type Holder struct {
	mu        sync.RWMutex
	current   Session
	listeners []func(Session)
}

// NewHolder создает держатель с начальной сессией
func NewHolder(initial Session) *Holder {
	return &Holder{current: initial}
}

// Current возвращает копию текущей сессии
func (h *Holder) Current() Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Set заменяет сессию. Слушатели вызываются, только если сменился владелец.
func (h *Holder) Set(s Session) {
	h.mu.Lock()
	changed := h.current.OwnerID != s.OwnerID
	h.current = s
	listeners := append([]func(Session){}, h.listeners...)
	h.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(s)
	}
}

// Clear сбрасывает сессию (logout)
func (h *Holder) Clear() {
	h.Set(Session{})
}

// OnOwnerChange регистрирует слушателя смены владельца
func (h *Holder) OnOwnerChange(fn func(Session)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}
