package notes

import (
	"sync"

	"notes-app/internal/model"
)

// EventType тип изменения заметки
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// NoteEvent событие об изменении заметки.
// Для EventDeleted в Note заполнены только ID и OwnerID.
type NoteEvent struct {
	Type EventType
	Note model.Note
}

type subscriber struct {
	ch      chan NoteEvent
	ownerID string
}

// EventService управляет подписчиками на события изменения заметок
type EventService struct {
	subscribers map[<-chan NoteEvent]subscriber
	mu          sync.RWMutex
}

// NewEventService создает новый экземпляр EventService
func NewEventService() *EventService {
	return &EventService{
		subscribers: make(map[<-chan NoteEvent]subscriber),
	}
}

// Subscribe добавляет подписчика на события владельца ownerID
func (s *EventService) Subscribe(ownerID string) <-chan NoteEvent {
	ch := make(chan NoteEvent, 10) // Буферизованный канал для защиты от backpressure
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[ch] = subscriber{ch: ch, ownerID: ownerID}
	return ch
}

// Unsubscribe удаляет подписчика и закрывает его канал
func (s *EventService) Unsubscribe(ch <-chan NoteEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subscribers[ch]; ok {
		close(sub.ch)
		delete(s.subscribers, ch)
	}
}

// Publish отправляет событие подписчикам владельца заметки.
// Если канал подписчика переполнен, событие пропускается.
func (s *EventService) Publish(event NoteEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subscribers {
		if sub.ownerID != event.Note.OwnerID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}
