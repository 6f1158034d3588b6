package notelist

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Ticket выдается при старте операции. Результат применяется, только если
// за время операции список не был сброшен или закрыт.
type Ticket struct {
	generation uint64
	owner      string
}

// Owner владелец, для которого была начата операция
func (t Ticket) Owner() string {
	return t.owner
}

// Store наблюдаемое состояние списка одного владельца
type Store struct {
	mu         sync.Mutex
	state      State
	owner      string
	pending    int
	generation uint64
	closed     bool

	subscribers map[<-chan State]chan State // читающий конец -> пишущий
	log         logrus.FieldLogger
}

// NewStore создает пустой список владельца owner
func NewStore(owner string, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		owner:       owner,
		subscribers: make(map[<-chan State]chan State),
		log:         log,
	}
}

// Snapshot текущее состояние; IsLoading истинно, пока есть незавершенные операции
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Owner текущий владелец списка
func (s *Store) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

// Begin отмечает начало операции. false, если список закрыт.
func (s *Store) Begin() (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Ticket{}, false
	}
	s.pending++
	s.publishLocked()
	return Ticket{generation: s.generation, owner: s.owner}, true
}

// Commit применяет результат операции. Результат устаревшего билета
// отбрасывается целиком, возвращается false.
func (s *Store) Commit(t Ticket, o Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || t.generation != s.generation {
		s.log.WithFields(logrus.Fields{"op": o.Op, "owner_id": t.owner}).Debug("discarding result of stale operation")
		return false
	}

	s.pending--
	s.state = Reconcile(s.state, s.owner, o, s.log)
	s.publishLocked()
	return true
}

// Reset отбрасывает состояние и незавершенные операции при смене владельца или выходе
func (s *Store) Reset(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.resetLocked(owner)
}

func (s *Store) resetLocked(owner string) {
	s.generation++
	s.pending = 0
	s.owner = owner
	s.state = State{}
	s.publishLocked()
}

// EnsureOwner сбрасывает список, если его владелец не owner. true, если был сброс.
func (s *Store) EnsureOwner(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.owner == owner {
		return false
	}
	s.resetLocked(owner)
	return true
}

// Close закрывает список; поздние результаты больше не применяются
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.generation++
	s.pending = 0
	for key, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, key)
	}
}

// Subscribe возвращает канал снимков. Медленный подписчик получает только последний снимок.
func (s *Store) Subscribe() <-chan State {
	ch := make(chan State, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers[ch] = ch
	ch <- s.snapshotLocked()
	return ch
}

// Unsubscribe удаляет подписчика и закрывает его канал
func (s *Store) Unsubscribe(ch <-chan State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.subscribers[ch]; ok {
		close(w)
		delete(s.subscribers, ch)
	}
}

func (s *Store) snapshotLocked() State {
	st := s.state
	st.IsLoading = s.pending > 0
	return st
}

func (s *Store) publishLocked() {
	st := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- st:
		default:
			// Заменяем непрочитанный снимок свежим
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}
