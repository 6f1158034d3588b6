package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"notes-app/internal/model"
	"notes-app/internal/repository"
)

var (
	bucketNotes        = []byte("notes")
	bucketUsers        = []byte("users")
	bucketUsersByEmail = []byte("users_by_email")
)

// Repository хранит заметки и пользователей в одном файле bbolt
type Repository struct {
	db    *bolt.DB
	notes *noteStore
	users *userStore
}

// NewRepository открывает (или создает) файл базы и готовит бакеты
func NewRepository(path string) (*Repository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("repository db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{
		db:    db,
		notes: &noteStore{db: db, now: model.Now},
		users: &userStore{db: db},
	}, nil
}

// Notes возвращает хранилище заметок
func (r *Repository) Notes() repository.NoteRepository {
	return r.notes
}

// Users возвращает хранилище пользователей
func (r *Repository) Users() repository.UserRepository {
	return r.users
}

// Close закрывает файл базы
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func initSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketNotes, bucketUsers, bucketUsersByEmail} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
}

// noteRecord - формат хранения заметки на диске
type noteRecord struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toNoteRecord(n model.Note) noteRecord {
	return noteRecord{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		Title:     n.Title,
		Text:      n.Text,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (r noteRecord) toModel() model.Note {
	return model.Note{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Title:     r.Title,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

var _ repository.NoteRepository = (*noteStore)(nil)

type noteStore struct {
	db  *bolt.DB
	now func() time.Time
}

func (s *noteStore) Create(ctx context.Context, note model.Note) (model.Note, error) {
	note.ID = uuid.New().String()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = s.now()
	}
	// возвращаем ровно то, что прочитается из базы
	note.CreatedAt = note.CreatedAt.UTC().Round(0)
	note.UpdatedAt = note.CreatedAt

	err := s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketNotes), note.ID, toNoteRecord(note))
	})
	if err != nil {
		return model.Note{}, err
	}
	return note, nil
}

func (s *noteStore) GetByID(ctx context.Context, id string) (model.Note, error) {
	var out model.Note
	err := s.db.View(func(tx *bolt.Tx) error {
		rec, err := getNote(tx, id)
		if err != nil {
			return err
		}
		out = rec.toModel()
		return nil
	})
	return out, err
}

func (s *noteStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	out := make([]model.Note, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNotes).ForEach(func(_, v []byte) error {
			var rec noteRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.OwnerID == ownerID {
				out = append(out, rec.toModel())
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	repository.SortNewestFirst(out)
	return out, nil
}

func (s *noteStore) Update(ctx context.Context, note model.Note) (model.Note, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		existing, err := getNote(tx, note.ID)
		if err != nil {
			return err
		}
		note.OwnerID = existing.OwnerID
		note.CreatedAt = existing.CreatedAt
		note.UpdatedAt = s.now()
		if note.UpdatedAt.Before(note.CreatedAt) {
			note.UpdatedAt = note.CreatedAt
		}
		return putJSON(tx.Bucket(bucketNotes), note.ID, toNoteRecord(note))
	})
	if err != nil {
		return model.Note{}, err
	}
	return note, nil
}

func (s *noteStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b.Get([]byte(id)) == nil {
			return model.ErrNoteNotFound
		}
		return b.Delete([]byte(id))
	})
}

func getNote(tx *bolt.Tx, id string) (noteRecord, error) {
	var rec noteRecord
	data := tx.Bucket(bucketNotes).Get([]byte(id))
	if data == nil {
		return rec, model.ErrNoteNotFound
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

var _ repository.UserRepository = (*userStore)(nil)

type userStore struct {
	db *bolt.DB
}

func (s *userStore) Create(ctx context.Context, user model.User) (model.User, error) {
	user.Email = strings.ToLower(user.Email)
	user.ID = uuid.New().String()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = model.Now()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		index := tx.Bucket(bucketUsersByEmail)
		if index.Get([]byte(user.Email)) != nil {
			return model.ErrUserExists
		}
		if err := index.Put([]byte(user.Email), []byte(user.ID)); err != nil {
			return err
		}
		return putJSON(tx.Bucket(bucketUsers), user.ID, userRecord(user))
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *userStore) GetByID(ctx context.Context, id string) (model.User, error) {
	var out model.User
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		out, err = getUser(tx, id)
		return err
	})
	return out, err
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var out model.User
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketUsersByEmail).Get([]byte(strings.ToLower(email)))
		if id == nil {
			return model.ErrUserNotFound
		}
		var err error
		out, err = getUser(tx, string(id))
		return err
	})
	return out, err
}

func getUser(tx *bolt.Tx, id string) (model.User, error) {
	data := tx.Bucket(bucketUsers).Get([]byte(id))
	if data == nil {
		return model.User{}, model.ErrUserNotFound
	}
	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.User{}, err
	}
	return model.User(rec), nil
}

func putJSON(b *bolt.Bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), data)
}
