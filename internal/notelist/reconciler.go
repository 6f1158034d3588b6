package notelist

import (
	"errors"

	"github.com/sirupsen/logrus"

	"notes-app/internal/model"
	"notes-app/internal/remote"
)

// Op вид операции над списком
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Outcome результат удаленной операции
type Outcome struct {
	Op    Op
	ID    string       // целевая заметка для update и delete
	Notes []model.Note // результат list
	Note  model.Note   // результат create и update
	Err   error
}

// Reconcile переводит результат операции в новое состояние списка владельца owner.
// Ошибка не трогает заметки и только записывает сообщение в LastError.
// Успех любой операции сбрасывает LastError.
func Reconcile(s State, owner string, o Outcome, log logrus.FieldLogger) State {
	if o.Err != nil {
		s.LastError = ErrorMessage(o.Err)
		return s
	}

	fields := logrus.Fields{"op": o.Op, "owner_id": owner}

	switch o.Op {
	case OpList:
		return s.ReplaceAll(ownedBy(owner, o.Notes, log))

	case OpCreate:
		s.LastError = ""
		if !belongsTo(owner, o.Note) {
			log.WithFields(fields).WithField("note_owner_id", o.Note.OwnerID).Warn("created note belongs to another owner, skipping")
			return s
		}
		next, ok := s.InsertFront(o.Note)
		if !ok {
			log.WithFields(fields).WithField("note_id", o.Note.ID).Warn("note already in list, skipping insert")
		}
		return next

	case OpUpdate:
		s.LastError = ""
		next, ok := s.ReplaceOne(o.ID, o.Note)
		if !ok {
			log.WithFields(fields).WithField("note_id", o.ID).Debug("updated note is no longer in list")
		}
		return next

	case OpDelete:
		s.LastError = ""
		next, _ := s.RemoveOne(o.ID)
		return next
	}

	log.WithFields(fields).Error("unknown operation outcome")
	return s
}

// ErrorMessage возвращает читаемое сообщение ошибки без транспортных деталей
func ErrorMessage(err error) string {
	var re *remote.Error
	if errors.As(err, &re) {
		return re.Error()
	}
	return err.Error()
}

// belongsTo пустой OwnerID считается своим: не все хранилища его возвращают
func belongsTo(owner string, n model.Note) bool {
	return n.OwnerID == "" || n.OwnerID == owner
}

func ownedBy(owner string, notes []model.Note, log logrus.FieldLogger) []model.Note {
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if !belongsTo(owner, n) {
			log.WithFields(logrus.Fields{"note_id": n.ID, "note_owner_id": n.OwnerID}).Warn("dropping note of another owner")
			continue
		}
		out = append(out, n)
	}
	return out
}
