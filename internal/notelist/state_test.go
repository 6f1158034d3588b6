package notelist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"notes-app/internal/model"
)

var t0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func note(id, text string) model.Note {
	return model.Note{ID: id, OwnerID: "u1", Text: text, CreatedAt: t0, UpdatedAt: t0}
}

func ids(s State) []string {
	out := make([]string, 0, len(s.Notes))
	for _, n := range s.Notes {
		out = append(out, n.ID)
	}
	return out
}

func TestState_ReplaceAll(t *testing.T) {
	s := State{Notes: []model.Note{note("old", "x")}, LastError: "network error"}
	incoming := []model.Note{note("n2", "b"), note("n1", "a")}

	got := s.ReplaceAll(incoming)

	assert.Equal(t, []string{"n2", "n1"}, ids(got))
	assert.Empty(t, got.LastError)

	// Список не разделяет память с аргументом
	incoming[0].Text = "changed"
	assert.Equal(t, "b", got.Notes[0].Text)
}

func TestState_InsertFront(t *testing.T) {
	s := State{Notes: []model.Note{note("n1", "a")}}

	got, ok := s.InsertFront(note("n2", "b"))
	assert.True(t, ok)
	assert.Equal(t, []string{"n2", "n1"}, ids(got))

	// Вставка идет в начало независимо от createdAt
	older := note("n0", "z")
	older.CreatedAt = t0.Add(-time.Hour)
	got, ok = got.InsertFront(older)
	assert.True(t, ok)
	assert.Equal(t, []string{"n0", "n2", "n1"}, ids(got))

	// Исходный снимок не изменился
	assert.Equal(t, []string{"n1"}, ids(s))
}

func TestState_InsertFrontKeepsIDsUnique(t *testing.T) {
	s := State{}
	for i := 0; i < 3; i++ {
		s, _ = s.InsertFront(note("n1", "a"))
	}

	assert.Equal(t, []string{"n1"}, ids(s))
}

func TestState_ReplaceOne(t *testing.T) {
	s := State{Notes: []model.Note{note("n1", "old"), note("n2", "b"), note("n3", "c")}}

	got, ok := s.ReplaceOne("n2", note("n2", "new"))
	assert.True(t, ok)
	assert.Equal(t, []string{"n1", "n2", "n3"}, ids(got))
	assert.Equal(t, "new", got.Notes[1].Text)
	assert.Equal(t, "b", s.Notes[1].Text)

	same, ok := got.ReplaceOne("missing", note("missing", "x"))
	assert.False(t, ok)
	assert.Equal(t, got, same)
}

func TestState_RemoveOne(t *testing.T) {
	s := State{Notes: []model.Note{note("n1", "a"), note("n2", "b")}}

	got, ok := s.RemoveOne("n1")
	assert.True(t, ok)
	assert.Equal(t, []string{"n2"}, ids(got))
	assert.Equal(t, []string{"n1", "n2"}, ids(s))

	again, ok := got.RemoveOne("n1")
	assert.False(t, ok)
	assert.Equal(t, got, again)
}

func TestState_OperationsOnEmpty(t *testing.T) {
	var s State

	assert.NotPanics(t, func() {
		s, _ = s.RemoveOne("x")
		s, _ = s.ReplaceOne("x", note("x", "y"))
		s = s.ReplaceAll(nil)
	})
	assert.Empty(t, s.Notes)

	_, found := s.Find("x")
	assert.False(t, found)
}
