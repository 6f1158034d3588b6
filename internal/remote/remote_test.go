package remote

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"notes-app/internal/model"
)

func TestError_MessageOnly(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:50051: connection refused")
	err := fmt.Errorf("list: %w", &Error{Op: "list", Code: CodeUnavailable, Message: "network error", Err: cause})

	var re *Error
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, "network error", re.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeUnavailable, CodeOf(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, CodeUnknown, CodeOf(cause))
}

func TestNormalize(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	n := Normalize(model.Note{ID: " n1 ", Title: " t ", Text: "x", CreatedAt: created})
	assert.Equal(t, "n1", n.ID)
	assert.Equal(t, "t", n.Title)
	assert.Equal(t, created, n.UpdatedAt)

	n = Normalize(model.Note{ID: "n1", CreatedAt: created, UpdatedAt: created.Add(-time.Hour)})
	assert.Equal(t, created, n.UpdatedAt)
}

func TestNormalizeAll_DropsBlankIDs(t *testing.T) {
	got := NormalizeAll([]model.Note{{ID: "n1"}, {ID: " "}, {ID: "n2"}})

	assert.Len(t, got, 2)
	assert.Equal(t, "n1", got[0].ID)
	assert.Equal(t, "n2", got[1].ID)
}
