package repository

import (
	"sort"

	"notes-app/internal/model"
)

// SortNewestFirst упорядочивает заметки по дате создания, новые первыми.
// При равных датах порядок определяется ID, чтобы выдача была стабильной.
func SortNewestFirst(notes []model.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID > notes[j].ID
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
}
