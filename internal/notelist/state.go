// Package notelist держит список заметок владельца в памяти и согласует его
// с удаленным хранилищем при асинхронных, возможно неудачных операциях.
package notelist

import "notes-app/internal/model"

// State снимок списка заметок. Notes не изменяется после публикации:
// каждая операция возвращает новый State с новым слайсом.
type State struct {
	Notes     []model.Note
	IsLoading bool
	LastError string
}

// Find возвращает заметку по id
func (s State) Find(id string) (model.Note, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Notes[i], true
	}
	return model.Note{}, false
}

// ReplaceAll заменяет список целиком в переданном порядке и сбрасывает ошибку
func (s State) ReplaceAll(notes []model.Note) State {
	s.Notes = append([]model.Note(nil), notes...)
	s.LastError = ""
	return s
}

// InsertFront добавляет заметку в начало. Если заметка с таким id уже есть,
// состояние не меняется и возвращается false.
func (s State) InsertFront(note model.Note) (State, bool) {
	if s.indexOf(note.ID) >= 0 {
		return s, false
	}
	notes := make([]model.Note, 0, len(s.Notes)+1)
	notes = append(notes, note)
	s.Notes = append(notes, s.Notes...)
	return s, true
}

// ReplaceOne заменяет заметку id на месте, сохраняя позицию.
// Отсутствующий id оставляет состояние без изменений.
func (s State) ReplaceOne(id string, note model.Note) (State, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return s, false
	}
	notes := append([]model.Note(nil), s.Notes...)
	notes[i] = note
	s.Notes = notes
	return s, true
}

// RemoveOne удаляет заметку id; отсутствующий id ничего не меняет
func (s State) RemoveOne(id string) (State, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return s, false
	}
	notes := make([]model.Note, 0, len(s.Notes)-1)
	notes = append(notes, s.Notes[:i]...)
	s.Notes = append(notes, s.Notes[i+1:]...)
	return s, true
}

func (s State) indexOf(id string) int {
	for i := range s.Notes {
		if s.Notes[i].ID == id {
			return i
		}
	}
	return -1
}
