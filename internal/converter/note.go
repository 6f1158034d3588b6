package converter

import (
	"notes-app/internal/model"
	notesv1 "notes-app/pkg/api/notes/v1"
)

// APIToModel конвертирует заметку API в доменную модель
func APIToModel(apiNote *notesv1.Note) model.Note {
	if apiNote == nil {
		return model.Note{}
	}

	return model.Note{
		ID:        apiNote.Id,
		OwnerID:   apiNote.OwnerId,
		Title:     apiNote.Title,
		Text:      apiNote.Text,
		CreatedAt: apiNote.CreatedAt,
		UpdatedAt: apiNote.UpdatedAt,
	}
}

// APIsToModels конвертирует слайс заметок API, пропуская nil
func APIsToModels(apiNotes []*notesv1.Note) []model.Note {
	notes := make([]model.Note, 0, len(apiNotes))
	for _, n := range apiNotes {
		if n == nil {
			continue
		}
		notes = append(notes, APIToModel(n))
	}
	return notes
}

// ModelToAPI конвертирует доменную модель Note в формат API
func ModelToAPI(note model.Note) *notesv1.Note {
	return &notesv1.Note{
		Id:        note.ID,
		OwnerId:   note.OwnerID,
		Title:     note.Title,
		Text:      note.Text,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// ModelsToAPIs конвертирует слайс доменных моделей
func ModelsToAPIs(notes []model.Note) []*notesv1.Note {
	apiNotes := make([]*notesv1.Note, len(notes))
	for i, note := range notes {
		apiNotes[i] = ModelToAPI(note)
	}
	return apiNotes
}

// UserToAPI конвертирует пользователя без хеша пароля
func UserToAPI(user model.User) *notesv1.User {
	return &notesv1.User{
		Id:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// APIToUser конвертирует пользователя API в доменную модель
func APIToUser(apiUser *notesv1.User) model.User {
	if apiUser == nil {
		return model.User{}
	}
	return model.User{ID: apiUser.Id, Email: apiUser.Email, Name: apiUser.Name}
}

// PatchFromAPI собирает доменный патч из запроса на обновление
func PatchFromAPI(req *notesv1.UpdateNoteRequest) model.NotePatch {
	return model.NotePatch{Title: req.Title, Text: req.Text}
}
