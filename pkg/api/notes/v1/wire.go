package notesv1

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Номера полей совпадают с api/notes/v1/notes.proto.

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// appendOptionalString пишет поле proto3 optional: пустая строка тоже передается
func appendOptionalString(b []byte, num protowire.Number, v *string) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, *v)
}

func appendMessage(b []byte, num protowire.Number, m wireMessage) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.appendWire(nil))
}

// appendTimestamp пишет google.protobuf.Timestamp, нулевое время не передается
func appendTimestamp(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	ts := timestamppb.New(t)
	var inner []byte
	if ts.Seconds != 0 {
		inner = protowire.AppendTag(inner, 1, protowire.VarintType)
		inner = protowire.AppendVarint(inner, uint64(ts.Seconds))
	}
	if ts.Nanos != 0 {
		inner = protowire.AppendTag(inner, 2, protowire.VarintType)
		inner = protowire.AppendVarint(inner, uint64(int64(ts.Nanos)))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, inner)
}

// field одно поле сообщения. bytes ссылается на входной буфер.
type field struct {
	num   protowire.Number
	typ   protowire.Type
	bytes []byte
}

func (f field) wantBytes() error {
	if f.typ != protowire.BytesType {
		return fmt.Errorf("notesv1: field %d: unexpected wire type %d", f.num, f.typ)
	}
	return nil
}

func (f field) str() (string, error) {
	if err := f.wantBytes(); err != nil {
		return "", err
	}
	return string(f.bytes), nil
}

func (f field) optionalStr() (*string, error) {
	s, err := f.str()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (f field) message(m wireMessage) error {
	if err := f.wantBytes(); err != nil {
		return err
	}
	return m.parseWire(f.bytes)
}

func (f field) timestamp() (time.Time, error) {
	if err := f.wantBytes(); err != nil {
		return time.Time{}, err
	}
	var ts timestamppb.Timestamp
	if err := proto.Unmarshal(f.bytes, &ts); err != nil {
		return time.Time{}, fmt.Errorf("notesv1: field %d: %w", f.num, err)
	}
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, fmt.Errorf("notesv1: field %d: %w", f.num, err)
	}
	return ts.AsTime(), nil
}

// parseFields обходит поля сообщения; неизвестные поля пропускаются
func parseFields(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		if typ == protowire.BytesType {
			f.bytes, n = protowire.ConsumeBytes(b)
		} else {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// skipAll читает сообщение без полей
func skipAll(b []byte) error {
	return parseFields(b, func(field) error { return nil })
}

func (m *Note) appendWire(b []byte) []byte {
	if m == nil {
		return b
	}
	b = appendString(b, 1, m.Id)
	b = appendString(b, 2, m.OwnerId)
	b = appendString(b, 3, m.Title)
	b = appendString(b, 4, m.Text)
	b = appendTimestamp(b, 5, m.CreatedAt)
	return appendTimestamp(b, 6, m.UpdatedAt)
}

func (m *Note) parseWire(b []byte) error {
	*m = Note{}
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Id, err = f.str()
		case 2:
			m.OwnerId, err = f.str()
		case 3:
			m.Title, err = f.str()
		case 4:
			m.Text, err = f.str()
		case 5:
			m.CreatedAt, err = f.timestamp()
		case 6:
			m.UpdatedAt, err = f.timestamp()
		}
		return err
	})
}

func (m *User) appendWire(b []byte) []byte {
	if m == nil {
		return b
	}
	b = appendString(b, 1, m.Id)
	b = appendString(b, 2, m.Email)
	return appendString(b, 3, m.Name)
}

func (m *User) parseWire(b []byte) error {
	*m = User{}
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Id, err = f.str()
		case 2:
			m.Email, err = f.str()
		case 3:
			m.Name, err = f.str()
		}
		return err
	})
}

// appendNote пишет вложенную заметку, nil не передается
func appendNote(b []byte, num protowire.Number, n *Note) []byte {
	if n == nil {
		return b
	}
	return appendMessage(b, num, n)
}

func parseNote(f field) (*Note, error) {
	n := new(Note)
	if err := f.message(n); err != nil {
		return nil, err
	}
	return n, nil
}

func appendUser(b []byte, num protowire.Number, u *User) []byte {
	if u == nil {
		return b
	}
	return appendMessage(b, num, u)
}

func parseUser(f field) (*User, error) {
	u := new(User)
	if err := f.message(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (m *CreateNoteRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Title)
	return appendString(b, 2, m.Text)
}

func (m *CreateNoteRequest) parseWire(b []byte) error {
	*m = CreateNoteRequest{}
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Title, err = f.str()
		case 2:
			m.Text, err = f.str()
		}
		return err
	})
}

func (m *CreateNoteResponse) appendWire(b []byte) []byte {
	return appendNote(b, 1, m.Note)
}

func (m *CreateNoteResponse) parseWire(b []byte) error {
	*m = CreateNoteResponse{}
	return parseFields(b, func(f field) (err error) {
		if f.num == 1 {
			m.Note, err = parseNote(f)
		}
		return err
	})
}

func (m *GetNoteRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Id)
}

func (m *GetNoteRequest) parseWire(b []byte) error {
	*m = GetNoteRequest{}
	return parseFields(b, func(f field) (err error) {
		if f.num == 1 {
			m.Id, err = f.str()
		}
		return err
	})
}

func (m *GetNoteResponse) appendWire(b []byte) []byte {
	return appendNote(b, 1, m.Note)
}

func (m *GetNoteResponse) parseWire(b []byte) error {
	*m = GetNoteResponse{}
	return parseFields(b, func(f field) (err error) {
		if f.num == 1 {
			m.Note, err = parseNote(f)
		}
		return err
	})
}

func (m *ListNotesRequest) appendWire(b []byte) []byte { return b }

func (m *ListNotesRequest) parseWire(b []byte) error { return skipAll(b) }

func (m *ListNotesResponse) appendWire(b []byte) []byte {
	for _, n := range m.Notes {
		b = appendMessage(b, 1, n)
	}
	return b
}

func (m *ListNotesResponse) parseWire(b []byte) error {
	*m = ListNotesResponse{}
	return parseFields(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		n, err := parseNote(f)
		if err != nil {
			return err
		}
		m.Notes = append(m.Notes, n)
		return nil
	})
}

func (m *UpdateNoteRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Id)
	b = appendOptionalString(b, 2, m.Title)
	return appendOptionalString(b, 3, m.Text)
}

func (m *UpdateNoteRequest) parseWire(b []byte) error {
	*m = UpdateNoteRequest{}
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Id, err = f.str()
		case 2:
			m.Title, err = f.optionalStr()
		case 3:
			m.Text, err = f.optionalStr()
		}
		return err
	})
}

func (m *UpdateNoteResponse) appendWire(b []byte) []byte {
	return appendNote(b, 1, m.Note)
}

func (m *UpdateNoteResponse) parseWire(b []byte) error {
	*m = UpdateNoteResponse{}
	return parseFields(b, func(f field) (err error) {
		if f.num == 1 {
			m.Note, err = parseNote(f)
		}
		return err
	})
}

func (m *DeleteNoteRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Id)
}

func (m *DeleteNoteRequest) parseWire(b []byte) error {
	*m = DeleteNoteRequest{}
	return parseFields(b, func(f field) (err error) {
		if f.num == 1 {
			m.Id, err = f.str()
		}
		return err
	})
}

func (m *DeleteNoteResponse) appendWire(b []byte) []byte { return b }

func (m *DeleteNoteResponse) parseWire(b []byte) error { return skipAll(b) }

func (m *WatchNotesRequest) appendWire(b []byte) []byte { return b }

func (m *WatchNotesRequest) parseWire(b []byte) error { return skipAll(b) }

func (m *NoteEvent) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Type)
	return appendNote(b, 2, m.Note)
}

func (m *NoteEvent) parseWire(b []byte) error {
	*m = NoteEvent{}
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Type, err = f.str()
		case 2:
			m.Note, err = parseNote(f)
		}
		return err
	})
}

func (m *RegisterRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	b = appendString(b, 2, m.Password)
	return appendString(b, 3, m.Name)
}

func (m *RegisterRequest) parseWire(b []byte) error {
	*m = RegisterRequest{}
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Email, err = f.str()
		case 2:
			m.Password, err = f.str()
		case 3:
			m.Name, err = f.str()
		}
		return err
	})
}

func (m *LoginRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	return appendString(b, 2, m.Password)
}

func (m *LoginRequest) parseWire(b []byte) error {
	*m = LoginRequest{}
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Email, err = f.str()
		case 2:
			m.Password, err = f.str()
		}
		return err
	})
}

func (m *AuthResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Token)
	b = appendTimestamp(b, 2, m.ExpiresAt)
	return appendUser(b, 3, m.User)
}

func (m *AuthResponse) parseWire(b []byte) error {
	*m = AuthResponse{}
	return parseFields(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Token, err = f.str()
		case 2:
			m.ExpiresAt, err = f.timestamp()
		case 3:
			m.User, err = parseUser(f)
		}
		return err
	})
}

func (m *CurrentUserRequest) appendWire(b []byte) []byte { return b }

func (m *CurrentUserRequest) parseWire(b []byte) error { return skipAll(b) }

func (m *CurrentUserResponse) appendWire(b []byte) []byte {
	return appendUser(b, 1, m.User)
}

func (m *CurrentUserResponse) parseWire(b []byte) error {
	*m = CurrentUserResponse{}
	return parseFields(b, func(f field) (err error) {
		if f.num == 1 {
			m.User, err = parseUser(f)
		}
		return err
	})
}

func (m *LogoutRequest) appendWire(b []byte) []byte { return b }

func (m *LogoutRequest) parseWire(b []byte) error { return skipAll(b) }

func (m *LogoutResponse) appendWire(b []byte) []byte { return b }

func (m *LogoutResponse) parseWire(b []byte) error { return skipAll(b) }

var (
	_ wireMessage = (*Note)(nil)
	_ wireMessage = (*User)(nil)
	_ wireMessage = (*CreateNoteRequest)(nil)
	_ wireMessage = (*CreateNoteResponse)(nil)
	_ wireMessage = (*GetNoteRequest)(nil)
	_ wireMessage = (*GetNoteResponse)(nil)
	_ wireMessage = (*ListNotesRequest)(nil)
	_ wireMessage = (*ListNotesResponse)(nil)
	_ wireMessage = (*UpdateNoteRequest)(nil)
	_ wireMessage = (*UpdateNoteResponse)(nil)
	_ wireMessage = (*DeleteNoteRequest)(nil)
	_ wireMessage = (*DeleteNoteResponse)(nil)
	_ wireMessage = (*WatchNotesRequest)(nil)
	_ wireMessage = (*NoteEvent)(nil)
	_ wireMessage = (*RegisterRequest)(nil)
	_ wireMessage = (*LoginRequest)(nil)
	_ wireMessage = (*AuthResponse)(nil)
	_ wireMessage = (*CurrentUserRequest)(nil)
	_ wireMessage = (*CurrentUserResponse)(nil)
	_ wireMessage = (*LogoutRequest)(nil)
	_ wireMessage = (*LogoutResponse)(nil)
)
