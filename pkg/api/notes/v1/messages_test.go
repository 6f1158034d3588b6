package notesv1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/mem"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestRequestValidation(t *testing.T) {
	blank := "  "
	text := "new"

	tests := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr bool
	}{
		{"create ok", &CreateNoteRequest{Text: "Buy milk"}, false},
		{"create blank text", &CreateNoteRequest{Text: blank}, true},
		{"get without id", &GetNoteRequest{}, true},
		{"update without fields", &UpdateNoteRequest{Id: "n1"}, true},
		{"update blank text", &UpdateNoteRequest{Id: "n1", Text: &blank}, true},
		{"update ok", &UpdateNoteRequest{Id: "n1", Text: &text}, false},
		{"delete without id", &DeleteNoteRequest{Id: " "}, true},
		{"login without password", &LoginRequest{Email: "a@b.c"}, true},
		{"register ok", &RegisterRequest{Email: "a@b.c", Password: "secret"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCodec_NoteUsesProtobufWireFormat(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 500, time.UTC)
	note := &Note{Id: "n1", OwnerId: "u1", Text: "Buy milk", CreatedAt: created}

	data, err := codec{}.Marshal(note)
	require.NoError(t, err)
	raw := data.Materialize()

	// поле 5 - google.protobuf.Timestamp, его читает стандартный protobuf
	var tsBytes []byte
	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		require.GreaterOrEqual(t, n, 0)
		b = b[n:]
		if num == 5 && typ == protowire.BytesType {
			tsBytes, n = protowire.ConsumeBytes(b)
		} else {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		require.GreaterOrEqual(t, n, 0)
		b = b[n:]
	}
	var ts timestamppb.Timestamp
	require.NoError(t, proto.Unmarshal(tsBytes, &ts))
	assert.True(t, ts.AsTime().Equal(created))

	var out Note
	require.NoError(t, codec{}.Unmarshal(mem.BufferSlice{mem.SliceBuffer(raw)}, &out))
	assert.Equal(t, *note, out)
}

func TestCodec_OptionalFieldsKeepPresence(t *testing.T) {
	empty := ""
	in := &UpdateNoteRequest{Id: "n1", Title: &empty}

	data, err := codec{}.Marshal(in)
	require.NoError(t, err)

	var out UpdateNoteRequest
	require.NoError(t, codec{}.Unmarshal(data, &out))
	require.NotNil(t, out.Title)
	assert.Equal(t, "", *out.Title)
	assert.Nil(t, out.Text)
}

func TestCodec_SkipsUnknownAndRejectsMalformed(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, "n1")
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	var req GetNoteRequest
	require.NoError(t, req.parseWire(b))
	assert.Equal(t, "n1", req.Id)

	wrongType := protowire.AppendVarint(protowire.AppendTag(nil, 1, protowire.VarintType), 1)
	assert.Error(t, req.parseWire(wrongType))

	truncated := protowire.AppendTag(nil, 1, protowire.BytesType)
	truncated = append(truncated, 10, 'x')
	assert.Error(t, req.parseWire(truncated))
}

func TestCodec_DelegatesProtoMessages(t *testing.T) {
	c := encoding.GetCodecV2(CodecName)
	require.NotNil(t, c)

	info := &errdetails.ErrorInfo{Reason: "NOTE_NOT_FOUND", Domain: "notes.v1"}
	data, err := c.Marshal(info)
	require.NoError(t, err)

	var out errdetails.ErrorInfo
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, "NOTE_NOT_FOUND", out.GetReason())

	_, err = codec{}.Marshal(struct{}{})
	assert.Error(t, err)
}
