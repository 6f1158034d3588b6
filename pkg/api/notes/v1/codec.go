package notesv1

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	grpcproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/grpc/mem"
)

// CodecName имя кодека: сообщения API идут в protobuf wire формате notes.proto
const CodecName = grpcproto.Name

// wireMessage сообщение, которое само пишет и читает свое protobuf представление
type wireMessage interface {
	appendWire(b []byte) []byte
	parseWire(b []byte) error
}

// codec кодирует сообщения API, остальное (protobuf сообщения из genproto и т.п.)
// отдает стандартному proto кодеку gRPC
type codec struct {
	fallback encoding.CodecV2
}

func (c codec) Marshal(v any) (mem.BufferSlice, error) {
	if m, ok := v.(wireMessage); ok {
		return mem.BufferSlice{mem.SliceBuffer(m.appendWire(nil))}, nil
	}
	if c.fallback == nil {
		return nil, fmt.Errorf("notesv1: cannot marshal %T", v)
	}
	return c.fallback.Marshal(v)
}

func (c codec) Unmarshal(data mem.BufferSlice, v any) error {
	if m, ok := v.(wireMessage); ok {
		return m.parseWire(data.Materialize())
	}
	if c.fallback == nil {
		return fmt.Errorf("notesv1: cannot unmarshal into %T", v)
	}
	return c.fallback.Unmarshal(data, v)
}

func (codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodecV2(codec{fallback: encoding.GetCodecV2(grpcproto.Name)})
}
