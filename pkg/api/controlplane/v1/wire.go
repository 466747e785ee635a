// Package controlplanev1 holds the wire messages and service stubs of the
// agent_platform.ControlPlane gRPC service (see api/proto/agent_platform.proto).
//
// Messages are encoded field by field with protowire, so they are
// byte-compatible with any protobuf implementation of the same contract.
// Well-known types (Struct, Timestamp) are embedded as real proto messages.
package controlplanev1

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Message is implemented by every request/response type of the service.
type Message interface {
	MarshalWire() ([]byte, error)
	UnmarshalWire(b []byte) error
}

type encoder struct {
	buf []byte
	err error
}

func marshal(fill func(*encoder)) ([]byte, error) {
	e := &encoder{}
	fill(e)
	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}

// Scalars follow proto3 implicit presence: zero values are not written.

func (e *encoder) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeBool(v))
}

func (e *encoder) int64(num protowire.Number, v int64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, uint64(v))
}

// int32 values are sign-extended to 64 bits, as protobuf requires.
func (e *encoder) int32(num protowire.Number, v int32) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, uint64(int64(v)))
}

func (e *encoder) embed(num protowire.Number, fill func(*encoder)) {
	if e.err != nil {
		return
	}
	inner := &encoder{}
	fill(inner)
	if inner.err != nil {
		e.err = inner.err
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, inner.buf)
}

func (e *encoder) protoMessage(num protowire.Number, m proto.Message) {
	if e.err != nil {
		return
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(m)
	if err != nil {
		e.err = fmt.Errorf("field %d: %w", num, err)
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, b)
}

func (e *encoder) structValue(num protowire.Number, s *structpb.Struct) {
	if s != nil {
		e.protoMessage(num, s)
	}
}

func (e *encoder) timestamp(num protowire.Number, t *timestamppb.Timestamp) {
	if t != nil {
		e.protoMessage(num, t)
	}
}

type field struct {
	num protowire.Number
	typ protowire.Type
	u   uint64
	b   []byte
}

// decode walks the top-level fields of b. Unknown fields and wire types the
// contract never uses (fixed32/fixed64/groups) are skipped.
func decode(b []byte, visit func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.u = v
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.b = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		if err := visit(f); err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
	}
	return nil
}

func (f field) asString() string {
	if f.typ != protowire.BytesType {
		return ""
	}
	return string(f.b)
}

func (f field) asBool() bool {
	if f.typ != protowire.VarintType {
		return false
	}
	return protowire.DecodeBool(f.u)
}

func (f field) asInt64() int64 {
	if f.typ != protowire.VarintType {
		return 0
	}
	return int64(f.u)
}

func (f field) asInt32() int32 {
	if f.typ != protowire.VarintType {
		return 0
	}
	return int32(f.u)
}

func (f field) embedded(m Message) error {
	if f.typ != protowire.BytesType {
		return fmt.Errorf("unexpected wire type %d for message", f.typ)
	}
	return m.UnmarshalWire(f.b)
}

func (f field) asStruct() (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(f.b, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (f field) asTimestamp() (*timestamppb.Timestamp, error) {
	t := &timestamppb.Timestamp{}
	if err := proto.Unmarshal(f.b, t); err != nil {
		return nil, err
	}
	return t, nil
}
