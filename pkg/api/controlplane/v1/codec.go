package controlplanev1

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Codec is a grpc encoding.Codec for the ControlPlane messages. Its name is
// "proto", so calls keep the standard application/grpc+proto content-subtype
// and interoperate with any protobuf server or client.
type Codec struct{}

func (Codec) Name() string { return "proto" }

func (Codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case Message:
		return m.MarshalWire()
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, fmt.Errorf("controlplanev1: cannot marshal %T", v)
	}
}

func (Codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case Message:
		return m.UnmarshalWire(data)
	case proto.Message:
		return proto.Unmarshal(data, m)
	default:
		return fmt.Errorf("controlplanev1: cannot unmarshal into %T", v)
	}
}
