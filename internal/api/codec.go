// Package api defines the auth service wire contract: message types, the
// gRPC service descriptor, a typed client and the protobuf codec both sides
// use. auth.proto describes the same contract for non-Go clients.
package api

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	encproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/protobuf/proto"
)

// CodecName is the gRPC content-subtype the codec is registered under. It
// replaces the default proto codec and delegates generated messages (health
// checks) to proto.Marshal.
const CodecName = encproto.Name

func init() {
	encoding.RegisterCodec(codec{})
}

// wireMessage is implemented by every message in this package.
type wireMessage interface {
	appendWire(b []byte) []byte
	unmarshalWire(b []byte) error
}

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case wireMessage:
		return m.appendWire(nil), nil
	case proto.Message:
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("api: cannot marshal %T", v)
}

func (codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case wireMessage:
		return m.unmarshalWire(data)
	case proto.Message:
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("api: cannot unmarshal into %T", v)
}

func (codec) Name() string { return CodecName }
