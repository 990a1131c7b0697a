// Package apiconnect binds the api messages to Connect handlers and clients
// for the splitledger.v1 services.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec serializes plain Go message structs. It is registered under the
// "json" name so it replaces Connect's protobuf-only JSON codec.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON is the option every handler and client in this package applies.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
