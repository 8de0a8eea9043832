// Package codec turns validated characters into compact export blobs and
// back. An export is the character encoded by a Marshaler, then compressed
// by a Compressor; import reverses both steps and validates the result.
package codec

import (
	"context"

	"github.com/cockroachdb/errors"

	charskema "github.com/reoring/charskema"
	"github.com/reoring/charskema/schema"
)

// Marshaler is the structured binary encoder of an export.
type Marshaler interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte) (any, error)
}

// Compressor is the byte compressor of an export.
type Compressor interface {
	Compress(b []byte) ([]byte, error)
	Decompress(b []byte) ([]byte, error)
}

// Transport is a Codec between export blobs and plain character values.
// Decode is the import direction.
type Transport struct {
	m Marshaler
	c Compressor
}

var _ charskema.Codec[[]byte, map[string]any] = (*Transport)(nil)

// New returns a Transport over the given encoder and compressor.
func New(m Marshaler, c Compressor) *Transport {
	return &Transport{m: m, c: c}
}

// Default returns the CBOR + zstd transport at the given zstd level name
// ("fastest", "default", "better", "best"; empty means default).
func Default(level string) (*Transport, error) {
	m, err := NewCBOR()
	if err != nil {
		return nil, err
	}
	c, err := NewZstd(level)
	if err != nil {
		return nil, err
	}
	return New(m, c), nil
}

// Encode validates character against the generation it declares, then
// encodes and compresses it.
func (t *Transport) Encode(ctx context.Context, character map[string]any) ([]byte, error) {
	valid, _, err := schema.ParseCharacter(ctx, character)
	if err != nil {
		return nil, err
	}
	raw, err := t.m.Marshal(valid)
	if err != nil {
		return nil, errors.Wrap(err, "encode character")
	}
	out, err := t.c.Compress(raw)
	if err != nil {
		return nil, errors.Wrap(err, "compress character")
	}
	return out, nil
}

// Decode decompresses and decodes blob, then validates the character.
func (t *Transport) Decode(ctx context.Context, blob []byte) (map[string]any, error) {
	raw, err := t.c.Decompress(blob)
	if err != nil {
		return nil, errors.Wrap(err, "decompress character")
	}
	v, err := t.m.Unmarshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode character")
	}
	out, _, err := schema.ParseCharacter(ctx, v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases compressor resources when the compressor holds any.
func (t *Transport) Close() error {
	if cl, ok := t.c.(interface{ Close() error }); ok {
		return cl.Close()
	}
	return nil
}
