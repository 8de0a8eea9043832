package codec

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"
)

// CBOR encodes plain value graphs deterministically (RFC 8949 core
// deterministic encoding) and decodes them back into map[string]any, []any,
// int64, float64, string, bool and []byte.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Marshaler = (*CBOR)(nil)

// NewCBOR builds the CBOR marshaler.
func NewCBOR() (*CBOR, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, errors.Wrap(err, "cbor encode mode")
	}
	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         cbor.IntDecConvertSigned,
		DupMapKey:      cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		return nil, errors.Wrap(err, "cbor decode mode")
	}
	return &CBOR{enc: enc, dec: dec}, nil
}

func (c *CBOR) Marshal(v any) ([]byte, error) { return c.enc.Marshal(v) }

func (c *CBOR) Unmarshal(b []byte) (any, error) {
	var v any
	if err := c.dec.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
