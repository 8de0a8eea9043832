package codec

import (
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
)

// MaxDecodedSize bounds the size of a decompressed export.
const MaxDecodedSize = 64 << 20

// Zstd compresses exports with zstandard.
type Zstd struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

var _ Compressor = (*Zstd)(nil)

// NewZstd returns a compressor at the named level. Unknown names fail.
func NewZstd(level string) (*Zstd, error) {
	lvl := zstd.SpeedDefault
	if level != "" {
		ok, l := zstd.EncoderLevelFromString(level)
		if !ok {
			return nil, errors.WithHint(errors.Newf("unknown zstd level %q", level), "use fastest, default, better or best")
		}
		lvl = l
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(lvl))
	if err != nil {
		return nil, errors.Wrap(err, "zstd encoder")
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecodedSize))
	if err != nil {
		_ = enc.Close()
		return nil, errors.Wrap(err, "zstd decoder")
	}
	return &Zstd{enc: enc, dec: dec}, nil
}

func (z *Zstd) Compress(b []byte) ([]byte, error) {
	return z.enc.EncodeAll(b, nil), nil
}

func (z *Zstd) Decompress(b []byte) ([]byte, error) {
	return z.dec.DecodeAll(b, nil)
}

// Close releases the encoder and decoder.
func (z *Zstd) Close() error {
	z.dec.Close()
	return z.enc.Close()
}
