// Package compress wraps lz4 compression for append-only payloads
// that are written far more often than they are read, such as a
// combat log's round-by-round replay sequence: compressing them
// trades a small amount of CPU at write time for materially smaller
// storage, with no impact on the hot path of normal play.
package compress

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Compress returns the lz4-compressed form of `payload`.
func Compress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)

	if _, err := w.Write(payload); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(compressed []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(compressed))
	return io.ReadAll(r)
}
