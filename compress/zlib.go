package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/nierarc/errs"
)

// maxInflatedSize caps a single inflated payload; larger outputs indicate corrupt data.
const maxInflatedSize = 512 * 1024 * 1024

// zlibWriterPool pools zlib writers for reuse; Reset makes a writer as good as new.
var zlibWriterPool = sync.Pool{
	New: func() any {
		return zlib.NewWriter(nil)
	},
}

// ZlibCompressor provides the zlib codec used by compressed PAK payloads.
type ZlibCompressor struct{}

var _ Codec = (*ZlibCompressor)(nil)

// NewZlibCompressor creates a new zlib compressor.
func NewZlibCompressor() ZlibCompressor {
	return ZlibCompressor{}
}

// Compress compresses the input data as a zlib stream.
//
// Uses a pooled zlib.Writer.
func (c ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var out bytes.Buffer

	w, _ := zlibWriterPool.Get().(*zlib.Writer)
	defer zlibWriterPool.Put(w)
	w.Reset(&out)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}

	return out.Bytes(), nil
}

// Decompress inflates a zlib stream.
//
// Returns:
//   - []byte: Inflated data (nil if input is empty)
//   - error: errs.ErrDecompress when the stream is corrupt, truncated or oversized
func (c ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecompress, err)
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, maxInflatedSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecompress, err)
	}
	if len(out) > maxInflatedSize {
		return nil, fmt.Errorf("%w: inflated payload exceeds %d bytes", errs.ErrDecompress, maxInflatedSize)
	}

	return out, nil
}

// DecompressPrefix inflates at most n bytes from the start of a zlib stream. It is used
// to sniff the signature of a compressed payload without inflating all of it.
func (c ZlibCompressor) DecompressPrefix(data []byte, n int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecompress, err)
	}
	defer r.Close()

	out := make([]byte, n)
	read, err := io.ReadFull(r, out)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecompress, err)
	}

	return out[:read], nil
}
