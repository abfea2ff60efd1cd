package pool

import (
	"io"
	"sync"
)

// Default and retention sizes of the pooled buffers.
const (
	TreeBufferDefaultSize       = 1024 * 16        // 16KiB, YAX value regions
	TreeBufferMaxThreshold      = 1024 * 1024      // 1MiB
	ContainerBufferDefaultSize  = 1024 * 1024      // 1MiB, DAT/PAK images
	ContainerBufferMaxThreshold = 1024 * 1024 * 64 // 64MiB
)

// ByteBuffer is an append-only byte slice wrapper.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite appends data to the buffer.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// Align appends zero bytes until the length is a multiple of alignment.
func (bb *ByteBuffer) Align(alignment int) {
	if rem := len(bb.B) % alignment; rem != 0 {
		bb.B = append(bb.B, make([]byte, alignment-rem)...)
	}
}

// Clone returns a copy of the buffer contents that outlives the buffer.
func (bb *ByteBuffer) Clone() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// Buffers that grew beyond maxThreshold are dropped instead of being retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	treePool      = NewByteBufferPool(TreeBufferDefaultSize, TreeBufferMaxThreshold)
	containerPool = NewByteBufferPool(ContainerBufferDefaultSize, ContainerBufferMaxThreshold)
)

// GetTreeBuffer retrieves a buffer sized for YAX value regions.
func GetTreeBuffer() *ByteBuffer {
	return treePool.Get()
}

// PutTreeBuffer returns a buffer obtained from GetTreeBuffer.
func PutTreeBuffer(bb *ByteBuffer) {
	treePool.Put(bb)
}

// GetContainerBuffer retrieves a buffer sized for whole DAT or PAK images.
func GetContainerBuffer() *ByteBuffer {
	return containerPool.Get()
}

// PutContainerBuffer returns a buffer obtained from GetContainerBuffer.
func PutContainerBuffer(bb *ByteBuffer) {
	containerPool.Put(bb)
}
