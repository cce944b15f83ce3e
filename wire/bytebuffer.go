package wire

import "sync"

// ByteBuffer is a growable byte buffer drawn from a pool, used as scratch
// space by package cbor's renderToBytes when sorting canonical map keys and
// set members, and as Diagnose's output buffer.
type ByteBuffer struct {
	b []byte
}

var bbPool = sync.Pool{New: func() any { return &ByteBuffer{b: make([]byte, 0, 256)} }}

// GetByteBuffer obtains a pooled, zero-length ByteBuffer.
func GetByteBuffer() *ByteBuffer {
	bb := bbPool.Get().(*ByteBuffer)
	bb.b = bb.b[:0]
	return bb
}

// PutByteBuffer resets bb and returns it to the pool.
func PutByteBuffer(bb *ByteBuffer) {
	bb.b = bb.b[:0]
	bbPool.Put(bb)
}

// Bytes returns the accumulated bytes. The slice is only valid until the
// next mutating call or until the buffer is returned to the pool.
func (bb *ByteBuffer) Bytes() []byte { return bb.b }

// Len returns the number of accumulated bytes.
func (bb *ByteBuffer) Len() int { return len(bb.b) }

// Reset truncates the buffer to zero length without releasing capacity.
func (bb *ByteBuffer) Reset() { bb.b = bb.b[:0] }

// Write implements io.Writer.
func (bb *ByteBuffer) Write(p []byte) (int, error) {
	bb.b = append(bb.b, p...)
	return len(p), nil
}

// WriteByte appends a single byte.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.b = append(bb.b, c)
	return nil
}

// WriteString appends s.
func (bb *ByteBuffer) WriteString(s string) {
	bb.b = append(bb.b, s...)
}

// SetBytes replaces the buffer's backing slice, letting a caller that grew
// the slice externally (e.g. by passing bb.Bytes() through a series of
// append calls) hand the possibly-reallocated result back to the pool.
func (bb *ByteBuffer) SetBytes(b []byte) { bb.b = b }
