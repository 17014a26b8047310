package hackberry

import "bytes"

// DefaultBufferSize is the initial backing size used by NewBuffer.
const DefaultBufferSize = 4096

// Buffer is an append-only growable byte region with separate read and write
// cursors, designed for incremental protocol parsing: a reader pushes raw
// chunks in with Append, a parser inspects the unread region with Peek and
// Find, and consumes completed frames with AdvanceRead.
//
// When trailing space runs out, the buffer first compacts (moves unread bytes
// to offset zero) and only grows its backing storage when compaction alone
// does not free enough room. This keeps allocation amortized under
// steady-state streaming.
//
// Buffer is not safe for concurrent use. One connection owns one Buffer.
type Buffer struct {
	data     []byte
	readPos  int
	writePos int
}

// NewBuffer creates an empty Buffer with the given initial capacity hint.
// A hint of 0 or less uses DefaultBufferSize.
func NewBuffer(sizeHint int) *Buffer {
	if sizeHint <= 0 {
		sizeHint = DefaultBufferSize
	}
	return &Buffer{data: grabBacking(sizeHint)}
}

// Append appends p to the writable end, growing the backing storage if
// compaction cannot free enough trailing space. It always succeeds.
func (b *Buffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	b.ensureWritable(len(p))
	copy(b.data[b.writePos:], p)
	b.writePos += len(p)
}

// AppendString appends s to the writable end.
func (b *Buffer) AppendString(s string) {
	if len(s) == 0 {
		return
	}
	b.ensureWritable(len(s))
	copy(b.data[b.writePos:], s)
	b.writePos += len(s)
}

// ReadableBytes returns the number of unread bytes.
func (b *Buffer) ReadableBytes() int {
	return b.writePos - b.readPos
}

// Peek returns a view of up to n unread bytes without consuming them.
// Fewer bytes are returned if fewer are available. The view is only valid
// until the next mutation of the buffer.
func (b *Buffer) Peek(n int) []byte {
	if n < 0 {
		n = 0
	}
	if avail := b.ReadableBytes(); n > avail {
		n = avail
	}
	return b.data[b.readPos : b.readPos+n]
}

// AdvanceRead consumes up to n unread bytes, clamped to availability.
// When the buffer becomes fully drained both cursors reset to zero so the
// storage is reused from the front.
func (b *Buffer) AdvanceRead(n int) {
	if n < 0 {
		n = 0
	}
	if avail := b.ReadableBytes(); n > avail {
		n = avail
	}
	b.readPos += n
	if b.readPos == b.writePos {
		b.readPos = 0
		b.writePos = 0
	}
}

// Find returns the offset of pattern within the unread region, relative to
// the read cursor, and whether it was found. An empty pattern is never found.
func (b *Buffer) Find(pattern []byte) (int, bool) {
	if len(pattern) == 0 || b.ReadableBytes() < len(pattern) {
		return 0, false
	}
	idx := bytes.Index(b.data[b.readPos:b.writePos], pattern)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// Reset drops all buffered bytes, keeping the backing storage.
func (b *Buffer) Reset() {
	b.readPos = 0
	b.writePos = 0
}

// Release resets the buffer and returns its backing storage to the pool.
// The Buffer must not be used afterwards.
func (b *Buffer) Release() {
	if b.data != nil {
		releaseBacking(b.data)
		b.data = nil
	}
	b.readPos = 0
	b.writePos = 0
}

// Cap returns the size of the backing storage.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// ensureWritable guarantees at least n bytes of trailing space.
// Compaction is attempted before growing: shifting the unread bytes to
// offset zero amortizes allocations under steady-state streaming.
func (b *Buffer) ensureWritable(n int) {
	writable := len(b.data) - b.writePos
	if writable >= n {
		return
	}

	readable := b.ReadableBytes()
	if b.readPos+writable >= n {
		copy(b.data, b.data[b.readPos:b.writePos])
		b.readPos = 0
		b.writePos = readable
		return
	}

	grown := grabBacking(b.writePos + n)
	copy(grown, b.data[b.readPos:b.writePos])
	releaseBacking(b.data)
	b.data = grown
	b.readPos = 0
	b.writePos = readable
}
