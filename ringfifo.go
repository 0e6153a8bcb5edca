// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package protocol

// ringFIFO is a power-of-two masked byte ring storing length-prefixed
// frame entries. Each completed entry occupies a contiguous run of slots
// (mod size): one byte recording the entry's total length, followed by the
// frame bytes as written by the streaming decoder.
//
// head and tail are reset to zero on overflow rather than kept strictly
// monotonic forever (mirroring the reference implementation's own reset
// behavior): the stream is unreliable, so on overflow the FIFO discards
// whatever partial frame it was assembling and resynchronizes at the next
// valid EOF.
type ringFIFO struct {
	buf  []byte
	size uint32
	mask uint32

	head uint32
	tail uint32

	frameLenAccum uint32
	newFrame      bool

	elementCount  uint32
	maxElementLen uint32
	overflowCount uint32
}

func isPowerOfTwo(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

func newRingFIFO(size uint32) (*ringFIFO, error) {
	if !isPowerOfTwo(size) {
		return nil, ErrNotPowerOfTwo
	}
	return &ringFIFO{
		buf:      make([]byte, size),
		size:     size,
		mask:     size - 1,
		newFrame: true,
	}, nil
}

// writeByte appends b to the in-progress entry. isEOF tells the FIFO that
// b is the frame's unescaped terminator: the entry's length slot is
// back-patched and the entry becomes available to pop.
//
// On overflow (the ring fills without an EOF having been observed) the
// FIFO resets entirely and the in-progress frame is lost.
func (f *ringFIFO) writeByte(b byte, isEOF bool) {
	if f.newFrame {
		f.buf[f.tail&f.mask] = 0
		f.tail++
		f.newFrame = false
	}

	f.buf[f.tail&f.mask] = b
	f.tail++
	f.frameLenAccum++

	if f.tail-f.head == f.size && !isEOF {
		f.head = 0
		f.tail = 0
		f.elementCount = 0
		f.frameLenAccum = 0
		f.newFrame = true
		f.overflowCount++
		return
	}

	if isEOF {
		entryLen := f.frameLenAccum + 1
		backpatchIdx := (f.tail - f.frameLenAccum - 1) & f.mask
		f.buf[backpatchIdx] = byte(entryLen)

		f.frameLenAccum = 0
		f.newFrame = true
		f.elementCount++

		if entryLen > f.maxElementLen {
			f.maxElementLen = entryLen
		}
	}
}

// peekEntryLen returns the length byte at head, or 0 if the head entry is
// still being written (no complete entry available yet).
func (f *ringFIFO) peekEntryLen() byte {
	return f.buf[f.head&f.mask]
}

// pop advances head past a dequeued entry of the given length.
func (f *ringFIFO) pop(entryLen int) {
	f.head += uint32(entryLen)
	f.elementCount--
}

// contiguous returns the entry at head as a direct slice into buf when it
// does not wrap around the end of the ring, and ok=false otherwise.
func (f *ringFIFO) contiguous(entryLen int) (entry []byte, ok bool) {
	headIdx := int(f.head & f.mask)
	if headIdx+entryLen <= len(f.buf) {
		return f.buf[headIdx : headIdx+entryLen], true
	}
	return nil, false
}

// linearize copies the wrapped entry at head into out, which must have
// capacity for at least entryLen bytes.
func (f *ringFIFO) linearize(out []byte, entryLen int) error {
	if cap(out) < entryLen {
		return ErrBufferTooSmall
	}
	out = out[:entryLen]
	headIdx := int(f.head & f.mask)
	firstLen := len(f.buf) - headIdx
	if firstLen > entryLen {
		firstLen = entryLen
	}
	copy(out[:firstLen], f.buf[headIdx:headIdx+firstLen])
	copy(out[firstLen:], f.buf[:entryLen-firstLen])
	return nil
}
