// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import "sync"

// Pipe is an in-memory, non-blocking Transport: Write appends to an
// internal queue, ReadAvailable drains from it. It is the in-process
// stand-in used by tests, grounded on
// hayabusa-cloud-framer's io.Pipe-backed NewPipe but reshaped into a
// non-blocking queue so it fits this package's polling contract instead of
// io.Pipe's synchronous rendezvous semantics.
type Pipe struct {
	mu     sync.Mutex
	queue  []byte
	closed bool

	// peer is set by NewPipe; a standalone Pipe (constructed via &Pipe{})
	// has no peer and simply loops its own Write back to its own
	// ReadAvailable, which is convenient for single-ended unit tests.
	peer *Pipe
}

// NewPipe returns a connected pair of Pipes: bytes written to a arrive on
// b's ReadAvailable, and vice versa.
func NewPipe() (a, b *Pipe) {
	a = &Pipe{}
	b = &Pipe{}
	a.peer, b.peer = b, a
	return a, b
}

func (p *Pipe) target() *Pipe {
	if p.peer != nil {
		return p.peer
	}
	return p
}

// Write appends p to the peer's read queue (or, for a standalone Pipe,
// its own).
func (p *Pipe) Write(data []byte) (int, error) {
	t := p.target()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, ErrClosed
	}
	t.queue = append(t.queue, data...)
	return len(data), nil
}

// ReadAvailable drains up to len(dst) queued bytes, returning
// (0, ErrWouldBlock) when the queue is empty.
func (p *Pipe) ReadAvailable(dst []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return 0, ErrWouldBlock
	}
	n := copy(dst, p.queue)
	p.queue = p.queue[n:]
	return n, nil
}

// Close marks the pipe closed; further Writes into it (from its peer, or
// from itself when standalone) return ErrClosed.
func (p *Pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
