// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"io"
	"time"
)

// pollDeadline is the deadline window used to emulate a non-blocking read
// on top of a deadline-capable reader (os.File, net.Conn). It is kept
// short enough that ReadAvailable returns promptly when the driver has
// nothing buffered, surfacing ErrWouldBlock instead of stalling the poll
// loop.
const pollDeadline = time.Millisecond

// deadlineReader is satisfied by *os.File and net.Conn; it lets Serial and
// Net poll a blocking file descriptor without blocking a whole poll cycle.
type deadlineReader interface {
	SetReadDeadline(t time.Time) error
}

// Serial adapts an already-opened, already-configured raw-mode
// io.ReadWriter (a TTY opened in non-canonical mode, as
// github.com/daedaluz/goserial configures one) to the Transport contract.
// Configuring the underlying device (baud rate, parity, raw mode) is
// explicitly out of scope for this package; Serial only drives the
// resulting file handle.
type Serial struct {
	rw io.ReadWriter
}

// NewSerial wraps rw as a Transport. rw is expected to already be in
// non-canonical/raw mode; if it also implements SetReadDeadline (as
// *os.File does), ReadAvailable uses a short deadline to avoid blocking.
func NewSerial(rw io.ReadWriter) *Serial {
	return &Serial{rw: rw}
}

// Write implements Transport.
func (s *Serial) Write(p []byte) (int, error) {
	return s.rw.Write(p)
}

// ReadAvailable implements Transport: it attempts a single non-blocking
// read, returning (0, ErrWouldBlock) when the device currently has
// nothing queued.
func (s *Serial) ReadAvailable(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if dr, ok := s.rw.(deadlineReader); ok {
		_ = dr.SetReadDeadline(time.Now().Add(pollDeadline))
	}
	n, err := s.rw.Read(dst)
	if err != nil {
		if isTimeout(err) {
			return n, ErrWouldBlock
		}
		if err == io.EOF {
			return n, ErrWouldBlock
		}
		return n, err
	}
	if n == 0 {
		return 0, ErrWouldBlock
	}
	return n, nil
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	te, ok := err.(timeouter)
	return ok && te.Timeout()
}
