// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"io"
	"net"
	"time"
)

// Net adapts a net.Conn (TCP or Unix stream) to the Transport contract,
// using a short read deadline to emulate the non-blocking ReadAvailable
// contract on top of Go's blocking net.Conn API. Grounded on the
// per-transport-kind defaulting table in hayabusa-cloud-framer's
// netopts.go, narrowed to the two stream-oriented kinds this protocol's
// own framing (rather than the transport's boundary semantics) needs.
type Net struct {
	conn net.Conn
}

// NewNet wraps conn (e.g. the result of net.Dial("tcp", ...) or
// net.Dial("unix", ...)) as a Transport.
func NewNet(conn net.Conn) *Net {
	return &Net{conn: conn}
}

// Write implements Transport.
func (n *Net) Write(p []byte) (int, error) {
	return n.conn.Write(p)
}

// ReadAvailable implements Transport: a single non-blocking-emulated read
// bounded by pollDeadline, surfacing ErrWouldBlock when nothing arrived.
func (n *Net) ReadAvailable(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	_ = n.conn.SetReadDeadline(time.Now().Add(pollDeadline))
	c, err := n.conn.Read(dst)
	if err != nil {
		if isTimeout(err) {
			return c, ErrWouldBlock
		}
		if err == io.EOF {
			return c, ErrWouldBlock
		}
		return c, err
	}
	if c == 0 {
		return 0, ErrWouldBlock
	}
	return c, nil
}

// Close closes the underlying connection.
func (n *Net) Close() error {
	return n.conn.Close()
}
