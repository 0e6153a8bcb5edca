// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transport provides the abstract byte-stream boundary the
// message protocol core drives: Write pushes encoded frame bytes out,
// ReadAvailable drains whatever bytes the underlying driver currently has
// buffered without blocking. The core treats the driver itself (DMA ring,
// interrupt-buffered UART, socket) as an external collaborator; this
// package only fixes the contract and supplies a few concrete adapters
// grounded on it.
package transport

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrClosed is returned by Pipe.Write once the receiving Pipe has been
// closed.
var ErrClosed = errors.New("transport: closed")

// ErrWouldBlock is iox's non-blocking-I/O control-flow signal, re-exported
// here so callers driving ReadAvailable in a poll loop never need to
// import code.hybscloud.com/iox directly to recognize it.
var ErrWouldBlock = iox.ErrWouldBlock

// Transport is the C4 contract: Write enqueues bytes for transmission
// (may block briefly or hand off to DMA depending on the adapter);
// ReadAvailable drains up to len(dst) bytes already buffered by the
// driver, non-blocking, returning (0, ErrWouldBlock) when nothing is
// available yet.
type Transport interface {
	Write(p []byte) (n int, err error)
	ReadAvailable(dst []byte) (n int, err error)
}
