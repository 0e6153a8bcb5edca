// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package protocol implements a multi-channel, framed, byte-oriented
// message protocol intended for unreliable serial links: callers enqueue
// typed payloads tagged with a channel id and a payload-type tag, the
// protocol layer frames them with byte-stuffing and an optional CRC-8, a
// Transport moves the bytes, and the receive side incrementally parses,
// validates, and dispatches complete payloads to per-channel callbacks.
package protocol

import "errors"

var (
	// ErrInvalidChannel reports a channel id outside [0, N) for the
	// registry's configured channel count.
	ErrInvalidChannel = errors.New("protocol: invalid channel id")

	// ErrInvalidArgument reports a nil/zero-length payload, a payload-type
	// tag outside the 4-bit range, or a nil transport or non-positive
	// staging capacity at registration. Send with no sink registered is not
	// an error: it returns nil.
	ErrInvalidArgument = errors.New("protocol: invalid argument")

	// ErrNotPowerOfTwo reports a requested FIFO capacity that is not a
	// power of two.
	ErrNotPowerOfTwo = errors.New("protocol: fifo size must be a power of two")

	// ErrTooLong reports a payload longer than the wire format's maximum
	// (126 bytes) or a payload equal to the EOF sentinel length value.
	ErrTooLong = errors.New("protocol: payload too long")

	// ErrBufferTooSmall reports a receive staging buffer too small to hold
	// a linearized FIFO entry that wrapped around the ring.
	ErrBufferTooSmall = errors.New("protocol: receive buffer too small for entry")
)
