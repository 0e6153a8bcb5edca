// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package protocol

import (
	"errors"
	"sync"

	"github.com/XJU-Hurricane-Team/message-protocol/transport"
)

// ChannelID identifies a logical stream. The wire format's id-type header
// byte packs it into the high nibble, so valid ids are 0..15.
type ChannelID uint8

// PayloadType is an application-defined 4-bit tag packed into the low
// nibble of the id-type header byte. The core transports it as-is to the
// receive callback and never interprets it.
type PayloadType uint8

// Payload-type tags mirroring the original protocol's msg_type_t enum.
const (
	TypeUint8 PayloadType = iota
	TypeInt8
	TypeUint16
	TypeInt16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeString
	TypeCustom
)

// Callback receives one dispatched payload: length is len(payload), idType
// is the raw id-type header byte (high nibble channel id, low nibble
// payload type), payload is a view valid only for the duration of the
// call.
type Callback func(length int, idType byte, payload []byte)

// Stats reports a channel's lifetime counters.
type Stats struct {
	SendCount     uint32
	RecvSuccess   uint32
	RecvError     uint32
	CRCError      uint32
	FIFOOverflow  uint32
	MaxElementLen uint32
}

// Channel is the C3 per-id state: a growable send buffer, a fixed-size
// receive staging buffer, an owned ring FIFO, a callback, and the
// statistics counters from the reference implementation's struct
// msg_instance.
type Channel struct {
	id ChannelID

	crcEnabled bool

	sendMu     sync.Mutex
	sendSink   transport.Transport
	sendBuf    []byte
	sendBufCap int

	recvSource  transport.Transport
	recvStaging []byte
	fifo        *ringFIFO
	dec         decoder

	callback Callback

	sendCount   uint32
	recvSuccess uint32
	recvError   uint32
	crcError    uint32
}

func newChannel(id ChannelID, crcEnabled bool) *Channel {
	return &Channel{id: id, crcEnabled: crcEnabled}
}

// setSendSink ensures the channel has a send buffer of at least
// initCapacity bytes and a sink to write encoded frames to.
func (c *Channel) setSendSink(sink transport.Transport, initCapacity int) error {
	if sink == nil {
		return ErrInvalidArgument
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.sendSink = sink
	if initCapacity < 1 {
		initCapacity = 1
	}
	if c.sendBufCap < initCapacity {
		c.sendBufCap = initCapacity
		c.sendBuf = make([]byte, 0, initCapacity)
	}
	return nil
}

// setRecvSource allocates the staging buffer and constructs the receive
// FIFO. fifoSize must be a power of two.
func (c *Channel) setRecvSource(source transport.Transport, stagingCapacity, fifoSize int) error {
	if source == nil || stagingCapacity < 1 {
		return ErrInvalidArgument
	}
	fifo, err := newRingFIFO(uint32(fifoSize))
	if err != nil {
		return err
	}
	c.recvSource = source
	c.recvStaging = make([]byte, stagingCapacity)
	c.fifo = fifo
	c.dec = decoder{}
	return nil
}

// setCallback replaces the receive callback. fn may be nil to disable
// dispatch (dequeued frames are still validated and counted, just not
// delivered).
func (c *Channel) setCallback(fn Callback) {
	c.callback = fn
}

// send encodes payload as one frame and writes it to the registered sink.
// Invalid arguments (empty/oversized payload) and an unregistered sink are
// rejected silently, with no counter bump, matching the reference
// implementation's send error policy.
func (c *Channel) send(ptt PayloadType, payload []byte) error {
	if len(payload) == 0 || len(payload) > maxPayloadLen {
		return nil
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendSink == nil {
		return nil
	}

	c.growSendBuf(len(payload))

	buf, err := appendFrame(c.sendBuf[:0], c.id, ptt, payload, c.crcEnabled)
	if err != nil {
		return nil
	}
	c.sendBuf = buf

	_, err = c.sendSink.Write(c.sendBuf)
	if err != nil {
		return err
	}
	c.sendCount++
	return nil
}

// growSendBuf implements the reference implementation's amortized
// grow/shrink policy, verbatim:
//   - if cap <= len+5: grow to len*2
//   - else if (len+3)*3 <= cap: shrink to cap/2
//   - else: keep
//
// Go's append already guards against any under-allocation this policy
// might leave on pathological inputs (every payload byte escaped, plus
// CRC); the policy below only governs when a fresh backing array is
// allocated, not correctness.
func (c *Channel) growSendBuf(payloadLen int) {
	switch {
	case c.sendBufCap <= payloadLen+5:
		c.sendBufCap = payloadLen * 2
		c.sendBuf = make([]byte, 0, c.sendBufCap)
	case (payloadLen+3)*3 <= c.sendBufCap:
		c.sendBufCap /= 2
		c.sendBuf = make([]byte, 0, c.sendBufCap)
	}
}

// dequeueAndDispatch drains every complete entry currently in the FIFO,
// validating and delivering each to the callback in arrival order.
func (c *Channel) dequeueAndDispatch() {
	for c.fifo.elementCount > 0 {
		entryLen := int(c.fifo.peekEntryLen())
		if entryLen == 0 {
			// Head entry is still being written; nothing more to drain.
			break
		}

		entry, ok := c.fifo.contiguous(entryLen)
		if !ok {
			if entryLen > cap(c.recvStaging) {
				c.fifo.pop(entryLen)
				c.recvError++
				continue
			}
			if err := c.fifo.linearize(c.recvStaging, entryLen); err != nil {
				c.fifo.pop(entryLen)
				c.recvError++
				continue
			}
			entry = c.recvStaging[:entryLen]
		}

		frame, err := validateFrame(entry, c.crcEnabled)
		if err != nil {
			c.fifo.pop(entryLen)
			if err == errCRCMismatch {
				c.crcError++
			} else {
				c.recvError++
			}
			continue
		}

		if c.callback != nil {
			c.callback(len(frame.payload), frame.idType, frame.payload)
		}
		c.recvSuccess++
		c.fifo.pop(entryLen)
	}
}

// poll drains the FIFO, then reads newly available bytes from the
// transport and feeds them through the streaming decoder. Order matters:
// draining first bounds FIFO occupancy before new data is admitted.
//
// transport.ErrWouldBlock is the expected "nothing queued yet" signal
// from ReadAvailable and is swallowed here rather than treated as a poll
// failure, mirroring the reference implementation's own "no error is
// fatal" cycle.
func (c *Channel) poll() error {
	c.dequeueAndDispatch()

	n, err := c.recvSource.ReadAvailable(c.recvStaging)
	if err != nil {
		if errors.Is(err, transport.ErrWouldBlock) {
			return nil
		}
		return err
	}
	if n == 0 {
		return nil
	}

	c.dec.feed(c.recvStaging[:n], c.fifo)
	return nil
}

// Stats returns a snapshot of the channel's counters.
func (c *Channel) Stats() Stats {
	s := Stats{
		SendCount:   c.sendCount,
		RecvSuccess: c.recvSuccess,
		RecvError:   c.recvError,
		CRCError:    c.crcError,
	}
	if c.fifo != nil {
		s.FIFOOverflow = c.fifo.overflowCount
		s.MaxElementLen = c.fifo.maxElementLen
	}
	return s
}
