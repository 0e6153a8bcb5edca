// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package protocol

import (
	"sync"

	"github.com/XJU-Hurricane-Team/message-protocol/transport"
)

// Registry is the C5 channel table: a fixed number of channel slots,
// created lazily on first registration, indexed by ChannelID. Unlike the
// reference implementation's single global msg_list array, Registry is a
// value so a process can run more than one independent protocol instance
// (e.g. one per physical UART).
//
// Registration is expected to happen during a one-shot init phase before
// the poller and any senders start; mu only guards the lazy
// slot-allocation race during that phase, not the Send/PollOnce hot paths.
type Registry struct {
	mu         sync.Mutex
	channels   []*Channel
	crcEnabled bool
}

// New constructs a Registry with the given options.
func New(opts ...Option) *Registry {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	n := o.ChannelCount
	if n <= 0 || n > 16 {
		n = defaultOptions.ChannelCount
	}
	return &Registry{
		channels:   make([]*Channel, n),
		crcEnabled: o.CRC8Enabled,
	}
}

func (r *Registry) ensure(cid ChannelID) (*Channel, error) {
	if int(cid) >= len(r.channels) {
		return nil, ErrInvalidChannel
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := r.channels[cid]
	if ch == nil {
		ch = newChannel(cid, r.crcEnabled)
		r.channels[cid] = ch
	}
	return ch, nil
}

// RegisterSend registers (or reconfigures, idempotently) the transport and
// initial send-buffer capacity for cid.
func (r *Registry) RegisterSend(cid ChannelID, sink transport.Transport, initCapacity int) error {
	ch, err := r.ensure(cid)
	if err != nil {
		return err
	}
	return ch.setSendSink(sink, initCapacity)
}

// RegisterRecv registers (or reconfigures) the transport, staging buffer
// size, and FIFO capacity for cid. fifoCapacity must be a power of two.
func (r *Registry) RegisterRecv(cid ChannelID, source transport.Transport, stagingCapacity, fifoCapacity int) error {
	ch, err := r.ensure(cid)
	if err != nil {
		return err
	}
	return ch.setRecvSource(source, stagingCapacity, fifoCapacity)
}

// RegisterCallback sets (or replaces) cid's receive callback. fn may be
// nil to disable dispatch.
func (r *Registry) RegisterCallback(cid ChannelID, fn Callback) error {
	ch, err := r.ensure(cid)
	if err != nil {
		return err
	}
	ch.setCallback(fn)
	return nil
}

// Send encodes payload as ptt and writes it via cid's registered sink. A
// channel with no sink registered, or an invalid payload or payload type,
// is rejected silently (no error, no counter bump), per the core's send
// error policy. A cid outside the registry returns ErrInvalidChannel.
func (r *Registry) Send(cid ChannelID, ptt PayloadType, payload []byte) error {
	if int(cid) >= len(r.channels) {
		return ErrInvalidChannel
	}
	ch := r.channels[cid]
	if ch == nil {
		return nil
	}
	return ch.send(ptt, payload)
}

// PollOnce visits each channel in turn: it drains and dispatches that
// channel's pending FIFO entries, then reads newly available bytes from
// its transport and feeds them through the streaming decoder. Drain-then-read bounds FIFO
// occupancy: each cycle removes as much as possible before admitting new
// data.
//
// PollOnce is not re-entrant and must be called from a single task/thread.
// A transport read error on one channel is recorded and that channel is
// skipped for the remainder of this cycle; it does not abort polling of
// the other channels, consistent with the core's "no error is fatal"
// design.
func (r *Registry) PollOnce() error {
	var firstErr error
	for _, ch := range r.channels {
		if ch == nil || ch.recvSource == nil || ch.fifo == nil {
			continue
		}
		if err := ch.poll(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stats returns cid's statistics snapshot, or the zero value if cid is
// unregistered.
func (r *Registry) Stats(cid ChannelID) Stats {
	if int(cid) >= len(r.channels) {
		return Stats{}
	}
	ch := r.channels[cid]
	if ch == nil {
		return Stats{}
	}
	return ch.Stats()
}

// Default is the package-level registry backing the Send/PollOnce/
// RegisterSend/RegisterRecv/RegisterCallback package functions below,
// preserving the reference implementation's global-singleton ergonomics
// for callers who don't need multiple independent instances.
var Default = New()

// RegisterSend registers cid's send transport on the Default registry.
func RegisterSend(cid ChannelID, sink transport.Transport, initCapacity int) error {
	return Default.RegisterSend(cid, sink, initCapacity)
}

// RegisterRecv registers cid's receive transport on the Default registry.
func RegisterRecv(cid ChannelID, source transport.Transport, stagingCapacity, fifoCapacity int) error {
	return Default.RegisterRecv(cid, source, stagingCapacity, fifoCapacity)
}

// RegisterCallback sets cid's receive callback on the Default registry.
func RegisterCallback(cid ChannelID, fn Callback) error {
	return Default.RegisterCallback(cid, fn)
}

// Send encodes and sends payload via cid on the Default registry.
func Send(cid ChannelID, ptt PayloadType, payload []byte) error {
	return Default.Send(cid, ptt, payload)
}

// PollOnce drains and dispatches all channels on the Default registry.
func PollOnce() error {
	return Default.PollOnce()
}
