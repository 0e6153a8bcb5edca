// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package protocol_test

import (
	"testing"

	protocol "github.com/XJU-Hurricane-Team/message-protocol"
	"github.com/XJU-Hurricane-Team/message-protocol/transport"
)

func TestRegistry_RejectsInvalidChannelID(t *testing.T) {
	reg := protocol.New(protocol.WithChannelCount(4))
	a, _ := transport.NewPipe()

	if err := reg.RegisterSend(10, a, 16); err != protocol.ErrInvalidChannel {
		t.Fatalf("RegisterSend err = %v, want ErrInvalidChannel", err)
	}
	if err := reg.RegisterRecv(10, a, 16, 16); err != protocol.ErrInvalidChannel {
		t.Fatalf("RegisterRecv err = %v, want ErrInvalidChannel", err)
	}
	if err := reg.RegisterCallback(10, nil); err != protocol.ErrInvalidChannel {
		t.Fatalf("RegisterCallback err = %v, want ErrInvalidChannel", err)
	}
	if err := reg.Send(10, protocol.TypeUint8, []byte{1}); err != protocol.ErrInvalidChannel {
		t.Fatalf("Send err = %v, want ErrInvalidChannel", err)
	}
}

func TestRegistry_ClampsChannelCountToValidRange(t *testing.T) {
	reg := protocol.New(protocol.WithChannelCount(0))
	// ChannelID 0 must still be usable: clamp falls back to the default,
	// not to zero channels.
	a, _ := transport.NewPipe()
	if err := reg.RegisterSend(0, a, 8); err != nil {
		t.Fatalf("RegisterSend: %v", err)
	}
}

func TestRegistry_MultiChannelIndependence(t *testing.T) {
	reg := protocol.New(protocol.WithChannelCount(4), protocol.WithCRC8(false))

	aSend, aRecv := transport.NewPipe()
	bSend, bRecv := transport.NewPipe()

	if err := reg.RegisterSend(0, aSend, 16); err != nil {
		t.Fatalf("RegisterSend(0): %v", err)
	}
	if err := reg.RegisterRecv(0, aRecv, 64, 16); err != nil {
		t.Fatalf("RegisterRecv(0): %v", err)
	}
	if err := reg.RegisterSend(1, bSend, 16); err != nil {
		t.Fatalf("RegisterSend(1): %v", err)
	}
	if err := reg.RegisterRecv(1, bRecv, 64, 16); err != nil {
		t.Fatalf("RegisterRecv(1): %v", err)
	}

	var chan0Got, chan1Got []byte
	if err := reg.RegisterCallback(0, func(length int, idType byte, payload []byte) {
		chan0Got = append([]byte(nil), payload...)
	}); err != nil {
		t.Fatalf("RegisterCallback(0): %v", err)
	}
	if err := reg.RegisterCallback(1, func(length int, idType byte, payload []byte) {
		chan1Got = append([]byte(nil), payload...)
	}); err != nil {
		t.Fatalf("RegisterCallback(1): %v", err)
	}

	if err := reg.Send(0, protocol.TypeUint8, []byte{0x01}); err != nil {
		t.Fatalf("Send(0): %v", err)
	}
	if err := reg.Send(1, protocol.TypeUint8, []byte{0x02}); err != nil {
		t.Fatalf("Send(1): %v", err)
	}

	// Drive two cycles: one to read the bytes just written into each
	// channel's own pipe, one to dequeue and dispatch what completed.
	if err := reg.PollOnce(); err != nil {
		t.Fatalf("PollOnce: %v", err)
	}
	if err := reg.PollOnce(); err != nil {
		t.Fatalf("PollOnce: %v", err)
	}

	if len(chan0Got) != 1 || chan0Got[0] != 0x01 {
		t.Fatalf("channel 0 dispatched %v, want [0x01]", chan0Got)
	}
	if len(chan1Got) != 1 || chan1Got[0] != 0x02 {
		t.Fatalf("channel 1 dispatched %v, want [0x02]", chan1Got)
	}

	stats0 := reg.Stats(0)
	if stats0.SendCount != 1 || stats0.RecvSuccess != 1 {
		t.Fatalf("channel 0 stats = %+v, want SendCount=1 RecvSuccess=1", stats0)
	}
}

func TestRegistry_StatsOfUnregisteredChannelIsZeroValue(t *testing.T) {
	reg := protocol.New()
	if got := reg.Stats(0); got != (protocol.Stats{}) {
		t.Fatalf("Stats(unregistered) = %+v, want zero value", got)
	}
}

func TestRegistry_RegisterRecvRejectsNonPowerOfTwoFIFO(t *testing.T) {
	reg := protocol.New()
	_, recv := transport.NewPipe()
	if err := reg.RegisterRecv(0, recv, 16, 3); err != protocol.ErrNotPowerOfTwo {
		t.Fatalf("err = %v, want ErrNotPowerOfTwo", err)
	}
}

func TestRegistry_PollOnceSkipsChannelsWithNoRecvRegistered(t *testing.T) {
	reg := protocol.New()
	send, _ := transport.NewPipe()
	if err := reg.RegisterSend(0, send, 8); err != nil {
		t.Fatalf("RegisterSend: %v", err)
	}
	// Channel 0 has a send sink but no recv source; PollOnce must not
	// panic or error on it.
	if err := reg.PollOnce(); err != nil {
		t.Fatalf("PollOnce: %v", err)
	}
}
