// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package protocol

import "github.com/XJU-Hurricane-Team/message-protocol/internal/crc8"

// Wire format constants. Both are build-time byte constants picked so
// neither collides with the length field's usable range.
const (
	// EOF marks the end of a frame.
	EOF byte = 0x7F
	// ESC marks "the next byte is literal" (byte-stuffing escape).
	ESC byte = 0x8F

	// maxPayloadLen is the largest payload Send accepts. Capped below EOF
	// so the length byte itself never collides with the EOF sentinel.
	maxPayloadLen = 0x7E

	// frameOverheadNoCRC counts the entry-length byte, the id-type header
	// byte, the length byte, and the EOF byte.
	frameOverheadNoCRC = 4
	// frameOverheadCRC additionally counts the two CRC nibble bytes.
	frameOverheadCRC = frameOverheadNoCRC + 2
)

// appendFrame encodes one frame (id-type header, length, byte-stuffed
// payload, optional CRC-8 nibbles, EOF) and appends the wire bytes to dst,
// returning the extended slice. A header byte equal to ESC or EOF (cid 7
// or 8 with ptt 15) is byte-stuffed like a payload byte.
func appendFrame(dst []byte, cid ChannelID, ptt PayloadType, payload []byte, crcEnabled bool) ([]byte, error) {
	if cid > 0xF {
		return dst, ErrInvalidChannel
	}
	if ptt > 0xF {
		return dst, ErrInvalidArgument
	}
	if len(payload) == 0 {
		return dst, ErrInvalidArgument
	}
	if len(payload) > maxPayloadLen {
		return dst, ErrTooLong
	}

	header := byte(cid)<<4 | byte(ptt)
	if header == ESC || header == EOF {
		dst = append(dst, ESC)
	}
	dst = append(dst, header)
	dst = append(dst, byte(len(payload)))

	for _, b := range payload {
		if b == ESC || b == EOF {
			dst = append(dst, ESC)
		}
		dst = append(dst, b)
	}

	if crcEnabled {
		c := crc8.Checksum(payload)
		dst = append(dst, (c>>4)&0x0F, c&0x0F)
	}

	dst = append(dst, EOF)
	return dst, nil
}

// decoder holds the one-bit escape state of the streaming frame decoder.
// Its zero value is the valid starting state (not currently inside an
// escape sequence).
type decoder struct {
	escape bool
}

// feed runs data through the decoder state machine, writing each decoded
// byte into fifo and signalling frame termination on an unescaped EOF.
//
// State machine: Normal --[ESC]--> AfterEscape (no emit); Normal
// --[other]--> Normal (emit, terminate on EOF); AfterEscape --[any]-->
// Normal (emit literal, never terminate).
func (d *decoder) feed(data []byte, fifo *ringFIFO) {
	for _, b := range data {
		if !d.escape && b == ESC {
			d.escape = true
			continue
		}

		wasEscaped := d.escape
		isEOF := b == EOF && !wasEscaped
		fifo.writeByte(b, isEOF)

		if wasEscaped {
			d.escape = false
		}
	}
}

// frameOverhead returns the fixed byte overhead (entry-length byte,
// header, length, EOF, and optionally two CRC nibbles) for a frame.
func frameOverhead(crcEnabled bool) int {
	if crcEnabled {
		return frameOverheadCRC
	}
	return frameOverheadNoCRC
}

// decodedFrame is a validated view into one dequeued FIFO entry.
type decodedFrame struct {
	idType  byte
	payload []byte
}

// validateFrame checks a raw FIFO entry (as returned by ringFIFO.contiguous
// or ringFIFO.linearize) against the wire format's length and CRC
// invariants. entry[0] is the entry-length byte itself, entry[1] the
// id-type header, entry[2] the length field, entry[3:] the payload
// (followed by CRC nibbles and EOF per crcEnabled).
func validateFrame(entry []byte, crcEnabled bool) (decodedFrame, error) {
	k := frameOverhead(crcEnabled)
	expected := len(entry) - k
	if expected < 0 || int(entry[2]) != expected {
		return decodedFrame{}, ErrInvalidArgument
	}

	payload := entry[3 : 3+expected]
	if crcEnabled {
		hi, lo := entry[3+expected], entry[3+expected+1]
		want := (hi << 4) | lo
		got := crc8.Checksum(payload)
		if want != got {
			return decodedFrame{}, errCRCMismatch
		}
	}

	return decodedFrame{idType: entry[1], payload: payload}, nil
}

// errCRCMismatch distinguishes a CRC failure from a length-mismatch frame
// error so callers can bump the right statistics counter. It is internal:
// callers never see it, only the resulting counter increment.
var errCRCMismatch = errInternal("crc mismatch")

type errInternal string

func (e errInternal) Error() string { return string(e) }
