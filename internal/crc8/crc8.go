// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package crc8 computes CRC-8-CCITT (polynomial 0x07, initial value 0x00)
// checksums over unescaped payload bytes. It is a pure function in the
// sense spec'd by the message protocol core: given the same bytes it
// always returns the same checksum, with no dependency on frame state.
package crc8

var table [256]byte

func init() {
	const poly = 0x07
	for i := 0; i < 256; i++ {
		c := byte(i)
		for bit := 0; bit < 8; bit++ {
			if c&0x80 != 0 {
				c = (c << 1) ^ poly
			} else {
				c <<= 1
			}
		}
		table[i] = c
	}
}

// Checksum returns the CRC-8 of data, built on top of Update the same way
// a caller would compute one incrementally one byte at a time.
func Checksum(data []byte) byte {
	var c byte
	for _, b := range data {
		c = Update(c, b)
	}
	return c
}

// Update feeds a single byte into a running checksum, allowing callers to
// compute a CRC incrementally without buffering the full payload.
func Update(crc byte, b byte) byte {
	return table[crc^b]
}
