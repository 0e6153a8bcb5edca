// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package crc8

import "testing"

func TestChecksum_EmptyInputIsZero(t *testing.T) {
	if got := Checksum(nil); got != 0 {
		t.Fatalf("Checksum(nil) = %#x, want 0", got)
	}
}

func TestChecksum_MatchesChainedUpdate(t *testing.T) {
	data := []byte{0xAA, 0x01, 0x02, 0x03, 0xFF}

	var incremental byte
	for _, b := range data {
		incremental = Update(incremental, b)
	}

	if got := Checksum(data); got != incremental {
		t.Fatalf("Checksum = %#x, want %#x (chained Update)", got, incremental)
	}
}

func TestChecksum_SingleByte(t *testing.T) {
	if got := Checksum([]byte{0xAA}); got != 0x5F {
		t.Fatalf("Checksum([0xAA]) = %#x, want 0x5F", got)
	}
}
