// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package protocol

// Options configures a Registry.
type Options struct {
	// ChannelCount sets the fixed number of channel slots (RESERVE_LEN).
	// The wire format's 4-bit channel id caps this at 16.
	ChannelCount int

	// CRC8Enabled turns on CRC-8 generation/validation of frame payloads.
	// When disabled, frames carry no CRC nibbles and decode skips the
	// checksum comparison.
	CRC8Enabled bool
}

var defaultOptions = Options{
	ChannelCount: 16,
	CRC8Enabled:  true,
}

// Option mutates Options during Registry construction.
type Option func(*Options)

// WithChannelCount sets the number of channel slots. n must be in (0, 16].
func WithChannelCount(n int) Option {
	return func(o *Options) { o.ChannelCount = n }
}

// WithCRC8 enables or disables CRC-8 framing.
func WithCRC8(enabled bool) Option {
	return func(o *Options) { o.CRC8Enabled = enabled }
}
