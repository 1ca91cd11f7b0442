package audio

import "errors"

// G.711 µ-law codec.
//
// Twilio Media Streams deliver 8-bit µ-law at 8 kHz; the model side speaks
// 16-bit linear PCM. Both directions go through these per-sample functions.
//
// Constants follow the CCITT reference encoder: bias 0x84 (33 << 2 on the
// 14-bit scale), clip at 32635 so magnitude+bias stays within 15 bits.

const (
	ulawBias = 0x84
	ulawClip = 32635
)

// ErrInvalidFrame is returned for audio payloads the bridge cannot interpret:
// empty byte strings, or PCM input whose length is not a multiple of two.
var ErrInvalidFrame = errors.New("audio: invalid frame")

// EncodeMulaw compresses one 16-bit linear sample to a µ-law byte.
func EncodeMulaw(sample int16) byte {
	sign := byte(0)
	v := int32(sample)
	if v < 0 {
		// -32768 has no positive counterpart in int16; saturate instead of
		// overflowing on negation.
		if v == -32768 {
			v = 32767
		} else {
			v = -v
		}
		sign = 0x80
	}
	if v > ulawClip {
		v = ulawClip
	}
	v += ulawBias

	exponent := int32(7)
	for mask := int32(0x4000); exponent > 0 && v&mask == 0; mask >>= 1 {
		exponent--
	}
	mantissa := (v >> (uint(exponent) + 3)) & 0x0F

	// µ-law transmits the complement of the code word.
	return ^(sign | byte(exponent)<<4 | byte(mantissa))
}

// DecodeMulaw expands one µ-law byte to a 16-bit linear sample.
func DecodeMulaw(b byte) int16 {
	u := ^b
	sign := u & 0x80
	exponent := (u >> 4) & 0x07
	mantissa := u & 0x0F

	v := ((int32(mantissa) << 3) + ulawBias) << exponent
	v -= ulawBias

	if sign != 0 {
		return int16(-v)
	}
	return int16(v)
}

// DecodeMulawFrame expands a µ-law frame into 16-bit samples.
func DecodeMulawFrame(frame []byte) ([]int16, error) {
	if len(frame) == 0 {
		return nil, ErrInvalidFrame
	}
	out := make([]int16, len(frame))
	for i, b := range frame {
		out[i] = DecodeMulaw(b)
	}
	return out, nil
}

// EncodeMulawFrame compresses 16-bit samples into a µ-law frame.
func EncodeMulawFrame(samples []int16) ([]byte, error) {
	if len(samples) == 0 {
		return nil, ErrInvalidFrame
	}
	out := make([]byte, len(samples))
	for i, s := range samples {
		out[i] = EncodeMulaw(s)
	}
	return out, nil
}
