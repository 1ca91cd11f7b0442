package audio

import "encoding/binary"

// Bridge transformations between the telephony leg (µ-law, 8 kHz) and the
// model leg (linear PCM16). Inbound caller audio is upsampled 8 kHz -> 16 kHz
// for the model; model speech arrives at 24 kHz and is decimated 3:1 back to
// 8 kHz for the phone.
//
// All functions are stateless and per-frame, so both legs can call them from
// their own loops without sharing any buffer.

// MediaToModel converts a µ-law frame at 8 kHz into little-endian PCM16 at
// 16 kHz for the model's realtime input.
func MediaToModel(frame []byte) ([]byte, error) {
	samples, err := DecodeMulawFrame(frame)
	if err != nil {
		return nil, err
	}
	wide := Upsample8kTo16k(samples)
	return pcm16ToBytes(wide), nil
}

// ModelToMedia converts a little-endian PCM16 frame at 24 kHz from the model
// into a µ-law frame at 8 kHz for the telephony stream.
func ModelToMedia(frame []byte) ([]byte, error) {
	samples, err := bytesToPCM16(frame)
	if err != nil {
		return nil, err
	}
	narrow := Downsample24kTo8k(samples)
	return EncodeMulawFrame(narrow)
}

// Upsample8kTo16k doubles the sample rate by linear interpolation: even
// output samples are the input samples, odd ones the integer mean of the
// neighbouring pair. The final sample is held rather than extrapolated.
func Upsample8kTo16k(in []int16) []int16 {
	if len(in) == 0 {
		return nil
	}
	out := make([]int16, len(in)*2)
	for i, s := range in {
		out[2*i] = s
		if i+1 < len(in) {
			out[2*i+1] = int16((int32(s) + int32(in[i+1])) / 2)
		} else {
			out[2*i+1] = s
		}
	}
	return out
}

// Downsample24kTo8k decimates 3:1 with a uniform 3-tap box filter: each
// output sample is the integer mean of a non-overlapping window of three
// input samples. The box average doubles as the anti-alias pre-filter for
// the 8 kHz target. A short tail window is averaged over what remains.
func Downsample24kTo8k(in []int16) []int16 {
	if len(in) == 0 {
		return nil
	}
	n := (len(in) + 2) / 3
	out := make([]int16, 0, n)
	for i := 0; i < len(in); i += 3 {
		end := i + 3
		if end > len(in) {
			end = len(in)
		}
		var sum int32
		for _, s := range in[i:end] {
			sum += int32(s)
		}
		out = append(out, int16(sum/int32(end-i)))
	}
	return out
}

func pcm16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func bytesToPCM16(b []byte) ([]int16, error) {
	if len(b) == 0 || len(b)%2 != 0 {
		return nil, ErrInvalidFrame
	}
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return out, nil
}
