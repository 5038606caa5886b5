// This file is part of gigatron-go.
//
// gigatron-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// gigatron-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with gigatron-go.  If not, see <https://www.gnu.org/licenses/>.

package gtaudio

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// FloatToInt16 converts a clamped [-1, 1] sample to 16-bit signed PCM, the
// same conversion WriteWAV applies to whatever it drains from a ring
// buffer. Exported so a caller accumulating samples across many Reset-free
// ReadSamples calls (to avoid overflowing the ring buffer on a long run)
// can build the same []int16 shape and hand it to EncodeWAV directly.
func FloatToInt16(s float32) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(s * 32767)
}

// EncodeWAV writes pcm (16-bit signed, mono) to path as a WAV file at
// sampleRate.
func EncodeWAV(path string, pcm []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gtaudio: %w", err)
	}
	defer f.Close()

	data := make([]int, len(pcm))
	for i, s := range pcm {
		data[i] = int(s)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("gtaudio: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("gtaudio: %w", err)
	}
	return nil
}

// WriteWAV drains up to n queued samples from a and encodes them via
// EncodeWAV. Suitable for a short capture where the ring buffer hasn't
// been drained anywhere else; a run long enough to overflow the ring
// buffer's capacity should instead drain incrementally with ReadSamples
// and call EncodeWAV directly on the accumulated result.
func WriteWAV(path string, a *Audio, sampleRate, n int) error {
	samples := make([]float32, n)
	got := a.ReadSamples(samples)
	samples = samples[:got]

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		pcm[i] = FloatToInt16(s)
	}
	return EncodeWAV(path, pcm, sampleRate)
}
