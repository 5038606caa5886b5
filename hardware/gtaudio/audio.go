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

// Package gtaudio derives PCM samples from the CPU's OUTX register at a
// configurable sample rate and feeds them into a lock-free
// single-producer-single-consumer ring buffer. The producer is the
// emulation thread calling Tick; the consumer is the host audio callback
// calling ReadSamples. Each side owns one cursor; neither blocks.
package gtaudio

import "sync/atomic"

const (
	// DefaultBufferSize and DefaultNumBuffers together size the ring
	// buffer's default capacity.
	DefaultBufferSize = 2048
	DefaultNumBuffers = 4

	// DefaultCapacity is the ring buffer's default sample capacity.
	DefaultCapacity = DefaultBufferSize * DefaultNumBuffers

	// alpha is the one-pole DC-blocking filter's coefficient.
	alpha = 0.99
)

// cpuPort is the slice of *gtcpu.CPU that the sampler needs.
type cpuPort interface {
	OUTX() uint8
}

// Audio samples the CPU's 4-bit DAC output (OUTX) into a DC-blocked PCM
// stream, phase-locked to the CPU clock via a simple accumulator so that
// any sample rate can be derived without a resampling filter.
type Audio struct {
	cpu cpuPort

	cpuHz      float64
	sampleRate float64

	cycleCounter float64
	bias         float64

	volume float64
	mute   bool

	buf      []float32
	writeIdx atomic.Uint64
	readIdx  atomic.Uint64
}

// New constructs an Audio sampler observing cpu, ticked at cpuHz, emitting
// samples at sampleRate. The ring buffer is sized to DefaultCapacity.
func New(cpu cpuPort, cpuHz float64, sampleRate int) *Audio {
	return &Audio{
		cpu:        cpu,
		cpuHz:      cpuHz,
		sampleRate: float64(sampleRate),
		volume:     1.0,
		buf:        make([]float32, DefaultCapacity),
	}
}

// Reset clears the ring buffer and the filter's running state, as at
// power-on or a fresh upload.
func (a *Audio) Reset() {
	a.cycleCounter = 0
	a.bias = 0
	a.writeIdx.Store(0)
	a.readIdx.Store(0)
}

// SetVolume scales every emitted sample. Values are not clamped here;
// Tick clamps the final sample to [-1, 1] regardless of volume.
func (a *Audio) SetVolume(v float64) { a.volume = v }

// SetMute silences output without touching the DC blocker's running bias,
// so unmuting doesn't reintroduce a transient.
func (a *Audio) SetMute(m bool) { a.mute = m }

// Tick advances the sampler by one CPU cycle, emitting zero or more
// samples depending on how sampleRate relates to cpuHz. It must be called
// after the CPU's own Tick.
func (a *Audio) Tick() {
	a.cycleCounter += a.sampleRate
	for a.cycleCounter >= a.cpuHz {
		a.cycleCounter -= a.cpuHz
		a.emit()
	}
}

func (a *Audio) emit() {
	raw := float64(a.cpu.OUTX()>>4) / 8.0

	a.bias = alpha*a.bias + (1-alpha)*raw
	sample := raw - a.bias

	sample *= a.volume
	if a.mute {
		sample = 0
	}
	if sample > 1 {
		sample = 1
	} else if sample < -1 {
		sample = -1
	}

	a.push(float32(sample))
}

// push enqueues s, dropping it if the buffer is full. One slot is always
// kept empty so that a full buffer and an empty one remain distinguishable
// using only two monotonically increasing cursors.
func (a *Audio) push(s float32) {
	w := a.writeIdx.Load()
	r := a.readIdx.Load()
	if w-r >= uint64(len(a.buf)-1) {
		return
	}
	a.buf[w%uint64(len(a.buf))] = s
	a.writeIdx.Store(w + 1)
}

// ReadSamples dequeues up to len(out) samples into out, returning the
// count actually read. Reading fewer than requested is normal, not an
// error: the caller pads the remainder with silence.
func (a *Audio) ReadSamples(out []float32) int {
	n := 0
	for n < len(out) {
		r := a.readIdx.Load()
		w := a.writeIdx.Load()
		if r >= w {
			break
		}
		out[n] = a.buf[r%uint64(len(a.buf))]
		a.readIdx.Store(r + 1)
		n++
	}
	return n
}

// AvailableSamples reports how many samples are queued for the consumer.
func (a *Audio) AvailableSamples() int {
	w := a.writeIdx.Load()
	r := a.readIdx.Load()
	return int(w - r)
}
