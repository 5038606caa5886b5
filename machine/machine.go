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

// Package machine wires the CPU, VGA raster, audio sampler and GT1 loader
// into one cooperatively-scheduled whole. It is the only place in the
// module that ticks all four in lock-step, and the only place that owns
// the instance (preferences + RNG) alongside the CPU it seeds.
package machine

import (
	"fmt"

	"github.com/gigatron-emu/gigatron-go/hardware/clocks"
	"github.com/gigatron-emu/gigatron-go/hardware/gtaudio"
	"github.com/gigatron-emu/gigatron-go/hardware/gtcpu"
	"github.com/gigatron-emu/gigatron-go/hardware/gtloader"
	"github.com/gigatron-emu/gigatron-go/hardware/gtvideo"
	"github.com/gigatron-emu/gigatron-go/hardware/instance"
	"github.com/gigatron-emu/gigatron-go/hardware/preferences"
	"github.com/gigatron-emu/gigatron-go/logger"
	"github.com/gigatron-emu/gigatron-go/random"
)

// Machine is the complete emulation core: a CPU and the three subsystems
// that observe it every cycle. CPU is constructed first so that it can
// seed the instance's RNG (it satisfies random.Source via Cycles), and
// every other field holds only a reference to it.
type Machine struct {
	Instance *instance.Instance

	CPU    *gtcpu.CPU
	Video  *gtvideo.Video
	Audio  *gtaudio.Audio
	Loader *gtloader.Loader
}

// NewMachine constructs a fresh Machine, loading preferences from disk (or
// their defaults) and seeding RAM from a genuinely non-deterministic
// source. RAM is randomized once, here, to model power-on indeterminacy;
// it is never re-randomized by Reset.
//
// Instance.NewInstance can't be used for this: it wants a random.Source up
// front, and the only Source this package knows about is the CPU itself,
// which doesn't exist yet. So the Instance is assembled by hand, in the
// only order that actually works: preferences first (no CPU needed), then
// the CPU (sized from those preferences), then a Random seeded from it.
func NewMachine() (*Machine, error) {
	prefs, err := preferences.NewPreferences()
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}

	cfg := gtcpu.Config{}
	if bool(prefs.ExtendedMemory) {
		cfg.RAMBytes = gtcpu.DefaultRAMBytes
	}

	cpu, err := gtcpu.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}

	ins := &instance.Instance{
		Prefs:  prefs,
		Random: random.NewRandom(cpu),
	}
	cpu.RandomizeRAM(ins.Random)

	m := &Machine{
		Instance: ins,
		CPU:      cpu,
		Video:    gtvideo.New(cpu),
		Audio:    gtaudio.New(cpu, clocks.CPUHz, int(ins.Prefs.SampleRate)),
		Loader:   gtloader.New(cpu),
	}

	m.Audio.SetVolume(float64(ins.Prefs.Volume))
	m.Audio.SetMute(bool(ins.Prefs.Mute))
	m.Loader.SetFrameTimeout(int(ins.Prefs.LoaderFrameTimeout))

	logger.Log("machine", "constructed")
	return m, nil
}

// Reset zeros CPU registers and resyncs VGA/audio/loader to the freshly
// reset OUT state. RAM and ROM content survive; the audio ring buffer's
// contents and cursors do not.
func (m *Machine) Reset() {
	m.CPU.Reset()
	m.Video.Reset()
	m.Audio.Reset()
	m.Loader.Reset()
	logger.Log("machine", "reset")
}

// Tick advances every component by exactly one CPU cycle, in the order
// the CPU's own pins require: CPU first, then VGA/audio/loader against the
// post-execute state.
func (m *Machine) Tick() {
	m.CPU.Tick()
	m.Video.Tick()
	m.Audio.Tick()
	m.Loader.Tick()
}

// Run advances the machine by n ticks.
func (m *Machine) Run(n int) {
	for i := 0; i < n; i++ {
		m.Tick()
	}
}

// RunFrame advances the machine by one nominal 60Hz frame's worth of
// ticks, rounding down: the shell should instead poll Video.FrameReady if
// it needs an exact frame boundary rather than a fixed tick count.
func (m *Machine) RunFrame() {
	m.Run(clocks.CPUHz / clocks.FrameRate)
}

// LoadROMBytes installs a program from a raw big-endian 16-bit word
// stream, as LoadROMFile does from a path.
func (m *Machine) LoadROMBytes(data []byte) error {
	if err := m.CPU.LoadROMBytes(data); err != nil {
		return fmt.Errorf("machine: %w", err)
	}
	return nil
}

// LoadROMFile reads and installs a ROM image from path.
func (m *Machine) LoadROMFile(path string) error {
	if err := m.CPU.LoadROMFile(path); err != nil {
		return fmt.Errorf("machine: %w", err)
	}
	return nil
}

// LoadGT1File reads and parses a GT1 program from path, without starting
// an upload. Call StartUpload with the result to actually drive it in.
func (m *Machine) LoadGT1File(path string) (*gtloader.Program, error) {
	prog, err := gtloader.LoadGT1File(path)
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}
	return prog, nil
}

// StartUpload begins streaming program through the loader's simulated
// gamepad protocol. While active, SetButtons must not be called: the
// loader owns the CPU's input register exclusively until it reaches
// Complete, Error, or ResetLoader is called.
func (m *Machine) StartUpload(program *gtloader.Program) error {
	if err := m.Loader.Start(program); err != nil {
		return fmt.Errorf("machine: %w", err)
	}
	return nil
}

// ResetLoader cancels any in-progress upload and returns the loader to
// Idle, releasing the CPU's input register back to SetButtons.
func (m *Machine) ResetLoader() {
	m.Loader.Reset()
}

// SetButtons drives the CPU's input register from an active-high logical
// button mask (see the bit layout in the loader/CPU package docs). It must
// not be called while the loader is active.
func (m *Machine) SetButtons(buttons uint8) error {
	if m.Loader.IsActive() {
		return fmt.Errorf("machine: cannot set buttons while loader is active")
	}
	m.CPU.SetInput(buttons ^ 0xff)
	return nil
}

// FrameReady reports, and clears, whether VGA has completed a new frame
// since the last call.
func (m *Machine) FrameReady() bool { return m.Video.FrameReady() }

// Framebuffer returns the current RGBA8 640x480 framebuffer.
func (m *Machine) Framebuffer() []byte { return m.Video.Framebuffer() }

// ReadSamples drains up to len(out) queued audio samples into out.
func (m *Machine) ReadSamples(out []float32) int { return m.Audio.ReadSamples(out) }

// AvailableSamples reports how many audio samples are queued for the
// consumer.
func (m *Machine) AvailableSamples() int { return m.Audio.AvailableSamples() }

// SetVolume scales sampler output in [0,1] and persists the change to
// preferences.
func (m *Machine) SetVolume(v float64) {
	m.Audio.SetVolume(v)
	_ = m.Instance.Prefs.Volume.Set(v)
}

// SetMute silences sampler output without disturbing the DC blocker, and
// persists the change to preferences.
func (m *Machine) SetMute(mute bool) {
	m.Audio.SetMute(mute)
	_ = m.Instance.Prefs.Mute.Set(mute)
}

// Cycles returns the number of CPU ticks executed since the last Reset.
func (m *Machine) Cycles() uint64 { return m.CPU.Cycles() }
