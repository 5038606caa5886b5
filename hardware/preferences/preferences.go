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

// Package preferences collects the machine's user-configurable settings
// (clock rate, extended memory, audio sample rate, volume, mute, loader
// timing overrides) and persists them under the resources directory.
package preferences

import (
	"github.com/gigatron-emu/gigatron-go/hardware/clocks"
	"github.com/gigatron-emu/gigatron-go/prefs"
	"github.com/gigatron-emu/gigatron-go/resources"
)

// Preferences holds every value a running machine consults at reset time.
// Values already in effect for a running CPU/VGA/audio chain are not
// changed retroactively by a Load(); callers should reconstruct the
// machine after loading new preferences.
type Preferences struct {
	dsk *prefs.Disk

	// ClockHz is the CPU clock rate in Hz.
	ClockHz prefs.Int

	// ExtendedMemory selects 128KiB RAM, with bank switching via the CTRL
	// register. Leaving it false does not select 64KiB: NewMachine then
	// leaves the CPU's RAM size at its default, which is also 128KiB, so
	// bank switching is active either way.
	ExtendedMemory prefs.Bool

	// SampleRate is the output audio sample rate in Hz.
	SampleRate prefs.Int

	// Volume scales sampler output in [0.0, 1.0].
	Volume prefs.Float

	// Mute silences sampler output without affecting the DC-blocking filter
	// or ring buffer state.
	Mute prefs.Bool

	// LoaderFrameTimeout bounds how many VSYNCs an upload may take before
	// the loader declares Error, via Loader.SetFrameTimeout. Zero (the
	// default) disables the timeout, matching real hardware. Intended for
	// test harnesses that want to fail fast rather than wait out a stalled
	// upload.
	LoaderFrameTimeout prefs.Int
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. It loads any values already saved to disk over the
// defaults.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	pth, err := resources.JoinPath("prefs")
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	if err := p.dsk.Add("clock.hz", &p.ClockHz); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("memory.extended", &p.ExtendedMemory); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("audio.samplerate", &p.SampleRate); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("audio.volume", &p.Volume); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("audio.mute", &p.Mute); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("loader.frametimeout", &p.LoaderFrameTimeout); err != nil {
		return nil, err
	}

	if err := p.dsk.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults resets every preference to its built-in default, without
// touching whatever may be saved on disk.
func (p *Preferences) SetDefaults() {
	_ = p.ClockHz.Set(clocks.CPUHz)
	_ = p.ExtendedMemory.Set(false)
	_ = p.SampleRate.Set(44100)
	_ = p.Volume.Set(1.0)
	_ = p.Mute.Set(false)
	_ = p.LoaderFrameTimeout.Set(0)
}

// Save persists every preference to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// Load reloads every preference from disk, overwriting current in-memory
// values for keys found there.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}
