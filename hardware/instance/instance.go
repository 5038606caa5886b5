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

// Package instance defines those parts of the emulation that might change
// from instance to instance of the machine, but are not the machine itself.
//
// Particularly useful when running more than one instance of the emulation
// in parallel, e.g. in a test harness comparing two machines cycle for
// cycle.
package instance

import (
	"github.com/gigatron-emu/gigatron-go/hardware/preferences"
	"github.com/gigatron-emu/gigatron-go/random"
)

// Instance defines those parts of the emulation that might change between
// different instantiations of the machine, but are not the machine itself.
type Instance struct {
	Prefs  *preferences.Preferences
	Random *random.Random
}

// NewInstance is the preferred method of initialisation for the Instance
// type. src supplies the cycle count used to seed Random.Rewindable values.
func NewInstance(src random.Source) (*Instance, error) {
	ins := &Instance{
		Random: random.NewRandom(src),
	}

	var err error

	ins.Prefs, err = preferences.NewPreferences()
	if err != nil {
		return nil, err
	}

	return ins, nil
}

// Normalise ensures the instance is in a known default state. Useful for
// regression testing where the initial state must be the same for every
// run: a fixed RAM randomisation seed and default preferences.
func (ins *Instance) Normalise() {
	ins.Random.ZeroSeed = true
	ins.Prefs.SetDefaults()
}
