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

// Package random supplies the randomness used to model power-on RAM
// indeterminacy. It draws a distinction between two kinds of randomness:
//
//   - NoRewind: genuinely non-deterministic, seeded from the OS entropy
//     source. Used once, at CPU init, to fill RAM.
//   - Rewindable: deterministic given the same cycle count and ZeroSeed
//     setting. Not used by the CPU/VGA/audio/loader core itself (none of
//     them make randomised decisions mid-run) but kept available for tools
//     that need reproducible pseudo-randomness keyed to emulation time, such
//     as fuzz-style test harnesses that want to replay the same "random"
//     sequence across two otherwise independent runs.
package random

import (
	"math/rand/v2"
)

// Source supplies the current cycle count, used to seed Rewindable values.
type Source interface {
	Cycles() uint64
}

// Random is the per-instance source of randomness.
type Random struct {
	src Source

	// ZeroSeed forces NoRewind to behave deterministically (seed zero),
	// for use in regression tests that need a reproducible "random" RAM
	// image.
	ZeroSeed bool

	noRewind *rand.Rand
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(src Source) *Random {
	return &Random{
		src:      src,
		noRewind: rand.New(rand.NewPCG(newSeed(), newSeed())),
	}
}

func newSeed() uint64 {
	return rand.Uint64()
}

// NoRewind returns a non-deterministic value in [0, ceiling), unless ZeroSeed
// is set in which case it always returns 0. Intended for one-shot
// initialisation (RAM randomisation at power-on) where reproducibility
// across runs is a test convenience, not a hardware requirement.
func (r *Random) NoRewind(ceiling int) int {
	if ceiling <= 0 {
		return 0
	}
	if r.ZeroSeed {
		return 0
	}
	return r.noRewind.IntN(ceiling)
}

// Rewindable returns a value in [0, ceiling) that is a pure function of the
// current cycle count (as reported by the Source) and ZeroSeed. Two Random
// instances observing the same cycle count and the same ZeroSeed will always
// agree, which matters for tools that replay the same instant twice.
func (r *Random) Rewindable(ceiling int) int {
	if ceiling <= 0 {
		return 0
	}
	if r.ZeroSeed {
		return 0
	}

	c := r.src.Cycles()

	// splitmix64-style mix: cheap, deterministic, good enough avalanche for
	// a non-cryptographic per-tick value.
	c += 0x9e3779b97f4a7c15
	z := c
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z = z ^ (z >> 31)

	return int(z % uint64(ceiling))
}
