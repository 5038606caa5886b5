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

// Package clocks defines the constant values that govern the speed of the
// machine's single shared clock. Unlike a console that supports several
// broadcast standards, the Gigatron has exactly one native rate; the
// constant exists mainly so that prefs and the audio sampler's phase
// accumulator have one unambiguous place to source it from.
package clocks

// CPUHz is the default, and only standard, clock rate of the machine: one
// instruction per tick, 6.25 million ticks per second.
const CPUHz = 6_250_000

// FrameRate is the nominal video refresh rate the CPU's main loop targets.
const FrameRate = 60
