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

package gtvideo_test

import (
	"testing"

	"github.com/gigatron-emu/gigatron-go/hardware/gtvideo"
	"github.com/gigatron-emu/gigatron-go/test"
)

type fakeCPU struct{ out uint8 }

func (f *fakeCPU) OUT() uint8 { return f.out }

func TestVisiblePixelPaint(t *testing.T) {
	cpu := &fakeCPU{out: 0xc0}
	v := gtvideo.New(cpu)

	// falling VSYNC (bit 7 going low): row=0, pixelIndex=0, frame complete
	// flagged. col advances unconditionally on every tick regardless.
	cpu.out = 0xc0
	v.Tick()
	cpu.out = 0x40 // VSYNC asserted: the falling edge
	v.Tick()
	cpu.out = 0xc0 // VSYNC deasserted again
	v.Tick()
	test.ExpectEquality(t, v.FrameReady(), true)

	// walk down to row 34: each iteration's assert tick is the HSYNC
	// falling edge (row++, col=0); both ticks then add 4 to col, so col
	// ends each iteration at 8, reset back to 0 at the very start of the
	// next iteration's assert tick.
	for r := 0; r < 34; r++ {
		cpu.out = 0x80 // HSYNC asserted (bit 6 low): row++, col=0
		v.Tick()
		cpu.out = 0xc0 // HSYNC deasserted
		v.Tick()
	}

	// row is now 34, col is 8 (this iteration's own two ticks). Advance
	// col with plain ticks until the *next* tick's pre-increment check
	// sees col==48: that takes 10 filler ticks (8->48 in the column value
	// implicitly checked by the following tick).
	for i := 0; i < 10; i++ {
		v.Tick()
	}

	// this tick observes (row, col) == (34, 48): paint a distinctive
	// colour and confirm it lands in the framebuffer as four pixels.
	const rr, gg, bb = 0x2, 0x2, 0x2 // -> replicated 0xAA per channel
	cpu.out = 0xc0 | rr<<4 | gg<<2 | bb
	v.Tick()

	// (34, 48) is the top-left corner of the visible window, and the first
	// write since VSYNC, so it lands at the framebuffer's origin: pixels 0..3.
	fb := v.Framebuffer()
	base := 0

	for p := 0; p < 4; p++ {
		off := base + p*4
		test.ExpectEquality(t, fb[off+0], uint8(0xaa))
		test.ExpectEquality(t, fb[off+1], uint8(0xaa))
		test.ExpectEquality(t, fb[off+2], uint8(0xaa))
		test.ExpectEquality(t, fb[off+3], uint8(0xff))
	}
}

func TestFrameReadyIsOneShot(t *testing.T) {
	cpu := &fakeCPU{out: 0xc0}
	v := gtvideo.New(cpu)

	cpu.out = 0x40
	v.Tick()
	cpu.out = 0xc0
	v.Tick()

	test.ExpectEquality(t, v.FrameReady(), true)
	test.ExpectEquality(t, v.FrameReady(), false)
}

func TestFrameCountIncrementsOnEveryVSyncFallingEdge(t *testing.T) {
	cpu := &fakeCPU{out: 0xc0}
	v := gtvideo.New(cpu)

	for i := 0; i < 3; i++ {
		cpu.out = 0x40
		v.Tick()
		cpu.out = 0xc0
		v.Tick()
	}

	test.ExpectEquality(t, v.FrameCount(), uint64(3))
}

func TestPixelIndexNeverExceedsFramebuffer(t *testing.T) {
	cpu := &fakeCPU{out: 0xc0}
	v := gtvideo.New(cpu)

	// after one VSYNC, drive Height+10 raster lines, each with more ticks
	// than the visible columns; every write must stay inside the
	// framebuffer (an out-of-range write would panic).
	cpu.out = 0x40
	v.Tick()
	cpu.out = 0xc0
	v.Tick()

	for r := 0; r < gtvideo.Height+10; r++ {
		cpu.out = 0x80
		v.Tick()
		cpu.out = 0xc0
		v.Tick()
		for c := 0; c < gtvideo.Width/4+10; c++ {
			v.Tick()
		}
	}

	test.ExpectEquality(t, len(v.Framebuffer()), gtvideo.Width*gtvideo.Height*4)
}
