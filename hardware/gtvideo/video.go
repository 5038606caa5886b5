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

// Package gtvideo reconstructs the Gigatron's 640x480 VGA raster purely
// from the sync and colour bits of the CPU's OUT register. It never reads
// RAM or ROM; a real VGA monitor couldn't either.
package gtvideo

const (
	// Width and Height are the framebuffer's fixed dimensions. Each
	// Gigatron pixel covers 4 of these columns, since the visible window
	// is 640 physical VGA columns wide but the machine only emits one new
	// colour every 4 of them.
	Width  = 640
	Height = 480

	vBackPorch = 34
	vVisible   = 480
	hBackPorch = 48
	hVisible   = 640

	bytesPerPixel = 4
)

// cpuPort is the slice of *gtcpu.CPU that the raster reconstructor needs.
type cpuPort interface {
	OUT() uint8
}

// Video reconstructs a framebuffer from CPU OUT edges, one tick at a time.
// It holds only a non-owning reference to the CPU it observes.
type Video struct {
	cpu cpuPort

	row, col   int
	pixelIndex int

	prevOut       uint8
	frameComplete bool
	frameCount    uint64

	fb []byte
}

// New constructs a Video raster reconstructor observing cpu. The
// framebuffer starts cleared to opaque black.
func New(cpu cpuPort) *Video {
	v := &Video{
		cpu:     cpu,
		fb:      make([]byte, Width*Height*bytesPerPixel),
		prevOut: cpu.OUT(),
	}
	v.clear()
	return v
}

func (v *Video) clear() {
	for i := 0; i < len(v.fb); i += bytesPerPixel {
		v.fb[i+0] = 0
		v.fb[i+1] = 0
		v.fb[i+2] = 0
		v.fb[i+3] = 0xff
	}
}

// Reset clears the framebuffer and raster position, as at power-on.
func (v *Video) Reset() {
	v.row, v.col = 0, 0
	v.pixelIndex = 0
	v.prevOut = v.cpu.OUT()
	v.frameComplete = false
	v.frameCount = 0
	v.clear()
}

// channel2to8 replicates a 2-bit colour channel into a full 8-bit value:
// 0b00->0x00, 0b01->0x55, 0b10->0xAA, 0b11->0xFF.
func channel2to8(c uint8) uint8 {
	c &= 0x3
	return c | c<<2 | c<<4 | c<<6
}

// Tick advances the raster reconstructor by one CPU cycle. It must be
// called after the CPU's own Tick, so that it observes the post-execute
// OUT state.
func (v *Video) Tick() {
	out := v.cpu.OUT()
	prevOut := v.prevOut
	v.prevOut = out

	fallingVSync := prevOut&0x80 != 0 && out&0x80 == 0
	fallingHSync := prevOut&0x40 != 0 && out&0x40 == 0

	if fallingVSync {
		v.row = 0
		v.pixelIndex = 0
		v.frameComplete = true
		v.frameCount++
	} else if fallingHSync {
		v.col = 0
		v.row++
	}

	bothSyncsHigh := out&0xc0 == 0xc0
	inWindow := v.row >= vBackPorch && v.row < vBackPorch+vVisible &&
		v.col >= hBackPorch && v.col < hBackPorch+hVisible

	if bothSyncsHigh && inWindow {
		r := channel2to8((out >> 4) & 0x3)
		g := channel2to8((out >> 2) & 0x3)
		b := channel2to8(out & 0x3)

		if v.pixelIndex+4*bytesPerPixel <= len(v.fb) {
			for p := 0; p < 4; p++ {
				off := v.pixelIndex + p*bytesPerPixel
				v.fb[off+0] = r
				v.fb[off+1] = g
				v.fb[off+2] = b
				v.fb[off+3] = 0xff
			}
			v.pixelIndex += 4 * bytesPerPixel
		}
	}

	v.col += 4
}

// FrameReady is a one-shot check: it reports whether a new frame has been
// completed since the last call, clearing the flag as it does.
func (v *Video) FrameReady() bool {
	ready := v.frameComplete
	v.frameComplete = false
	return ready
}

// Framebuffer returns the current RGBA8 framebuffer, Width*Height*4 bytes,
// row-major, top-left origin. The returned slice is shared with Video and
// must not be retained past the next Tick.
func (v *Video) Framebuffer() []byte { return v.fb }

// FrameCount returns the number of frames completed (VSYNC falling edges
// observed) since construction or the last Reset.
func (v *Video) FrameCount() uint64 { return v.frameCount }
