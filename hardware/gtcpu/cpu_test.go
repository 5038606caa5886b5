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

package gtcpu_test

import (
	"testing"

	"github.com/gigatron-emu/gigatron-go/hardware/gtcpu"
	"github.com/gigatron-emu/gigatron-go/test"
)

// words packs a sequence of 16-bit instruction words into the big-endian
// byte stream LoadROMBytes expects.
func words(ws ...uint16) []byte {
	b := make([]byte, 0, len(ws)*2)
	for _, w := range ws {
		b = append(b, byte(w>>8), byte(w))
	}
	return b
}

// ldAC encodes "LD D -> AC": op=LD(0), mode=0 (D,AC), bus=D(0).
func ldAC(d uint8) uint16 { return uint16(d) }

// addD encodes "ADD D -> AC": op=ADD(4), mode=0, bus=D(0).
func addD(d uint8) uint16 { return 4<<13 | uint16(d) }

// bra encodes "BRA D" (unconditional, same page): op=BR(7), mode=7, bus=D(0).
func bra(d uint8) uint16 { return 7<<13 | 7<<10 | uint16(d) }

// ldOut encodes "LD D,OUT -> OUT": op=LD(0), mode=6, bus=D(0).
func ldOut(d uint8) uint16 { return 6 << 10 | uint16(d) }

func newTestCPU(t *testing.T, rom []byte) *gtcpu.CPU {
	t.Helper()
	c, err := gtcpu.New(gtcpu.Config{})
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, c.LoadROMBytes(rom))
	return c
}

func TestLoadImmediate(t *testing.T) {
	c := newTestCPU(t, words(ldAC(0x37)))

	test.ExpectEquality(t, c.PC(), uint16(0))

	c.Tick()

	test.ExpectEquality(t, c.Snapshot().AC, uint8(0x37))
	test.ExpectEquality(t, c.PC(), uint16(1))
	test.ExpectEquality(t, c.Snapshot().NextPC, uint16(2))
	test.ExpectEquality(t, c.Cycles(), uint64(1))
}

func TestAdd(t *testing.T) {
	c := newTestCPU(t, words(ldAC(5), addD(3)))

	c.Tick()
	c.Tick()

	test.ExpectEquality(t, c.Snapshot().AC, uint8(8))
	test.ExpectEquality(t, c.PC(), uint16(2))
}

func TestBranchAlwaysWithinPage(t *testing.T) {
	c := newTestCPU(t, words(bra(5)))

	c.Tick() // fetches the BRA at pc=0; prefetch advances to pc=1, nextPC overridden to 5
	test.ExpectEquality(t, c.PC(), uint16(1))
	test.ExpectEquality(t, c.Snapshot().NextPC, uint16(5))

	c.Tick() // the branch lands one cycle later, as the prefetch pipeline requires
	test.ExpectEquality(t, c.PC(), uint16(5))
	test.ExpectEquality(t, c.Snapshot().NextPC, uint16(6))
}

func TestOutxLatchesOnRisingBit6(t *testing.T) {
	c := newTestCPU(t, words(
		ldAC(0x55),
		ldOut(0x00), // bit 6 stays low: no edge
		ldOut(0x40), // bit 6 rises: OUTX latches the *current* AC
	))

	c.Tick()
	test.ExpectEquality(t, c.OUTX(), uint8(0))

	c.Tick()
	test.ExpectEquality(t, c.OUT(), uint8(0x00))
	test.ExpectEquality(t, c.OUTX(), uint8(0))

	c.Tick()
	test.ExpectEquality(t, c.OUT(), uint8(0x40))
	test.ExpectEquality(t, c.OUTX(), uint8(0x55))

	// AC is unaffected: the instruction's destination was OUT, not AC.
	test.ExpectEquality(t, c.Snapshot().AC, uint8(0x55))
}

func TestProgramCounterNeverExceedsROMSize(t *testing.T) {
	c, err := gtcpu.New(gtcpu.Config{ROMWords: 16})
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, c.LoadROMBytes(words(bra(0))))

	for i := 0; i < 64; i++ {
		c.Tick()
		test.ExpectEquality(t, c.PC() < 16, true)
		test.ExpectEquality(t, c.Snapshot().NextPC < 16, true)
	}
}

func TestLoadROMBytesZeroPadsShortInput(t *testing.T) {
	c, err := gtcpu.New(gtcpu.Config{})
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, c.LoadROMBytes(words(ldAC(1))))

	c.Tick()
	test.ExpectEquality(t, c.Snapshot().AC, uint8(1))

	// the rest of ROM is zero, which decodes as "LD D -> AC" with d=0.
	c.Tick()
	test.ExpectEquality(t, c.Snapshot().AC, uint8(0))
}

func TestResetPreservesRAMAndROM(t *testing.T) {
	c := newTestCPU(t, words(ldAC(0x42)))
	c.Tick()
	test.ExpectEquality(t, c.Snapshot().AC, uint8(0x42))

	c.Reset()

	test.ExpectEquality(t, c.PC(), uint16(0))
	test.ExpectEquality(t, c.Snapshot().AC, uint8(0))
	test.ExpectEquality(t, c.Cycles(), uint64(0))

	// ROM content survives Reset: ticking again reproduces the same load.
	c.Tick()
	test.ExpectEquality(t, c.Snapshot().AC, uint8(0x42))
}

func TestNewRejectsNonPowerOfTwoSizes(t *testing.T) {
	_, err := gtcpu.New(gtcpu.Config{ROMWords: 100})
	test.ExpectFailure(t, err)

	_, err = gtcpu.New(gtcpu.Config{RAMBytes: 100})
	test.ExpectFailure(t, err)
}

func TestExtendedMemoryActivatesAboveBaseRAM(t *testing.T) {
	c, err := gtcpu.New(gtcpu.Config{RAMBytes: gtcpu.DefaultRAMBytes})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c.Extended(), true)

	c, err = gtcpu.New(gtcpu.Config{RAMBytes: 65536})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c.Extended(), false)
}
