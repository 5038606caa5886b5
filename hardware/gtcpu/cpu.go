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

// Package gtcpu implements the Gigatron's Harvard-architecture CPU: a
// 16-bit ROM of instruction words, an 8-bit RAM with optional 128KiB bank
// switching, and the handful of 8-bit registers the instruction set
// operates on.
//
// The CPU has no error paths once constructed: every OP/MODE/BUS/D
// combination is fully defined and every memory access is masked, so Tick
// never fails.
package gtcpu

import (
	"fmt"

	"github.com/gigatron-emu/gigatron-go/logger"
	"github.com/gigatron-emu/gigatron-go/random"
	"github.com/gigatron-emu/gigatron-go/romloader"
)

// Opcodes, the top three bits of an instruction word.
const (
	opLD = iota
	opAND
	opOR
	opXOR
	opADD
	opSUB
	opST
	opBR
)

// Bus source selectors.
const (
	busD = iota
	busRAM
	busAC
	busIN
)

// DefaultROMWords is the size of ROM in 16-bit words on an unmodified
// machine: 64 Ki words.
const DefaultROMWords = 1 << 16

// DefaultRAMBytes is the size of RAM in bytes on an extended-memory
// machine: 128 KiB, enough to address every bank-switched page.
const DefaultRAMBytes = 128 * 1024

// Config describes the shape of a CPU at construction time.
type Config struct {
	// ROMWords is the number of addressable 16-bit instruction words. Must
	// be a power of two. Zero selects DefaultROMWords.
	ROMWords int

	// RAMBytes is the number of addressable 8-bit bytes. Must be a power
	// of two. Zero selects DefaultRAMBytes. Extended-memory bank switching
	// (the CTRL register side channel) activates automatically whenever
	// this exceeds 65536.
	RAMBytes int
}

// CPU is the Gigatron's instruction processor. It owns ROM and RAM for the
// lifetime of the emulation; VGA, audio and loader hold only a read
// reference to it and are ticked alongside it by the machine package.
type CPU struct {
	rom []uint16
	ram []byte

	romMask uint16
	ramMask uint32

	extended bool

	pc, nextPc uint16
	ac, x, y   uint8
	out, outx  uint8
	inReg      uint8

	ctrl     uint16
	bank     uint32
	prevCtrl int32
	miso     uint8

	cycles uint64
}

// New allocates a CPU with the given configuration. ROM and RAM are
// zeroed; call RandomizeRAM to model power-on indeterminacy and
// LoadROMBytes/LoadROMFile to install a program.
func New(cfg Config) (*CPU, error) {
	romWords := cfg.ROMWords
	if romWords == 0 {
		romWords = DefaultROMWords
	}
	ramBytes := cfg.RAMBytes
	if ramBytes == 0 {
		ramBytes = DefaultRAMBytes
	}

	if romWords&(romWords-1) != 0 {
		return nil, fmt.Errorf("gtcpu: ROMWords (%d) must be a power of two", romWords)
	}
	if ramBytes&(ramBytes-1) != 0 {
		return nil, fmt.Errorf("gtcpu: RAMBytes (%d) must be a power of two", ramBytes)
	}

	c := &CPU{
		rom:      make([]uint16, romWords),
		ram:      make([]byte, ramBytes),
		romMask:  uint16(romWords - 1),
		ramMask:  uint32(ramBytes - 1),
		extended: ramBytes > 65536,
		ctrl:     0x7c,
		prevCtrl: -1,
		miso:     0xff,
		nextPc:   1,
	}

	return c, nil
}

// RandomizeRAM fills RAM with values drawn from rnd, modelling real
// power-on indeterminacy. Call once, at init; never at Reset.
func (c *CPU) RandomizeRAM(rnd *random.Random) {
	for i := range c.ram {
		c.ram[i] = byte(rnd.NoRewind(256))
	}
}

// Reset zeros every register but leaves RAM and ROM intact.
func (c *CPU) Reset() {
	c.pc = 0
	c.nextPc = 1
	c.ac, c.x, c.y = 0, 0, 0
	c.out, c.outx = 0, 0
	c.inReg = 0
	c.ctrl = 0x7c
	c.bank = 0
	c.prevCtrl = -1
	c.cycles = 0
}

// LoadROMBytes installs a program from a raw byte stream of big-endian
// 16-bit words. Bytes beyond the ROM's capacity are ignored; a short
// stream leaves the remainder of ROM zeroed.
func (c *CPU) LoadROMBytes(data []byte) error {
	for i := range c.rom {
		c.rom[i] = 0
	}
	for i := range c.rom {
		hi := i * 2
		lo := hi + 1
		var word uint16
		if hi < len(data) {
			word = uint16(data[hi]) << 8
		}
		if lo < len(data) {
			word |= uint16(data[lo])
		}
		c.rom[i] = word
	}
	return nil
}

// LoadROMFile reads a ROM image from path and installs it via LoadROMBytes.
func (c *CPU) LoadROMFile(path string) error {
	data, err := romloader.ReadFile(path)
	if err != nil {
		return fmt.Errorf("gtcpu: %w", err)
	}
	return c.LoadROMBytes(data)
}

// SetInput drives the input register. While a loader is active it owns
// this register exclusively; callers must not write it concurrently (see
// the loader package).
func (c *CPU) SetInput(v uint8) {
	c.inReg = v
}

// SetMISO drives the SPI MISO latch consulted by RAM reads when CTRL bit 0
// is set on an extended-memory build.
func (c *CPU) SetMISO(v uint8) {
	c.miso = v
}

// InReg returns the current value of the input register, as last set by
// SetInput.
func (c *CPU) InReg() uint8 { return c.inReg }

// OUT returns the current value of the OUT register (sync bits + colour).
func (c *CPU) OUT() uint8 { return c.out }

// OUTX returns the current value of the audio DAC latch.
func (c *CPU) OUTX() uint8 { return c.outx }

// HSYNC reports whether horizontal sync is currently asserted (active low).
func (c *CPU) HSYNC() bool { return c.out&0x40 == 0 }

// VSYNC reports whether vertical sync is currently asserted (active low).
func (c *CPU) VSYNC() bool { return c.out&0x80 == 0 }

// Color returns the 6-bit RRGGBB colour currently on the OUT pins.
func (c *CPU) Color() uint8 { return c.out & 0x3f }

// PC returns the program counter that will be fetched from on the next
// Tick.
func (c *CPU) PC() uint16 { return c.pc }

// Cycles returns the number of ticks executed since the last Reset. It
// satisfies random.Source, letting the CPU itself seed Rewindable values.
func (c *CPU) Cycles() uint64 { return c.cycles }

// CTRL returns the current value of the extended-memory control register.
func (c *CPU) CTRL() uint16 { return c.ctrl }

// Extended reports whether this CPU was configured with more than 64KiB of
// RAM, activating bank switching via CTRL.
func (c *CPU) Extended() bool { return c.extended }

// Registers is a cheap value-copy snapshot of the CPU's register file,
// useful for test assertions and for a future rewind feature; it does not
// copy ROM or RAM.
type Registers struct {
	PC, NextPC    uint16
	AC, X, Y      uint8
	Out, OutX     uint8
	InReg         uint8
	CTRL          uint16
	Bank          uint32
	Cycles        uint64
}

// Snapshot captures the current register file.
func (c *CPU) Snapshot() Registers {
	return Registers{
		PC:     c.pc,
		NextPC: c.nextPc,
		AC:     c.ac,
		X:      c.x,
		Y:      c.y,
		Out:    c.out,
		OutX:   c.outx,
		InReg:  c.inReg,
		CTRL:   c.ctrl,
		Bank:   c.bank,
		Cycles: c.cycles,
	}
}

// Plumb restores a previously captured register snapshot. RAM and ROM are
// unaffected: this is a register-file rewind, not a full machine rewind.
func (c *CPU) Plumb(r Registers) {
	c.pc = r.PC
	c.nextPc = r.NextPC
	c.ac = r.AC
	c.x = r.X
	c.y = r.Y
	c.out = r.Out
	c.outx = r.OutX
	c.inReg = r.InReg
	c.ctrl = r.CTRL
	c.bank = r.Bank
	c.cycles = r.Cycles
}

// Tick executes exactly one instruction: capture pc, advance the prefetch
// pipeline, execute the captured instruction, and count the cycle.
func (c *CPU) Tick() {
	c.prevCtrl = -1

	fetchPC := c.pc
	c.pc = c.nextPc
	c.nextPc = (c.pc + 1) & c.romMask

	instr := c.rom[fetchPC&c.romMask]
	c.execute(instr, fetchPC)

	c.cycles++
}

// Run advances the CPU by n ticks.
func (c *CPU) Run(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

func (c *CPU) execute(instr uint16, fetchPC uint16) {
	op := uint8((instr >> 13) & 0x7)
	mode := uint8((instr >> 10) & 0x7)
	bus := uint8((instr >> 8) & 0x3)
	d := uint8(instr & 0xff)

	switch op {
	case opBR:
		c.branch(mode, bus, d, fetchPC)
	case opST:
		c.store(mode, bus, d)
	default:
		c.alu(op, mode, bus, d)
	}
}

// computeAddr resolves the effective RAM address for the given MODE field.
// MODE 7 (Y:X then X++) increments X as a side effect, unconditionally:
// the address-computation hardware runs every cycle mode selects it,
// independent of whether the bus actually reads or writes RAM.
func (c *CPU) computeAddr(mode, d uint8) uint16 {
	switch mode {
	case 0, 4, 5, 6: // D, D,X  D,Y  D,OUT
		return uint16(d)
	case 1: // X
		return uint16(c.x)
	case 2: // YD
		return uint16(c.y)<<8 | uint16(d)
	case 3: // YX
		return uint16(c.y)<<8 | uint16(c.x)
	case 7: // YX++,OUT
		addr := uint16(c.y)<<8 | uint16(c.x)
		c.x++
		return addr
	}
	return 0
}

// translate maps a logical RAM address to a physical RAM offset, applying
// bank-switching XOR on extended-memory builds.
func (c *CPU) translate(addr uint16) uint32 {
	a := uint32(addr)
	if c.extended && addr&0x8000 != 0 {
		a ^= c.bank
	}
	return a & c.ramMask
}

// busValue resolves the BUS-selected operand: immediate D, a RAM read (or
// SPI MISO when CTRL bit 0 routes reads there), AC, or the input register.
func (c *CPU) busValue(bus uint8, addr uint16, d uint8) uint8 {
	switch bus {
	case busD:
		return d
	case busRAM:
		if c.extended && c.ctrl&1 != 0 {
			return c.miso
		}
		return c.ram[c.translate(addr)]
	case busAC:
		return c.ac
	case busIN:
		return c.inReg
	}
	return 0
}

// writeOut latches the value onto OUT and, if bit 6 rises, latches AC into
// OUTX: the only way the audio DAC register ever changes.
func (c *CPU) writeOut(newOut uint8) {
	prevOut := c.out
	c.out = newOut
	if ^prevOut&newOut&0x40 != 0 {
		c.outx = c.ac
		logger.Logf("CPU", "OUTX latched %#02x at cycle %d", c.outx, c.cycles)
	}
}

func (c *CPU) alu(op, mode, bus, d uint8) {
	addr := c.computeAddr(mode, d)
	operand := c.busValue(bus, addr, d)

	var result uint8
	switch op {
	case opLD:
		result = operand
	case opAND:
		result = c.ac & operand
	case opOR:
		result = c.ac | operand
	case opXOR:
		result = c.ac ^ operand
	case opADD:
		result = c.ac + operand
	case opSUB:
		result = c.ac - operand
	}

	switch mode {
	case 0, 1, 2, 3:
		c.ac = result
	case 4:
		c.x = result
	case 5:
		c.y = result
	case 6, 7:
		c.writeOut(result)
	}
}

// store implements opcode ST. BUS=RAM is special: on an extended-memory
// build it writes the CTRL register instead of RAM, selecting a new bank;
// on a base build it stores zero.
func (c *CPU) store(mode, bus, d uint8) {
	addr := c.computeAddr(mode, d)

	switch bus {
	case busD:
		c.ram[c.translate(addr)] = d
	case busRAM:
		if c.extended {
			c.prevCtrl = int32(c.ctrl)
			c.ctrl = addr & 0x80fd
			c.bank = (uint32(c.ctrl&0xc0) << 9) ^ 0x8000
			logger.Logf("CPU", "CTRL write %#04x bank %#06x", c.ctrl, c.bank)
		} else {
			c.ram[c.translate(addr)] = 0
		}
	case busAC:
		c.ram[c.translate(addr)] = c.ac
	case busIN:
		c.ram[c.translate(addr)] = c.inReg
	}

	switch mode {
	case 4:
		c.x = c.ac
	case 5:
		c.y = c.ac
	}
}

// branch implements opcode BR. MODE 0 (JMP) and MODE 7 (BRA) are
// unconditional; the rest compare AC, reinterpreted as a signed two's
// complement byte, against zero. A taken branch sets nextPc, which lands
// one tick later due to the CPU's one-instruction prefetch.
func (c *CPU) branch(mode, bus, d uint8, fetchPC uint16) {
	switch mode {
	case 0: // JMP: high byte from Y, low byte from the bus-selected offset
		offset := c.busValue(bus, uint16(d), d)
		c.nextPc = uint16(c.y)<<8 | uint16(offset)
		return
	case 7: // BRA: unconditional, within the current 256-byte page
		offset := c.busValue(bus, uint16(d), d)
		c.nextPc = (fetchPC & 0xff00) | uint16(offset)
		return
	}

	signed := int8(c.ac)
	var taken bool
	switch mode {
	case 1:
		taken = signed > 0
	case 2:
		taken = signed < 0
	case 3:
		taken = c.ac != 0
	case 4:
		taken = c.ac == 0
	case 5:
		taken = signed >= 0
	case 6:
		taken = signed <= 0
	}

	if taken {
		offset := c.busValue(bus, uint16(d), d)
		c.nextPc = (fetchPC & 0xff00) | uint16(offset)
	}
}
