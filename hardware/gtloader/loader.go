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

// Package gtloader implements the GT1 serial loader: a producer that
// impersonates a gamepad, driving the CPU's input register in cadence with
// HSYNC/VSYNC to upload a parsed GT1 program, then optionally starts it.
//
// Two source variants of this loader exist in the wild: the full
// serial-protocol implementation modelled here, and a simplified variant
// that pokes RAM directly. Only the serial-protocol variant is implemented;
// it is the one that matches real hardware and is exercised by the
// cross-frame checksum continuity it depends on.
package gtloader

import (
	"fmt"

	"github.com/gigatron-emu/gigatron-go/logger"
	"github.com/gigatron-emu/gigatron-go/romloader"
)

// cpuPort is the slice of *gtcpu.CPU that the loader needs: it reads OUT
// to find sync edges, reads and writes the input register, and resets the
// CPU before a fresh upload. Declared here, rather than depending on
// *gtcpu.CPU directly, so the protocol state machine can be driven by a
// test double without pulling in a full instruction-by-instruction
// simulation.
type cpuPort interface {
	OUT() uint8
	InReg() uint8
	SetInput(v uint8)
	Reset()
}

const (
	buttonAUpTime       = 60
	resetWaitFrames     = 100
	payloadFrameSize    = 60
	loaderStartOfFrame  = 0x4c
	loaderInitChecksum  = 0x67
	menuNavDoneAt       = 11 + buttonAUpTime
)

// Input port bit assignments (active-high logical buttons; the CPU's
// input register is always driven as buttons XOR 0xFF).
const (
	btnA    = 0x80
	btnDown = 0x04
)

// Loader drives cpu.SetInput while active. It holds a non-owning reference
// to the CPU: the CPU's lifetime is managed by the machine that also owns
// this Loader.
type Loader struct {
	cpu cpuPort

	state      State
	frameState FrameState

	program *Program

	vsyncCount int

	frameTimeout     int
	framesSinceStart int

	currentSegment int
	segmentOffset  int

	firstByte     uint8
	length        uint8
	addr          uint16
	payload       [payloadFrameSize]byte
	currentByte   uint8
	bitsRemaining int
	payloadIndex  int

	checksum uint8

	prevOut uint8

	errMsg string
}

// New is the preferred method of initialisation for the Loader type.
func New(cpu cpuPort) *Loader {
	return &Loader{cpu: cpu, state: Idle}
}

// SetFrameTimeout bounds how many VSYNCs an upload may take before Tick
// fails it with Error, counted from Start. A value of 0 disables the
// timeout, matching real hardware, which never gives up on its own: a
// test harness that wants to fail fast rather than wait out a stalled
// upload should set this explicitly.
func (l *Loader) SetFrameTimeout(frames int) { l.frameTimeout = frames }

// LoadGT1File reads and parses a GT1 file from disk.
func LoadGT1File(path string) (*Program, error) {
	data, err := romloader.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gtloader: %w", err)
	}
	return ParseGT1(data)
}

// Start begins uploading program. The CPU is reset first, per the
// protocol: the on-target loader is only listening for sync frames
// immediately after reset.
func (l *Loader) Start(program *Program) error {
	if program == nil {
		l.state = Error
		l.errMsg = "no program"
		return fmt.Errorf("gtloader: start: no program")
	}

	l.program = program
	l.currentSegment = 0
	l.segmentOffset = 0
	l.errMsg = ""

	l.cpu.Reset()
	l.prevOut = l.cpu.OUT()
	l.vsyncCount = 0
	l.framesSinceStart = 0
	l.state = ResetWait

	logger.Log("gtloader", "upload started")

	return nil
}

// Reset cancels any upload in progress and returns the loader to Idle. Safe
// to call from any state.
func (l *Loader) Reset() {
	l.state = Idle
	l.program = nil
	l.cpu.SetInput(0xff)
}

// IsActive reports whether the loader currently owns the CPU's input
// register. No external caller may write it while this is true.
func (l *Loader) IsActive() bool {
	switch l.state {
	case ResetWait, MenuNav, SyncFrame, Sending, StartCmd:
		return true
	}
	return false
}

// IsComplete reports whether the upload (and optional start jump) finished
// successfully.
func (l *Loader) IsComplete() bool { return l.state == Complete }

// HasError reports whether the loader transitioned to Error.
func (l *Loader) HasError() bool { return l.state == Error }

// ErrorReason returns a static human-readable explanation of the last
// error, or the empty string if HasError is false.
func (l *Loader) ErrorReason() string { return l.errMsg }

// State returns the loader's current top-level state.
func (l *Loader) State() State { return l.state }

// Progress estimates completion in [0, 1], based on bytes of segment data
// handed off to the frame sender so far.
func (l *Loader) Progress() float64 {
	if l.program == nil || len(l.program.Segments) == 0 {
		return 0
	}

	var total, done int
	for i, seg := range l.program.Segments {
		total += len(seg.Data)
		if i < l.currentSegment {
			done += len(seg.Data)
		} else if i == l.currentSegment {
			done += l.segmentOffset
		}
	}

	if l.state == Complete {
		return 1
	}
	if total == 0 {
		return 1
	}
	return float64(done) / float64(total)
}

// Tick advances the loader by one CPU cycle. It must be called after the
// CPU's own Tick, so that it observes the post-execute OUT state.
func (l *Loader) Tick() {
	switch l.state {
	case Idle, Complete, Error:
		return
	}

	out := l.cpu.OUT()
	risingVSync := ^l.prevOut&out&0x80 != 0
	fallingVSync := l.prevOut & ^out&0x80 != 0
	risingHSync := ^l.prevOut&out&0x40 != 0
	l.prevOut = out

	if risingVSync {
		l.framesSinceStart++
		if l.frameTimeout > 0 && l.framesSinceStart > l.frameTimeout {
			l.state = Error
			l.errMsg = "upload exceeded configured frame timeout"
			l.cpu.SetInput(0xff)
			logger.Log("gtloader", "upload timed out")
			return
		}
	}

	switch l.state {
	case ResetWait:
		if risingVSync {
			l.vsyncCount++
			if l.vsyncCount >= resetWaitFrames {
				l.state = MenuNav
				l.vsyncCount = 0
			}
		}
	case MenuNav:
		if risingVSync {
			l.vsyncCount++
			l.applyMenuSchedule()
			if l.vsyncCount >= menuNavDoneAt {
				l.beginSyncFrame()
			}
		}
	case SyncFrame, Sending, StartCmd:
		l.tickFrame(fallingVSync, risingHSync)
	}
}

func (l *Loader) applyMenuSchedule() {
	n := l.vsyncCount
	switch {
	case n <= 9 && n%2 == 1:
		l.cpu.SetInput(0xff ^ btnDown)
	case n == 11:
		l.cpu.SetInput(0xff ^ btnA)
	default:
		l.cpu.SetInput(0xff)
	}
}

func (l *Loader) beginSyncFrame() {
	l.checksum = 0
	l.setupFrame(0xff, 0, 0, nil)
	l.state = SyncFrame
}

func (l *Loader) setupFrame(firstByte uint8, addr uint16, length uint8, data []byte) {
	l.firstByte = firstByte
	l.addr = addr
	l.length = length
	for i := range l.payload {
		l.payload[i] = 0
	}
	copy(l.payload[:], data)
	l.frameState = WaitVSyncNeg
}

// loadNextDataFrame advances the segment cursor to the next run of up to
// payloadFrameSize bytes and sets up a frame for it. Returns false once
// every segment is exhausted.
func (l *Loader) loadNextDataFrame() bool {
	for l.currentSegment < len(l.program.Segments) {
		seg := l.program.Segments[l.currentSegment]
		remaining := len(seg.Data) - l.segmentOffset
		if remaining <= 0 {
			l.currentSegment++
			l.segmentOffset = 0
			continue
		}

		n := remaining
		if n > payloadFrameSize {
			n = payloadFrameSize
		}

		addr := seg.Address + uint16(l.segmentOffset)
		data := seg.Data[l.segmentOffset : l.segmentOffset+n]
		l.setupFrame(loaderStartOfFrame, addr, uint8(n), data)
		return true
	}
	return false
}

func (l *Loader) finishOrStartCmd() {
	if l.program.HasStartAddress {
		l.setupFrame(loaderStartOfFrame, l.program.StartAddress, 0, nil)
		l.state = StartCmd
		return
	}
	l.state = Complete
	l.cpu.SetInput(0xff)
	logger.Log("gtloader", "upload complete")
}

func (l *Loader) shiftNextBit() {
	bit := l.currentByte&0x80 != 0
	l.shiftBit(bit)
	l.currentByte <<= 1
	l.bitsRemaining--
}

func (l *Loader) shiftBit(b bool) {
	var bit uint8
	if b {
		bit = 1
	}
	l.cpu.SetInput(((l.cpu.InReg() << 1) & 0xff) | bit)
}

func (l *Loader) tickFrame(fallingVSync, risingHSync bool) {
	switch l.frameState {
	case WaitVSyncNeg:
		if fallingVSync {
			l.frameState = WaitHSync1
		}
		return
	case WaitHSync1:
		if risingHSync {
			l.frameState = WaitHSync2
		}
		return
	}

	if !risingHSync {
		return
	}

	switch l.frameState {
	case WaitHSync2:
		l.checksum += l.firstByte
		l.currentByte = l.firstByte
		l.bitsRemaining = 8
		l.shiftNextBit()
		l.frameState = SendFirstByte

	case SendFirstByte:
		if l.bitsRemaining > 0 {
			l.shiftNextBit()
			return
		}
		l.checksum += l.firstByte << 6
		l.checksum += l.length
		l.currentByte = l.length << 2
		l.bitsRemaining = 6
		l.shiftNextBit()
		l.frameState = SendLength

	case SendLength:
		if l.bitsRemaining > 0 {
			l.shiftNextBit()
			return
		}
		l.checksum += uint8(l.addr & 0xff)
		l.currentByte = uint8(l.addr & 0xff)
		l.bitsRemaining = 8
		l.shiftNextBit()
		l.frameState = SendAddrLow

	case SendAddrLow:
		if l.bitsRemaining > 0 {
			l.shiftNextBit()
			return
		}
		l.checksum += uint8((l.addr >> 8) & 0xff)
		l.currentByte = uint8((l.addr >> 8) & 0xff)
		l.bitsRemaining = 8
		l.shiftNextBit()
		l.frameState = SendAddrHigh

	case SendAddrHigh:
		if l.bitsRemaining > 0 {
			l.shiftNextBit()
			return
		}
		l.payloadIndex = 0
		l.checksum += l.payload[0]
		l.currentByte = l.payload[0]
		l.bitsRemaining = 8
		l.shiftNextBit()
		l.frameState = SendPayload

	case SendPayload:
		if l.bitsRemaining > 0 {
			l.shiftNextBit()
			return
		}
		l.payloadIndex++
		if l.payloadIndex < payloadFrameSize {
			l.checksum += l.payload[l.payloadIndex]
			l.currentByte = l.payload[l.payloadIndex]
			l.bitsRemaining = 8
			l.shiftNextBit()
			return
		}
		l.checksum = -l.checksum
		l.currentByte = l.checksum
		l.bitsRemaining = 8
		l.shiftNextBit()
		l.frameState = SendChecksum

	case SendChecksum:
		if l.bitsRemaining > 0 {
			l.shiftNextBit()
			return
		}
		l.frameState = FrameDone
		l.onFrameDone()
	}
}

func (l *Loader) onFrameDone() {
	switch l.state {
	case SyncFrame:
		l.checksum = loaderInitChecksum
		if l.loadNextDataFrame() {
			l.state = Sending
		} else {
			l.finishOrStartCmd()
		}

	case Sending:
		l.segmentOffset += int(l.length)
		if l.loadNextDataFrame() {
			// still Sending
		} else {
			l.finishOrStartCmd()
		}

	case StartCmd:
		l.state = Complete
		l.cpu.SetInput(0xff)
		logger.Log("gtloader", "upload complete")
	}
}
