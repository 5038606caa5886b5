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

package gtloader

// State indicates the loader's top-level progress through the serial
// upload protocol.
type State int

// List of defined states. Order is not significant; transitions are driven
// explicitly, not by comparison.
const (
	Idle State = iota
	ResetWait
	MenuNav
	SyncFrame
	Sending
	StartCmd
	Complete
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case ResetWait:
		return "ResetWait"
	case MenuNav:
		return "MenuNav"
	case SyncFrame:
		return "SyncFrame"
	case Sending:
		return "Sending"
	case StartCmd:
		return "StartCmd"
	case Complete:
		return "Complete"
	case Error:
		return "Error"
	}
	return ""
}

// FrameState indicates progress through sending a single 60-byte payload
// frame, driven by edges of the CPU's OUT register.
type FrameState int

const (
	WaitVSyncNeg FrameState = iota
	WaitHSync1
	WaitHSync2
	SendFirstByte
	SendLength
	SendAddrLow
	SendAddrHigh
	SendPayload
	SendChecksum
	FrameDone
)

func (s FrameState) String() string {
	switch s {
	case WaitVSyncNeg:
		return "WaitVSyncNeg"
	case WaitHSync1:
		return "WaitHSync1"
	case WaitHSync2:
		return "WaitHSync2"
	case SendFirstByte:
		return "SendFirstByte"
	case SendLength:
		return "SendLength"
	case SendAddrLow:
		return "SendAddrLow"
	case SendAddrHigh:
		return "SendAddrHigh"
	case SendPayload:
		return "SendPayload"
	case SendChecksum:
		return "SendChecksum"
	case FrameDone:
		return "FrameDone"
	}
	return ""
}
