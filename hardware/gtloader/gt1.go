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

import "fmt"

// Segment is a contiguous run of bytes destined for a fixed RAM address.
type Segment struct {
	Address uint16
	Data    []byte
}

// Program is a parsed GT1 file: an ordered sequence of segments and an
// optional start address that the StartCmd frame will jump to once every
// segment has been sent.
type Program struct {
	Segments        []Segment
	StartAddress    uint16
	HasStartAddress bool
}

// ParseGT1 parses the two-pass GT1 format: a stream of
// [addrHi][addrLo][sizeByte][size bytes of data] segments (sizeByte == 0
// means 256), terminated by a top-level 0x00 byte followed by
// [startHi][startLo]. Malformed input (a short segment, a truncated
// trailer, zero segments) fails with no partial Program produced.
func ParseGT1(data []byte) (*Program, error) {
	prog := &Program{}

	i := 0
	for {
		if i >= len(data) {
			return nil, fmt.Errorf("gtloader: gt1: truncated segment stream")
		}

		addrHi := data[i]
		if addrHi == 0x00 && i != 0 {
			// end of segment stream: two bytes of start address follow
			if i+2 >= len(data) {
				return nil, fmt.Errorf("gtloader: gt1: truncated start-address trailer")
			}
			startHi := data[i+1]
			startLo := data[i+2]
			prog.StartAddress = uint16(startHi)<<8 | uint16(startLo)
			prog.HasStartAddress = prog.StartAddress != 0
			break
		}

		if i+2 >= len(data) {
			return nil, fmt.Errorf("gtloader: gt1: truncated segment header")
		}
		addrLo := data[i+1]
		sizeByte := data[i+2]

		size := int(sizeByte)
		if size == 0 {
			size = 256
		}

		start := i + 3
		end := start + size
		if end > len(data) {
			return nil, fmt.Errorf("gtloader: gt1: truncated segment data")
		}

		seg := Segment{
			Address: uint16(addrHi)<<8 | uint16(addrLo),
			Data:    append([]byte(nil), data[start:end]...),
		}
		prog.Segments = append(prog.Segments, seg)

		i = end
	}

	if len(prog.Segments) == 0 {
		return nil, fmt.Errorf("gtloader: gt1: no segments")
	}

	return prog, nil
}
