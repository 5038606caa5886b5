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

package digest

import (
	"crypto/sha1"
	"fmt"
)

// the length of the buffer isn't important beyond being a multiple of the
// sample width and at least sha1.Size bytes long.
const audioBufferLength = 2048 + sha1.Size

// to allow digests over streams longer than audioBufferLength, the previous
// digest value is stuffed into the head of the buffer and included in the
// next digest.
const audioBufferStart = sha1.Size

// Audio accumulates a SHA-1 digest of a 16-bit PCM sample stream, flushing
// and chaining the digest every audioBufferLength bytes.
type Audio struct {
	digest   [sha1.Size]byte
	buffer   []byte
	bufferCt int
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio() *Audio {
	dig := &Audio{}
	dig.buffer = make([]byte, audioBufferLength)
	dig.bufferCt = audioBufferStart
	return dig
}

// Hash implements the Digest interface.
func (dig *Audio) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Audio) ResetDigest() {
	for i := range dig.digest {
		dig.digest[i] = 0
	}
	for i := range dig.buffer {
		dig.buffer[i] = 0
	}
	dig.bufferCt = audioBufferStart
}

// SetSample feeds one stereo sample pair (16-bit signed, little-endian) into
// the digest.
func (dig *Audio) SetSample(left, right int16) error {
	dig.buffer[dig.bufferCt] = byte(left)
	dig.buffer[dig.bufferCt+1] = byte(left >> 8)
	dig.buffer[dig.bufferCt+2] = byte(right)
	dig.buffer[dig.bufferCt+3] = byte(right >> 8)
	dig.bufferCt += 4

	if dig.bufferCt >= len(dig.buffer) {
		return dig.flush()
	}
	return nil
}

func (dig *Audio) flush() error {
	dig.digest = sha1.Sum(dig.buffer)
	n := copy(dig.buffer, dig.digest[:])
	if n != len(dig.digest) {
		return fmt.Errorf("digest: audio: short copy of chained digest")
	}
	dig.bufferCt = audioBufferStart
	return nil
}

// EndStream flushes any partial buffer, so that a short, final run still
// produces a digest reflecting every sample fed to it.
func (dig *Audio) EndStream() error {
	if dig.bufferCt > audioBufferStart {
		return dig.flush()
	}
	return nil
}
