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

const pixelDepth = 3

// Video accumulates a SHA-1 digest of a 640x480 RGB raster, one frame at a
// time. It does not display anything; it exists purely to give regression
// tests a single comparable value for "the picture looked like this".
//
// Frames are chained: the digest of frame N is folded into the pixel data of
// frame N+1, so two runs that agree frame-for-frame from power-on produce
// the same final hash even though no single frame's hash is recorded
// in isolation.
type Video struct {
	width, height int
	digest        [sha1.Size]byte
	pixels        []byte
	frameNum      int
}

// NewVideo is the preferred method of initialisation for the Video type.
func NewVideo(width, height int) *Video {
	dig := &Video{width: width, height: height}
	dig.pixels = make([]byte, sha1.Size+width*height*pixelDepth)
	return dig
}

// Hash implements the Digest interface.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Video) ResetDigest() {
	for i := range dig.digest {
		dig.digest[i] = 0
	}
	dig.frameNum = 0
}

// SetPixel records the colour of the pixel at (x, y) in the current frame.
// Coordinates outside the raster are ignored.
func (dig *Video) SetPixel(x, y int, r, g, b byte) {
	if x < 0 || x >= dig.width || y < 0 || y >= dig.height {
		return
	}
	i := sha1.Size + (y*dig.width+x)*pixelDepth
	dig.pixels[i] = r
	dig.pixels[i+1] = g
	dig.pixels[i+2] = b
}

// NewFrame folds the previous frame's digest into the pixel buffer and
// hashes it, producing the digest for the frame just completed. Call this
// once per vertical sync, after the last SetPixel of the frame.
func (dig *Video) NewFrame(frameNum int) error {
	n := copy(dig.pixels, dig.digest[:])
	if n != len(dig.digest) {
		return fmt.Errorf("digest: video: short copy of chained digest")
	}
	dig.digest = sha1.Sum(dig.pixels)
	dig.frameNum = frameNum
	return nil
}
