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

package digest_test

import (
	"testing"

	"github.com/gigatron-emu/gigatron-go/digest"
	"github.com/gigatron-emu/gigatron-go/test"
)

func paintFrame(dig *digest.Video, fill byte) {
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			dig.SetPixel(x, y, fill, fill, fill)
		}
	}
}

func TestVideoDigestIsDeterministic(t *testing.T) {
	a := digest.NewVideo(4, 4)
	b := digest.NewVideo(4, 4)

	for i := 0; i < 3; i++ {
		paintFrame(a, byte(i*10))
		err := a.NewFrame(i)
		test.ExpectSuccess(t, err)

		paintFrame(b, byte(i*10))
		err = b.NewFrame(i)
		test.ExpectSuccess(t, err)
	}

	test.ExpectEquality(t, a.Hash(), b.Hash())
}

func TestVideoDigestDiffersOnDifferentContent(t *testing.T) {
	a := digest.NewVideo(4, 4)
	b := digest.NewVideo(4, 4)

	paintFrame(a, 0x10)
	test.ExpectSuccess(t, a.NewFrame(0))

	paintFrame(b, 0x20)
	test.ExpectSuccess(t, b.NewFrame(0))

	test.ExpectInequality(t, a.Hash(), b.Hash())
}

func TestVideoDigestOutOfBoundsIgnored(t *testing.T) {
	dig := digest.NewVideo(4, 4)

	// should not panic
	dig.SetPixel(-1, 0, 1, 2, 3)
	dig.SetPixel(0, -1, 1, 2, 3)
	dig.SetPixel(4, 0, 1, 2, 3)
	dig.SetPixel(0, 4, 1, 2, 3)

	test.ExpectSuccess(t, dig.NewFrame(0))
}

func TestVideoDigestReset(t *testing.T) {
	a := digest.NewVideo(4, 4)
	paintFrame(a, 0x10)
	test.ExpectSuccess(t, a.NewFrame(0))

	b := digest.NewVideo(4, 4)

	a.ResetDigest()

	test.ExpectEquality(t, a.Hash(), b.Hash())
}
