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

func TestAudioDigestIsDeterministic(t *testing.T) {
	a := digest.NewAudio()
	b := digest.NewAudio()

	for i := 0; i < 5000; i++ {
		test.ExpectSuccess(t, a.SetSample(int16(i), int16(-i)))
		test.ExpectSuccess(t, b.SetSample(int16(i), int16(-i)))
	}

	test.ExpectSuccess(t, a.EndStream())
	test.ExpectSuccess(t, b.EndStream())

	test.ExpectEquality(t, a.Hash(), b.Hash())
}

func TestAudioDigestDiffersOnDifferentContent(t *testing.T) {
	a := digest.NewAudio()
	b := digest.NewAudio()

	for i := 0; i < 10; i++ {
		test.ExpectSuccess(t, a.SetSample(int16(i), 0))
		test.ExpectSuccess(t, b.SetSample(int16(i+1), 0))
	}

	test.ExpectSuccess(t, a.EndStream())
	test.ExpectSuccess(t, b.EndStream())

	test.ExpectInequality(t, a.Hash(), b.Hash())
}

func TestAudioDigestEmptyStreamIsZero(t *testing.T) {
	dig := digest.NewAudio()
	test.ExpectSuccess(t, dig.EndStream())
	test.ExpectEquality(t, dig.Hash(), "0000000000000000000000000000000000000000")
}
