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

// Package digest produces cryptographic hashes of the video and audio
// streams, chained frame-to-frame and flush-to-flush, for use as the basis
// of regression tests: if a hash recorded against a known-good run differs
// from a hash produced by a later run against the same ROM and GT1 file,
// something changed.
package digest

// Digest implementations return a hex-encoded hash summarising everything
// fed to them since the last ResetDigest.
type Digest interface {
	Hash() string
	ResetDigest()
}
