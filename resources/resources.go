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

// Package resources locates files belonging to the emulator (preferences,
// captured WAV/PNG dumps) underneath a single, predictable directory,
// .gigatron-go, relative to the current working directory.
package resources

import (
	"path/filepath"
)

// baseDirectory is the directory, relative to the current working
// directory, under which all resource files are stored.
const baseDirectory = ".gigatron-go"

// JoinPath builds a relative path of the form ".gigatron-go/<elements...>",
// filtering out empty path elements so that callers don't need to worry
// about trailing separators.
func JoinPath(elements ...string) (string, error) {
	parts := make([]string, 0, len(elements)+1)
	parts = append(parts, baseDirectory)

	for _, e := range elements {
		if e == "" {
			continue
		}
		parts = append(parts, e)
	}

	return filepath.Join(parts...), nil
}
