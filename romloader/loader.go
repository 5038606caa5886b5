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

package romloader

import (
	"crypto/sha1"
	"fmt"
	"os"
	"strings"

	"github.com/gigatron-emu/gigatron-go/logger"
	"github.com/gigatron-emu/gigatron-go/resources/fs"
)

// ErrNoFilename is returned by NewLoader when given an empty, or
// whitespace-only, filename.
var ErrNoFilename = fmt.Errorf("romloader: no filename")

// Loader abstracts loading a ROM or GT1 file from disk. Unlike a streaming
// cartridge format, both of the formats this emulator reads are small
// enough to hold entirely in memory, so Loader has no open-file state: Load
// reads the whole thing and records its hash.
type Loader struct {
	// Filename is the absolute path of the file that was, or will be,
	// loaded.
	Filename string

	// HashSHA1 is populated after a successful Load. If it was already
	// set before calling Load (e.g. from a properties database entry),
	// Load fails if the loaded data doesn't match.
	HashSHA1 string

	// Data holds the file contents after a successful Load.
	Data []byte
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string) (Loader, error) {
	if strings.TrimSpace(filename) == "" {
		return Loader{}, ErrNoFilename
	}

	abs, err := fs.Abs(filename)
	if err != nil {
		return Loader{}, fmt.Errorf("romloader: %w", err)
	}

	return Loader{Filename: abs}, nil
}

// Load reads the file into Data and computes HashSHA1, failing if a
// previously-set expected hash doesn't match.
func (ld *Loader) Load() error {
	data, err := os.ReadFile(ld.Filename)
	if err != nil {
		return fmt.Errorf("romloader: %w", err)
	}

	hash := fmt.Sprintf("%x", sha1.Sum(data))
	if ld.HashSHA1 != "" && ld.HashSHA1 != hash {
		return fmt.Errorf("romloader: unexpected SHA1 hash for %s", ld.Filename)
	}
	ld.HashSHA1 = hash
	ld.Data = data

	logger.Logf("romloader", "loaded %s (%d bytes, sha1 %s)", ld.Filename, len(data), hash)

	return nil
}

// ReadFile is a convenience wrapper for callers (such as gtcpu.LoadROMFile)
// that just want the bytes, with path resolution applied.
func ReadFile(path string) ([]byte, error) {
	ld, err := NewLoader(path)
	if err != nil {
		return nil, err
	}
	if err := ld.Load(); err != nil {
		return nil, err
	}
	return ld.Data, nil
}
