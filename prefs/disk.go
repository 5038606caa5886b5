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

// Package prefs persists emulator configuration (clock rate, memory sizes,
// audio sample rate and volume, loader timing overrides) to a flat
// "key :: value" text file.
package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// WarningBoilerPlate is prepended to every preferences file written to disk.
const WarningBoilerPlate = "# this file is written by gigatron-go; manual edits may be overwritten"

// Disk associates preference keys with Preference values and persists them
// to a single file.
type Disk struct {
	filename string

	crit    sync.Mutex
	entries map[string]Preference
}

// NewDisk is the preferred method of initialisation for the Disk type. It
// does not read filename; call Load() to populate registered values from an
// existing file.
func NewDisk(filename string) (*Disk, error) {
	return &Disk{
		filename: filename,
		entries:  make(map[string]Preference),
	}, nil
}

// Add registers a Preference under key. It is an error to register the same
// key twice.
func (d *Disk) Add(key string, v Preference) error {
	d.crit.Lock()
	defer d.crit.Unlock()

	if _, ok := d.entries[key]; ok {
		return fmt.Errorf("prefs: key %q already registered", key)
	}
	d.entries[key] = v
	return nil
}

// readRaw reads the existing preferences file, if any, into a flat key/value
// map. A missing file is not an error.
func (d *Disk) readRaw() (map[string]string, error) {
	raw := make(map[string]string)

	f, err := os.Open(d.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return raw, nil
		}
		return raw, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, " :: ")
		if !ok {
			continue
		}
		raw[k] = v
	}

	return raw, sc.Err()
}

// Save writes every registered value to disk, preserving any keys already
// present in the file that are not registered with this Disk instance, and
// sorting all keys alphabetically.
func (d *Disk) Save() error {
	d.crit.Lock()
	defer d.crit.Unlock()

	raw, err := d.readRaw()
	if err != nil {
		return err
	}

	for k, v := range d.entries {
		raw[k] = v.String()
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(WarningBoilerPlate)
	b.WriteString("\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s :: %s\n", k, raw[k])
	}

	return os.WriteFile(d.filename, []byte(b.String()), 0o644)
}

// Load reads the preferences file and applies each known key to its
// registered Preference. Keys present in the file but not registered with
// this Disk instance are ignored (they are preserved on the next Save).
func (d *Disk) Load() error {
	d.crit.Lock()
	defer d.crit.Unlock()

	raw, err := d.readRaw()
	if err != nil {
		return err
	}

	for k, v := range d.entries {
		s, ok := raw[k]
		if !ok {
			continue
		}
		if err := v.Set(s); err != nil {
			return fmt.Errorf("prefs: loading %q: %w", k, err)
		}
	}

	return nil
}
