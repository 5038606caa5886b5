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

package test

import "fmt"

// CappedWriter is an io.Writer that retains up to a fixed number of bytes.
// Writes beyond the cap are silently ignored (the earliest bytes win), which
// makes it useful for asserting on the start of a long, otherwise
// non-deterministic stream (e.g. a log).
type CappedWriter struct {
	limit int
	buf   []byte
}

// NewCappedWriter creates a CappedWriter that retains at most limit bytes.
func NewCappedWriter(limit int) (*CappedWriter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("test: capped writer limit must be greater than zero")
	}
	return &CappedWriter{limit: limit}, nil
}

// Write implements io.Writer. It never returns an error; bytes beyond the
// configured limit are dropped.
func (c *CappedWriter) Write(p []byte) (int, error) {
	if len(c.buf) >= c.limit {
		return len(p), nil
	}
	room := c.limit - len(c.buf)
	if room > len(p) {
		room = len(p)
	}
	c.buf = append(c.buf, p[:room]...)
	return len(p), nil
}

// String returns the retained bytes as a string.
func (c *CappedWriter) String() string {
	return string(c.buf)
}

// Reset empties the writer.
func (c *CappedWriter) Reset() {
	c.buf = c.buf[:0]
}
