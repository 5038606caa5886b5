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

package main

import (
	"os"
	"syscall"

	"github.com/pkg/term/termios"
)

// keyboard puts stdin into raw, non-blocking mode for the duration of a
// run, so the free-running emulation loop can poll for a single keypress
// (space to pause, q to quit) without waiting on a line of input.
type keyboard struct {
	fd      uintptr
	canAttr syscall.Termios
	rawAttr syscall.Termios
	active  bool
}

func newKeyboard() *keyboard {
	return &keyboard{fd: os.Stdin.Fd()}
}

// enable switches stdin to raw mode. It is a no-op, not an error, when
// stdin isn't a terminal (piped input, CI runs): gtplay still works, it
// just can't be paused interactively.
func (k *keyboard) enable() {
	if err := termios.Tcgetattr(k.fd, &k.canAttr); err != nil {
		return
	}
	k.rawAttr = k.canAttr
	termios.Cfmakeraw(&k.rawAttr)
	// VMIN=0, VTIME=0: Read returns immediately with whatever is waiting,
	// rather than blocking for at least one byte.
	k.rawAttr.Cc[syscall.VMIN] = 0
	k.rawAttr.Cc[syscall.VTIME] = 0
	if err := termios.Tcsetattr(k.fd, termios.TCIFLUSH, &k.rawAttr); err != nil {
		return
	}
	k.active = true
}

// restore puts stdin back into canonical mode. Safe to call even if
// enable never took effect.
func (k *keyboard) restore() {
	if !k.active {
		return
	}
	_ = termios.Tcsetattr(k.fd, termios.TCIFLUSH, &k.canAttr)
	k.active = false
}

// poll returns the next typed byte and true, or 0 and false if nothing is
// waiting. It never blocks.
func (k *keyboard) poll() (byte, bool) {
	if !k.active {
		return 0, false
	}
	var b [1]byte
	n, err := os.Stdin.Read(b[:])
	if err != nil || n == 0 {
		return 0, false
	}
	return b[0], true
}
