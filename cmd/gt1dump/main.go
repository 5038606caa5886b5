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

// Command gt1dump parses a GT1 file and prints its segment table, without
// needing a running machine to inspect it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/gigatron-emu/gigatron-go/hardware/gtloader"
)

func main() {
	graph := flag.String("graph", "", "write a memviz dot graph of the parsed program to this path")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gt1dump [-graph path.dot] file.gt1")
		os.Exit(1)
	}

	path := flag.Arg(0)

	prog, err := gtloader.LoadGT1File(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gt1dump: %v\n", err)
		os.Exit(1)
	}

	dump(prog)

	if *graph != "" {
		if err := dumpGraph(prog, *graph); err != nil {
			fmt.Fprintf(os.Stderr, "gt1dump: %v\n", err)
			os.Exit(1)
		}
	}
}

func dump(prog *gtloader.Program) {
	var total int
	fmt.Printf("%-8s %-8s %s\n", "address", "size", "data")
	for _, seg := range prog.Segments {
		fmt.Printf("0x%04x   %-8d %s\n", seg.Address, len(seg.Data), previewBytes(seg.Data))
		total += len(seg.Data)
	}
	fmt.Printf("\n%d segment(s), %d byte(s) total\n", len(prog.Segments), total)

	if prog.HasStartAddress {
		fmt.Printf("start address: 0x%04x\n", prog.StartAddress)
	} else {
		fmt.Println("no start address")
	}
}

// previewBytes formats the first few bytes of a segment's data, enough to
// eyeball a program's shape without flooding the terminal for large blobs.
func previewBytes(data []byte) string {
	const max = 8
	n := len(data)
	if n > max {
		n = max
	}
	s := ""
	for i := 0; i < n; i++ {
		s += fmt.Sprintf("%02x ", data[i])
	}
	if len(data) > max {
		s += "..."
	}
	return s
}

func dumpGraph(prog *gtloader.Program, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	memviz.Map(f, prog)
	return nil
}
