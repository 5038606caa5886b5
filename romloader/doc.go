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

// Package romloader loads the two file formats the machine consumes: raw
// ROM images (a flat stream of big-endian 16-bit instruction words) and
// GT1 program files (the segmented format produced by the Gigatron's dev
// tools). It does not interpret either format; that's gtcpu's and
// gtloader's job respectively.
package romloader
