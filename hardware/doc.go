// Package hardware is the base package for the emulation core. Its
// sub-packages contain everything required for a headless emulation: the
// CPU, the VGA raster reconstruction, the audio sampler, and the GT1
// loader.
//
// None of the sub-packages own each other. They are wired together, and
// ticked in lock-step, by the machine package.
package hardware
