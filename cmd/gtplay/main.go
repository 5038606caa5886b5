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

// Command gtplay is a smoke-test driver for the emulation core: it loads a
// ROM, optionally uploads a GT1 program, runs the machine for a fixed
// number of frames, and dumps the captured audio and the final video
// frame to disk. It exercises the same four components (CPU, VGA, audio,
// loader) that any GUI shell would, without needing one.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/gigatron-emu/gigatron-go/diagnostics"
	"github.com/gigatron-emu/gigatron-go/digest"
	"github.com/gigatron-emu/gigatron-go/hardware/clocks"
	"github.com/gigatron-emu/gigatron-go/hardware/gtaudio"
	"github.com/gigatron-emu/gigatron-go/hardware/gtvideo"
	"github.com/gigatron-emu/gigatron-go/logger"
	"github.com/gigatron-emu/gigatron-go/machine"
)

func main() {
	romPath := flag.String("rom", "", "ROM file to load (required)")
	gt1Path := flag.String("gt1", "", "GT1 program to upload before running")
	frames := flag.Int("frames", 60, "number of video frames to run after upload completes")
	wavPath := flag.String("wav", "", "write captured audio to this WAV file")
	pngPath := flag.String("png", "", "write the final video frame to this PNG file")
	diagAddr := flag.String("diag", "", "serve a live stats dashboard at this address, e.g. :8080")
	printDigest := flag.Bool("digest", false, "print running video/audio digests to stdout")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: gtplay -rom file.rom [-gt1 file.gt1] [-frames n] [-wav out.wav] [-png out.png]")
		os.Exit(1)
	}

	if err := run(*romPath, *gt1Path, *frames, *wavPath, *pngPath, *diagAddr, *printDigest); err != nil {
		fmt.Fprintf(os.Stderr, "gtplay: %v\n", err)
		os.Exit(1)
	}
}

func run(romPath, gt1Path string, frames int, wavPath, pngPath, diagAddr string, printDigest bool) error {
	m, err := machine.NewMachine()
	if err != nil {
		return err
	}

	if err := m.LoadROMFile(romPath); err != nil {
		return err
	}
	logger.Logf("gtplay", "loaded ROM %s", romPath)

	if diagAddr != "" {
		srv := diagnostics.Serve(diagAddr, m)
		defer srv.Close()
		logger.Logf("gtplay", "diagnostics dashboard listening on %s", diagAddr)
	}

	if gt1Path != "" {
		prog, err := m.LoadGT1File(gt1Path)
		if err != nil {
			return err
		}
		if err := m.StartUpload(prog); err != nil {
			return err
		}
		logger.Logf("gtplay", "uploading %s", gt1Path)

		if err := driveUploadToCompletion(m); err != nil {
			return err
		}
		logger.Log("gtplay", "upload complete")
	}

	kb := newKeyboard()
	kb.enable()
	defer kb.restore()

	videoDigest := digest.NewVideo(gtvideo.Width, gtvideo.Height)
	audioDigest := digest.NewAudio()

	samples := make([]float32, gtaudio.DefaultCapacity)
	pcm := make([]int16, 0, 1<<20)

	paused := false
	ticksPerFrame := clocks.CPUHz / clocks.FrameRate

	for f := 0; f < frames; f++ {
		if b, ok := kb.poll(); ok {
			switch b {
			case ' ':
				paused = !paused
			case 'q':
				f = frames
				continue
			}
		}
		if paused {
			f--
			continue
		}

		m.Run(ticksPerFrame)

		if printDigest {
			feedVideoDigest(videoDigest, m.Framebuffer())
			if err := videoDigest.NewFrame(f); err != nil {
				return err
			}
			fmt.Printf("frame %d video digest: %s\n", f, videoDigest.Hash())
		}

		n := m.ReadSamples(samples)
		for _, s := range samples[:n] {
			v := gtaudio.FloatToInt16(s)
			pcm = append(pcm, v)
			if printDigest {
				if err := audioDigest.SetSample(v, v); err != nil {
					return err
				}
			}
		}
		if printDigest && n > 0 {
			fmt.Printf("frame %d audio digest: %s\n", f, audioDigest.Hash())
		}
	}

	if printDigest {
		if err := audioDigest.EndStream(); err != nil {
			return err
		}
	}

	if wavPath != "" {
		if err := writeCapturedWAV(wavPath, pcm); err != nil {
			return err
		}
		logger.Logf("gtplay", "wrote %s", wavPath)
	}

	if pngPath != "" {
		if err := writePNG(pngPath, m.Framebuffer()); err != nil {
			return err
		}
		logger.Logf("gtplay", "wrote %s", pngPath)
	}

	return nil
}

// driveUploadToCompletion ticks the machine until the loader reaches
// Complete or Error, bounded by the configured frame timeout so a bad GT1
// file can't hang the driver forever: LoaderFrameTimeout defaults to 0
// (disabled, matching real hardware), so a CLI run that hasn't set one
// explicitly gets defaultLoaderTimeout instead of running forever.
func driveUploadToCompletion(m *machine.Machine) error {
	const defaultLoaderTimeout = 10_000
	if int(m.Instance.Prefs.LoaderFrameTimeout) == 0 {
		m.Loader.SetFrameTimeout(defaultLoaderTimeout)
	}

	ticksPerFrame := clocks.CPUHz / clocks.FrameRate
	for {
		m.Run(ticksPerFrame)
		if m.Loader.IsComplete() {
			return nil
		}
		if m.Loader.HasError() {
			return fmt.Errorf("loader: %s", m.Loader.ErrorReason())
		}
	}
}

// feedVideoDigest copies an RGBA8 framebuffer's pixels into a digest.Video
// one at a time, as its SetPixel API requires.
func feedVideoDigest(dig *digest.Video, fb []byte) {
	for i := 0; i+4 <= len(fb); i += 4 {
		p := i / 4
		x := p % gtvideo.Width
		y := p / gtvideo.Width
		dig.SetPixel(x, y, fb[i], fb[i+1], fb[i+2])
	}
}

// writeCapturedWAV encodes samples accumulated across the whole run.
// gtaudio.WriteWAV drains a live Audio's ring buffer directly, which this
// run loop can't use as-is: it drains the buffer itself once per frame,
// to keep it from overflowing on a long run, and accumulates the result
// in pcm. EncodeWAV is the encoding step WriteWAV itself calls, reused
// here on that accumulation instead of duplicating the go-audio wiring.
func writeCapturedWAV(path string, pcm []int16) error {
	return gtaudio.EncodeWAV(path, pcm, 44100)
}

func writePNG(path string, fb []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img := &image.RGBA{
		Pix:    fb,
		Stride: gtvideo.Width * 4,
		Rect:   image.Rect(0, 0, gtvideo.Width, gtvideo.Height),
	}
	return png.Encode(f, img)
}
