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

// Package diagnostics serves an opt-in live stats dashboard for a running
// Machine: Go runtime stats via statsview, plus a small JSON endpoint of
// emulation-specific figures (cycles, fps, loader progress, audio buffer
// occupancy) sampled on a ticker. Nothing in this package is on the hot
// tick path; a shell that never calls Serve pays nothing for it.
package diagnostics

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/gigatron-emu/gigatron-go/assert"
	"github.com/gigatron-emu/gigatron-go/hardware/clocks"
	"github.com/gigatron-emu/gigatron-go/logger"
	"github.com/gigatron-emu/gigatron-go/machine"
)

const sampleInterval = 500 * time.Millisecond

// Snapshot is the machine's figures as of the last sample.
type Snapshot struct {
	Cycles          uint64  `json:"cycles"`
	FramesPerSecond float64 `json:"frames_per_second"`
	LoaderState     string  `json:"loader_state"`
	LoaderProgress  float64 `json:"loader_progress"`
	AudioOccupancy  int     `json:"audio_buffer_samples"`
}

// Handle controls a running dashboard. Close stops both the sampling
// ticker and the statsview server.
type Handle struct {
	mgr    *statsview.Manager
	cancel chan struct{}
	latest atomic.Value // Snapshot
}

// Serve starts sampling m on a ticker and serves the dashboard at addr
// (e.g. ":8080") until the returned Handle is closed. The statsview Go
// runtime page is reachable at http://addr/debug/statsview/; the
// machine-specific figures are reachable as JSON at http://addr/stats.json.
func Serve(addr string, m *machine.Machine) *Handle {
	h := &Handle{cancel: make(chan struct{})}
	h.latest.Store(Snapshot{})

	http.HandleFunc("/stats.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(h.latest.Load().(Snapshot))
	})

	viewer.SetConfiguration(viewer.WithAddr(addr))
	h.mgr = statsview.New()
	go h.mgr.Start()

	go h.sample(m)

	logger.Logf("diagnostics", "serving dashboard at %s", addr)
	return h
}

func (h *Handle) sample(m *machine.Machine) {
	logger.Logf("diagnostics", "sampling goroutine %d started", assert.GetGoRoutineID())

	ticker := time.NewTicker(sampleInterval)
	defer ticker.Stop()

	var lastCycles uint64
	for {
		select {
		case <-ticker.C:
			cycles := m.Cycles()
			fps := float64(cycles-lastCycles) / float64(clocks.CPUHz/clocks.FrameRate) / sampleInterval.Seconds()
			lastCycles = cycles

			h.latest.Store(Snapshot{
				Cycles:          cycles,
				FramesPerSecond: fps,
				LoaderState:     m.Loader.State().String(),
				LoaderProgress:  m.Loader.Progress(),
				AudioOccupancy:  m.AvailableSamples(),
			})
		case <-h.cancel:
			return
		}
	}
}

// Close stops sampling and the statsview server.
func (h *Handle) Close() error {
	close(h.cancel)
	h.mgr.Stop()
	return nil
}
