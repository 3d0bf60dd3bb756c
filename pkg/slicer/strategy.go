package slicer

import (
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// Strategy is the execution plan for one slice run. The two
// implementations, HostParallel and Offload, must produce identical
// image sequences for the same input. A strategy is chosen once, at
// Slicer construction.
type Strategy interface {
	name() string
	run(j *job) ([]SliceImage, error)
}

func defaultWorkers() int {
	return runtime.NumCPU()
}

// hostParallel splits the plane sweep across worker goroutines. Every
// plane owns a private working set (segments, adjacency), so workers
// share no mutable state; results are merged back in plane order.
type hostParallel struct {
	workers int
}

// HostParallel returns the CPU strategy. workers <= 0 selects one worker
// per logical CPU.
func HostParallel(workers int) Strategy {
	if workers <= 0 {
		workers = defaultWorkers()
	}
	return hostParallel{workers: workers}
}

func (hostParallel) name() string { return "host-parallel" }

func (h hostParallel) run(j *job) ([]SliceImage, error) {
	results := make([]*SliceImage, len(j.planes))

	workers := h.workers
	if workers > len(j.planes) {
		workers = len(j.planes)
	}
	chunk := (len(j.planes) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(j.planes))
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				z := j.planes[i]
				segments, rejected := collectSegments(j.tris, z)
				if rejected > 0 {
					j.log.Debug("skipped coplanar triangles",
						zap.Float64("plane_z", z), zap.Int("count", rejected))
				}
				if img, ok := j.plane(z, segments); ok {
					results[i] = &img
				}
			}
		}(start, end)
	}
	wg.Wait()

	// Planes with no polygons are dropped, not emitted blank. The merge
	// keeps ascending Z because results is indexed by plane.
	images := make([]SliceImage, 0, len(results))
	for _, r := range results {
		if r != nil {
			images = append(images, *r)
		}
	}
	return images, nil
}
