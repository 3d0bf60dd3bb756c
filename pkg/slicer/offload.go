package slicer

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// MaxSegmentEstimate caps the automatic segment-buffer estimate of the
// offload strategy.
const MaxSegmentEstimate = 10_000_000

// Device is a handle to a bulk compute context able to run the
// segment-collection kernel. It is injected explicitly at strategy
// construction rather than held as process-wide state.
type Device interface {
	// Dispatch invokes kernel for every index in [0, n), possibly in
	// parallel, and returns once every invocation has finished.
	Dispatch(n int, kernel func(i int))
}

// HostDevice emulates a compute device on CPU worker goroutines.
// Workers <= 0 selects one worker per logical CPU.
type HostDevice struct {
	Workers int
}

func (d HostDevice) Dispatch(n int, kernel func(i int)) {
	workers := d.Workers
	if workers <= 0 {
		workers = defaultWorkers()
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			kernel(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				kernel(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// segmentRecord is one kernel output record: a segment's planar
// endpoints plus the index of the plane it belongs to.
type segmentRecord struct {
	x1, y1, x2, y2 float64
	plane          int32
}

// segmentBuffer is a bounded append-only buffer with an atomic write
// cursor, mirroring the output-storage-plus-atomic-counter layout of a
// compute kernel. Writes past capacity are dropped but still counted,
// so overflow surfaces after the dispatch with attempted vs available
// sizes instead of corrupting memory.
type segmentBuffer struct {
	records []segmentRecord
	cursor  atomic.Int64
}

func newSegmentBuffer(capacity int) *segmentBuffer {
	return &segmentBuffer{records: make([]segmentRecord, capacity)}
}

func (b *segmentBuffer) append(rec segmentRecord) {
	i := int(b.cursor.Add(1)) - 1
	if i < len(b.records) {
		b.records[i] = rec
	}
}

// contents returns the written records, or a CapacityError if the kernel
// attempted more appends than the buffer could hold.
func (b *segmentBuffer) contents() ([]segmentRecord, error) {
	n := int(b.cursor.Load())
	if n > len(b.records) {
		return nil, &CapacityError{Attempted: n, Capacity: len(b.records)}
	}
	return b.records[:n], nil
}

// offload runs segment collection as one bulk kernel over all triangles
// and planes, then assembles and rasterizes per plane on the host.
type offload struct {
	device   Device
	capacity int
}

// Offload returns the bulk-offload strategy. capacity bounds the segment
// buffer in records; capacity <= 0 derives an estimate from the
// triangle and plane counts, capped at MaxSegmentEstimate.
func Offload(device Device, capacity int) Strategy {
	return offload{device: device, capacity: capacity}
}

func (offload) name() string { return "offload" }

func (o offload) run(j *job) ([]SliceImage, error) {
	capacity := o.capacity
	if capacity <= 0 {
		capacity = min(len(j.tris)*len(j.planes), MaxSegmentEstimate)
	}

	buf := newSegmentBuffer(capacity)
	planes := j.planes
	tris := j.tris
	var rejected atomic.Int64

	o.device.Dispatch(len(tris), func(i int) {
		for pi, z := range planes {
			pts := intersectTrianglePlane(tris[i], z)
			switch {
			case len(pts) == 2:
				buf.append(segmentRecord{
					x1: pts[0][0], y1: pts[0][1],
					x2: pts[1][0], y2: pts[1][1],
					plane: int32(pi),
				})
			case len(pts) > 2:
				rejected.Add(1)
			}
		}
	})

	records, err := buf.contents()
	if err != nil {
		return nil, err
	}
	if n := rejected.Load(); n > 0 {
		j.log.Debug("skipped coplanar triangles", zap.Int64("count", n))
	}

	// Read back and regroup per plane, as the host does after a kernel.
	perPlane := make([][]Segment, len(planes))
	for _, rec := range records {
		z := planes[rec.plane]
		perPlane[rec.plane] = append(perPlane[rec.plane], Segment{
			A: mgl64.Vec3{rec.x1, rec.y1, z},
			B: mgl64.Vec3{rec.x2, rec.y2, z},
		})
	}

	var images []SliceImage
	for pi, segments := range perPlane {
		if img, ok := j.plane(planes[pi], segments); ok {
			images = append(images, img)
		}
	}
	return images, nil
}
