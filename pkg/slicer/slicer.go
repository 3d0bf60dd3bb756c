// Package slicer turns triangle meshes into per-layer exposure masks
// for a resin printer: a plane sweep intersects every triangle with a
// sequence of horizontal planes, the resulting segments are stitched
// into closed contours, and each plane's contours are scan-filled into
// a single-channel raster.
package slicer

import (
	"image"

	"go.uber.org/zap"

	"github.com/chazu/resinate/pkg/mesh"
)

// SliceImage is the filled cross-section raster of one plane:
// single-channel, background 0, interior 255.
type SliceImage struct {
	Z     float64
	Image *image.Gray
}

// FilledPixels counts foreground pixels, mostly for diagnostics and
// tests.
func (s SliceImage) FilledPixels() int {
	n := 0
	for _, p := range s.Image.Pix {
		if p != 0 {
			n++
		}
	}
	return n
}

// SectionArea is the total cross-section area of one plane in model
// units, used for resin-volume and peel-force estimation.
type SectionArea struct {
	Z        float64
	Area     float64
	Polygons int
}

// Slicer sweeps horizontal planes through a model and produces one
// raster per non-empty plane. The zero value is not usable; construct
// with New. A Slicer is safe for concurrent use as long as the meshes
// it slices are not mutated mid-run.
type Slicer struct {
	width     int
	height    int
	thickness float64
	strategy  Strategy
	log       *zap.Logger
}

// Option configures a Slicer.
type Option func(*Slicer)

// WithStrategy selects the execution strategy. The default is
// HostParallel(0).
func WithStrategy(s Strategy) Option {
	return func(sl *Slicer) { sl.strategy = s }
}

// WithLogger attaches a logger for per-plane diagnostics. The default
// discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(sl *Slicer) { sl.log = l }
}

// New creates a Slicer producing width x height rasters with the given
// slice thickness in model units.
func New(width, height int, thickness float64, opts ...Option) *Slicer {
	s := &Slicer{
		width:     width,
		height:    height,
		thickness: thickness,
		strategy:  HostParallel(0),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// job is the per-run working set handed to a strategy.
type job struct {
	tris   []mesh.Triangle
	planes []float64
	frame  frame
	width  int
	height int
	log    *zap.Logger
}

// plane runs contour assembly and rasterization for one plane. The
// second result is false when the plane yields no polygons and must be
// dropped from the output.
func (j *job) plane(z float64, segments []Segment) (SliceImage, bool) {
	if len(segments) == 0 {
		return SliceImage{}, false
	}
	polygons, stats := assemblePolygons(segments)
	if stats.MultiValent > 0 || stats.Discarded > 0 {
		j.log.Debug("contour assembly anomalies",
			zap.Float64("plane_z", z),
			zap.Int("multi_valent", stats.MultiValent),
			zap.Int("open_chains", stats.Discarded))
	}
	if len(polygons) == 0 {
		return SliceImage{}, false
	}
	return SliceImage{Z: z, Image: rasterize(polygons, j.frame, j.width, j.height)}, true
}

// SliceBodies merges the triangles of all enabled bodies and slices
// them together.
func (s *Slicer) SliceBodies(bodies []*mesh.Body) ([]SliceImage, error) {
	var tris []mesh.Triangle
	for _, b := range bodies {
		if b == nil || !b.Enabled {
			continue
		}
		bt, err := b.Triangles()
		if err != nil {
			return nil, err
		}
		tris = append(tris, bt...)
	}
	return s.Slice(tris)
}

// Slice sweeps the model and returns one raster per non-empty plane, in
// ascending Z order regardless of execution order. Planes yielding no
// polygons are dropped, so the output length may be smaller than the
// candidate plane count. Per-triangle degeneracies are skipped and
// logged, never fatal; only input contract violations and offload
// buffer exhaustion surface as errors.
func (s *Slicer) Slice(tris []mesh.Triangle) ([]SliceImage, error) {
	j, err := s.prepare(tris)
	if err != nil {
		return nil, err
	}
	if len(j.planes) == 0 {
		return nil, nil
	}

	s.log.Debug("slicing",
		zap.String("strategy", s.strategy.name()),
		zap.Int("triangles", len(j.tris)),
		zap.Int("planes", len(j.planes)))
	return s.strategy.run(j)
}

// SectionAreas computes per-plane cross-section areas without
// rasterizing. It shares the plane sweep and contour assembly with
// Slice; planes without polygons are dropped.
func (s *Slicer) SectionAreas(tris []mesh.Triangle) ([]SectionArea, error) {
	j, err := s.prepare(tris)
	if err != nil {
		return nil, err
	}

	var sections []SectionArea
	for _, z := range j.planes {
		segments, _ := collectSegments(j.tris, z)
		if len(segments) == 0 {
			continue
		}
		polygons, _ := assemblePolygons(segments)
		if len(polygons) == 0 {
			continue
		}
		section := SectionArea{Z: z, Polygons: len(polygons)}
		for _, poly := range polygons {
			section.Area += poly.area()
		}
		sections = append(sections, section)
	}
	return sections, nil
}

// prepare validates the input contract and builds the per-run job.
func (s *Slicer) prepare(tris []mesh.Triangle) (*job, error) {
	if len(tris) == 0 {
		return nil, contractErrorf("no triangles to slice")
	}
	if s.thickness <= 0 {
		return nil, contractErrorf("non-positive slice thickness %v", s.thickness)
	}
	if s.width <= 0 || s.height <= 0 {
		return nil, contractErrorf("invalid image dimensions %dx%d", s.width, s.height)
	}

	bb := mesh.Bounds(tris)
	if !bb.IsValid() {
		return nil, contractErrorf("inverted bounding box min %v max %v", bb.Min, bb.Max)
	}

	return &job{
		tris:   tris,
		planes: planeHeights(bb.Min[2], bb.Max[2], s.thickness),
		frame:  newFrame(bb, s.width, s.height),
		width:  s.width,
		height: s.height,
		log:    s.log,
	}, nil
}

// planeHeights samples one cutting plane per layer at the layer's
// mid-height: min+t/2, min+3t/2, ... while <= max. Sampling mid-layer
// keeps boundary faces resting exactly on min or max from degenerating
// into coplanar intersections on the first and last plane. The final
// plane may fall short of max by up to the thickness; that shortfall is
// accepted, not rounded away.
func planeHeights(minZ, maxZ, thickness float64) []float64 {
	var planes []float64
	for z := minZ + thickness/2; z <= maxZ; z += thickness {
		planes = append(planes, z)
	}
	return planes
}
