package slicer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Polygon is a closed loop of points; the last point connects back to
// the first implicitly.
type Polygon []mgl64.Vec3

// AssemblyStats describes one contour assembly pass for diagnostics.
type AssemblyStats struct {
	Loops       int // closed polygons produced
	Discarded   int // open chains dropped
	MultiValent int // welded vertices with more than two incident segments
}

// gridKey is a segment endpoint quantized to the Epsilon grid. Endpoints
// from independent triangles land on the same key despite roundoff,
// which substitutes for exact floating equality during stitching.
type gridKey struct {
	x, y int64
}

func quantize(p mgl64.Vec3) gridKey {
	s := 1.0 / Epsilon
	return gridKey{
		x: int64(math.Round(p[0] * s)),
		y: int64(math.Round(p[1] * s)),
	}
}

type edgeKey struct {
	a, b gridKey
}

// assemblePolygons stitches an unordered segment set into closed loops.
// Each segment is consumed at most once per direction, so total work is
// linear in the segment count. Open chains are discarded. When more than
// two segments meet at one welded vertex the walk takes any unvisited
// neighbor; the stitch there is topologically arbitrary, so the vertex
// is counted in the stats instead of being resolved.
func assemblePolygons(segments []Segment) ([]Polygon, AssemblyStats) {
	coords := make(map[gridKey]mgl64.Vec3, len(segments))
	adjacency := make(map[gridKey][]gridKey, len(segments))

	for _, seg := range segments {
		a, b := quantize(seg.A), quantize(seg.B)
		if _, ok := coords[a]; !ok {
			coords[a] = seg.A
		}
		if _, ok := coords[b]; !ok {
			coords[b] = seg.B
		}
		adjacency[a] = append(adjacency[a], b)
		adjacency[b] = append(adjacency[b], a)
	}

	var stats AssemblyStats
	for _, neighbors := range adjacency {
		if len(neighbors) > 2 {
			stats.MultiValent++
		}
	}

	visited := make(map[edgeKey]struct{}, len(segments))
	seen := func(a, b gridKey) bool {
		if _, ok := visited[edgeKey{a, b}]; ok {
			return true
		}
		_, ok := visited[edgeKey{b, a}]
		return ok
	}

	var polygons []Polygon
	for start, neighbors := range adjacency {
		for _, next := range neighbors {
			if seen(start, next) {
				continue
			}

			keys := []gridKey{start}
			current := next
			visited[edgeKey{start, next}] = struct{}{}

			for {
				keys = append(keys, current)

				found := false
				for _, nb := range adjacency[current] {
					// Never double straight back over the edge we came in on.
					if nb == keys[len(keys)-2] {
						continue
					}
					if seen(current, nb) {
						continue
					}
					visited[edgeKey{current, nb}] = struct{}{}
					current = nb
					found = true
					break
				}
				if !found {
					break
				}
				if current == start {
					break
				}
			}

			if len(keys) >= 3 && current == start {
				poly := make(Polygon, len(keys))
				for i, k := range keys {
					poly[i] = coords[k]
				}
				polygons = append(polygons, poly)
				stats.Loops++
			} else {
				stats.Discarded++
			}
		}
	}

	return polygons, stats
}

// area returns the unsigned polygon area in the slicing plane, by the
// shoelace formula.
func (p Polygon) area() float64 {
	if len(p) < 3 {
		return 0
	}
	sum := 0.0
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i][0]*p[j][1] - p[j][0]*p[i][1]
	}
	return math.Abs(sum) / 2
}
