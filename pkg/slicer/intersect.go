package slicer

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/resinate/pkg/mesh"
)

// Epsilon is the tolerance for treating near-equal coordinates as equal:
// signed plane distances within Epsilon count as "on the plane", and
// contour endpoints are welded on a grid of Epsilon-sized cells.
const Epsilon = 1e-6

// Segment is one triangle's intersection with one horizontal plane.
type Segment struct {
	A, B mgl64.Vec3
}

// intersectTrianglePlane returns the intersection points of a triangle
// with the horizontal plane at z. A transecting triangle yields exactly
// 2 points; a triangle touching the plane with a single vertex yields 0
// or 1; a triangle lying in the plane yields more than 2 and is rejected
// by the caller.
func intersectTrianglePlane(tri mesh.Triangle, z float64) []mgl64.Vec3 {
	var p [3]mgl64.Vec3
	var d [3]float64
	for i, v := range tri.V {
		p[i] = mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
		d[i] = p[i][2] - z
	}

	positive, negative := false, false
	for _, dist := range d {
		if dist > Epsilon {
			positive = true
		} else if dist < -Epsilon {
			negative = true
		}
	}
	// All vertices on one side of the plane.
	if !positive || !negative {
		return nil
	}

	var pts []mgl64.Vec3
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		d1, d2 := d[i], d[j]
		switch {
		case (d1 > Epsilon && d2 < -Epsilon) || (d1 < -Epsilon && d2 > Epsilon):
			t := d1 / (d1 - d2)
			pts = append(pts, p[i].Add(p[j].Sub(p[i]).Mul(t)))
		case math.Abs(d1) <= Epsilon && math.Abs(d2) <= Epsilon:
			// Whole edge lies on the plane.
			pts = append(pts, p[i], p[j])
		case math.Abs(d1) <= Epsilon:
			pts = append(pts, p[i])
		case math.Abs(d2) <= Epsilon:
			pts = append(pts, p[j])
		}
	}

	return dedupPoints(pts)
}

// dedupPoints sorts lexicographically and merges consecutive points
// closer than Epsilon.
func dedupPoints(pts []mgl64.Vec3) []mgl64.Vec3 {
	if len(pts) < 2 {
		return pts
	}
	sort.Slice(pts, func(i, j int) bool {
		a, b := pts[i], pts[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})
	out := pts[:1]
	for _, p := range pts[1:] {
		if p.Sub(out[len(out)-1]).Len() >= Epsilon {
			out = append(out, p)
		}
	}
	return out
}

// collectSegments intersects every triangle with the plane at z. The
// second result counts triangles rejected for intersecting the plane in
// more than two points (coplanar slivers).
func collectSegments(tris []mesh.Triangle, z float64) ([]Segment, int) {
	var segs []Segment
	rejected := 0
	for _, tri := range tris {
		pts := intersectTrianglePlane(tri, z)
		switch {
		case len(pts) == 2:
			segs = append(segs, Segment{A: pts[0], B: pts[1]})
		case len(pts) > 2:
			rejected++
		}
	}
	return segs, rejected
}
