package slicer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/resinate/pkg/mesh"
)

func countFilled(pix []uint8) int {
	n := 0
	for _, p := range pix {
		if p != 0 {
			n++
		}
	}
	return n
}

func TestRasterizeFullSquare(t *testing.T) {
	bb := mesh.BoundingBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{4, 4, 1}}
	f := newFrame(bb, 8, 8)

	square := Polygon{{0, 0, 0}, {4, 0, 0}, {4, 4, 0}, {0, 4, 0}}
	img := rasterize([]Polygon{square}, f, 8, 8)

	if got := countFilled(img.Pix); got != 64 {
		t.Errorf("filled pixels = %d, want 64", got)
	}
}

func TestRasterizeTriangleArea(t *testing.T) {
	bb := mesh.BoundingBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{4, 4, 1}}
	f := newFrame(bb, 8, 8)

	// Right triangle covering half the footprint. Pixel-center sampling
	// lands on 36 of 64 pixels for the 32-unit continuous area.
	triangle := Polygon{{0, 0, 0}, {4, 0, 0}, {0, 4, 0}}
	img := rasterize([]Polygon{triangle}, f, 8, 8)

	if got := countFilled(img.Pix); got != 36 {
		t.Errorf("filled pixels = %d, want 36", got)
	}
}

func TestRasterizeHole(t *testing.T) {
	bb := mesh.BoundingBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{8, 8, 1}}
	f := newFrame(bb, 8, 8)

	outer := Polygon{{0, 0, 0}, {8, 0, 0}, {8, 8, 0}, {0, 8, 0}}
	inner := Polygon{{2, 2, 0}, {6, 2, 0}, {6, 6, 0}, {2, 6, 0}}
	img := rasterize([]Polygon{outer, inner}, f, 8, 8)

	if got := countFilled(img.Pix); got != 48 {
		t.Errorf("filled pixels = %d, want 48", got)
	}
	if img.GrayAt(3, 3).Y != 0 {
		t.Errorf("pixel inside the hole is filled")
	}
	if img.GrayAt(0, 0).Y == 0 {
		t.Errorf("pixel inside the ring is empty")
	}
}

func TestRasterizeHoleOrientationInsensitive(t *testing.T) {
	bb := mesh.BoundingBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{8, 8, 1}}
	f := newFrame(bb, 8, 8)

	outer := Polygon{{0, 0, 0}, {8, 0, 0}, {8, 8, 0}, {0, 8, 0}}
	// Same winding as the outer loop; the even-odd rule must still carve
	// the hole.
	inner := Polygon{{2, 2, 0}, {6, 2, 0}, {6, 6, 0}, {2, 6, 0}}
	reversed := Polygon{{2, 6, 0}, {6, 6, 0}, {6, 2, 0}, {2, 2, 0}}

	a := rasterize([]Polygon{outer, inner}, f, 8, 8)
	b := rasterize([]Polygon{outer, reversed}, f, 8, 8)

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d differs between loop orientations", i)
		}
	}
}

func TestFrameAspectRatio(t *testing.T) {
	// A 4x2 footprint in a square raster scales by the tighter axis and
	// flips Y.
	bb := mesh.BoundingBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{4, 2, 1}}
	f := newFrame(bb, 8, 8)

	if f.scale != 2 {
		t.Errorf("scale = %v, want 2", f.scale)
	}
	x, y := f.point(mgl64.Vec3{0, 0, 0})
	if x != 0 || y != 8 {
		t.Errorf("point(0,0) = (%v, %v), want (0, 8)", x, y)
	}
	x, y = f.point(mgl64.Vec3{4, 2, 0})
	if x != 8 || y != 4 {
		t.Errorf("point(4,2) = (%v, %v), want (8, 4)", x, y)
	}
}

func TestFrameDegenerateFootprint(t *testing.T) {
	// A vertical line has no XY extent; the frame falls back to unit
	// scale instead of an infinite one.
	bb := mesh.BoundingBox{Min: mgl64.Vec3{1, 1, 0}, Max: mgl64.Vec3{1, 1, 5}}
	f := newFrame(bb, 8, 8)
	if f.scale != 1 {
		t.Errorf("scale = %v, want 1", f.scale)
	}
}
