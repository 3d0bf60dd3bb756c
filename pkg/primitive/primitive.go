// Package primitive defines the abstract geometry kernel used to
// synthesize triangle models in-process: calibration cubes, demo
// cylinders, test geometry. Implementations (sdfx) provide the solid
// modeling behind this interface, and a Source adapts any solid to the
// mesh.TriangleSource capability so the slicer never sees the kernel.
package primitive

import "github.com/chazu/resinate/pkg/mesh"

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and transforms solids and tessellates them into
// triangle soup.
type Kernel interface {
	// Box creates a box with its minimum corner at the origin, so a
	// fresh box rests on the build platform.
	Box(x, y, z float64) Solid
	// Cylinder creates a cylinder of the given height and radius,
	// standing on the platform, axis along Z.
	Cylinder(height, radius float64) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid
	// Rotate rotates a solid by Euler angles in degrees around X, Y, Z.
	Rotate(s Solid, x, y, z float64) Solid

	// ToTriangles tessellates a solid. cells controls the tessellation
	// resolution; implementations pick a default when cells <= 0.
	ToTriangles(s Solid, cells int) ([]mesh.Triangle, error)
}

// Source adapts a kernel solid to mesh.TriangleSource.
type Source struct {
	Kernel Kernel
	Solid  Solid
	Cells  int
}

// Triangles tessellates the solid.
func (s Source) Triangles() ([]mesh.Triangle, error) {
	return s.Kernel.ToTriangles(s.Solid, s.Cells)
}
