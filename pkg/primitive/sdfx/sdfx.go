// Package sdfx implements the primitive.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/resinate/pkg/mesh"
	"github.com/chazu/resinate/pkg/primitive"
)

// Compile-time interface check.
var _ primitive.Kernel = (*Kernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution when
// the caller does not specify one.
const defaultMeshCells = 100

// sdfxSolid wraps an sdf.SDF3 to implement primitive.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Kernel implements primitive.Kernel using sdfx.
type Kernel struct{}

// New returns a new sdfx-backed kernel.
func New() *Kernel {
	return &Kernel{}
}

func unwrap(s primitive.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

func wrap(s sdf.SDF3) primitive.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with its minimum corner at the origin. sdf.Box3D
// centers the box at the origin, so we translate by half-dimensions.
func (k *Kernel) Box(x, y, z float64) primitive.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Cylinder creates a cylinder standing on the platform, axis along Z.
// sdf.Cylinder3D centers on the origin, so we lift by half the height.
func (k *Kernel) Cylinder(height, radius float64) primitive.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: height / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s primitive.Solid, x, y, z float64) primitive.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Kernel) Rotate(s primitive.Solid, x, y, z float64) primitive.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToTriangles tessellates a solid with marching cubes. The triangle
// normal is the face normal; smooth per-vertex normals are synthesized
// later by the mesh builder.
func (k *Kernel) ToTriangles(s primitive.Solid, cells int) ([]mesh.Triangle, error) {
	if cells <= 0 {
		cells = defaultMeshCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(unwrap(s), renderer)

	out := make([]mesh.Triangle, 0, len(triangles))
	for _, tri := range triangles {
		n := tri.Normal()
		t := mesh.Triangle{
			Normal: mgl32.Vec3{float32(n.X), float32(n.Y), float32(n.Z)},
		}
		for j := 0; j < 3; j++ {
			t.V[j] = mgl32.Vec3{float32(tri[j].X), float32(tri[j].Y), float32(tri[j].Z)}
		}
		out = append(out, t)
	}
	return out, nil
}
