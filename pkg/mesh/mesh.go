// Package mesh builds and stores deduplicated triangle meshes for the
// slicing pipeline. A Mesh is constructed once from raw triangle soup
// (see FromTriangles) and is read-only afterwards except for whole-body
// rigid transforms, which live on Body and never touch topology.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrIndexCount reports an index list whose length is not a multiple of 3.
// It is a caller contract violation, surfaced rather than repaired.
var ErrIndexCount = errors.New("mesh: index count is not a multiple of three")

// Triangle is an ephemeral triangle: three positions and one normal.
// Triangles are reconstructed on demand from a Mesh and never persisted.
type Triangle struct {
	V      [3]mgl32.Vec3
	Normal mgl32.Vec3
}

// Mesh is an ordered, deduplicated vertex sequence plus an index list
// grouping vertices into triangles. Every index is < len(Vertices) and
// len(Indices) is a multiple of 3. Normals are best-effort smooth; the
// mesh is not guaranteed watertight.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangles reconstructs the triangle list used for slicing. Each
// triangle's normal is the normalized sum of its three vertex normals,
// defaulting to +Z when the sum has zero length.
func (m *Mesh) Triangles() ([]Triangle, error) {
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrIndexCount, len(m.Indices))
	}

	tris := make([]Triangle, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		v0 := m.Vertices[m.Indices[i]]
		v1 := m.Vertices[m.Indices[i+1]]
		v2 := m.Vertices[m.Indices[i+2]]

		summed := v0.Normal.Add(v1.Normal).Add(v2.Normal)
		tris = append(tris, Triangle{
			V:      [3]mgl32.Vec3{v0.Position, v1.Position, v2.Position},
			Normal: normalizeOrUp(summed),
		})
	}
	return tris, nil
}

// BoundingBox is an axis-aligned box in model space.
type BoundingBox struct {
	Min, Max mgl64.Vec3
}

// IsValid reports whether the box encloses at least one point, i.e. no
// component of Min exceeds the matching component of Max.
func (b BoundingBox) IsValid() bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Size returns the box extent per axis.
func (b BoundingBox) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Bounds computes the bounding box of a triangle list. An empty list
// yields an inverted (invalid) box.
func Bounds(tris []Triangle) BoundingBox {
	bb := BoundingBox{
		Min: mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for _, tri := range tris {
		for _, v := range tri.V {
			for c := 0; c < 3; c++ {
				f := float64(v[c])
				if f < bb.Min[c] {
					bb.Min[c] = f
				}
				if f > bb.Max[c] {
					bb.Max[c] = f
				}
			}
		}
	}
	return bb
}
