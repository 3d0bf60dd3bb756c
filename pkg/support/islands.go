// Package support detects support islands: mesh vertices with no
// material beneath them along the build axis, which a resin print
// cannot form without external supports.
package support

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/resinate/pkg/mesh"
)

// Epsilon is the tolerance for treating a vertex as resting on the
// build platform.
const Epsilon = 1e-6

// up is the build axis direction.
var up = mgl64.Vec3{0, 0, 1}

// Analyzer classifies mesh vertices as supported or island. The zero
// value analyzes against a build platform at Z = 0.
type Analyzer struct {
	// PlatformZ is the build platform height; vertices within Epsilon
	// of it are never islands.
	PlatformZ float64
}

// Report is the result of one island analysis.
type Report struct {
	// Indices lists every island vertex index, ascending. This is the
	// exact per-index classification.
	Indices []uint32
	// Positions lists island positions deduplicated by 3D location,
	// suitable for a UI overlay.
	Positions []mgl32.Vec3
}

// Count returns the number of unique island positions.
func (r *Report) Count() int {
	return len(r.Positions)
}

// Analyze walks the mesh's vertex adjacency and flags islands. A vertex
// is supported when some neighbor lies strictly below it (that neighbor
// is material beneath); zero-length neighbor vectors carry no
// information and are ignored. A vertex with no informative neighbors
// at all defaults to island.
func (a *Analyzer) Analyze(m *mesh.Mesh) (*Report, error) {
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", mesh.ErrIndexCount, len(m.Indices))
	}

	neighbors := adjacency(m)

	report := &Report{}
	seen := make(map[posKey]struct{})

	for index := range m.Vertices {
		vertex := m.Vertices[index]
		if math.Abs(float64(vertex.Position[2])-a.PlatformZ) < Epsilon {
			continue // resting on the platform
		}

		island := true
		for _, n := range neighbors[index] {
			direction := toVec64(vertex.Position).Sub(toVec64(m.Vertices[n].Position))
			if direction.Len() == 0 {
				continue
			}
			if direction.Normalize().Dot(up) > 0 {
				// The neighbor sits strictly below: material beneath.
				island = false
				break
			}
		}
		if !island {
			continue
		}

		report.Indices = append(report.Indices, uint32(index))
		k := keyOf(vertex.Position)
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			report.Positions = append(report.Positions, vertex.Position)
		}
	}
	return report, nil
}

// adjacency builds the per-vertex neighbor sets from the index triples.
// Each triangle contributes up to two edges per vertex; self references
// and duplicates are excluded.
func adjacency(m *mesh.Mesh) [][]uint32 {
	sets := make([]map[uint32]struct{}, m.VertexCount())
	add := func(from, to uint32) {
		if from == to {
			return
		}
		if sets[from] == nil {
			sets[from] = make(map[uint32]struct{}, 4)
		}
		sets[from][to] = struct{}{}
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
		for _, a := range tri {
			for _, b := range tri {
				add(a, b)
			}
		}
	}

	neighbors := make([][]uint32, len(sets))
	for i, set := range sets {
		for n := range set {
			neighbors[i] = append(neighbors[i], n)
		}
	}
	return neighbors
}

// posKey dedupes positions on the Epsilon grid.
type posKey [3]int64

func keyOf(p mgl32.Vec3) posKey {
	s := 1.0 / Epsilon
	return posKey{
		int64(math.Round(float64(p[0]) * s)),
		int64(math.Round(float64(p[1]) * s)),
		int64(math.Round(float64(p[2]) * s)),
	}
}

func toVec64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}
