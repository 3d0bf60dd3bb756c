package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance below which two model-space values are treated
// as equal. It also bounds the cross-product magnitude under which a
// triangle counts as degenerate.
const Epsilon = 1e-6

// Vertex is one deduplicated mesh vertex: a position and a smooth normal.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

// vertexKey is the exact bit pattern of a vertex's position and normal.
// Welding during import keys on it, so only bit-identical vertices merge.
// The input format duplicates shared vertices per triangle without
// quantization noise, which makes exact welding sufficient.
type vertexKey [6]uint32

func (v Vertex) key() vertexKey {
	return vertexKey{
		math.Float32bits(v.Position[0]),
		math.Float32bits(v.Position[1]),
		math.Float32bits(v.Position[2]),
		math.Float32bits(v.Normal[0]),
		math.Float32bits(v.Normal[1]),
		math.Float32bits(v.Normal[2]),
	}
}

// normalizeOrUp returns v normalized, or +Z when v has zero length.
func normalizeOrUp(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return mgl32.Vec3{0, 0, 1}
	}
	return v.Normalize()
}
