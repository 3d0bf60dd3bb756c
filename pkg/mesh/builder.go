package mesh

import "github.com/go-gl/mathgl/mgl32"

// FromTriangles welds raw triangle soup into a Mesh. Vertices are
// deduplicated by the exact bit pattern of their position (normals start
// at zero and are synthesized afterwards), degenerate triangles are
// dropped from the index list, and smooth vertex normals are computed
// from the surviving faces.
func FromTriangles(tris []Triangle) *Mesh {
	m := &Mesh{}
	seen := make(map[vertexKey]uint32, len(tris))

	for _, tri := range tris {
		for _, pos := range tri.V {
			v := Vertex{Position: pos}
			k := v.key()
			idx, ok := seen[k]
			if !ok {
				idx = uint32(len(m.Vertices))
				m.Vertices = append(m.Vertices, v)
				seen[k] = idx
			}
			m.Indices = append(m.Indices, idx)
		}
	}

	m.removeDegenerateTriangles()
	m.ComputeVertexNormals()
	return m
}

// FromSource reads every triangle the source exposes and welds the
// result into a Mesh.
func FromSource(src TriangleSource) (*Mesh, error) {
	tris, err := src.Triangles()
	if err != nil {
		return nil, err
	}
	return FromTriangles(tris), nil
}

// ComputeVertexNormals resets all vertex normals and rebuilds them from
// the faces: each triangle adds its unit face normal (defaulting to +Z
// for zero-length cross products) into its three vertex normals, then
// every vertex normal is normalized. The result is an un-weighted smooth
// normal, not an area-weighted one.
func (m *Mesh) ComputeVertexNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = mgl32.Vec3{}
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := m.Vertices[i0].Position
		e1 := m.Vertices[i1].Position.Sub(p0)
		e2 := m.Vertices[i2].Position.Sub(p0)

		face := normalizeOrUp(e1.Cross(e2))
		m.Vertices[i0].Normal = m.Vertices[i0].Normal.Add(face)
		m.Vertices[i1].Normal = m.Vertices[i1].Normal.Add(face)
		m.Vertices[i2].Normal = m.Vertices[i2].Normal.Add(face)
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = normalizeOrUp(m.Vertices[i].Normal)
	}
}

// removeDegenerateTriangles drops index triples whose edge cross-product
// magnitude is below Epsilon. Only the index list is rewritten; vertices
// left unreferenced stay in place.
func (m *Mesh) removeDegenerateTriangles() {
	valid := m.Indices[:0]
	for i := 0; i+2 < len(m.Indices); i += 3 {
		p0 := m.Vertices[m.Indices[i]].Position
		e1 := m.Vertices[m.Indices[i+1]].Position.Sub(p0)
		e2 := m.Vertices[m.Indices[i+2]].Position.Sub(p0)
		if e1.Cross(e2).Len() > Epsilon {
			valid = append(valid, m.Indices[i], m.Indices[i+1], m.Indices[i+2])
		}
	}
	m.Indices = valid
}
