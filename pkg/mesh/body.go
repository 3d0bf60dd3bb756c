package mesh

import "github.com/go-gl/mathgl/mgl32"

// Body places a Mesh in the scene with a whole-body rigid transform.
// Transforms never change topology, so the underlying Mesh stays
// read-only for the lifetime of a slicing session.
type Body struct {
	Mesh     *Mesh
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler angles in degrees, applied Z*Y*X
	Scale    mgl32.Vec3
	Enabled  bool
}

// NewBody wraps a mesh in an enabled body with identity transform.
func NewBody(m *Mesh) *Body {
	return &Body{
		Mesh:    m,
		Scale:   mgl32.Vec3{1, 1, 1},
		Enabled: true,
	}
}

// ModelMatrix returns the body's model transform: translation after
// rotation after scale.
func (b *Body) ModelMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(b.Position[0], b.Position[1], b.Position[2])
	r := mgl32.HomogRotate3DZ(mgl32.DegToRad(b.Rotation[2])).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(b.Rotation[1]))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(b.Rotation[0])))
	s := mgl32.Scale3D(b.Scale[0], b.Scale[1], b.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// Triangles reconstructs the mesh triangles with the body transform
// applied. Normals are re-normalized after transformation.
func (b *Body) Triangles() ([]Triangle, error) {
	tris, err := b.Mesh.Triangles()
	if err != nil {
		return nil, err
	}

	model := b.ModelMatrix()
	for i := range tris {
		for j := range tris[i].V {
			tris[i].V[j] = mgl32.TransformCoordinate(tris[i].V[j], model)
		}
		tris[i].Normal = normalizeOrUp(mgl32.TransformNormal(tris[i].Normal, model))
	}
	return tris, nil
}
