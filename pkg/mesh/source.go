package mesh

// TriangleSource is any producer of raw triangle soup: an STL file, a
// geometry kernel, or an in-memory list. The slicing core depends only
// on this capability, never on a concrete reader.
type TriangleSource interface {
	Triangles() ([]Triangle, error)
}

// SliceSource is an in-memory TriangleSource, useful in tests and for
// geometry synthesized at runtime.
type SliceSource []Triangle

// Triangles returns the slice unchanged.
func (s SliceSource) Triangles() ([]Triangle, error) {
	return s, nil
}
