package support

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/resinate/pkg/mesh"
)

func tri(v0, v1, v2 mgl32.Vec3) mesh.Triangle {
	return mesh.Triangle{V: [3]mgl32.Vec3{v0, v1, v2}}
}

// flatQuad returns a horizontal unit quad at height z as two triangles.
func flatQuad(z float32) []mesh.Triangle {
	return []mesh.Triangle{
		tri(mgl32.Vec3{0, 0, z}, mgl32.Vec3{1, 0, z}, mgl32.Vec3{1, 1, z}),
		tri(mgl32.Vec3{0, 0, z}, mgl32.Vec3{1, 1, z}, mgl32.Vec3{0, 1, z}),
	}
}

func cube(s float32) []mesh.Triangle {
	quad := func(a, b, c, d mgl32.Vec3) []mesh.Triangle {
		return []mesh.Triangle{tri(a, b, c), tri(a, c, d)}
	}
	var tris []mesh.Triangle
	tris = append(tris, quad(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{s, 0, 0}, mgl32.Vec3{s, s, 0}, mgl32.Vec3{0, s, 0})...)
	tris = append(tris, quad(mgl32.Vec3{0, 0, s}, mgl32.Vec3{s, 0, s}, mgl32.Vec3{s, s, s}, mgl32.Vec3{0, s, s})...)
	tris = append(tris, quad(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{s, 0, 0}, mgl32.Vec3{s, 0, s}, mgl32.Vec3{0, 0, s})...)
	tris = append(tris, quad(mgl32.Vec3{0, s, 0}, mgl32.Vec3{s, s, 0}, mgl32.Vec3{s, s, s}, mgl32.Vec3{0, s, s})...)
	tris = append(tris, quad(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, s, 0}, mgl32.Vec3{0, s, s}, mgl32.Vec3{0, 0, s})...)
	tris = append(tris, quad(mgl32.Vec3{s, 0, 0}, mgl32.Vec3{s, s, 0}, mgl32.Vec3{s, s, s}, mgl32.Vec3{s, 0, s})...)
	return tris
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name        string
		mesh        *mesh.Mesh
		wantIslands int
	}{
		{
			name:        "flat quad on the platform",
			mesh:        mesh.FromTriangles(flatQuad(0)),
			wantIslands: 0,
		},
		{
			// A floating horizontal sheet has no material below any
			// vertex: every vertex is an island.
			name:        "flat quad floating",
			mesh:        mesh.FromTriangles(flatQuad(1)),
			wantIslands: 4,
		},
		{
			name:        "cube on the platform",
			mesh:        mesh.FromTriangles(cube(1)),
			wantIslands: 0,
		},
		{
			name: "isolated vertex",
			mesh: &mesh.Mesh{
				Vertices: []mesh.Vertex{{Position: mgl32.Vec3{0, 0, 1}}},
			},
			wantIslands: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Analyzer
			report, err := a.Analyze(tt.mesh)
			if err != nil {
				t.Fatalf("Analyze() error: %v", err)
			}
			if got := report.Count(); got != tt.wantIslands {
				t.Errorf("Count() = %d, want %d (indices %v)", got, tt.wantIslands, report.Indices)
			}
		})
	}
}

func TestAnalyzeHangingTip(t *testing.T) {
	// An inverted pyramid: the apex hangs below a floating base. Only the
	// apex is an island; every base vertex has the apex beneath it.
	apex := mgl32.Vec3{0.5, 0.5, 1}
	base := []mgl32.Vec3{{0, 0, 2}, {1, 0, 2}, {1, 1, 2}, {0, 1, 2}}
	var tris []mesh.Triangle
	for i := range base {
		tris = append(tris, tri(apex, base[i], base[(i+1)%len(base)]))
	}
	m := mesh.FromTriangles(tris)

	var a Analyzer
	report, err := a.Analyze(m)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if got := report.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1 (indices %v)", got, report.Indices)
	}
	if report.Positions[0] != apex {
		t.Errorf("island at %v, want apex %v", report.Positions[0], apex)
	}
}

func TestAnalyzePlatformOffset(t *testing.T) {
	// Raising the platform to the sheet's height turns every island into
	// a platform vertex.
	m := mesh.FromTriangles(flatQuad(5))

	a := Analyzer{PlatformZ: 5}
	report, err := a.Analyze(m)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if got := report.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}

func TestAnalyzeDeduplicatesPositions(t *testing.T) {
	// Two unconnected vertices at the same location: two island indices,
	// one overlay position.
	m := &mesh.Mesh{
		Vertices: []mesh.Vertex{
			{Position: mgl32.Vec3{1, 1, 1}},
			{Position: mgl32.Vec3{1, 1, 1}},
		},
	}

	var a Analyzer
	report, err := a.Analyze(m)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if len(report.Indices) != 2 {
		t.Errorf("len(Indices) = %d, want 2", len(report.Indices))
	}
	if report.Count() != 1 {
		t.Errorf("Count() = %d, want 1", report.Count())
	}
}

func TestAnalyzeIndexContract(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []mesh.Vertex{{}, {}, {}, {}},
		Indices:  []uint32{0, 1, 2, 3},
	}

	var a Analyzer
	_, err := a.Analyze(m)
	if !errors.Is(err, mesh.ErrIndexCount) {
		t.Fatalf("Analyze() error = %v, want mesh.ErrIndexCount", err)
	}
}
