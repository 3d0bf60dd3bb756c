package stl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/resinate/pkg/mesh"
)

func sampleTris() []mesh.Triangle {
	return []mesh.Triangle{
		{
			V:      [3]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Normal: mgl32.Vec3{0, 0, 1},
		},
		{
			V:      [3]mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}},
			Normal: mgl32.Vec3{0, 0, 1},
		},
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	want := sampleTris()

	var buf bytes.Buffer
	if err := Write(&buf, want); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d triangles, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("triangle %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadASCII(t *testing.T) {
	const model = `solid tetra
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 -1
    outer loop
      vertex 0 0 2
      vertex 0 1 2
      vertex 1 0 2
    endloop
  endfacet
endsolid tetra
`

	got, err := Read(strings.NewReader(model))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d triangles, want 2", len(got))
	}
	if got[0].Normal != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("triangle 0 normal = %v, want +Z", got[0].Normal)
	}
	if got[1].V[1] != (mgl32.Vec3{0, 1, 2}) {
		t.Errorf("triangle 1 vertex 1 = %v, want (0, 1, 2)", got[1].V[1])
	}
}

func TestReadASCIIErrors(t *testing.T) {
	tests := []struct {
		name  string
		model string
	}{
		{
			name: "bad coordinate",
			model: `solid broken
  facet normal 0 0 1
    outer loop
      vertex 0 0 zero
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid broken
`,
		},
		{
			name: "short facet",
			model: `solid broken
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
    endloop
  endfacet
endsolid broken
`,
		},
		{
			name: "malformed facet line",
			model: `solid broken
  facet 0 0 1
  endfacet
endsolid broken
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.model)); err == nil {
				t.Fatalf("Read() succeeded, want error")
			}
		})
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte{0x00, 0x01, 0x02})); err == nil {
		t.Fatalf("Read() succeeded on garbage, want error")
	}
}

// Binary STL has no magic number; files that begin with "solid" are
// disambiguated by checking the declared record count against the
// payload size.
func TestReadBinaryStartingWithSolid(t *testing.T) {
	tris := sampleTris()

	var buf bytes.Buffer
	if err := Write(&buf, tris); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	data := buf.Bytes()
	copy(data[:5], "solid")

	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(got) != len(tris) {
		t.Fatalf("got %d triangles, want %d", len(got), len(tris))
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.stl")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(f, sampleTris()); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	var src mesh.TriangleSource = File(path)
	got, err := src.Triangles()
	if err != nil {
		t.Fatalf("Triangles() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d triangles, want 2", len(got))
	}
}

func TestFileSourceMissing(t *testing.T) {
	if _, err := File("does-not-exist.stl").Triangles(); err == nil {
		t.Fatalf("Triangles() succeeded on missing file, want error")
	}
}
