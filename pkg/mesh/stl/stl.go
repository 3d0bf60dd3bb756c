// Package stl reads and writes STL triangle soup. Both the binary and
// the ASCII dialect are supported for reading; writing always emits
// binary. The reader implements the mesh.TriangleSource capability, so
// the rest of the system never depends on STL directly.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/resinate/pkg/mesh"
)

const (
	headerSize = 80
	recordSize = 50 // 12 floats + uint16 attribute
)

// File is a mesh.TriangleSource backed by an STL file on disk.
type File string

// Triangles reads the whole file.
func (f File) Triangles() ([]mesh.Triangle, error) {
	return ReadFile(string(f))
}

// ReadFile reads the STL model at path.
func ReadFile(path string) ([]mesh.Triangle, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	tris, err := Read(fh)
	if err != nil {
		return nil, fmt.Errorf("stl: reading %s: %w", path, err)
	}
	return tris, nil
}

// Read reads an STL model, auto-detecting the dialect. Binary detection
// checks the declared triangle count against the payload size, which
// also handles binary files that begin with the bytes "solid".
func Read(r io.Reader) ([]mesh.Triangle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(data) >= headerSize+4 {
		count := binary.LittleEndian.Uint32(data[headerSize:])
		if headerSize+4+int(count)*recordSize == len(data) {
			return readBinary(data[headerSize+4:], int(count))
		}
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return readASCII(data)
	}
	return nil, fmt.Errorf("stl: not a binary or ASCII STL model (%d bytes)", len(data))
}

func readBinary(records []byte, count int) ([]mesh.Triangle, error) {
	tris := make([]mesh.Triangle, 0, count)
	for i := 0; i < count; i++ {
		rec := records[i*recordSize:]
		var tri mesh.Triangle
		tri.Normal = readVec(rec, 0)
		for v := 0; v < 3; v++ {
			tri.V[v] = readVec(rec, 12+12*v)
		}
		tris = append(tris, tri)
	}
	return tris, nil
}

func readVec(b []byte, off int) mgl32.Vec3 {
	return mgl32.Vec3{
		math.Float32frombits(binary.LittleEndian.Uint32(b[off:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[off+4:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[off+8:])),
	}
}

func readASCII(data []byte) ([]mesh.Triangle, error) {
	var tris []mesh.Triangle
	var tri mesh.Triangle
	verts := 0

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "facet":
			// "facet normal nx ny nz"
			if len(fields) != 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("stl: line %d: malformed facet", line)
			}
			n, err := parseVec(fields[2:])
			if err != nil {
				return nil, fmt.Errorf("stl: line %d: %w", line, err)
			}
			tri = mesh.Triangle{Normal: n}
			verts = 0
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("stl: line %d: malformed vertex", line)
			}
			v, err := parseVec(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("stl: line %d: %w", line, err)
			}
			if verts >= 3 {
				return nil, fmt.Errorf("stl: line %d: more than 3 vertices in facet", line)
			}
			tri.V[verts] = v
			verts++
		case "endfacet":
			if verts != 3 {
				return nil, fmt.Errorf("stl: line %d: facet with %d vertices", line, verts)
			}
			tris = append(tris, tri)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tris, nil
}

func parseVec(fields []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return v, fmt.Errorf("bad coordinate %q", f)
		}
		v[i] = float32(x)
	}
	return v, nil
}

// Write emits the triangles as binary STL.
func Write(w io.Writer, tris []mesh.Triangle) error {
	bw := bufio.NewWriter(w)
	var header [headerSize]byte
	copy(header[:], "resinate binary stl")
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(tris)))
	if _, err := bw.Write(u32[:]); err != nil {
		return err
	}

	var rec [recordSize]byte
	for _, tri := range tris {
		writeVec(rec[:], 0, tri.Normal)
		for v := 0; v < 3; v++ {
			writeVec(rec[:], 12+12*v, tri.V[v])
		}
		rec[48], rec[49] = 0, 0
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeVec(b []byte, off int, v mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(b[off+4*i:], math.Float32bits(v[i]))
	}
}
