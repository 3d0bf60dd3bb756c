package slicer

import (
	"image"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/resinate/pkg/mesh"
)

// frame is the affine model-to-image mapping for one slice run: uniform
// scale fitting the model's XY footprint into the raster, offset by the
// bounding-box minimum, Y flipped (raster origin is top-left, model
// origin bottom-left).
type frame struct {
	minX, minY float64
	scale      float64
	height     int
}

func newFrame(bb mesh.BoundingBox, width, height int) frame {
	size := bb.Size()
	scale := math.Inf(1)
	if size[0] > 0 {
		scale = float64(width) / size[0]
	}
	if size[1] > 0 {
		scale = math.Min(scale, float64(height)/size[1])
	}
	if math.IsInf(scale, 1) {
		// Model is a point or a vertical line in XY.
		scale = 1
	}
	return frame{minX: bb.Min[0], minY: bb.Min[1], scale: scale, height: height}
}

func (f frame) point(p mgl64.Vec3) (x, y float64) {
	x = (p[0] - f.minX) * f.scale
	y = float64(f.height) - (p[1]-f.minY)*f.scale
	return x, y
}

// rasterize scan-fills the polygon loops of one plane into a
// single-channel raster: background 0, interior 255. The fill uses the
// even-odd rule across all loops together, so interior holes stay empty
// regardless of the direction each loop was stitched in (loop
// orientation out of the assembler is arbitrary, which rules out a
// nonzero winding rule).
func rasterize(polys []Polygon, f frame, width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))

	type pt struct{ x, y float64 }
	loops := make([][]pt, 0, len(polys))
	for _, poly := range polys {
		loop := make([]pt, len(poly))
		for i, p := range poly {
			loop[i].x, loop[i].y = f.point(p)
		}
		loops = append(loops, loop)
	}

	xs := make([]float64, 0, 16)
	for y := 0; y < height; y++ {
		cy := float64(y) + 0.5
		xs = xs[:0]

		for _, loop := range loops {
			for i := range loop {
				p, q := loop[i], loop[(i+1)%len(loop)]
				// Half-open span rule: count the edge when exactly one
				// endpoint is at or above the scanline.
				if (p.y <= cy) == (q.y <= cy) {
					continue
				}
				xs = append(xs, p.x+(cy-p.y)*(q.x-p.x)/(q.y-p.y))
			}
		}
		sort.Float64s(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Floor(xs[i+1] - 0.5))
			if x0 < 0 {
				x0 = 0
			}
			if x1 > width-1 {
				x1 = width - 1
			}
			if x1 < x0 {
				continue
			}
			row := img.Pix[y*img.Stride+x0 : y*img.Stride+x1+1]
			for j := range row {
				row[j] = 255
			}
		}
	}
	return img
}
