// Command resinate slices a 3D model into per-layer exposure masks for
// a resin printer. The model comes from an STL file or from a built-in
// primitive (-demo); the resulting layers are written as PNG files.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/chazu/resinate/internal/config"
	"github.com/chazu/resinate/internal/logger"
	"github.com/chazu/resinate/pkg/mesh"
	"github.com/chazu/resinate/pkg/mesh/stl"
	"github.com/chazu/resinate/pkg/primitive"
	sdfxkernel "github.com/chazu/resinate/pkg/primitive/sdfx"
	"github.com/chazu/resinate/pkg/slicer"
	"github.com/chazu/resinate/pkg/support"
)

var flagDemo = flag.String("demo", "",
	`Slice a built-in primitive instead of a file, e.g. "box:20x20x10" or "cylinder:30x8"`)

func main() {
	config.ParseFlags()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("slicing failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	src, name, err := modelSource()
	if err != nil {
		return err
	}

	m, err := mesh.FromSource(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	log.Info("model loaded",
		zap.String("model", name),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()))

	analyzer := support.Analyzer{PlatformZ: cfg.Support.PlatformZ}
	report, err := analyzer.Analyze(m)
	if err != nil {
		return err
	}
	if report.Count() > 0 {
		log.Warn("unsupported islands detected: add supports before printing",
			zap.Int("islands", report.Count()))
	} else {
		log.Info("no unsupported islands")
	}

	sl := slicer.New(cfg.Printer.ResolutionX, cfg.Printer.ResolutionY, cfg.Slicer.Thickness,
		slicer.WithLogger(log),
		slicer.WithStrategy(strategyFor(cfg)))

	body := mesh.NewBody(m)
	tris, err := body.Triangles()
	if err != nil {
		return err
	}

	if sections, err := sl.SectionAreas(tris); err == nil {
		volume := 0.0
		for _, s := range sections {
			volume += s.Area * cfg.Slicer.Thickness
		}
		log.Info("resin estimate", zap.Float64("volume_model_units", volume))
	}

	images, err := sl.Slice(tris)
	if err != nil {
		return err
	}
	log.Info("sliced", zap.Int("layers", len(images)))

	return writeLayers(cfg, log, images)
}

// modelSource picks the triangle source: an STL path argument or a
// -demo primitive.
func modelSource() (mesh.TriangleSource, string, error) {
	if *flagDemo != "" {
		solid, err := parseDemo(*flagDemo)
		if err != nil {
			return nil, "", err
		}
		return primitive.Source{Kernel: sdfxkernel.New(), Solid: solid}, *flagDemo, nil
	}
	if flag.NArg() != 1 {
		return nil, "", fmt.Errorf("usage: resinate [flags] model.stl (or -demo box:WxDxH)")
	}
	path := flag.Arg(0)
	return stl.File(path), filepath.Base(path), nil
}

// parseDemo builds a primitive solid from an argument like
// "box:20x20x10" or "cylinder:30x8" (height x radius).
func parseDemo(arg string) (primitive.Solid, error) {
	kind, rest, ok := strings.Cut(arg, ":")
	if !ok {
		return nil, fmt.Errorf("malformed demo argument %q", arg)
	}
	var dims []float64
	for _, f := range strings.Split(rest, "x") {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("malformed demo dimension %q in %q", f, arg)
		}
		dims = append(dims, v)
	}

	k := sdfxkernel.New()
	switch kind {
	case "box":
		if len(dims) != 3 {
			return nil, fmt.Errorf("box wants WxDxH, got %q", rest)
		}
		return k.Box(dims[0], dims[1], dims[2]), nil
	case "cylinder":
		if len(dims) != 2 {
			return nil, fmt.Errorf("cylinder wants HxR, got %q", rest)
		}
		return k.Cylinder(dims[0], dims[1]), nil
	default:
		return nil, fmt.Errorf("unknown demo primitive %q", kind)
	}
}

func strategyFor(cfg *config.Config) slicer.Strategy {
	if cfg.Slicer.Strategy == "offload" {
		device := slicer.HostDevice{Workers: cfg.Slicer.Workers}
		return slicer.Offload(device, cfg.Slicer.SegmentCapacity)
	}
	return slicer.HostParallel(cfg.Slicer.Workers)
}

// writeLayers encodes each slice image as PNG under the output
// directory, numbered in ascending Z order.
func writeLayers(cfg *config.Config, log *zap.Logger, images []slicer.SliceImage) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return err
	}
	for i, img := range images {
		name := fmt.Sprintf("%s_%04d.png", cfg.Output.Prefix, i)
		path := filepath.Join(cfg.Output.Dir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := png.Encode(f, img.Image); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Debug("layer written", zap.String("file", path), zap.Float64("z", img.Z))
	}
	log.Info("layers written", zap.String("dir", cfg.Output.Dir), zap.Int("count", len(images)))
	return nil
}
