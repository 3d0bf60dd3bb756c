package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagThickness = flag.Float64("thickness", 0, "Layer thickness in model units")
	flagWidth     = flag.Int("width", 0, "Mask width in pixels")
	flagHeight    = flag.Int("height", 0, "Mask height in pixels")
	flagOut       = flag.String("out", "", "Output directory for layer images")
	flagStrategy  = flag.String("strategy", "", `Slicing strategy: "host" or "offload"`)
	flagWorkers   = flag.Int("workers", 0, "Worker count (0 = one per CPU)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagThickness > 0 {
		cfg.Slicer.Thickness = *flagThickness
	}
	if *flagWidth > 0 {
		cfg.Printer.ResolutionX = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Printer.ResolutionY = *flagHeight
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagStrategy != "" {
		cfg.Slicer.Strategy = *flagStrategy
	}
	if *flagWorkers > 0 {
		cfg.Slicer.Workers = *flagWorkers
	}
}
