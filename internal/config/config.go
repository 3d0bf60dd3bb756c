// Package config handles slicer settings loading and persistence.
// Priority is defaults < file < command-line flags.
package config

// Config holds all tool settings.
type Config struct {
	Printer PrinterConfig `yaml:"printer"`
	Slicer  SlicerConfig  `yaml:"slicer"`
	Support SupportConfig `yaml:"support"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// PrinterConfig describes the target printer's exposure masks.
type PrinterConfig struct {
	ResolutionX int `yaml:"resolution_x"` // mask width in pixels
	ResolutionY int `yaml:"resolution_y"` // mask height in pixels
}

// SlicerConfig holds slicing parameters.
type SlicerConfig struct {
	// Thickness is the layer height in model units.
	Thickness float64 `yaml:"thickness"`
	// Strategy selects the execution strategy: "host" or "offload".
	Strategy string `yaml:"strategy"`
	// Workers bounds slicing parallelism; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// SegmentCapacity bounds the offload segment buffer; 0 estimates
	// from the model.
	SegmentCapacity int `yaml:"segment_capacity"`
}

// SupportConfig holds island-analysis parameters.
type SupportConfig struct {
	// PlatformZ is the build platform height in model units.
	PlatformZ float64 `yaml:"platform_z"`
}

// OutputConfig holds layer output settings.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Printer: PrinterConfig{
			ResolutionX: 1920,
			ResolutionY: 1080,
		},
		Slicer: SlicerConfig{
			Thickness: 0.05,
			Strategy:  "host",
		},
		Support: SupportConfig{
			PlatformZ: 0,
		},
		Output: OutputConfig{
			Dir:    "slices",
			Prefix: "layer",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
