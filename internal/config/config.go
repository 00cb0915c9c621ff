package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Gowtham-1301/cardiopulse/internal/ecg"
)

// Config represents the root configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Detector DetectorConfig `mapstructure:"detector"`
	Storage  StorageConfig  `mapstructure:"storage"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Sessions []Session      `mapstructure:"sessions"`
}

// ServerConfig holds API server settings
type ServerConfig struct {
	Address   string `mapstructure:"address"`
	EnableTUI bool   `mapstructure:"enable_tui"`
}

// MonitorConfig holds global monitoring settings
type MonitorConfig struct {
	SampleRate    float64       `mapstructure:"sample_rate"`    // Hz
	BufferSeconds float64       `mapstructure:"buffer_seconds"` // rolling detection window
	FrameInterval time.Duration `mapstructure:"frame_interval"` // cadence of source pulls
	DataDir       string        `mapstructure:"data_dir"`
}

// DetectorConfig exposes the peak-detection tunables. Every value has a
// sensible default for a roughly-mV signal at 250 Hz; deployments with other
// sensors tune here rather than patching constants.
type DetectorConfig struct {
	RefractorySeconds float64 `mapstructure:"refractory_seconds"`
	AmplitudeFloor    float64 `mapstructure:"amplitude_floor"`
	ThresholdFraction float64 `mapstructure:"threshold_fraction"`
	SearchRadius      int     `mapstructure:"search_radius"`
	MinRRSeconds      float64 `mapstructure:"min_rr_seconds"`
	MaxRRSeconds      float64 `mapstructure:"max_rr_seconds"`
}

// StorageConfig holds HR-trend persistence settings
type StorageConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Retention   string  `mapstructure:"retention"`
	Aggregation string  `mapstructure:"aggregation"`
	XFF         float64 `mapstructure:"xff"`
}

// NATSConfig holds the optional live-feed transport settings
type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// Session represents a monitoring session definition
type Session struct {
	Name   string  `mapstructure:"name" json:"name"`
	Source string  `mapstructure:"source" json:"source"` // simulator, csv, nats
	Path   string  `mapstructure:"path" json:"path,omitempty"`
	BPM    float64 `mapstructure:"bpm" json:"bpm,omitempty"`
	Noise  float64 `mapstructure:"noise" json:"noise,omitempty"`
}

// Load reads configuration from the specified file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.enable_tui", true)
	v.SetDefault("monitor.sample_rate", 250)
	v.SetDefault("monitor.buffer_seconds", 5)
	v.SetDefault("monitor.frame_interval", "40ms")
	v.SetDefault("monitor.data_dir", "./data")
	v.SetDefault("detector.refractory_seconds", 0.25)
	v.SetDefault("detector.amplitude_floor", 0.4)
	v.SetDefault("detector.threshold_fraction", 0.4)
	v.SetDefault("detector.search_radius", 8)
	v.SetDefault("detector.min_rr_seconds", 0.3)
	v.SetDefault("detector.max_rr_seconds", 2.0)
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.retention", "1s:1h,10s:1d,1m:7d")
	v.SetDefault("storage.aggregation", "average")
	v.SetDefault("storage.xff", 0.5)
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.subject", "ecg.wave")

	// Set config file
	v.SetConfigFile(configPath)

	// Read config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is given:
// one simulator session with every tunable at its default.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: ":8080", EnableTUI: true},
		Monitor: MonitorConfig{
			SampleRate:    250,
			BufferSeconds: 5,
			FrameInterval: 40 * time.Millisecond,
			DataDir:       "./data",
		},
		Detector: DetectorConfig{
			RefractorySeconds: 0.25,
			AmplitudeFloor:    0.4,
			ThresholdFraction: 0.4,
			SearchRadius:      8,
			MinRRSeconds:      0.3,
			MaxRRSeconds:      2.0,
		},
		Storage: StorageConfig{
			Enabled:     false,
			Retention:   "1s:1h,10s:1d,1m:7d",
			Aggregation: "average",
			XFF:         0.5,
		},
		NATS: NATSConfig{URL: "nats://127.0.0.1:4222", Subject: "ecg.wave"},
		Sessions: []Session{
			{Name: "demo", Source: "simulator", BPM: 72, Noise: 0.005},
		},
	}
}

// EngineConfig builds the detection engine configuration from the monitor
// and detector sections.
func (c *Config) EngineConfig() ecg.Config {
	engine := ecg.DefaultConfig()
	engine.SampleRate = c.Monitor.SampleRate
	engine.BufferSeconds = c.Monitor.BufferSeconds
	engine.RefractorySeconds = c.Detector.RefractorySeconds
	engine.AmplitudeFloor = c.Detector.AmplitudeFloor
	engine.ThresholdFraction = c.Detector.ThresholdFraction
	engine.SearchRadius = c.Detector.SearchRadius
	engine.MinRRSeconds = c.Detector.MinRRSeconds
	engine.MaxRRSeconds = c.Detector.MaxRRSeconds
	return engine
}

// Validate checks configuration for required fields and valid values
func (c *Config) Validate() error {
	if len(c.Sessions) == 0 {
		return fmt.Errorf("at least one session is required")
	}

	for i, s := range c.Sessions {
		if s.Name == "" {
			return fmt.Errorf("session[%d]: name is required", i)
		}
		switch s.Source {
		case "simulator":
			if s.BPM < 0 || s.BPM > 300 {
				return fmt.Errorf("session[%d] %q: bpm must be between 0 and 300", i, s.Name)
			}
		case "csv":
			if s.Path == "" {
				return fmt.Errorf("session[%d] %q: path is required for CSV source", i, s.Name)
			}
		case "nats":
			if c.NATS.URL == "" || c.NATS.Subject == "" {
				return fmt.Errorf("session[%d] %q: nats.url and nats.subject are required for NATS source", i, s.Name)
			}
		default:
			return fmt.Errorf("session[%d] %q: source must be 'simulator', 'csv' or 'nats', got %q", i, s.Name, s.Source)
		}
	}

	if c.Monitor.SampleRate <= 0 {
		return fmt.Errorf("monitor.sample_rate must be positive")
	}
	if c.Monitor.BufferSeconds <= 0 {
		return fmt.Errorf("monitor.buffer_seconds must be positive")
	}
	if c.Monitor.FrameInterval <= 0 {
		return fmt.Errorf("monitor.frame_interval must be positive")
	}

	if c.Detector.RefractorySeconds <= 0 {
		return fmt.Errorf("detector.refractory_seconds must be positive")
	}
	if c.Detector.AmplitudeFloor < 0 {
		return fmt.Errorf("detector.amplitude_floor must not be negative")
	}
	if c.Detector.ThresholdFraction <= 0 || c.Detector.ThresholdFraction >= 1 {
		return fmt.Errorf("detector.threshold_fraction must be between 0 and 1")
	}
	if c.Detector.SearchRadius < 1 {
		return fmt.Errorf("detector.search_radius must be at least 1")
	}
	if c.Detector.MinRRSeconds <= 0 || c.Detector.MaxRRSeconds <= c.Detector.MinRRSeconds {
		return fmt.Errorf("detector RR bounds must satisfy 0 < min_rr_seconds < max_rr_seconds")
	}

	if c.Storage.XFF < 0 || c.Storage.XFF > 1 {
		return fmt.Errorf("storage.xff must be between 0 and 1")
	}

	validAggregations := map[string]bool{
		"average": true,
		"min":     true,
		"max":     true,
		"last":    true,
	}
	if !validAggregations[c.Storage.Aggregation] {
		return fmt.Errorf("storage.aggregation must be one of: average, min, max, last")
	}

	// Validate retention string format
	if err := validateRetention(c.Storage.Retention); err != nil {
		return fmt.Errorf("storage.retention: %w", err)
	}

	return nil
}

// validateRetention validates the RRD retention string format
// Format: "resolution:duration,resolution:duration,..."
// Examples: "1s:1h", "1s:1h,10s:1d,1m:7d"
func validateRetention(retention string) error {
	if retention == "" {
		return fmt.Errorf("retention string cannot be empty")
	}

	// Pattern for duration: number followed by s/m/h/d/w/y
	durationPattern := regexp.MustCompile(`^(\d+)(s|m|h|d|w|y)$`)

	archives := strings.Split(retention, ",")
	for i, archive := range archives {
		archive = strings.TrimSpace(archive)
		parts := strings.Split(archive, ":")
		if len(parts) != 2 {
			return fmt.Errorf("archive %d: expected format 'resolution:duration', got %q", i+1, archive)
		}

		// Validate resolution
		resolution := strings.TrimSpace(parts[0])
		if !durationPattern.MatchString(resolution) {
			return fmt.Errorf("archive %d: invalid resolution %q (use format like 1s, 10s, 1m)", i+1, resolution)
		}

		// Validate duration
		duration := strings.TrimSpace(parts[1])
		if !durationPattern.MatchString(duration) {
			return fmt.Errorf("archive %d: invalid duration %q (use format like 1h, 1d, 7d)", i+1, duration)
		}
	}

	return nil
}
