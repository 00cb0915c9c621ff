package paths

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
)

// Paths holds the resolved paths for config and data
type Paths struct {
	ConfigFile string
	DataDir    string
}

// DefaultPaths returns the default paths based on current user
// Root user: /etc/cardiopulse/, /var/lib/cardiopulse/
// Non-root: ~/.cardiopulse/config/, ~/.cardiopulse/data/
func DefaultPaths() (*Paths, error) {
	if os.Geteuid() == 0 {
		// Running as root
		return &Paths{
			ConfigFile: "/etc/cardiopulse/config.yaml",
			DataDir:    "/var/lib/cardiopulse",
		}, nil
	}

	// Running as regular user
	usr, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	baseDir := filepath.Join(usr.HomeDir, ".cardiopulse")
	return &Paths{
		ConfigFile: filepath.Join(baseDir, "config", "config.yaml"),
		DataDir:    filepath.Join(baseDir, "data"),
	}, nil
}

// EnsureDirectories creates all necessary directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(p.ConfigFile),
		p.DataDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ConfigExists checks if the config file exists
func (p *Paths) ConfigExists() bool {
	_, err := os.Stat(p.ConfigFile)
	return err == nil
}

// String returns a human-readable representation of the paths
func (p *Paths) String() string {
	return fmt.Sprintf("Config: %s, Data: %s", p.ConfigFile, p.DataDir)
}

// CreateDefaultConfig creates a default config file with sample content
// Returns true if a new config was created, false if it already existed
func (p *Paths) CreateDefaultConfig() (bool, error) {
	if p.ConfigExists() {
		return false, nil
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(p.ConfigFile), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write default config
	defaultConfig := `# CardioPulse Configuration
# Edit this file to configure your monitoring sessions

server:
  address: ":8080"
  enable_tui: true

monitor:
  sample_rate: 250
  buffer_seconds: 5
  frame_interval: 40ms

detector:
  refractory_seconds: 0.25
  amplitude_floor: 0.4

storage:
  enabled: false
  retention: "1s:1h,10s:1d,1m:7d"
  aggregation: average
  xff: 0.5

# Add your monitoring sessions below
sessions:
  - name: "demo"
    source: simulator
    bpm: 72
    noise: 0.005

  # Example CSV replay session:
  # - name: "holter"
  #   source: csv
  #   path: /data/holter.csv

  # Example live NATS feed:
  # - name: "ward-3"
  #   source: nats
`
	if err := os.WriteFile(p.ConfigFile, []byte(defaultConfig), 0644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}
