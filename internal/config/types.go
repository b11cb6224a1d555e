package config

import (
	"os"
	"path/filepath"
	"time"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .saher.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`

	// Path is the file the config was read from; empty when built from defaults.
	Path string `yaml:"-" mapstructure:"-"`
}

// APIConfig points the dashboard at the chart API.
type APIConfig struct {
	// BaseURL is the API root, e.g. https://scada.example.com/api.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Timeout bounds each chart request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// AuthConfig names where the bearer token comes from. Token wins over TokenFile.
// Both may be empty: the dashboard then renders without fetching.
type AuthConfig struct {
	Token     string `yaml:"token,omitempty" mapstructure:"token"`
	TokenFile string `yaml:"token_file,omitempty" mapstructure:"token_file"`
}

// DashboardConfig controls the initial dashboard state and look.
type DashboardConfig struct {
	// TimeRange is the initial query window: day, week, month, or year.
	TimeRange string `yaml:"time_range" mapstructure:"time_range" validate:"oneof=day week month year"`

	// Theme is dark, light, or auto (detect from terminal background).
	Theme string `yaml:"theme" mapstructure:"theme" validate:"oneof=dark light auto"`

	// Gauges holds fallback percentages for the GVF/WLR rings, used until
	// the active dataset reports its own averages.
	Gauges GaugeConfig `yaml:"gauges" mapstructure:"gauges"`
}

// GaugeConfig holds fallback gauge percentages.
type GaugeConfig struct {
	GVF float64 `yaml:"gvf" mapstructure:"gvf" validate:"gte=0,lte=100"`
	WLR float64 `yaml:"wlr" mapstructure:"wlr" validate:"gte=0,lte=100"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	// Addr is a host:port to serve /metrics on; empty disables it.
	Addr string `yaml:"addr,omitempty" mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// LogConfig controls where dashboard logs are written.
type LogConfig struct {
	File string `yaml:"file,omitempty" mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: 10 * time.Second,
		},
		Dashboard: DashboardConfig{
			TimeRange: "day",
			Theme:     "auto",
			Gauges: GaugeConfig{
				GVF: 65,
				WLR: 85,
			},
		},
		Log: LogConfig{
			File: DefaultLogPath(),
		},
	}
}

// DefaultLogPath returns ~/.local/state/saher/saher.log, or a path in the
// temp dir when the home directory is unknown.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "saher", "saher.log")
	}
	return filepath.Join(home, ".local", "state", "saher", "saher.log")
}
