package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to environment overrides, e.g. MODELSNAP_LOG_LEVEL
const EnvPrefix = "MODELSNAP"

// Config is the modelsnap configuration
type Config struct {
	Viewport    ViewportConfig `yaml:"viewport" mapstructure:"viewport"`
	LoadTimeout time.Duration  `yaml:"load_timeout" mapstructure:"load_timeout"`
	Output      string         `yaml:"output" mapstructure:"output"`
	LogLevel    string         `yaml:"log_level" mapstructure:"log_level"`
	Simplify    float64        `yaml:"simplify" mapstructure:"simplify"`
	OpenSCAD    OpenSCADConfig `yaml:"openscad" mapstructure:"openscad"`
	Watch       WatchConfig    `yaml:"watch" mapstructure:"watch"`
}

// ViewportConfig is the size of the captured frame
type ViewportConfig struct {
	Width       int `yaml:"width" mapstructure:"width"`
	Height      int `yaml:"height" mapstructure:"height"`
	Supersample int `yaml:"supersample" mapstructure:"supersample"`
}

// OpenSCADConfig configures rendering of .scad models
type OpenSCADConfig struct {
	Binary string `yaml:"binary" mapstructure:"binary"`
}

// WatchConfig configures the watch command
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:       1280,
			Height:      720,
			Supersample: 2,
		},
		LoadTimeout: 60 * time.Second,
		Output:      "Model.png",
		LogLevel:    "info",
		OpenSCAD: OpenSCADConfig{
			Binary: "openscad",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// SetDefaults registers the built-in values with v so flags, environment
// and config file only need to override what they change
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("viewport.width", d.Viewport.Width)
	v.SetDefault("viewport.height", d.Viewport.Height)
	v.SetDefault("viewport.supersample", d.Viewport.Supersample)
	v.SetDefault("load_timeout", d.LoadTimeout)
	v.SetDefault("output", d.Output)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("simplify", d.Simplify)
	v.SetDefault("openscad.binary", d.OpenSCAD.Binary)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// Load reads the configuration. An explicit file must exist; otherwise
// config.yaml is looked up in $HOME/.modelsnap and the working directory
// and is optional.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".modelsnap"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Viewport.Supersample < 1 {
		return fmt.Errorf("viewport.supersample must be at least 1")
	}
	if c.LoadTimeout < 0 {
		return fmt.Errorf("load_timeout cannot be negative")
	}
	if c.Simplify < 0 || c.Simplify > 1 {
		return fmt.Errorf("simplify must be between 0 and 1")
	}
	if c.Output == "" {
		return fmt.Errorf("output cannot be empty")
	}
	return nil
}

// YAML renders the configuration as it would appear in a config file
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
