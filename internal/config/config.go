package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/youruser/idcardapp/internal/card"
	imagepkg "github.com/youruser/idcardapp/internal/image"
)

// Config holds all idcard configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Render  RenderConfig  `yaml:"render"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`

	// Templates are card layouts addressable by name.
	Templates map[string]card.Layout `yaml:"templates"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type RenderConfig struct {
	DefaultTemplate string `yaml:"default_template"`
	FetchTimeout    string `yaml:"fetch_timeout"`
	// OnLayerError is "skip" or "abort".
	OnLayerError     string `yaml:"on_layer_error"`
	Concurrency      int    `yaml:"concurrency"`
	FontDir          string `yaml:"font_dir"`
	AllowFileSources bool   `yaml:"allow_file_sources"`
	DownloadPrefix   string `yaml:"download_prefix"`
	// MaxSourcePixels bounds the decoded size of every image source.
	MaxSourcePixels int `yaml:"max_source_pixels"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
		},
		Render: RenderConfig{
			DefaultTemplate: "standard",
			FetchTimeout:    "10s",
			OnLayerError:    string(card.PolicySkip),
			Concurrency:     4,
			DownloadPrefix:  "idcard",
			MaxSourcePixels: imagepkg.MaxSourcePixels,
		},
		Data: DataConfig{Dir: "data"},
		Logging: LoggingConfig{
			Level: "info",
		},
		Templates: map[string]card.Layout{
			"standard": card.StandardLayout(),
		},
	}
}

// Load reads path on top of the defaults and applies env overrides. An
// empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if v := os.Getenv("IDCARD_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("IDCARD_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("IDCARD_FONT_DIR"); v != "" {
		c.Render.FontDir = v
	}
	if v := os.Getenv("IDCARD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("IDCARD_FETCH_TIMEOUT"); v != "" {
		c.Render.FetchTimeout = v
	}
}

// Validate checks durations, the layer policy and every template.
func (c *Config) Validate() error {
	if _, err := c.GetFetchTimeout(); err != nil {
		return err
	}
	if _, err := c.GetShutdownTimeout(); err != nil {
		return err
	}
	if _, err := card.ParseLayerPolicy(c.Render.OnLayerError); err != nil {
		return err
	}
	if c.Render.MaxSourcePixels < 0 {
		return fmt.Errorf("invalid render.max_source_pixels %d: must not be negative", c.Render.MaxSourcePixels)
	}
	for name, l := range c.Templates {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("template %q: %w", name, err)
		}
	}
	if c.Render.DefaultTemplate != "" {
		if _, ok := c.Templates[c.Render.DefaultTemplate]; !ok {
			return fmt.Errorf("default template %q is not defined", c.Render.DefaultTemplate)
		}
	}
	return nil
}

func (c *Config) GetFetchTimeout() (time.Duration, error) {
	return parseDuration("render.fetch_timeout", c.Render.FetchTimeout)
}

func (c *Config) GetShutdownTimeout() (time.Duration, error) {
	return parseDuration("server.shutdown_timeout", c.Server.ShutdownTimeout)
}

func (c *Config) LayerPolicy() card.LayerPolicy {
	p, _ := card.ParseLayerPolicy(c.Render.OnLayerError)
	return p
}

// Template returns the named layout, or the default one for an empty name.
func (c *Config) Template(name string) (card.Layout, bool) {
	if name == "" {
		name = c.Render.DefaultTemplate
	}
	l, ok := c.Templates[name]
	return l, ok
}

func (c *Config) TemplateNames() []string {
	names := make([]string, 0, len(c.Templates))
	for name := range c.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loader builds the image loader the render settings call for.
func (c *Config) Loader() *imagepkg.Loader {
	return &imagepkg.Loader{
		AllowFiles: c.Render.AllowFileSources,
		BaseDir:    c.Data.Dir,
		MaxPixels:  c.Render.MaxSourcePixels,
	}
}

func parseDuration(field, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", field, v)
	}
	return d, nil
}
