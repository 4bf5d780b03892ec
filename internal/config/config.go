package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string        `yaml:"loglevel"`
	LogFile  string        `yaml:"logfile"`
	Server   ServerConfig  `yaml:"server"`
	Gallery  GalleryConfig `yaml:"gallery"`
	Jobs     JobsConfig    `yaml:"jobs"`
	Render   RenderConfig  `yaml:"render"`
	Editor   EditorConfig  `yaml:"editor"`
}

type ServerConfig struct {
	Addr   string `yaml:"addr"`
	QR     bool   `yaml:"qr"`     // print the site URL as a QR code on start
	Assets string `yaml:"assets"` // directory holding the gallery photographs
}

type GalleryConfig struct {
	DB string `yaml:"db"` // empty: ~/.kolam/gallery.db
}

type JobsConfig struct {
	Delay string `yaml:"delay"` // simulated processing time, e.g. "2s"
}

type RenderConfig struct {
	Supersample int    `yaml:"supersample"`
	Format      string `yaml:"format"` // png, svg, json or txt
}

type EditorConfig struct {
	FileType string `yaml:"file_type"` // png or svg
	LastDir  string `yaml:"last_dir"`
}

// Defaults returns a Config populated with all default values.
func Defaults() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		LogLevel: "warn",
		Server: ServerConfig{
			Addr: "localhost:8080",
		},
		Jobs: JobsConfig{
			Delay: "2s",
		},
		Render: RenderConfig{
			Supersample: 4,
			Format:      "png",
		},
		Editor: EditorConfig{
			FileType: "png",
		},
	}
}

// DefaultPath returns ~/.kolam/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Dir returns the data directory, ~/.kolam.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".kolam")
}

func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return defaults(), nil
	}
	return cfg, err
}

// Save writes cfg to path in YAML format, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// JobDelay parses Jobs.Delay, falling back to two seconds.
func (c *Config) JobDelay() time.Duration {
	d, err := time.ParseDuration(c.Jobs.Delay)
	if err != nil || d < 0 {
		return 2 * time.Second
	}
	return d
}

// GalleryPath returns the database path, defaulting to the data directory.
func (c *Config) GalleryPath() string {
	if c.Gallery.DB != "" {
		return c.Gallery.DB
	}
	return filepath.Join(Dir(), "gallery.db")
}
