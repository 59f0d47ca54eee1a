package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding file values
const EnvPrefix = "IMAGE_ACQ_"

// Suggestion backends
const (
	BackendNone     = "none"
	BackendSaliency = "saliency"
	BackendOllama   = "ollama"
	BackendLlamaCpp = "llamacpp"
)

// Config holds the application configuration
type Config struct {
	Bucket   string        `json:"bucket" yaml:"bucket"`
	DataDir  string        `json:"data_dir" yaml:"data_dir"`
	LogLevel string        `json:"log_level" yaml:"log_level"`
	Image    ImageConfig   `json:"image" yaml:"image"`
	Suggest  SuggestConfig `json:"suggest" yaml:"suggest"`
	Window   WindowConfig  `json:"window" yaml:"window"`
}

// ImageConfig holds configuration for fetching and saving images
type ImageConfig struct {
	MaxDimension int    `json:"max_dimension" yaml:"max_dimension"`
	Format       string `json:"format" yaml:"format"`
	Quality      int    `json:"quality" yaml:"quality"`
	Lossless     bool   `json:"lossless" yaml:"lossless"`
	UserAgent    string `json:"user_agent" yaml:"user_agent"`
	// FetchTimeout is a Go duration string; empty or "0" disables it
	FetchTimeout string `json:"fetch_timeout" yaml:"fetch_timeout"`
}

// SuggestConfig holds configuration for the region suggestion model
type SuggestConfig struct {
	Backend     string `json:"backend" yaml:"backend"`
	URL         string `json:"url" yaml:"url"`
	Model       string `json:"model" yaml:"model"`
	SendFormat  string `json:"send_format" yaml:"send_format"`
	SendSize    int    `json:"send_size" yaml:"send_size"`
	SendQuality int    `json:"send_quality" yaml:"send_quality"`
}

// WindowConfig holds the main window settings
type WindowConfig struct {
	Title  string  `json:"title" yaml:"title"`
	Width  float32 `json:"width" yaml:"width"`
	Height float32 `json:"height" yaml:"height"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Bucket:   "filaniOslic",
		DataDir:  "data",
		LogLevel: "info",
		Image: ImageConfig{
			MaxDimension: 1000,
			Format:       "png",
			Quality:      90,
			UserAgent:    "image-acquisition/1.0",
		},
		Suggest: SuggestConfig{
			Backend:     BackendNone,
			Model:       "qwen2.5vl:7b",
			SendFormat:  "jpg",
			SendSize:    1024,
			SendQuality: 85,
		},
		Window: WindowConfig{
			Title:  "Image acquisition",
			Width:  1000,
			Height: 800,
		},
	}
}

// LoadFromFile loads configuration from a YAML (.yaml, .yml) or JSON file.
// Missing keys keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if isYAML(filename) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration, as YAML or JSON depending on the extension
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(filename) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides values from IMAGE_ACQ_* environment variables
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"BUCKET":          &c.Bucket,
		"DATA_DIR":        &c.DataDir,
		"LOG_LEVEL":       &c.LogLevel,
		"IMAGE_FORMAT":    &c.Image.Format,
		"USER_AGENT":      &c.Image.UserAgent,
		"FETCH_TIMEOUT":   &c.Image.FetchTimeout,
		"SUGGEST_BACKEND": &c.Suggest.Backend,
		"SUGGEST_URL":     &c.Suggest.URL,
		"SUGGEST_MODEL":   &c.Suggest.Model,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_DIMENSION": &c.Image.MaxDimension,
		"IMAGE_QUALITY": &c.Image.Quality,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s must be an integer: %w", EnvPrefix, key, err)
		}
		*dst = n
	}
	return nil
}

// FetchTimeout returns the parsed image fetch timeout, zero when unset
func (c *Config) FetchTimeout() (time.Duration, error) {
	if c.Image.FetchTimeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Image.FetchTimeout)
}

// SuggestEnabled reports whether a suggestion backend is selected
func (c *Config) SuggestEnabled() bool {
	b := strings.ToLower(c.Suggest.Backend)
	return b != "" && b != BackendNone
}

func (c *Config) usesModel() bool {
	b := strings.ToLower(c.Suggest.Backend)
	return b == BackendOllama || b == BackendLlamaCpp
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket cannot be empty")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}

	if c.Image.MaxDimension < 1 {
		return fmt.Errorf("image.max_dimension must be positive")
	}

	switch strings.ToLower(c.Image.Format) {
	case "png", "jpg", "jpeg", "webp":
	default:
		return fmt.Errorf("image.format must be one of png, jpg, webp")
	}

	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		return fmt.Errorf("image.quality must be between 1 and 100")
	}

	if d, err := c.FetchTimeout(); err != nil || d < 0 {
		return fmt.Errorf("image.fetch_timeout must be a non-negative duration")
	}

	switch strings.ToLower(c.Suggest.Backend) {
	case "", BackendNone, BackendSaliency, BackendOllama, BackendLlamaCpp:
	default:
		return fmt.Errorf("suggest.backend must be one of none, saliency, ollama, llamacpp")
	}

	if c.usesModel() {
		if c.Suggest.Model == "" {
			return fmt.Errorf("suggest.model cannot be empty")
		}
		if c.Suggest.SendQuality < 1 || c.Suggest.SendQuality > 100 {
			return fmt.Errorf("suggest.send_quality must be between 1 and 100")
		}
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".config", "image-acquisition", "config.yaml")
}

func isYAML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
