// Package config loads and merges guardian configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the guardian configuration
type Config struct {
	ServiceURL      string  `json:"service_url" validate:"required,url"`
	GeoURL          string  `json:"geo_url" validate:"omitempty,url"`
	GeoLat          float64 `json:"geo_lat" validate:"gte=-90,lte=90"`
	GeoLng          float64 `json:"geo_lng" validate:"gte=-180,lte=180"`
	RequestTimeout  int     `json:"request_timeout" validate:"gte=0"`  // Seconds per analysis request
	LocationTimeout int     `json:"location_timeout" validate:"gte=0"` // Seconds per location lookup
	EvidenceDir     string  `json:"evidence_dir"`
	CaptureCommand  string  `json:"capture_command"` // Microphone capture utility
	Theme           string  `json:"theme" validate:"oneof=dark light"`
	ReducedMotion   bool    `json:"reduced_motion"`
	SaveHistory     bool    `json:"save_history"`
}

var validate = validator.New()

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		ServiceURL:      "http://localhost:8000",
		GeoURL:          "http://ip-api.com/json",
		RequestTimeout:  30,
		LocationTimeout: 10,
		EvidenceDir:     ".",
		CaptureCommand:  "arecord -f cd -t wav",
		Theme:           "dark",
	}
}

// LoadConfig loads configuration from global and local sources. A .env file
// in the working directory and GUARDIAN_* environment variables override
// file values.
func LoadConfig(workDir string) (*Config, error) {
	cfg := DefaultConfig()

	globalCfg, err := loadGlobalConfig()
	if err == nil {
		mergeCfg(cfg, globalCfg)
	}

	// Local config takes precedence
	localCfg, err := loadLocalConfig(workDir)
	if err == nil {
		mergeCfg(cfg, localCfg)
	}

	godotenv.Load(filepath.Join(workDir, ".env"))
	applyEnv(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Get retrieves a configuration value by key
func (c *Config) Get(key string) (interface{}, error) {
	switch key {
	case "service_url":
		return c.ServiceURL, nil
	case "geo_url":
		return c.GeoURL, nil
	case "geo_lat":
		return c.GeoLat, nil
	case "geo_lng":
		return c.GeoLng, nil
	case "request_timeout":
		return c.RequestTimeout, nil
	case "location_timeout":
		return c.LocationTimeout, nil
	case "evidence_dir":
		return c.EvidenceDir, nil
	case "capture_command":
		return c.CaptureCommand, nil
	case "theme":
		return c.Theme, nil
	case "reduced_motion":
		return c.ReducedMotion, nil
	case "save_history":
		return c.SaveHistory, nil
	default:
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
}

// Set updates a configuration value by key
func (c *Config) Set(key string, value interface{}) error {
	// Convert value to string (CLI input is always string)
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string value for %s", key)
	}

	switch key {
	case "service_url":
		c.ServiceURL = str
	case "geo_url":
		c.GeoURL = str
	case "geo_lat":
		val, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("expected numeric value for geo_lat, got: %s", str)
		}
		c.GeoLat = val
	case "geo_lng":
		val, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("expected numeric value for geo_lng, got: %s", str)
		}
		c.GeoLng = val
	case "request_timeout":
		val, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("expected numeric value for request_timeout, got: %s", str)
		}
		c.RequestTimeout = val
	case "location_timeout":
		val, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("expected numeric value for location_timeout, got: %s", str)
		}
		c.LocationTimeout = val
	case "evidence_dir":
		c.EvidenceDir = str
	case "capture_command":
		c.CaptureCommand = str
	case "theme":
		if str != "dark" && str != "light" {
			return fmt.Errorf("expected 'dark' or 'light' for theme, got: %s", str)
		}
		c.Theme = str
	case "reduced_motion":
		val, err := parseBool(str, "reduced_motion")
		if err != nil {
			return err
		}
		c.ReducedMotion = val
	case "save_history":
		val, err := parseBool(str, "save_history")
		if err != nil {
			return err
		}
		c.SaveHistory = val
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return validate.Struct(c)
}

func parseBool(str, key string) (bool, error) {
	switch str {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("expected 'true' or 'false' for %s, got: %s", key, str)
}

// loadGlobalConfig loads configuration from ~/.guardian/config.json
func loadGlobalConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return loadConfigFromFile(filepath.Join(homeDir, ".guardian", "config.json"))
}

// loadLocalConfig loads configuration from <dir>/.guardian/config.json
func loadLocalConfig(workDir string) (*Config, error) {
	return loadConfigFromFile(filepath.Join(workDir, ".guardian", "config.json"))
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveLocalConfig saves configuration to <dir>/.guardian/config.json
func SaveLocalConfig(workDir string, cfg *Config) error {
	configDir := filepath.Join(workDir, ".guardian")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.json"), data, 0644)
}

// mergeCfg merges source config into destination config
func mergeCfg(dst, src *Config) {
	if src.ServiceURL != "" {
		dst.ServiceURL = src.ServiceURL
	}
	if src.GeoURL != "" {
		dst.GeoURL = src.GeoURL
	}
	if src.GeoLat != 0 {
		dst.GeoLat = src.GeoLat
	}
	if src.GeoLng != 0 {
		dst.GeoLng = src.GeoLng
	}
	if src.RequestTimeout != 0 {
		dst.RequestTimeout = src.RequestTimeout
	}
	if src.LocationTimeout != 0 {
		dst.LocationTimeout = src.LocationTimeout
	}
	if src.EvidenceDir != "" {
		dst.EvidenceDir = src.EvidenceDir
	}
	if src.CaptureCommand != "" {
		dst.CaptureCommand = src.CaptureCommand
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.ReducedMotion {
		dst.ReducedMotion = true
	}
	if src.SaveHistory {
		dst.SaveHistory = true
	}
}

// applyEnv overrides config values from GUARDIAN_* environment variables
func applyEnv(cfg *Config) {
	if v := os.Getenv("GUARDIAN_SERVICE_URL"); v != "" {
		cfg.ServiceURL = v
	}
	if v := os.Getenv("GUARDIAN_GEO_URL"); v != "" {
		cfg.GeoURL = v
	}
	if v := os.Getenv("GUARDIAN_EVIDENCE_DIR"); v != "" {
		cfg.EvidenceDir = v
	}
	if v := os.Getenv("GUARDIAN_CAPTURE_COMMAND"); v != "" {
		cfg.CaptureCommand = v
	}
	if v := os.Getenv("GUARDIAN_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("GUARDIAN_REQUEST_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeout = n
		}
	}
	if v := os.Getenv("GUARDIAN_LOCATION_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LocationTimeout = n
		}
	}
	if v := os.Getenv("GUARDIAN_SAVE_HISTORY"); v != "" {
		cfg.SaveHistory = v == "true"
	}
}
