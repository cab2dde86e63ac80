package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultPort        = 9327
	DefaultLogLevel    = "info"
	DefaultMetricsPath = "/metrics"
	DefaultBaseDate    = "today"
	DefaultPattern     = "*"

	DriverS3    = "s3"
	DriverMinIO = "minio"
)

// Configuration represents the exporter configuration file
type Configuration struct {
	Bucket           string   `yaml:"bucket"`
	Folders          []string `yaml:"folders"`
	Pattern          string   `yaml:"pattern"`
	Patterns         []string `yaml:"patterns"`
	SmartFolderDate  bool     `yaml:"smart_folder_date"`
	SmartPatternDate bool     `yaml:"smart_pattern_date"`
	BaseDate         string   `yaml:"base_date"`
	Timezone         string   `yaml:"timezone"`

	Driver         string `yaml:"driver"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	SessionToken   string `yaml:"session_token"`
	HostBase       string `yaml:"host_base"`
	UseHTTPS       *bool  `yaml:"use_https"`
	Region         string `yaml:"region"`
	ForcePathStyle bool   `yaml:"force_path_style"`
	PageSize       int32  `yaml:"page_size"`

	ExporterPort int    `yaml:"exporter_port"`
	MetricsPath  string `yaml:"metrics_path"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

// NewDefault returns a configuration with every optional field defaulted
func NewDefault() *Configuration {
	return &Configuration{
		BaseDate:     DefaultBaseDate,
		Driver:       DriverS3,
		ExporterPort: DefaultPort,
		MetricsPath:  DefaultMetricsPath,
		LogLevel:     DefaultLogLevel,
		LogFormat:    "json",
	}
}

// Load reads, overrides from the environment, normalizes and validates a configuration file
func Load(filename string) (*Configuration, error) {
	cfg := NewDefault()
	if err := cfg.LoadFromFile(filename); err != nil {
		return nil, err
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads overrides from environment variables
func (c *Configuration) LoadFromEnv() error {
	if val := os.Getenv("S3_EXPORTER_BUCKET"); val != "" {
		c.Bucket = val
	}
	if val := os.Getenv("S3_EXPORTER_ACCESS_KEY"); val != "" {
		c.AccessKey = val
	}
	if val := os.Getenv("S3_EXPORTER_SECRET_KEY"); val != "" {
		c.SecretKey = val
	}
	if val := os.Getenv("S3_EXPORTER_HOST_BASE"); val != "" {
		c.HostBase = val
	}
	if val := os.Getenv("S3_EXPORTER_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("S3_EXPORTER_PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid S3_EXPORTER_PORT %q: %w", val, err)
		}
		c.ExporterPort = port
	}

	return nil
}

// Normalize fills optional fields left empty by the file and merges the legacy pattern key
func (c *Configuration) Normalize() {
	if c.Pattern != "" {
		c.Patterns = append([]string{c.Pattern}, c.Patterns...)
		c.Pattern = ""
	}
	if len(c.Patterns) == 0 {
		c.Patterns = []string{DefaultPattern}
	}
	if c.BaseDate == "" {
		c.BaseDate = DefaultBaseDate
	}
	if c.Driver == "" {
		c.Driver = DriverS3
	}
	c.Driver = strings.ToLower(c.Driver)
	if c.ExporterPort == 0 {
		c.ExporterPort = DefaultPort
	}
	if c.MetricsPath == "" {
		c.MetricsPath = DefaultMetricsPath
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate validates the configuration
func (c *Configuration) Validate() error {
	if strings.TrimSpace(c.Bucket) == "" {
		return fmt.Errorf("bucket is required")
	}

	if len(c.Folders) == 0 {
		return fmt.Errorf("folders must contain at least one entry")
	}

	for i, p := range c.Patterns {
		if p == "" {
			return fmt.Errorf("patterns[%d] must not be empty", i)
		}
	}

	if c.Driver != DriverS3 && c.Driver != DriverMinIO {
		return fmt.Errorf("invalid driver: %s (must be one of: %s, %s)", c.Driver, DriverS3, DriverMinIO)
	}

	if c.Driver == DriverMinIO && c.HostBase == "" {
		return fmt.Errorf("host_base is required for the %s driver", DriverMinIO)
	}

	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("access_key and secret_key must be set together")
	}

	if c.ExporterPort <= 0 || c.ExporterPort > 65535 {
		return fmt.Errorf("invalid exporter_port: %d", c.ExporterPort)
	}

	if !strings.HasPrefix(c.MetricsPath, "/") || c.MetricsPath == "/health" {
		return fmt.Errorf("invalid metrics_path: %s", c.MetricsPath)
	}

	if c.PageSize < 0 || c.PageSize > 1000 {
		return fmt.Errorf("page_size must be between 0 and 1000, got %d", c.PageSize)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// HTTPS reports whether the storage endpoint is reached over TLS
func (c *Configuration) HTTPS() bool {
	return c.UseHTTPS == nil || *c.UseHTTPS
}

// Location returns the time zone used to resolve base_date
func (c *Configuration) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Address returns the listen address of the metrics server
func (c *Configuration) Address() string {
	return fmt.Sprintf(":%d", c.ExporterPort)
}
