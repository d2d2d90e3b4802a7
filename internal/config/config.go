package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

var ErrCfg = errors.New("error reading config.yml")

const DefaultPath = "configs/config.yml"

type Config struct {
	Server    ServerOptions    `yaml:"server"`
	YTDLP     YTDLPOptions     `yaml:"ytdlp"`
	Storage   StorageOptions   `yaml:"storage"`
	Telemetry TelemetryOptions `yaml:"telemetry"`
}

type ServerOptions struct {
	Port        string  `yaml:"port"`
	Debug       bool    `yaml:"debug"`
	ReadTimeout int64   `yaml:"read_timeout"` // seconds
	RateLimit   float64 `yaml:"rate_limit"`   // requests per second per client, 0 disables
	RateBurst   int     `yaml:"rate_burst"`

	// IPs or CIDRs allowed to set X-Forwarded-For. Empty trusts none.
	TrustedProxies []string `yaml:"trusted_proxies,omitempty"`
}

type YTDLPOptions struct {
	Executable      string   `yaml:"executable"`
	FFmpegLocation  string   `yaml:"ffmpeg_location"`
	InfoTimeout     int64    `yaml:"info_timeout"`     // seconds
	DownloadTimeout int64    `yaml:"download_timeout"` // seconds
	ExtraArgs       []string `yaml:"extra_args,omitempty"`
}

type StorageOptions struct {
	Dir             string `yaml:"dir"`
	MaxAge          int64  `yaml:"max_age"`          // seconds
	CleanupInterval int64  `yaml:"cleanup_interval"` // seconds
}

type TelemetryOptions struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Address     string `yaml:"address"`
}

func Default() Config {
	return Config{
		Server: ServerOptions{
			Port:        "5000",
			ReadTimeout: 30,
			RateLimit:   2,
			RateBurst:   10,
		},
		YTDLP: YTDLPOptions{
			Executable:      "yt-dlp",
			InfoTimeout:     60,
			DownloadTimeout: 30 * 60,
		},
		Storage: StorageOptions{
			Dir:             filepath.Join(os.TempDir(), "mediafetch"),
			MaxAge:          60 * 60,
			CleanupInterval: 10 * 60,
		},
		Telemetry: TelemetryOptions{
			ServiceName: "mediafetch-api",
			Address:     "127.0.0.1:4317",
		},
	}
}

// NewDefaultConfig writes Default to path, creating parent directories.
func NewDefaultConfig(path string) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	defer encoder.Close()
	return encoder.Encode(Default())
}

// NewConfig reads path over Default. Missing keys keep their default values.
// A missing or unreadable file yields ErrCfg.
func NewConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrCfg, err)
	}
	defer f.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return &cfg, nil
}

// Load is NewConfig that falls back to defaults and writes them out when the
// file does not exist yet.
func Load(path string) (*Config, error) {
	cfg, err := NewConfig(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err := NewDefaultConfig(path); err != nil {
		return nil, err
	}
	d := Default()
	d.applyEnv()
	return &d, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
}

func (o ServerOptions) ReadTimeoutDuration() time.Duration {
	return time.Duration(o.ReadTimeout) * time.Second
}

func (o YTDLPOptions) InfoTimeoutDuration() time.Duration {
	return time.Duration(o.InfoTimeout) * time.Second
}

func (o YTDLPOptions) DownloadTimeoutDuration() time.Duration {
	return time.Duration(o.DownloadTimeout) * time.Second
}

func (o StorageOptions) MaxAgeDuration() time.Duration {
	return time.Duration(o.MaxAge) * time.Second
}

func (o StorageOptions) CleanupIntervalDuration() time.Duration {
	return time.Duration(o.CleanupInterval) * time.Second
}
