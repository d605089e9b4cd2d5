package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

var (
	ErrUnknownEnv      = errors.New("unknown env")
	ErrEmptyTargetPath = errors.New("sink target path is empty")
	ErrNoOrigins       = errors.New("cors allowed origins are empty")
	ErrMissingTLS      = errors.New("cert_file and key_file are required in prod")
)

type Config struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	Sink       `yaml:"sink"`
	CORS       `yaml:"cors"`
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Sink configures where reports are appended.
type Sink struct {
	TargetPath string `yaml:"target_path"`
}

var defaultSink = Sink{
	TargetPath: "reports.csv",
}

// CORS configures the cross-origin policy of the report endpoint.
// The default permits every origin and is meant for development only.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func defaultCORS() CORS {
	return CORS{AllowedOrigins: []string{"*"}}
}

// Load reads the YAML file at path on top of the defaults. An empty path or
// an empty file yields the defaults alone.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	setDefaults(&cfg)

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
		}
		defer f.Close()

		// An empty file decodes to io.EOF and leaves the defaults in place.
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}

	return &cfg, nil
}

// Validate reports the first setting that would prevent the service from starting.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvStage, EnvProd:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEnv, c.Env)
	}

	if c.Sink.TargetPath == "" {
		return ErrEmptyTargetPath
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		return ErrNoOrigins
	}

	if c.Env == EnvProd && (c.HTTPServer.CertFile == "" || c.HTTPServer.KeyFile == "") {
		return ErrMissingTLS
	}

	return nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.HTTPServer = defaultHTTPServer
	cfg.Sink = defaultSink
	cfg.CORS = defaultCORS()
}
