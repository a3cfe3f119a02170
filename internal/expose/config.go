package expose

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mapprotocol/stateproof/chains"
	"github.com/mapprotocol/stateproof/config"
	"github.com/mapprotocol/stateproof/internal/constant"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
)

const (
	DefaultConfigPath = "./config.json"
)

type Config struct {
	Chain   ChainConfig   `json:"chain"`
	Backend BackendConfig `json:"backend"`
	Cors    CorsConfig    `json:"cors"`
	Other   Construction  `json:"other,omitempty"`
}

type ChainConfig struct {
	Type string `json:"type"`
}

type BackendConfig struct {
	// Timeout bounds one backend call. Nil means the default, zero disables.
	Timeout *Duration `json:"timeout,omitempty"`
	// MaxInflight bounds concurrent backend calls, 0 means unbounded.
	MaxInflight int `json:"max_inflight,omitempty"`
}

// CorsConfig is the cross-origin policy of the HTTP API. Empty lists mean
// "everything".
type CorsConfig struct {
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
	AllowedMethods []string `json:"allowed_methods,omitempty"`
	AllowedHeaders []string `json:"allowed_headers,omitempty"`
}

type Construction struct {
	MonitorUrl   string `json:"monitor_url,omitempty"`
	Env          string `json:"env,omitempty"`
	Port         int    `json:"port,omitempty"`
	GrpcPort     int    `json:"grpc_port,omitempty"`
	Metrics      bool   `json:"metrics,omitempty"`
	MetricsPort  int    `json:"metrics_port,omitempty"`
	MaxBodyBytes int64  `json:"max_body_bytes,omitempty"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "duration must be a string")
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

var allMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace,
}

// Options converts the policy for rs/cors.
func (c CorsConfig) Options() cors.Options {
	opts := cors.Options{
		AllowedOrigins: c.AllowedOrigins,
		AllowedMethods: c.AllowedMethods,
		AllowedHeaders: c.AllowedHeaders,
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if len(opts.AllowedMethods) == 0 {
		opts.AllowedMethods = allMethods
	}
	if len(opts.AllowedHeaders) == 0 {
		opts.AllowedHeaders = []string{"*"}
	}
	return opts
}

// RequestTimeout is the effective backend call timeout.
func (b BackendConfig) RequestTimeout() time.Duration {
	if b.Timeout == nil {
		return constant.DefaultBackendTimeout
	}
	return b.Timeout.Duration
}

func (c *Config) validate() error {
	if c.Chain.Type == "" {
		c.Chain.Type = constant.Ethereum
	}
	if _, ok := chains.CreateProffer(c.Chain.Type); !ok {
		return fmt.Errorf("unrecognized chain type: %s", c.Chain.Type)
	}
	if c.Backend.Timeout != nil && c.Backend.Timeout.Duration < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	if c.Backend.MaxInflight < 0 {
		return fmt.Errorf("backend.max_inflight must not be negative")
	}
	if c.Other.Port == 0 {
		c.Other.Port = constant.DefaultPort
	}
	if c.Other.MetricsPort == 0 {
		c.Other.MetricsPort = config.MetricsPort.Value
	}
	if c.Other.MaxBodyBytes == 0 {
		c.Other.MaxBodyBytes = constant.DefaultMaxBodyBytes
	}
	for name, port := range map[string]int{"port": c.Other.Port, "grpc_port": c.Other.GrpcPort, "metrics_port": c.Other.MetricsPort} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("other.%s out of range: %d", name, port)
		}
	}
	if c.Other.MaxBodyBytes < 0 {
		return fmt.Errorf("other.max_body_bytes must not be negative")
	}
	return nil
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	var fig Config
	_ = fig.validate()
	return &fig
}

// Local loads the configuration named by --config, or ./config.json when it
// exists, and applies flag overrides.
func Local(ctx *cli.Context) (*Config, error) {
	var fig Config
	path := DefaultConfigPath
	explicit := ctx.String(config.ConfigFileFlag.Name) != ""
	if explicit {
		path = ctx.String(config.ConfigFileFlag.Name)
	}

	err := loadConfig(path, &fig)
	if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return nil, errors.Wrapf(err, "load config %s", path)
	}

	if ctx.IsSet(config.PortFlag.Name) {
		fig.Other.Port = ctx.Int(config.PortFlag.Name)
	}
	if ctx.IsSet(config.GrpcPortFlag.Name) {
		fig.Other.GrpcPort = ctx.Int(config.GrpcPortFlag.Name)
	}
	if ctx.IsSet(config.TimeoutFlag.Name) {
		fig.Backend.Timeout = &Duration{ctx.Duration(config.TimeoutFlag.Name)}
	}
	if ctx.IsSet(config.MetricsFlag.Name) {
		fig.Other.Metrics = ctx.Bool(config.MetricsFlag.Name)
	}
	if ctx.IsSet(config.MetricsPort.Name) {
		fig.Other.MetricsPort = ctx.Int(config.MetricsPort.Name)
	}

	err = fig.validate()
	if err != nil {
		return nil, err
	}
	return &fig, nil
}

func loadConfig(file string, fig *Config) error {
	ext := filepath.Ext(file)
	fp, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	f, err := os.Open(filepath.Clean(fp))
	if err != nil {
		return err
	}
	defer f.Close()

	if ext == ".json" {
		if err = json.NewDecoder(f).Decode(fig); err != nil {
			return err
		}
	} else {
		return fmt.Errorf("unrecognized extention: %s", ext)
	}

	return nil
}
