package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/yaml.v3"

	"github.com/dummyapi-qa/contract-tests/framework/harness"
)

const (
	defaultLogLevel = "info"
	defaultLogFmt   = "console"
)

// config holds the settings that can come from a YAML file, the environment (including a .env
// file in the working directory), or the command line, in increasing order of precedence.
type config struct {
	Host               string        `yaml:"host" env:"HOST"`
	APIToken           string        `yaml:"apiToken" env:"API_TOKEN"`
	RequestTimeout     time.Duration `yaml:"requestTimeout" env:"REQUEST_TIMEOUT"`
	StatusQueryTimeout time.Duration `yaml:"statusQueryTimeout" env:"STATUS_QUERY_TIMEOUT"`
	LogLevel           string        `yaml:"logLevel" env:"LOG_LEVEL"`
	LogFmt             string        `yaml:"logFmt" env:"LOG_FMT"`
}

// loadConfig reads the YAML file at path, if path is not empty, and then applies environment
// variables. A nil environ means the process environment.
func loadConfig(path string, environ map[string]string) (*config, error) {
	cfg := &config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("can't read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("can't parse config file %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("can't parse environment: %w", err)
	}
	return cfg, nil
}

// applyParams lets command line values override the file and environment, and fills in defaults.
func (c *config) applyParams(params commandParams) {
	if params.serviceURL != "" {
		c.Host = params.serviceURL
	}
	if params.appID != "" {
		c.APIToken = params.appID
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = harness.DefaultRequestTimeout
	}
	if c.StatusQueryTimeout <= 0 {
		c.StatusQueryTimeout = harness.DefaultStatusQueryTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.LogFmt == "" {
		c.LogFmt = defaultLogFmt
	}
}

func (c *config) validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("base URL is not set (HOST, or -url)"))
	}
	if c.APIToken == "" {
		errs = append(errs, errors.New("app-id is not set (API_TOKEN, or -app-id)"))
	}
	return errors.Join(errs...)
}

func (c *config) harnessConfig() harness.Config {
	return harness.Config{
		BaseURL:            c.Host,
		AppID:              c.APIToken,
		RequestTimeout:     c.RequestTimeout,
		StatusQueryTimeout: c.StatusQueryTimeout,
	}
}
