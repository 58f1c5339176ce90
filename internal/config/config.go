package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	liveEndpoint      = "http://elections.interieur.gouv.fr/telechargements/PR2017/"
	rehearsalEndpoint = "http://www.interieur.gouv.fr/avotreservice/elections/telechargements/EssaiPR2017"
)

// DefaultCandidates are the surnames exported as ranking/vote columns.
var DefaultCandidates = []string{"LE PEN", "MACRON", "HAMON", "MÉLENCHON", "FILLON"}

type Config struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	AllowOrigins []string      `yaml:"allow_origins"`
	LogLevel     string        `yaml:"log_level"`
	MaxUploadMB  int           `yaml:"max_upload_mb"`
	LogFile      string        `yaml:"log_file"`
	DataDir      string        `yaml:"data_dir"`
	Env          string        `yaml:"env"`
	Endpoint     string        `yaml:"endpoint"`
	Round        int           `yaml:"round"`
	Concurrency  int           `yaml:"concurrency"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	Threshold    float64       `yaml:"dice_threshold"`
	Candidates   []string      `yaml:"candidates"`
}

func defaults() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         8082,
		AllowOrigins: []string{"*"},
		LogLevel:     "info",
		MaxUploadMB:  256,
		LogFile:      "logs/frelections.log",
		DataDir:      "data",
		Env:          "development",
		Round:        1,
		Concurrency:  8,
		FetchTimeout: 20 * time.Second,
		Threshold:    0.40,
		Candidates:   append([]string(nil), DefaultCandidates...),
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file.
func LoadFile(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if cfg.Endpoint == "" {
		cfg.Endpoint = endpointFor(cfg.Env)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Host = getenv("HOST", c.Host)
	c.Port = getint("PORT", c.Port)
	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = splitList(v)
	}
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.MaxUploadMB = getint("MAX_UPLOAD_MB", c.MaxUploadMB)
	c.LogFile = getenv("LOG_FILE", c.LogFile)
	c.DataDir = getenv("DATA_DIR", c.DataDir)
	c.Env = getenv("APP_ENV", c.Env)
	c.Endpoint = getenv("ENDPOINT", c.Endpoint)
	c.Round = getint("ROUND", c.Round)
	c.Concurrency = getint("CONCURRENCY", c.Concurrency)
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.FetchTimeout = d
		}
	}
	if v := os.Getenv("DICE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Threshold = f
		}
	}
	if v := os.Getenv("CANDIDATES"); v != "" {
		c.Candidates = splitList(v)
	}
}

func endpointFor(env string) string {
	if env == "production" {
		return liveEndpoint
	}
	return rehearsalEndpoint
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
