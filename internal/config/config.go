package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Host         string   `koanf:"host"`
	Port         int      `koanf:"port"`
	AllowOrigins []string `koanf:"allow_origins"`
	LogLevel     string   `koanf:"log_level"`
	LogFormat    string   `koanf:"log_format"`
	LogFile      string   `koanf:"log_file"`
	MaxUploadMB  int      `koanf:"max_upload_mb"`

	CatalogPath string `koanf:"catalog_path"`
	HeaderRow   int    `koanf:"header_row"`

	DefaultTopN  int     `koanf:"default_top_n"`
	MaxTopN      int     `koanf:"max_top_n"`
	MaxFavorites int     `koanf:"max_favorites"`
	FuzzyCutoff  float64 `koanf:"fuzzy_cutoff"`
	SuggestLimit int     `koanf:"suggest_limit"`
	QRPayloadMax int     `koanf:"qr_payload_max"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	Classification Classification `koanf:"classification"`
}

// Classification holds the author-name fragments used to tag books as Indian
// or Tamil. Matching is a case-insensitive substring test; an empty list
// falls back to the built-in fragments.
type Classification struct {
	Indian []string `koanf:"indian"`
	Tamil  []string `koanf:"tamil"`
}

func defaultConfig() Config {
	return Config{
		Host:              "127.0.0.1",
		Port:              8082,
		AllowOrigins:      []string{"*"},
		LogLevel:          "info",
		LogFormat:         "console",
		LogFile:           "logs/noolsaka.log",
		MaxUploadMB:       1,
		CatalogPath:       "Book List1.csv",
		HeaderRow:         1,
		DefaultTopN:       10,
		MaxTopN:           25,
		MaxFavorites:      3,
		FuzzyCutoff:       0.30,
		SuggestLimit:      30,
		QRPayloadMax:      4200,
		RateLimitRequests: 120,
		RateLimitWindow:   time.Minute,
	}
}

// Load layers struct defaults, an optional YAML file and environment
// variables (highest priority). PORT, LOG_LEVEL, CATALOG_PATH and so on map
// onto the flat keys; CLASSIFICATION_INDIAN / CLASSIFICATION_TAMIL take
// comma-separated lists.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.ProviderWithValue("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	if err := splitLists(k); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func (c Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.LogFormat != "" && c.LogFormat != "console" && c.LogFormat != "json":
		return fmt.Errorf("log_format must be console or json")
	case c.CatalogPath == "":
		return fmt.Errorf("catalog_path is required")
	case c.MaxTopN < 1:
		return fmt.Errorf("max_top_n must be >= 1")
	case c.DefaultTopN < 1 || c.DefaultTopN > c.MaxTopN:
		return fmt.Errorf("default_top_n must be within 1..%d", c.MaxTopN)
	case c.MaxFavorites < 1:
		return fmt.Errorf("max_favorites must be >= 1")
	case c.FuzzyCutoff <= 0 || c.FuzzyCutoff > 1:
		return fmt.Errorf("fuzzy_cutoff must be within (0, 1]")
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKeys lists the environment variables the service reads.
var envKeys = map[string]string{
	"host":                  "host",
	"port":                  "port",
	"allow_origins":         "allow_origins",
	"log_level":             "log_level",
	"log_format":            "log_format",
	"log_file":              "log_file",
	"max_upload_mb":         "max_upload_mb",
	"catalog_path":          "catalog_path",
	"header_row":            "header_row",
	"default_top_n":         "default_top_n",
	"max_top_n":             "max_top_n",
	"max_favorites":         "max_favorites",
	"fuzzy_cutoff":          "fuzzy_cutoff",
	"suggest_limit":         "suggest_limit",
	"qr_payload_max":        "qr_payload_max",
	"rate_limit_requests":   "rate_limit_requests",
	"rate_limit_window":     "rate_limit_window",
	"classification_indian": "classification.indian",
	"classification_tamil":  "classification.tamil",
}

// envKey maps an environment variable to a config path. Unknown and empty
// variables return "" and are skipped.
func envKey(key, value string) (string, any) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return envKeys[strings.ToLower(key)], value
}

var listKeys = []string{"allow_origins", "classification.indian", "classification.tamil"}

// splitLists turns comma-separated env values into slices.
func splitLists(k *koanf.Koanf) error {
	for _, key := range listKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(key, out); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}
