package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"annbridge/internal/conversion"
	"annbridge/internal/typesystem"
)

const (
	SourceLocal = "local"
	SourceAlveo = "alveo"

	SinkMemory = "memory"
	SinkSQLite = "sqlite"
	SinkAlveo  = "alveo"
)

// TypeSystemConfig points at a type system descriptor. An empty path uses
// the built-in DKPro types.
type TypeSystemConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LocalSourceConfig lists .txt files or glob patterns to read.
type LocalSourceConfig struct {
	Paths []string `yaml:"paths,omitempty"`
}

// AlveoConfig holds connection details for the remote annotation store.
type AlveoConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	ItemListID  string `yaml:"item_list_id,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxAttempts int    `yaml:"max_attempts"`
	BatchSize   int    `yaml:"batch_size"`
}

// SourceConfig selects where items come from.
type SourceConfig struct {
	Type  string             `yaml:"type"`
	Local *LocalSourceConfig `yaml:"local,omitempty"`
	Alveo *AlveoConfig       `yaml:"alveo,omitempty"`
}

// SQLiteConfig configures the SQLite sink.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// SinkConfig selects where converted records go. The alveo sink shares the
// connection settings of source.alveo unless it has its own.
type SinkConfig struct {
	Type   string        `yaml:"type"`
	SQLite *SQLiteConfig `yaml:"sqlite,omitempty"`
	Alveo  *AlveoConfig  `yaml:"alveo,omitempty"`
}

// DumpConfig enables the msgpack debug writer when Dir is set.
type DumpConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig exposes /metrics on Addr when set.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	TypeSystem      TypeSystemConfig  `yaml:"type_system"`
	Source          SourceConfig      `yaml:"source"`
	Annotators      []string          `yaml:"annotators"`
	Converters      []conversion.Spec `yaml:"converters"`
	LabelFeatures   []string          `yaml:"label_features"`
	TypeFeatures    []string          `yaml:"type_features,omitempty"`
	UploadableTypes []string          `yaml:"uploadable_types"`
	Sink            SinkConfig        `yaml:"sink"`
	Dump            DumpConfig        `yaml:"dump"`
	Workers         int               `yaml:"workers"`
	Logging         LoggingConfig     `yaml:"logging"`
	Metrics         MetricsConfig     `yaml:"metrics"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./annbridge.yaml first, then ~/.config/annbridge/config.yaml.
// If neither exists, it writes defaults to ~/.config/annbridge/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "annbridge.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SinkAlveo returns the connection settings of the alveo sink.
func (c *AppConfig) SinkAlveo() *AlveoConfig {
	if c.Sink.Alveo != nil {
		return c.Sink.Alveo
	}
	return c.Source.Alveo
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "annbridge", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Source:     SourceConfig{Type: SourceLocal, Local: &LocalSourceConfig{}},
		Annotators: []string{"segmenter", "tokenizer", "pos-tagger"},
		Converters: []conversion.Spec{{Kind: "dkpro-pos"}},
		UploadableTypes: []string{
			typesystem.DKProSentence,
			typesystem.DKProPOS,
		},
		Sink:    SinkConfig{Type: SinkMemory},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Source.Type == "" {
		cfg.Source.Type = SourceLocal
	}
	if cfg.Sink.Type == "" {
		cfg.Sink.Type = SinkMemory
	}
	if len(cfg.LabelFeatures) == 0 {
		cfg.LabelFeatures = []string{
			typesystem.DKProPosValue,
			conversion.DefaultLabelFeature,
		}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	for _, a := range []*AlveoConfig{cfg.Source.Alveo, cfg.Sink.Alveo} {
		if a == nil {
			continue
		}
		if a.APIKeyEnv == "" {
			a.APIKeyEnv = "ALVEO_API_KEY"
		}
		if a.TimeoutSecs == 0 {
			a.TimeoutSecs = 30
		}
		if a.MaxAttempts == 0 {
			a.MaxAttempts = 5
		}
		if a.BatchSize == 0 {
			a.BatchSize = 200
		}
	}
	if cfg.Sink.Type == SinkSQLite && cfg.Sink.SQLite == nil {
		cfg.Sink.SQLite = &SQLiteConfig{Path: "annbridge.db"}
	}
}
