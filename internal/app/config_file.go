package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/wetterbericht/internal/region"
)

// Configuration errors. Both are reported before any network activity.
var (
	ErrKeyFileNotFound = errors.New("key file not found")
	ErrInvalidConfig   = errors.New("invalid config")
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Output       string `yaml:"output" json:"output"`
	State        string `yaml:"state" json:"state"`
	KeyFile      string `yaml:"keyFile" json:"keyFile"`
	WaveNet      *bool  `yaml:"wavenet" json:"wavenet"`
	SkipWarnings *bool  `yaml:"skipWarnings" json:"skipWarnings"`

	Feed struct {
		BaseURL   string        `yaml:"baseURL" json:"baseURL"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
		Parallel  *bool         `yaml:"parallel" json:"parallel"`
		UserAgent string        `yaml:"userAgent" json:"userAgent"`
	} `yaml:"feed" json:"feed"`

	Engine string `yaml:"engine" json:"engine"`
	OpenAI struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		Voice   string `yaml:"voice" json:"voice"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"openai" json:"openai"`

	Verbose *bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value present in fc onto cfg. It runs
// before env and flags, which override it.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}

	setString(&cfg.OutputPath, fc.Output)
	setString(&cfg.State, fc.State)
	setString(&cfg.KeyFile, fc.KeyFile)
	setBool(&cfg.WaveNet, fc.WaveNet)
	setBool(&cfg.SkipWarnings, fc.SkipWarnings)

	setString(&cfg.BaseURL, fc.Feed.BaseURL)
	if fc.Feed.Timeout > 0 {
		cfg.Timeout = fc.Feed.Timeout
	}
	setBool(&cfg.Parallel, fc.Feed.Parallel)
	setString(&cfg.UserAgent, fc.Feed.UserAgent)

	setString(&cfg.Engine, strings.ToLower(fc.Engine))
	setString(&cfg.OpenAIBaseURL, fc.OpenAI.BaseURL)
	setString(&cfg.OpenAIModel, fc.OpenAI.Model)
	setString(&cfg.OpenAIVoice, fc.OpenAI.Voice)
	setString(&cfg.OpenAIKey, fc.OpenAI.APIKey)

	setBool(&cfg.Verbose, fc.Verbose)
}

// ValidateConfig checks settings that must hold before the run starts. For
// the google engine the key file must exist; this is the only check that
// touches the filesystem.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.OutputPath) == "" && !cfg.DryRun {
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	}
	if !region.Known(cfg.State) {
		return fmt.Errorf("%w: unknown state %q (one of: %s)", ErrInvalidConfig, cfg.State, strings.Join(region.Names(), ", "))
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidConfig)
	}
	switch cfg.Engine {
	case EngineGoogle:
		if cfg.DryRun {
			return nil
		}
		if strings.TrimSpace(cfg.KeyFile) == "" {
			return fmt.Errorf("%w: --keyfile is required", ErrKeyFileNotFound)
		}
		info, err := os.Stat(cfg.KeyFile)
		if err != nil || info.IsDir() {
			return fmt.Errorf("%w: %q", ErrKeyFileNotFound, cfg.KeyFile)
		}
	case EngineOpenAI:
	default:
		return fmt.Errorf("%w: unknown engine %q", ErrInvalidConfig, cfg.Engine)
	}
	return nil
}
