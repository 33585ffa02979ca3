package app

import (
	"time"

	"github.com/hyperifyio/wetterbericht/internal/region"
)

// Engines accepted in Config.Engine.
const (
	EngineGoogle = "google"
	EngineOpenAI = "openai"
)

// Defaults applied before file, env and flag layers.
const (
	DefaultOutputPath = "output.mp3"
	DefaultEngine     = EngineGoogle
	DefaultTimeout    = 30 * time.Second
	DefaultUserAgent  = "wetterbericht/1.0 (+https://github.com/hyperifyio/wetterbericht)"
)

// Config holds runtime configuration for the application.
type Config struct {
	OutputPath string
	State      string

	// Google Cloud service-account key file
	KeyFile string
	WaveNet bool

	SkipWarnings bool

	// Feed source
	BaseURL   string
	Timeout   time.Duration
	Parallel  bool
	UserAgent string

	// Synthesis backend
	Engine        string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIVoice   string
	OpenAIKey     string

	// Behavior
	DryRun  bool
	Quiet   bool
	Verbose bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		OutputPath: DefaultOutputPath,
		State:      string(region.Default),
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
		Engine:     DefaultEngine,
	}
}
