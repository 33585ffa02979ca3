package app

import (
	"os"
	"strings"
	"time"
)

// ApplyEnvOverrides overrides cfg fields with environment variables when the
// corresponding variables are set. Env sits above the config file and below
// explicit flags.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("WETTER_OUTPUT"); v != "" {
		cfg.OutputPath = v
	}
	if v := os.Getenv("WETTER_STATE"); v != "" {
		cfg.State = v
	}

	// GOOGLE_APPLICATION_CREDENTIALS is the conventional fallback
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.KeyFile = v
	}
	if v := os.Getenv("WETTER_KEYFILE"); v != "" {
		cfg.KeyFile = v
	}

	if v := os.Getenv("WETTER_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("WETTER_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if s := os.Getenv("WETTER_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.Timeout = d
		}
	}

	if v := os.Getenv("WETTER_ENGINE"); v != "" {
		cfg.Engine = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("WETTER_OPENAI_BASE"); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := os.Getenv("WETTER_OPENAI_MODEL"); v != "" {
		cfg.OpenAIModel = v
	}
	if v := os.Getenv("WETTER_OPENAI_VOICE"); v != "" {
		cfg.OpenAIVoice = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIKey = v
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.WaveNet, "WETTER_WAVENET")
	setBool(&cfg.SkipWarnings, "WETTER_SKIP_WARNINGS")
	setBool(&cfg.Parallel, "WETTER_PARALLEL")
	setBool(&cfg.DryRun, "WETTER_DRY_RUN")
	setBool(&cfg.Quiet, "WETTER_QUIET")
	setBool(&cfg.Verbose, "WETTER_VERBOSE")
}
