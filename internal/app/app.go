package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/wetterbericht/internal/fetch"
	"github.com/hyperifyio/wetterbericht/internal/forecast"
	"github.com/hyperifyio/wetterbericht/internal/normalize"
	"github.com/hyperifyio/wetterbericht/internal/region"
	"github.com/hyperifyio/wetterbericht/internal/tts"
)

// App runs one report: fetch, assemble, synthesize, write.
type App struct {
	cfg       Config
	assembler *forecast.Assembler
	synth     tts.Synthesizer
	stdout    io.Writer
}

// Option customizes App construction, mostly for tests.
type Option func(*App)

// WithSynthesizer replaces the engine selected by Config.Engine.
func WithSynthesizer(s tts.Synthesizer) Option {
	return func(a *App) { a.synth = s }
}

// WithFetcher replaces the HTTP feed client.
func WithFetcher(f forecast.Fetcher) Option {
	return func(a *App) { a.assembler.Fetcher = f }
}

// WithStdout redirects the printed speech document.
func WithStdout(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	client := &fetch.Client{
		HTTPClient:        newFeedHTTPClient(),
		UserAgent:         cfg.UserAgent,
		PerRequestTimeout: cfg.Timeout,
		RedirectMaxHops:   5,
		MaxConcurrent:     len(forecast.Feeds()),
	}
	a := &App{
		cfg: cfg,
		assembler: &forecast.Assembler{
			Fetcher:    client,
			BaseURL:    cfg.BaseURL,
			Normalizer: normalize.Normalizer{SkipWarnings: cfg.SkipWarnings},
			Parallel:   cfg.Parallel,
		},
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}

	// Dry runs never synthesize, so no credentials are needed.
	if a.synth != nil || cfg.DryRun {
		return a, nil
	}
	synth, err := newSynthesizer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.synth = synth
	return a, nil
}

func newSynthesizer(ctx context.Context, cfg Config) (tts.Synthesizer, error) {
	switch cfg.Engine {
	case EngineOpenAI:
		return tts.NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIVoice), nil
	case EngineGoogle, "":
		creds, err := tts.CredentialsOption(ctx, cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		return tts.NewGoogle(ctx, tts.GermanVoice(cfg.WaveNet), creds)
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", ErrInvalidConfig, cfg.Engine)
	}
}

func (a *App) Run(ctx context.Context) error {
	code, err := region.Resolve(a.cfg.State)
	if err != nil {
		return err
	}
	log.Info().
		Str("keyfile", a.cfg.KeyFile).
		Str("region", a.cfg.State).
		Str("code", string(code)).
		Str("out", a.cfg.OutputPath).
		Bool("wavenet", a.cfg.WaveNet).
		Str("engine", a.cfg.Engine).
		Msg("generating weather report")

	doc, err := a.assembler.Build(ctx, code)
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	if !a.cfg.Quiet {
		if _, err := fmt.Fprintln(a.stdout, doc); err != nil {
			return fmt.Errorf("print document: %w", err)
		}
	}
	if a.cfg.DryRun {
		log.Info().Int("bytes", len(doc)).Msg("dry run; skipping synthesis")
		return nil
	}

	audio, err := a.synth.Synthesize(ctx, doc)
	if err != nil {
		switch {
		case tts.IsUnauthorized(err):
			log.Warn().Str("keyfile", a.cfg.KeyFile).Msg("speech service rejected the credentials")
		case tts.IsQuotaExceeded(err):
			log.Warn().Msg("speech service quota exhausted")
		}
		return err
	}
	if err := os.WriteFile(a.cfg.OutputPath, audio, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", a.cfg.OutputPath).Int("bytes", len(audio)).Msg("wrote audio")
	return nil
}
