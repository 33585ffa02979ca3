// Command wetterbericht turns the DWD text forecasts for a German state into
// a spoken MP3 report.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hyperifyio/wetterbericht/internal/app"
	"github.com/hyperifyio/wetterbericht/internal/forecast"
	"github.com/hyperifyio/wetterbericht/internal/region"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	os.Exit(execute(os.Args[1:], os.Stdout))
}

// execute runs the CLI and maps the outcome to a process exit code:
// 2 for configuration errors, 1 for anything else that failed.
func execute(args []string, stdout io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("run failed")
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	if errors.Is(err, app.ErrKeyFileNotFound) || errors.Is(err, app.ErrInvalidConfig) {
		return 2
	}
	return 1
}

type options struct {
	configFile string
	envFiles   []string

	output       string
	state        string
	keyFile      string
	waveNet      bool
	skipWarnings bool

	baseURL  string
	timeout  time.Duration
	parallel bool

	engine      string
	openAIBase  string
	openAIModel string
	openAIVoice string
	openAIKey   string

	dryRun  bool
	quiet   bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "wetterbericht",
		Short: "Read the DWD weather forecast for a German state aloud",
		Long: `wetterbericht fetches the general situation, today's and tomorrow's
text forecasts of the Deutscher Wetterdienst for one state, rewrites them into
speech markup and synthesizes an MP3 file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), *o)
			if err != nil {
				return err
			}
			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	bindFlags(cmd.Flags(), o)
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func bindFlags(f *pflag.FlagSet, o *options) {
	f.StringVar(&o.configFile, "config", "", "YAML or JSON config file")
	f.StringSliceVar(&o.envFiles, "env-file", []string{".env"}, "dotenv files loaded before reading the environment")
	f.StringVarP(&o.output, "output", "o", app.DefaultOutputPath, "Path of the MP3 file to write")
	f.StringVarP(&o.state, "state", "s", string(region.Default), "State to report on, one of: "+strings.Join(region.Names(), ", "))
	f.StringVarP(&o.keyFile, "keyfile", "k", "", "Google Cloud service-account key file")
	f.BoolVar(&o.waveNet, "wavenet", false, "Use the WaveNet voice instead of the standard one")
	f.BoolVar(&o.skipWarnings, "skip-warnings", false, "Leave out weather warnings")
	f.StringVar(&o.baseURL, "base-url", "", "Forecast host (default "+forecast.DefaultBaseURL+")")
	f.DurationVar(&o.timeout, "timeout", app.DefaultTimeout, "Timeout per feed request")
	f.BoolVar(&o.parallel, "parallel", false, "Fetch the three feeds concurrently")
	f.StringVar(&o.engine, "engine", app.DefaultEngine, "Speech engine: google or openai")
	f.StringVar(&o.openAIBase, "openai-base", "", "OpenAI-compatible base URL")
	f.StringVar(&o.openAIModel, "openai-model", "", "Speech model (default tts-1)")
	f.StringVar(&o.openAIVoice, "openai-voice", "", "Speech voice (default onyx)")
	f.StringVar(&o.openAIKey, "openai-key", "", "API key for the OpenAI-compatible server")
	f.BoolVar(&o.dryRun, "dry-run", false, "Print the speech markup without synthesizing")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "Do not print the speech markup")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Verbose logging")
}

// loadConfig layers defaults, config file, environment and explicitly set
// flags, in that order, and validates the result.
func loadConfig(flags *pflag.FlagSet, o options) (app.Config, error) {
	if err := app.LoadEnvFiles(o.envFiles...); err != nil {
		return app.Config{}, fmt.Errorf("load env files: %w", err)
	}
	cfg := app.DefaultConfig()
	if o.configFile != "" {
		fc, err := app.LoadConfigFile(o.configFile)
		if err != nil {
			return cfg, fmt.Errorf("%w: %v", app.ErrInvalidConfig, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("output", func() { cfg.OutputPath = o.output })
	set("state", func() { cfg.State = o.state })
	set("keyfile", func() { cfg.KeyFile = o.keyFile })
	set("wavenet", func() { cfg.WaveNet = o.waveNet })
	set("skip-warnings", func() { cfg.SkipWarnings = o.skipWarnings })
	set("base-url", func() { cfg.BaseURL = o.baseURL })
	set("timeout", func() { cfg.Timeout = o.timeout })
	set("parallel", func() { cfg.Parallel = o.parallel })
	set("engine", func() { cfg.Engine = strings.ToLower(o.engine) })
	set("openai-base", func() { cfg.OpenAIBaseURL = o.openAIBase })
	set("openai-model", func() { cfg.OpenAIModel = o.openAIModel })
	set("openai-voice", func() { cfg.OpenAIVoice = o.openAIVoice })
	set("openai-key", func() { cfg.OpenAIKey = o.openAIKey })
	set("dry-run", func() { cfg.DryRun = o.dryRun })
	set("quiet", func() { cfg.Quiet = o.quiet })
	set("verbose", func() { cfg.Verbose = o.verbose })

	return cfg, app.ValidateConfig(cfg)
}

func run(ctx context.Context, cfg app.Config, stdout io.Writer) error {
	a, err := app.New(ctx, cfg, app.WithStdout(stdout))
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}
