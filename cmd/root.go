package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/wiretap/internal/app"
	"github.com/oshokin/wiretap/internal/config"
	"github.com/oshokin/wiretap/internal/logger"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "wiretap [flags] {urls}",
		Short: "Send HTTP requests and log every detail of the exchange.",
		Long: `Wiretap is a CLI tool for debugging HTTP endpoints.
It sends requests through a logging transport that records:
- Request and response headers
- Request and response content headers
- Text request and response bodies
- Timing of the round trip and of the body read

Every section is independently toggleable, and each exchange carries its own
correlation identifier, so concurrent requests stay distinguishable.`,
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, urls []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			logger.SetLevel(appConfig.ParsedLogLevel)

			app.ExecuteRootCommand(cmd.Context(), appConfig, urls)
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits,funlen // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"method",
		"X",
		"GET",
		"HTTP method to use for every request.")

	rootCmdFlags.StringArrayP(
		"header",
		"H",
		nil,
		"request header in 'Name: Value' form (repeatable).")

	rootCmdFlags.StringP(
		"data",
		"d",
		"",
		"request body to send with every request.")

	rootCmdFlags.String(
		"data-file",
		"",
		"file whose contents are sent as the request body.")

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"directory to save response bodies (the path will be created if it doesn't exist).")

	rootCmdFlags.StringP(
		"timeout",
		"t",
		"",
		"per-request timeout, for example: 30s, 2m.")

	rootCmdFlags.StringP(
		"user-agent",
		"A",
		"",
		"User-Agent header to inject into requests that lack one.")

	rootCmdFlags.Int64P(
		"concurrency",
		"n",
		0,
		"maximum number of URLs fetched simultaneously.")

	rootCmdFlags.String(
		"log-level",
		"",
		"logging verbosity level: debug, info, warn, error.")

	rootCmdFlags.String(
		"exchange-log-level",
		"",
		"severity applied to every exchange log line.")

	rootCmdFlags.String(
		"max-log-length",
		"",
		"maximum size of logged body text, for example: 64KB, 1MB.")

	rootCmdFlags.Bool("request-headers", true, "log request headers.")
	rootCmdFlags.Bool("request-content-headers", true, "log request content headers.")
	rootCmdFlags.Bool("request-body", true, "log text request bodies.")
	rootCmdFlags.Bool("response-headers", true, "log response headers.")
	rootCmdFlags.Bool("response-content-headers", true, "log response content headers.")
	rootCmdFlags.Bool("response-body", true, "log text response bodies.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}
}

//nolint:cyclop // Flag binding is a flat sequence of lookups; splitting it would not make it clearer.
func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	// Per-invocation values come from flags only, so they are read unconditionally.
	cfg.Method, _ = flags.GetString("method")
	cfg.Headers, _ = flags.GetStringArray("header")
	cfg.RequestBody, _ = flags.GetString("data")
	cfg.RequestBodyFile, _ = flags.GetString("data-file")

	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("timeout"); flag != nil && flag.Changed {
		cfg.Timeout, _ = flags.GetString("timeout")
	}

	if flag := flags.Lookup("user-agent"); flag != nil && flag.Changed {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}

	if flag := flags.Lookup("concurrency"); flag != nil && flag.Changed {
		cfg.MaxConcurrentRequests, _ = flags.GetInt64("concurrency")
	}

	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flag := flags.Lookup("exchange-log-level"); flag != nil && flag.Changed {
		cfg.ExchangeLogLevel, _ = flags.GetString("exchange-log-level")
	}

	if flag := flags.Lookup("max-log-length"); flag != nil && flag.Changed {
		cfg.MaxLogLength, _ = flags.GetString("max-log-length")
	}

	if flag := flags.Lookup("request-headers"); flag != nil && flag.Changed {
		cfg.LogRequestHeaders, _ = flags.GetBool("request-headers")
	}

	if flag := flags.Lookup("request-content-headers"); flag != nil && flag.Changed {
		cfg.LogRequestContentHeaders, _ = flags.GetBool("request-content-headers")
	}

	if flag := flags.Lookup("request-body"); flag != nil && flag.Changed {
		cfg.LogRequestBody, _ = flags.GetBool("request-body")
	}

	if flag := flags.Lookup("response-headers"); flag != nil && flag.Changed {
		cfg.LogResponseHeaders, _ = flags.GetBool("response-headers")
	}

	if flag := flags.Lookup("response-content-headers"); flag != nil && flag.Changed {
		cfg.LogResponseContentHeaders, _ = flags.GetBool("response-content-headers")
	}

	if flag := flags.Lookup("response-body"); flag != nil && flag.Changed {
		cfg.LogResponseBody, _ = flags.GetBool("response-body")
	}

	return config.ValidateConfig(cfg)
}
