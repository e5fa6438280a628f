package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kettle-rb/token-resolver/internal/logging"
	"github.com/kettle-rb/token-resolver/pkg/tokenresolver"
)

const version = "0.1.0"

// app carries the state shared by every subcommand.
type app struct {
	v      *viper.Viper
	log    logging.Logger
	parser *tokenresolver.Parser

	// separators holds --separator values verbatim; nil when the flag is unset.
	separators []string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: logging.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "token-resolver",
		Short: "Find and replace structured placeholders such as {NAMESPACE|KEY}",
		Long: `token-resolver scans text for placeholders whose delimiters, separators and
segment counts are configurable, and substitutes them from a replacements file.

Token shape comes from (highest priority first):
  1. command-line flags (--open, --close, --separator, ...)
  2. TOKEN_RESOLVER_* environment variables (TOKEN_RESOLVER_OPEN, ...)
  3. a YAML settings file given with --config
  4. the defaults: {NAMESPACE|KEY}, at least two segments of [A-Za-z0-9_]`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML settings file describing the token shape")
	flags.String("open", "", "opening delimiter (default \"{\")")
	flags.String("close", "", "closing delimiter (default \"}\")")
	flags.StringArray("separator", nil, "segment separator, repeat for per-boundary separators (default \"|\")")
	flags.Int("min-segments", 0, "minimum segments per token (default 2)")
	flags.Int("max-segments", 0, "maximum segments per token, 0 for unbounded")
	flags.String("segment-pattern", "", "character class allowed inside a segment (default \"[A-Za-z0-9_]\")")
	flags.String("input", "", "input file (defaults to stdin)")
	flags.String("output", "", "output file (defaults to stdout)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "emit logs as JSON")

	rootCmd.AddCommand(
		newParseCmd(a),
		newResolveCmd(a),
		newMakeConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// init binds flags and environment variables and sets up logging.
func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("TOKEN_RESOLVER")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if cmd.Flags().Changed("separator") {
		separators, err := cmd.Flags().GetStringArray("separator")
		if err != nil {
			return fmt.Errorf("failed to read separators: %w", err)
		}
		a.separators = separators
	}

	level, err := logging.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.log = logging.NewLogger(&logging.Config{
		Level:      level,
		Output:     cmd.ErrOrStderr(),
		JSON:       a.v.GetBool("log-json"),
		TimeFormat: "15:04:05",
	})
	a.parser = tokenresolver.NewParser(tokenresolver.NewGrammarCache(0, a.log.With("component", "grammar-cache")))
	return nil
}

// settings gathers the token shape from the settings file, environment and
// flags, in increasing order of priority. Fields none of them set stay nil.
func (a *app) settings() (*tokenresolver.PartialSettings, error) {
	settings := &tokenresolver.PartialSettings{}
	if file := a.v.GetString("config"); file != "" {
		loaded, err := tokenresolver.LoadSettingsFile(file)
		if err != nil {
			return nil, err
		}
		settings = loaded
		a.log.Debug("loaded settings file", "file", file)
	}

	if a.v.IsSet("open") {
		open := a.v.GetString("open")
		settings.Open = &open
	}
	if a.v.IsSet("close") {
		closing := a.v.GetString("close")
		settings.Close = &closing
	}
	switch {
	case a.separators != nil:
		separators := a.separators
		settings.Separators = &separators
	case a.v.IsSet("separator"):
		// TOKEN_RESOLVER_SEPARATOR is split on whitespace.
		separators := a.v.GetStringSlice("separator")
		settings.Separators = &separators
	}
	if a.v.IsSet("min-segments") {
		minSegments := a.v.GetInt("min-segments")
		settings.MinSegments = &minSegments
	}
	if a.v.IsSet("max-segments") {
		maxSegments := a.v.GetInt("max-segments")
		settings.MaxSegments = &maxSegments
	}
	if a.v.IsSet("segment-pattern") {
		pattern := a.v.GetString("segment-pattern")
		settings.SegmentPattern = &pattern
	}
	return settings, nil
}

// tokenConfig builds the Config the subcommands parse with.
func (a *app) tokenConfig() (*tokenresolver.Config, error) {
	settings, err := a.settings()
	if err != nil {
		return nil, err
	}
	return tokenresolver.ApplySettingsToDefaults(settings)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "token-resolver version %s\n", version)
		},
	}
}
