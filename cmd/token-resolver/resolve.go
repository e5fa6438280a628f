package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kettle-rb/token-resolver/pkg/tokenresolver"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		replacementsFile string
		sets             []string
		onMissing        string
		watch            bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Replace tokens in the input with values from a replacements file",
		Long: `Resolve every token in the input against a mapping of token key to value.

The mapping is read from --replacements (YAML or JSON) and extended with
--set KEY=VALUE pairs. Replacement values are written verbatim and never
scanned for further tokens.

--on-missing selects what happens to a token with no value:
  raise   fail without writing output (default)
  keep    leave the token text as it is
  remove  drop the token

With --watch (requires --input), the output is rendered again whenever the
input or replacements file changes.`,
		Example: `  token-resolver resolve --input README.tmpl.md --replacements values.yml --output README.md
  echo "Hello {KJ|NAME}!" | token-resolver resolve --set "KJ|NAME=World"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := tokenresolver.ParseOnMissing(onMissing)
			if err != nil {
				return err
			}
			resolver, err := tokenresolver.NewResolver(policy)
			if err != nil {
				return err
			}
			resolver = resolver.WithCache(a.parser.Cache())
			cfg, err := a.tokenConfig()
			if err != nil {
				return err
			}

			render := func() error {
				replacements, err := a.replacements(replacementsFile, sets)
				if err != nil {
					return err
				}
				input, err := a.readInput(cmd)
				if err != nil {
					return err
				}
				doc, err := a.parser.Parse(input, cfg)
				if err != nil {
					return err
				}
				out, err := resolver.Resolve(doc, replacements)
				if err != nil {
					return err
				}
				a.log.Info("resolved input",
					"tokens", len(doc.Tokens()), "keys", len(doc.TokenKeys()), "on_missing", policy)
				return a.writeOutput(cmd, func(w io.Writer) error {
					_, err := io.WriteString(w, out)
					return err
				})
			}

			if !watch {
				return render()
			}
			inputFile := a.v.GetString("input")
			if inputFile == "" {
				return fmt.Errorf("--watch requires --input")
			}
			if err := render(); err != nil {
				a.log.Error("render failed", "err", err)
			}
			watched := []string{inputFile}
			if replacementsFile != "" {
				watched = append(watched, replacementsFile)
			}
			return a.watch(cmd.Context(), watched, render)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&replacementsFile, "replacements", "r", "", "YAML or JSON file mapping token keys to values")
	flags.StringArrayVar(&sets, "set", nil, "KEY=VALUE replacement, may be repeated")
	flags.StringVar(&onMissing, "on-missing", string(tokenresolver.OnMissingRaise), "policy for tokens without a value (raise, keep, remove)")
	flags.BoolVarP(&watch, "watch", "w", false, "re-render when the input or replacements change")
	return cmd
}

// replacements merges the replacements file with --set pairs; --set wins.
func (a *app) replacements(file string, sets []string) (map[string]string, error) {
	replacements := make(map[string]string)
	if file != "" {
		loaded, err := loadReplacements(file)
		if err != nil {
			return nil, err
		}
		replacements = loaded
	}
	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected KEY=VALUE", set)
		}
		replacements[key] = value
	}
	return replacements, nil
}
