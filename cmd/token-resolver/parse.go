package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var keysOnly bool

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Print the parsed node sequence as JSON lines",
		Long: `Parse the input and print one JSON object per node:

  {"type":"text","text":"Hello "}
  {"type":"token","text":"{KJ|NAME}","key":"KJ|NAME","prefix":"KJ","segments":["KJ","NAME"]}

With --keys, print each distinct token key once instead, in order of first use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.tokenConfig()
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
			a.log.Info("parsed input", "nodes", len(doc.Nodes()), "tokens", len(doc.Tokens()))

			return a.writeOutput(cmd, func(w io.Writer) error {
				if keysOnly {
					for _, key := range doc.TokenKeys() {
						fmt.Fprintln(w, key)
					}
					return nil
				}
				enc := json.NewEncoder(w)
				enc.SetEscapeHTML(false)
				for _, node := range doc.Nodes() {
					if err := enc.Encode(node); err != nil {
						return fmt.Errorf("JSON encoding error: %w", err)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&keysOnly, "keys", false, "print unique token keys instead of nodes")
	return cmd
}
