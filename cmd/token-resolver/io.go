package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// readInput reads --input, or stdin when it is unset.
func (a *app) readInput(cmd *cobra.Command) (string, error) {
	inputFile := a.v.GetString("input")
	if inputFile == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(data), nil
	}
	return readFromFile(inputFile)
}

// readFromFile reads the contents of a file.
func readFromFile(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read file '%s': %w", filename, err)
	}
	return string(data), nil
}

// writeOutput hands write either the --output file or stdout.
func (a *app) writeOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	outputFile := a.v.GetString("output")
	if outputFile == "" {
		return write(cmd.OutOrStdout())
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file '%s': %w", outputFile, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file '%s': %w", outputFile, err)
	}
	return nil
}

// loadReplacements reads a YAML or JSON mapping of token key to value.
func loadReplacements(filename string) (map[string]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read replacements file '%s': %w", filename, err)
	}
	replacements := make(map[string]string)
	if err := yaml.Unmarshal(data, &replacements); err != nil {
		return nil, fmt.Errorf("failed to parse replacements file '%s': %w", filename, err)
	}
	return replacements, nil
}
