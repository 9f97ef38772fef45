package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"peticia-hq/minerva/pkg/catalog"
	"peticia-hq/minerva/pkg/catalog/source"
)

var lintFlags struct {
	file   string
	dir    string
	strict bool
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate catalog files",
	Long: `Validate module catalog files for syntax and structural errors.

The lint command parses catalog files and performs comprehensive validation:
  - YAML syntax validation
  - Module structure validation (ids, activation modes, ordering keys)
  - Rule tree validation (node shape, operators, nesting depth)
  - Warnings for modules that would be excluded as misconfigured at plan time

Examples:
  # Lint single file
  minerva lint --file catalog.yaml

  # Lint directory
  minerva lint --dir catalogs/

  # Strict mode (warnings as errors)
  minerva lint --file catalog.yaml --strict

  # JSON output for CI/CD
  minerva lint --file catalog.yaml --format json`,
	RunE: lintCatalogs,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "catalog file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of catalog files")
	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

func lintCatalogs(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string

	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}

	if lintFlags.dir != "" {
		matches, err := filepath.Glob(filepath.Join(lintFlags.dir, "*.yaml"))
		if err != nil {
			return fmt.Errorf("failed to list catalog files: %w", err)
		}
		ymlMatches, err := filepath.Glob(filepath.Join(lintFlags.dir, "*.yml"))
		if err != nil {
			return fmt.Errorf("failed to list catalog files: %w", err)
		}
		files = append(files, matches...)
		files = append(files, ymlMatches...)
	}

	if len(files) == 0 {
		return fmt.Errorf("no catalog files found")
	}

	ctx := context.Background()
	if cmd != nil {
		ctx = cmd.Context()
	}

	results := make([]lintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintCatalogFile(ctx, file))
	}

	if lintFlags.format == "json" {
		return lintOutputJSON(os.Stdout, results)
	}
	return lintOutputText(os.Stdout, results, lintFlags.strict)
}

// lintResult represents the validation result for a single catalog file.
type lintResult struct {
	File     string      `json:"file"`
	Valid    bool        `json:"valid"`
	Modules  int         `json:"modules"`
	Errors   []lintIssue `json:"errors,omitempty"`
	Warnings []lintIssue `json:"warnings,omitempty"`
}

// lintIssue represents a single validation error or warning.
type lintIssue struct {
	Module   string `json:"module,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func lintCatalogFile(ctx context.Context, path string) lintResult {
	result := lintResult{
		File:  path,
		Valid: true,
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := source.NewFileSource(path, quiet).Load(ctx)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, lintIssue{
			Message:  err.Error(),
			Severity: "error",
		})
		return result
	}

	result.Modules = cat.Len()

	// Structural validity came for free from Load; the warnings below flag
	// modules that validate but would be excluded or degraded at plan time.
	for _, m := range cat.Modules() {
		switch m.ActivationMode {
		case catalog.ModeDeterministic:
			if m.PrimaryRule == nil {
				result.Warnings = append(result.Warnings, lintIssue{
					Module:   m.ID,
					Message:  "deterministic module has no primary rule; it will be excluded as misconfigured",
					Severity: "warning",
				})
			}
		case catalog.ModeLLM:
			if m.Description == "" {
				result.Warnings = append(result.Warnings, lintIssue{
					Module:   m.ID,
					Message:  "llm module has no description; the reasoner receives only the module id",
					Severity: "warning",
				})
			}
		}
	}

	return result
}

func lintOutputText(w io.Writer, results []lintResult, strict bool) error {
	totalErrors := 0
	totalWarnings := 0

	for _, result := range results {
		fmt.Fprintf(w, "Validating %s...\n", result.File)

		if len(result.Errors) == 0 && len(result.Warnings) == 0 {
			fmt.Fprintf(w, "✓ %d modules valid\n", result.Modules)
		}

		for _, issue := range result.Errors {
			if issue.Module != "" {
				fmt.Fprintf(w, "✗ Error: %s: %s\n", issue.Module, issue.Message)
			} else {
				fmt.Fprintf(w, "✗ Error: %s\n", issue.Message)
			}
		}
		totalErrors += len(result.Errors)

		for _, issue := range result.Warnings {
			fmt.Fprintf(w, "⚠ Warning: %s: %s\n", issue.Module, issue.Message)
		}
		totalWarnings += len(result.Warnings)

		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d files checked, %d errors, %d warnings\n", len(results), totalErrors, totalWarnings)

	if totalErrors > 0 {
		return fmt.Errorf("validation failed with %d errors", totalErrors)
	}
	if strict && totalWarnings > 0 {
		return fmt.Errorf("validation failed with %d warnings (strict mode)", totalWarnings)
	}
	return nil
}

func lintOutputJSON(w io.Writer, results []lintResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}

	for _, result := range results {
		if !result.Valid {
			return fmt.Errorf("validation failed")
		}
		if lintFlags.strict && len(result.Warnings) > 0 {
			return fmt.Errorf("validation failed (strict mode)")
		}
	}
	return nil
}
