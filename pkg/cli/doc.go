// Package cli provides common utilities for the papercast command-line tool.
//
// This package includes:
//   - Configuration management (contexts, kubectl-style)
//   - Output formatting (JSON, YAML, raw, binary artifacts)
//   - Styled terminal messages
//
// Configuration is stored in ~/.papercast/config.yaml, supporting
// multiple credential contexts similar to kubectl.
//
// Example usage:
//
//	// Load config
//	cfg, err := cli.LoadConfig()
//
//	// Get current context
//	ctx, err := cfg.GetCurrentContext()
//
//	// Output result
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
