package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/papercast/papercast/pkg/cli"
)

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	inputFile   string
	outputJSON  bool
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "papercast",
	Short: "Multi-speaker podcast synthesis CLI",
	Long: `papercast - generate multi-speaker podcast audio from text.

Feed it a dialogue script, an article, a URL, or just a topic, and it
streams synthesized audio over the Volcano Engine podcast API. Dropped
connections resume from the last finished dialogue round, so long runs
survive flaky networks.

Configuration is stored in ~/.papercast/config.yaml and supports
multiple contexts, similar to kubectl's context management.

Examples:
  # Set up a context
  papercast config add-context prod --app-id YOUR_APP_ID --access-key YOUR_KEY

  # Synthesize a dialogue script
  papercast generate --script episode.txt -o episode.mp3

  # Generate a podcast about a topic
  papercast generate --topic "量子计算的最新进展" -o quantum.mp3

  # Summarize an article into a podcast
  papercast generate --url https://example.com/article -o article.mp3
`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

const version = "0.1.0"

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.papercast/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "full request file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output result summary as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(speakersCmd)
}

func initConfig() {
	// Credentials may come from a .env file in the working directory.
	_ = godotenv.Load()

	var err error
	globalConfig, err = cli.LoadConfigWithPath(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the context configuration to use. Unlike credentials,
// a context is optional: environment variables can stand in for one.
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	ctx, err := cfg.ResolveContext(contextName)
	if err != nil {
		if contextName == "" {
			return nil, fmt.Errorf("no context specified. Use -c flag or set a default context with 'papercast config use-context'")
		}
		return nil, err
	}

	return ctx, nil
}

// getInputFile returns the request file path
func getInputFile() string {
	return inputFile
}

// getOutputFile returns the output file path
func getOutputFile() string {
	return outputFile
}

// isJSONOutput returns whether the result summary should be JSON
func isJSONOutput() bool {
	return outputJSON
}

// isVerbose returns whether verbose mode is enabled
func isVerbose() bool {
	return verbose
}

// outputResult outputs the result using cli package
func outputResult(result any, outputPath string, asJSON bool) error {
	format := cli.FormatYAML
	if asJSON {
		format = cli.FormatJSON
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   outputPath,
	})
}

// printVerbose prints verbose output if enabled
func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
