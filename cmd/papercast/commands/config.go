package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/papercast/papercast/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts allow you to manage multiple API configurations,
similar to kubectl's context management.

Configuration is stored in ~/.papercast/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

The synthesis API requires:
  - App ID: Your application ID from the Volcano Engine console
  - Access Key: The X-Api-Access-Key token

Object storage (optional, for --upload) requires:
  - Endpoint, access key, secret key, and bucket

The first context added becomes the current context.

Example:
  # Synthesis credentials only
  papercast config add-context prod --app-id YOUR_APP_ID --access-key YOUR_KEY

  # With upload storage and a default speaker preset
  papercast config add-context prod \
    --app-id YOUR_APP_ID --access-key YOUR_KEY \
    --storage-endpoint minio.local:9000 --storage-bucket podcasts \
    --storage-ak MINIO_AK --storage-sk MINIO_SK \
    --default-speakers liufei`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		appID, err := cmd.Flags().GetString("app-id")
		if err != nil {
			return fmt.Errorf("failed to read 'app-id' flag: %w", err)
		}
		if appID == "" {
			return fmt.Errorf("--app-id is required")
		}

		accessKey, err := cmd.Flags().GetString("access-key")
		if err != nil {
			return fmt.Errorf("failed to read 'access-key' flag: %w", err)
		}
		if accessKey == "" {
			return fmt.Errorf("--access-key is required")
		}

		wsURL, err := cmd.Flags().GetString("ws-url")
		if err != nil {
			return fmt.Errorf("failed to read 'ws-url' flag: %w", err)
		}

		defaultSpeakers, err := cmd.Flags().GetString("default-speakers")
		if err != nil {
			return fmt.Errorf("failed to read 'default-speakers' flag: %w", err)
		}

		ctx := &cli.Context{
			Client: &cli.ClientCredentials{
				AppID:     appID,
				AccessKey: accessKey,
			},
			WebSocketURL:    wsURL,
			DefaultSpeakers: defaultSpeakers,
		}

		// Storage credentials (optional)
		stEndpoint, _ := cmd.Flags().GetString("storage-endpoint")
		if stEndpoint != "" {
			stAK, _ := cmd.Flags().GetString("storage-ak")
			stSK, _ := cmd.Flags().GetString("storage-sk")
			stBucket, _ := cmd.Flags().GetString("storage-bucket")
			stSSL, _ := cmd.Flags().GetBool("storage-ssl")
			if stBucket == "" {
				return fmt.Errorf("--storage-bucket is required with --storage-endpoint")
			}
			ctx.Storage = &cli.StorageCredentials{
				Endpoint:  stEndpoint,
				AccessKey: stAK,
				SecretKey: stSK,
				Bucket:    stBucket,
				UseSSL:    stSSL,
			}
		}

		cfg := getConfig()
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		cli.PrintSuccess("Context %q added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg := getConfig()
		if err := cfg.DeleteContext(name); err != nil {
			return err
		}

		cli.PrintSuccess("Context %q deleted", name)
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg := getConfig()
		if err := cfg.UseContext(name); err != nil {
			return err
		}

		cli.PrintSuccess("Switched to context %q", name)
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Display the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
			return nil
		}

		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tCLIENT\tSTORAGE\tDEFAULT_SPEAKERS")

		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			clientStatus := "✗"
			if ctx.Client != nil && ctx.Client.AppID != "" && ctx.Client.AccessKey != "" {
				clientStatus = "✓"
			}
			storageStatus := "✗"
			if ctx.Storage != nil && ctx.Storage.Endpoint != "" {
				storageStatus = "✓"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", current, name, clientStatus, storageStatus, ctx.DefaultSpeakers)
		}

		w.Flush()
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		fmt.Printf("Config file: %s\n", cfg.Path())
		fmt.Printf("Current context: %s\n", cfg.CurrentContext)
		fmt.Printf("Contexts: %d\n", len(cfg.Contexts))

		if len(cfg.Contexts) > 0 {
			fmt.Println("\nContext details:")
			for _, name := range cfg.ListContexts() {
				ctx := cfg.Contexts[name]
				fmt.Printf("\n  %s:\n", name)

				if ctx.Client != nil {
					fmt.Println("    Client (Synthesis API):")
					fmt.Printf("      App ID: %s\n", ctx.Client.AppID)
					fmt.Printf("      Access Key: %s\n", cli.MaskAPIKey(ctx.Client.AccessKey))
				}

				if ctx.Storage != nil {
					fmt.Println("    Storage (uploads):")
					fmt.Printf("      Endpoint: %s\n", ctx.Storage.Endpoint)
					fmt.Printf("      Bucket: %s\n", ctx.Storage.Bucket)
					fmt.Printf("      Access Key: %s\n", cli.MaskAPIKey(ctx.Storage.AccessKey))
					fmt.Printf("      Secret Key: %s\n", cli.MaskAPIKey(ctx.Storage.SecretKey))
				}

				if ctx.WebSocketURL != "" {
					fmt.Printf("    WebSocket URL: %s\n", ctx.WebSocketURL)
				}
				if ctx.DefaultSpeakers != "" {
					fmt.Printf("    Default Speakers: %s\n", ctx.DefaultSpeakers)
				}
			}
		}

		return nil
	},
}

func init() {
	// add-context flags - synthesis credentials (required)
	configAddContextCmd.Flags().String("app-id", "", "Application ID (required)")
	configAddContextCmd.Flags().String("access-key", "", "Access key token (required)")

	// add-context flags - optional settings
	configAddContextCmd.Flags().String("ws-url", "", "WebSocket endpoint override")
	configAddContextCmd.Flags().String("default-speakers", "", "Default speaker preset")

	// add-context flags - object storage (optional)
	configAddContextCmd.Flags().String("storage-endpoint", "", "S3-compatible endpoint for uploads (host[:port])")
	configAddContextCmd.Flags().String("storage-ak", "", "Storage access key")
	configAddContextCmd.Flags().String("storage-sk", "", "Storage secret key")
	configAddContextCmd.Flags().String("storage-bucket", "", "Storage bucket")
	configAddContextCmd.Flags().Bool("storage-ssl", false, "Use TLS to the storage endpoint")

	// Add subcommands
	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
