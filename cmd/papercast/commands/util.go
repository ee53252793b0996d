package commands

import (
	"fmt"
	"os"

	"github.com/papercast/papercast/pkg/cli"
	"github.com/papercast/papercast/pkg/podcasttts"
)

// Credentials can come from the environment (or a .env file) instead of
// a configured context.
const (
	envAppID     = "VOLC_APP_ID"
	envAccessKey = "VOLC_ACCESS_KEY"
)

func hasEnvCredentials() bool {
	return os.Getenv(envAppID) != "" && os.Getenv(envAccessKey) != ""
}

// createClient builds a synthesis client. Environment variables win over
// context credentials, so a .env file can override a shared config.
func createClient(ctx *cli.Context) (*podcasttts.Client, error) {
	appID := os.Getenv(envAppID)
	accessKey := os.Getenv(envAccessKey)
	if ctx != nil && ctx.Client != nil {
		if appID == "" {
			appID = ctx.Client.AppID
		}
		if accessKey == "" {
			accessKey = ctx.Client.AccessKey
		}
	}
	if appID == "" || accessKey == "" {
		return nil, fmt.Errorf("credentials not configured: run 'papercast config add-context' or set %s and %s", envAppID, envAccessKey)
	}

	opts := []podcasttts.Option{
		podcasttts.WithAccessKey(accessKey),
		podcasttts.WithLogger(newLogger()),
	}
	if ctx != nil && ctx.WebSocketURL != "" {
		opts = append(opts, podcasttts.WithWebSocketURL(ctx.WebSocketURL))
	}

	return podcasttts.NewClient(appID, opts...), nil
}
