package podcasttts

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultWSURL       = "wss://openspeech.bytedance.com"
	defaultReadTimeout = 5 * time.Minute

	podcastPath = "/api/v3/sami/podcasttts"
)

// Fixed App Key for the podcast TTS API (documented constant)
// This is a fixed value from official documentation, not a user credential.
// Doc: https://www.volcengine.com/docs/6561/1668014
const AppKeyPodcast = "aGjiRDfUWi"

// ResourcePodcast is the X-Api-Resource-Id for podcast synthesis.
const ResourcePodcast = "volc.service_type.10050"

// Client represents the podcast synthesis API client
type Client struct {
	Podcast *PodcastService // 播客合成

	config *clientConfig
}

// clientConfig represents client configuration
type clientConfig struct {
	appID       string
	accessKey   string // X-Api-Access-Key auth
	wsURL       string
	userID      string // User identifier
	readTimeout time.Duration
	logger      zerolog.Logger
}

// Option represents configuration option function
type Option func(*clientConfig)

// NewClient creates a podcast synthesis client
//
// appID is the application ID from Volcano Engine console
func NewClient(appID string, opts ...Option) *Client {
	config := &clientConfig{
		appID:       appID,
		wsURL:       defaultWSURL,
		userID:      "default_user",
		readTimeout: defaultReadTimeout,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(config)
	}

	c := &Client{
		config: config,
	}
	c.Podcast = newPodcastService(c)

	return c
}

// WithAccessKey uses X-Api-Access-Key authentication
//
// accessKey is the access token from the Volcano Engine speech console.
func WithAccessKey(accessKey string) Option {
	return func(c *clientConfig) {
		c.accessKey = accessKey
	}
}

// WithWebSocketURL sets WebSocket URL
//
// Default: wss://openspeech.bytedance.com
func WithWebSocketURL(url string) Option {
	return func(c *clientConfig) {
		c.wsURL = url
	}
}

// WithUserID sets user identifier
func WithUserID(userID string) Option {
	return func(c *clientConfig) {
		c.userID = userID
	}
}

// WithReadTimeout sets the per-message read deadline on the WebSocket.
//
// Podcast synthesis involves LLM processing; pauses of a minute or more
// between frames are normal. Default: 5 minutes.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.readTimeout = timeout
	}
}

// WithLogger sets a structured logger for session-level debug output.
//
// By default logging is disabled.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// wsHeaders returns the WebSocket handshake headers for the podcast API
//
//   - X-Api-App-Id: APP ID
//   - X-Api-App-Key: aGjiRDfUWi (fixed)
//   - X-Api-Access-Key: Access Token
//   - X-Api-Resource-Id: volc.service_type.10050
//   - X-Api-Connect-Id: connection UUID
func (c *Client) wsHeaders(connectID string) http.Header {
	headers := http.Header{}
	headers.Set("X-Api-App-Id", c.config.appID)
	headers.Set("X-Api-App-Key", AppKeyPodcast)
	headers.Set("X-Api-Access-Key", c.config.accessKey)
	headers.Set("X-Api-Resource-Id", ResourcePodcast)
	if connectID != "" {
		headers.Set("X-Api-Connect-Id", connectID)
	}
	return headers
}
