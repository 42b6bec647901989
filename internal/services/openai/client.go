package openai

import (
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

const defaultTimeout = 5 * time.Minute

// ClientConfig holds the connection settings shared by every endpoint.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	// Timeout bounds a single HTTP request. Zero uses five minutes.
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

func newClient(cfg ClientConfig) *goopenai.Client {
	apiConfig := goopenai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		apiConfig.BaseURL = base
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	apiConfig.HTTPClient = httpClient
	return goopenai.NewClientWithConfig(apiConfig)
}
