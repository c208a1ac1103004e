// Package llm talks to hosted chat-completion backends for the optimizer.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
)

// Errors reported by clients.
var (
	ErrMissingAPIKey = errors.New("missing API key")
	ErrEmptyResponse = errors.New("empty completion")
)

// Request is one system+user exchange.
type Request struct {
	System      string
	User        string
	Temperature float64
}

// Client is a chat-completion backend.
type Client interface {
	// Complete sends the request and returns the first completion's text.
	Complete(ctx context.Context, req Request) (string, error)

	// Provider returns the provider name.
	Provider() schema.LLMProvider

	// Model returns the model in use.
	Model() string
}

// Config holds what a provider factory needs.
type Config struct {
	Provider schema.LLMProvider
	Model    string
	APIKey   string
	BaseURL  string // optional endpoint override
	Timeout  time.Duration
}

// ProviderFactory creates a client for one provider.
type ProviderFactory func(cfg Config) (Client, error)

var (
	registry   = make(map[schema.LLMProvider]ProviderFactory)
	registryMu sync.RWMutex
)

// RegisterProvider registers a client factory for a provider.
func RegisterProvider(name schema.LLMProvider, factory ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// NewClient creates a client for cfg.Provider.
func NewClient(cfg Config) (Client, error) {
	if cfg.Provider == "" {
		return nil, fmt.Errorf("provider is required")
	}

	registryMu.RLock()
	factory, ok := registry[cfg.Provider]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider: %s (available: %v)", cfg.Provider, availableProviders())
	}
	return factory(cfg)
}

// NewClientFromConfig resolves the API key and creates the configured client.
func NewClientFromConfig(cfg contract.LLMConfig) (Client, error) {
	key, err := ResolveAPIKey(cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(Config{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   key,
		Timeout:  cfg.Timeout,
	})
}

func availableProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// APIKeyEnv returns the environment variable holding the provider's key.
func APIKeyEnv(provider schema.LLMProvider) string {
	switch provider {
	case schema.GeminiProvider:
		return "GEMINI_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}

// ResolveAPIKey returns the key from config, then the provider's environment
// variable, then the first line of the key file.
func ResolveAPIKey(cfg contract.LLMConfig) (string, error) {
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv(cfg.Provider))); key != "" {
		return key, nil
	}
	if cfg.APIKeyFile != "" {
		data, err := os.ReadFile(cfg.APIKeyFile)
		if err == nil {
			line, _, _ := strings.Cut(string(data), "\n")
			if key := strings.TrimSpace(line); key != "" {
				return key, nil
			}
		}
	}
	return "", fmt.Errorf("%w: set %s or provide %s", ErrMissingAPIKey, APIKeyEnv(cfg.Provider), cfg.APIKeyFile)
}
