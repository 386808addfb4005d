// Package llm abstracts the completion providers the summarizer service can
// talk to. Two are supported: Google Gemini (what the hosted deployment
// uses) and any OpenAI-compatible endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrKeysExhausted marks a quota failure that survived the fallback key.
var ErrKeysExhausted = errors.New("both API keys exhausted")

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is a single conversation message.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for a completion call.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse is the result of a completion call.
type CompletionResponse struct {
	Content      string
	Model        string
	FinishReason string
}

// Provider is a completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// NewProvider builds a provider for the given type. An empty apiKey falls
// back to the provider's conventional environment variable.
func NewProvider(providerType, model, apiKey string) (Provider, error) {
	switch providerType {
	case "google":
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("google provider requires an API key (set api_key or GEMINI_API_KEY)")
		}
		return NewGoogleProvider(apiKey, model), nil

	case "openai":
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key (set api_key or OPENAI_API_KEY)")
		}
		return NewOpenAIProvider(apiKey, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// IsQuotaError reports whether err looks like a rate or quota exhaustion
// failure worth retrying on a fallback key.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "quota") ||
		strings.Contains(s, "resource_exhausted") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "429")
}

type fallbackProvider struct {
	primary   Provider
	secondary Provider
}

// NewFallback wraps primary so quota failures are retried once against
// secondary, typically the same provider on a second API key.
func NewFallback(primary, secondary Provider) Provider {
	return &fallbackProvider{primary: primary, secondary: secondary}
}

func (f *fallbackProvider) Name() string { return f.primary.Name() }

func (f *fallbackProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	resp, err := f.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}
	if f.secondary == nil || !IsQuotaError(err) {
		return nil, err
	}
	resp, ferr := f.secondary.Complete(ctx, req)
	if ferr != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeysExhausted, ferr)
	}
	return resp, nil
}
