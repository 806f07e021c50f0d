package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestNewEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *EmbeddingConfig
		expectError bool
	}{
		{
			name: "openai provider",
			cfg: &EmbeddingConfig{
				Provider:   "openai",
				Model:      "text-embedding-3-small",
				Dimensions: 1024,
				APIKey:     "sk-test",
			},
			expectError: false,
		},
		{
			name: "siliconflow provider",
			cfg: &EmbeddingConfig{
				Provider:   "siliconflow",
				Model:      "BAAI/bge-m3",
				Dimensions: 1024,
				APIKey:     "sk-test",
				BaseURL:    "https://api.siliconflow.cn/v1",
			},
			expectError: false,
		},
		{
			name: "unsupported provider",
			cfg: &EmbeddingConfig{
				Provider: "ollama",
				APIKey:   "sk-test",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEmbeddingService(tt.cfg)
			if (err != nil) != tt.expectError {
				t.Errorf("NewEmbeddingService() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestNewEmbeddingServiceMissingKey(t *testing.T) {
	_, err := NewEmbeddingService(&EmbeddingConfig{Provider: "openai"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"nil", nil, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"rate limited", &openai.APIError{HTTPStatusCode: 429}, true},
		{"server error", &openai.APIError{HTTPStatusCode: 503}, true},
		{"bad credential", &openai.APIError{HTTPStatusCode: 401}, false},
		{"malformed input", &openai.APIError{HTTPStatusCode: 400}, false},
		{"unclassified", errors.New("connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.transient {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.transient)
			}
		})
	}
}

func TestEmbeddingConfigValidate(t *testing.T) {
	cfg := &EmbeddingConfig{Provider: "openai", Model: "text-embedding-3-small", APIKey: "sk-test"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	cfg = &EmbeddingConfig{Provider: "openai", Model: "text-embedding-3-small"}
	if !errors.Is(cfg.Validate(), ErrNotConfigured) {
		t.Error("Validate() should return ErrNotConfigured without API key")
	}
}
