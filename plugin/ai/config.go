package ai

import (
	"errors"

	"github.com/binarylab/projecthub/internal/profile"
)

// EmbeddingConfig represents vector embedding configuration.
type EmbeddingConfig struct {
	Provider   string // openai, siliconflow
	Model      string // text-embedding-3-small
	Dimensions int    // 1024
	APIKey     string
	BaseURL    string
}

// NewEmbeddingConfigFromProfile creates embedding config from profile.
func NewEmbeddingConfigFromProfile(p *profile.Profile) *EmbeddingConfig {
	return &EmbeddingConfig{
		Provider:   p.EmbeddingProvider,
		Model:      p.EmbeddingModel,
		Dimensions: p.EmbeddingDimensions,
		APIKey:     p.EmbeddingAPIKey,
		BaseURL:    p.EmbeddingBaseURL,
	}
}

// Validate validates the configuration.
func (c *EmbeddingConfig) Validate() error {
	if c.Provider == "" {
		return errors.New("embedding provider is required")
	}
	if c.APIKey == "" {
		return ErrNotConfigured
	}
	if c.Model == "" {
		return errors.New("embedding model is required")
	}
	return nil
}
