package profile

import (
	"testing"
	"time"
)

func TestProfileDefaults(t *testing.T) {
	clearEnvVars(t)

	profile := &Profile{}
	profile.FromEnv()

	if profile.Scorer != "lexical" {
		t.Errorf("Scorer default: expected %q, got %q", "lexical", profile.Scorer)
	}
	if profile.TitleWeight != 0.4 {
		t.Errorf("TitleWeight default: expected 0.4, got %v", profile.TitleWeight)
	}
	if profile.DescriptionWeight != 0.6 {
		t.Errorf("DescriptionWeight default: expected 0.6, got %v", profile.DescriptionWeight)
	}
	if profile.TopK != 5 {
		t.Errorf("TopK default: expected 5, got %d", profile.TopK)
	}
	if profile.RetryBudget != 3 {
		t.Errorf("RetryBudget default: expected 3, got %d", profile.RetryBudget)
	}
	if profile.PerCallTimeout != 10*time.Second {
		t.Errorf("PerCallTimeout default: expected 10s, got %v", profile.PerCallTimeout)
	}
	if profile.EmbeddingBaseURL != "https://api.openai.com/v1" {
		t.Errorf("EmbeddingBaseURL default: expected openai URL, got %q", profile.EmbeddingBaseURL)
	}
}

func TestEffectiveThreshold(t *testing.T) {
	tests := []struct {
		name      string
		scorer    string
		threshold float64
		expected  float64
	}{
		{"lexical default", "lexical", 0, 0.70},
		{"semantic default", "semantic", 0, 0.82},
		{"explicit overrides default", "semantic", 0.75, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{Scorer: tt.scorer, SimilarityThreshold: tt.threshold}
			if got := p.EffectiveThreshold(); got != tt.expected {
				t.Errorf("EffectiveThreshold() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestProfileFromEnv(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("PROJECTHUB_SCORER", "semantic")
	t.Setenv("PROJECTHUB_SIMILARITY_THRESHOLD", "0.85")
	t.Setenv("PROJECTHUB_TOP_K", "10")
	t.Setenv("PROJECTHUB_PER_CALL_TIMEOUT", "5s")
	t.Setenv("PROJECTHUB_EMBEDDING_API_KEY", "sk-test")

	profile := &Profile{}
	profile.FromEnv()

	if profile.Scorer != "semantic" {
		t.Errorf("Scorer: expected %q, got %q", "semantic", profile.Scorer)
	}
	if profile.SimilarityThreshold != 0.85 {
		t.Errorf("SimilarityThreshold: expected 0.85, got %v", profile.SimilarityThreshold)
	}
	if profile.TopK != 10 {
		t.Errorf("TopK: expected 10, got %d", profile.TopK)
	}
	if profile.PerCallTimeout != 5*time.Second {
		t.Errorf("PerCallTimeout: expected 5s, got %v", profile.PerCallTimeout)
	}
	if !profile.SemanticConfigured() {
		t.Error("SemanticConfigured() should be true when API key is set")
	}
}

func TestValidateRejectsSemanticWithoutKey(t *testing.T) {
	clearEnvVars(t)

	profile := &Profile{
		Mode:   "dev",
		Driver: "sqlite",
		Data:   t.TempDir(),
		Scorer: "semantic",
		TopK:   5,
	}
	if err := profile.Validate(); err == nil {
		t.Error("Validate() should fail for semantic scorer without API key")
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	profile := &Profile{
		Mode:   "dev",
		Driver: "mysql",
		Data:   t.TempDir(),
		Scorer: "lexical",
		TopK:   5,
	}
	if err := profile.Validate(); err == nil {
		t.Error("Validate() should fail for unsupported driver")
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PROJECTHUB_SCORER",
		"PROJECTHUB_SIMILARITY_THRESHOLD",
		"PROJECTHUB_TITLE_WEIGHT",
		"PROJECTHUB_DESCRIPTION_WEIGHT",
		"PROJECTHUB_TOP_K",
		"PROJECTHUB_DETECT_CONCURRENCY",
		"PROJECTHUB_DETECT_TIMEOUT",
		"PROJECTHUB_EMBEDDING_PROVIDER",
		"PROJECTHUB_EMBEDDING_API_KEY",
		"PROJECTHUB_EMBEDDING_BASE_URL",
		"PROJECTHUB_EMBEDDING_MODEL",
		"PROJECTHUB_RETRY_BUDGET",
		"PROJECTHUB_PER_CALL_TIMEOUT",
		"PROJECTHUB_PERSIST_EMBEDDINGS",
	} {
		t.Setenv(key, "")
	}
}
