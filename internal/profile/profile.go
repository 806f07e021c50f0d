package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where projecthub stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// Similarity configuration.
	// Scorer selects the similarity strategy ("lexical" or "semantic").
	Scorer string
	// SimilarityThreshold is the minimum overall similarity for a match.
	// Zero means "use the scorer's default" (0.70 lexical, 0.82 semantic).
	SimilarityThreshold float64
	// TitleWeight and DescriptionWeight must sum to 1.0.
	TitleWeight       float64
	DescriptionWeight float64
	// TopK bounds how many similarity edges one detection pass may persist.
	TopK int
	// DetectConcurrency bounds the candidate-scoring fan-out.
	DetectConcurrency int
	// DetectTimeout is the deadline for one whole detection pass.
	DetectTimeout time.Duration
	// DetectRateLimit is the per-user detection requests allowed per minute.
	DetectRateLimit int

	// Embedding provider configuration.
	EmbeddingProvider   string // PROJECTHUB_EMBEDDING_PROVIDER (openai or siliconflow)
	EmbeddingAPIKey     string // PROJECTHUB_EMBEDDING_API_KEY
	EmbeddingBaseURL    string // PROJECTHUB_EMBEDDING_BASE_URL
	EmbeddingModel      string // PROJECTHUB_EMBEDDING_MODEL
	EmbeddingDimensions int    // PROJECTHUB_EMBEDDING_DIMENSIONS
	// RetryBudget is how many attempts the embedding cache makes per call.
	RetryBudget int
	// PerCallTimeout bounds a single embedding provider call.
	PerCallTimeout time.Duration
	// PersistEmbeddings enables the cross-run embedding table (postgres only).
	PersistEmbeddings bool
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// SemanticConfigured returns true if the semantic scorer has a usable provider.
func (p *Profile) SemanticConfigured() bool {
	return p.EmbeddingAPIKey != ""
}

// EffectiveThreshold resolves the similarity threshold, falling back to the
// scorer-specific default when unset.
func (p *Profile) EffectiveThreshold() float64 {
	if p.SimilarityThreshold > 0 {
		return p.SimilarityThreshold
	}
	if p.Scorer == "semantic" {
		return 0.82
	}
	return 0.70
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// FromEnv loads configuration from PROJECTHUB_* environment variables.
func (p *Profile) FromEnv() {
	p.Scorer = getEnvOrDefault("PROJECTHUB_SCORER", "lexical")
	p.SimilarityThreshold = getFloatEnv("PROJECTHUB_SIMILARITY_THRESHOLD", 0)
	p.TitleWeight = getFloatEnv("PROJECTHUB_TITLE_WEIGHT", 0.4)
	p.DescriptionWeight = getFloatEnv("PROJECTHUB_DESCRIPTION_WEIGHT", 0.6)
	p.TopK = getIntEnv("PROJECTHUB_TOP_K", 5)
	p.DetectConcurrency = getIntEnv("PROJECTHUB_DETECT_CONCURRENCY", 4)
	p.DetectTimeout = getDurationEnv("PROJECTHUB_DETECT_TIMEOUT", 30*time.Second)
	p.DetectRateLimit = getIntEnv("PROJECTHUB_DETECT_RATE_LIMIT", 30)

	p.EmbeddingProvider = getEnvOrDefault("PROJECTHUB_EMBEDDING_PROVIDER", "openai")
	p.EmbeddingAPIKey = os.Getenv("PROJECTHUB_EMBEDDING_API_KEY")
	p.EmbeddingBaseURL = getEnvOrDefault("PROJECTHUB_EMBEDDING_BASE_URL", "https://api.openai.com/v1")
	p.EmbeddingModel = getEnvOrDefault("PROJECTHUB_EMBEDDING_MODEL", "text-embedding-3-small")
	p.EmbeddingDimensions = getIntEnv("PROJECTHUB_EMBEDDING_DIMENSIONS", 1024)
	p.RetryBudget = getIntEnv("PROJECTHUB_RETRY_BUDGET", 3)
	p.PerCallTimeout = getDurationEnv("PROJECTHUB_PER_CALL_TIMEOUT", 10*time.Second)
	p.PersistEmbeddings = os.Getenv("PROJECTHUB_PERSIST_EMBEDDINGS") == "true"
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/projecthub"
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	switch p.Driver {
	case "sqlite":
		if p.DSN == "" {
			dbFile := fmt.Sprintf("projecthub_%s.db", p.Mode)
			p.DSN = filepath.Join(p.Data, dbFile)
		}
	case "postgres":
		if p.DSN == "" {
			return errors.New("dsn is required for postgres driver")
		}
	default:
		return errors.Errorf("unsupported driver %q: only 'sqlite' and 'postgres' are supported", p.Driver)
	}

	if p.Scorer != "lexical" && p.Scorer != "semantic" {
		return errors.Errorf("unsupported scorer %q: only 'lexical' and 'semantic' are supported", p.Scorer)
	}
	if p.Scorer == "semantic" && !p.SemanticConfigured() {
		return errors.New("semantic scorer requires PROJECTHUB_EMBEDDING_API_KEY")
	}
	if p.SimilarityThreshold < 0 || p.SimilarityThreshold > 1 {
		return errors.Errorf("similarity threshold %.2f out of range [0,1]", p.SimilarityThreshold)
	}
	if p.TopK <= 0 {
		return errors.Errorf("top_k must be positive, got %d", p.TopK)
	}

	return nil
}
