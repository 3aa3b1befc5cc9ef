package config

import (
	"strings"
	"sync"
	"time"
)

const defaultBackendURL = "http://localhost:8000"

// BackendConfig is the single source of truth for where the inference backend
// lives. Every forwarder and the browser-facing client config derive their
// URLs from it.
type BackendConfig struct {
	BaseURL string
	// ResumeAnalysisURL is the full endpoint for resume analysis. It follows
	// BaseURL unless PYTHON_SERVER_URL overrides it.
	ResumeAnalysisURL string
	// PublicURL is the base URL handed to browser pages that call the
	// backend directly.
	PublicURL string
	Timeout   time.Duration
}

var (
	backendConfig *BackendConfig
	backendOnce   sync.Once
)

func LoadBackendConfig() *BackendConfig {
	backendOnce.Do(func() {
		backendConfig = NewBackendConfig(
			getEnv("BACKEND_URL", defaultBackendURL),
			getEnv("PYTHON_SERVER_URL", ""),
			getEnv("PUBLIC_API_URL", ""),
			getEnvAsDuration("BACKEND_TIMEOUT", 60*time.Second),
		)
	})
	return backendConfig
}

func NewBackendConfig(baseURL, resumeURL, publicURL string, timeout time.Duration) *BackendConfig {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBackendURL
	}
	if resumeURL == "" {
		resumeURL = baseURL + "/api/analyze-skills"
	}
	publicURL = strings.TrimRight(strings.TrimSpace(publicURL), "/")
	if publicURL == "" {
		publicURL = baseURL
	}
	return &BackendConfig{
		BaseURL:           baseURL,
		ResumeAnalysisURL: resumeURL,
		PublicURL:         publicURL,
		Timeout:           timeout,
	}
}

// Endpoint joins path onto the backend base URL.
func (c *BackendConfig) Endpoint(path string) string {
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}
