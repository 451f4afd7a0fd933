// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() defaults and Load(ctx) layering file and env on top.
// - External errors must be wrapped via this package's error kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogURL is the location of the static event catalog (JSON array).
	CatalogURL string `koanf:"catalog_url"`

	// AnnotateURL is the text-annotation collaborator endpoint. Empty
	// disables the remote client; the local heuristic still runs.
	AnnotateURL string `koanf:"annotate_url"`

	// AnnotateTimeoutMS bounds annotation requests.
	AnnotateTimeoutMS int `koanf:"annotate_timeout_ms"`

	// DataDir holds the file-backed store. Empty keeps state in memory.
	DataDir string `koanf:"data_dir"`

	// TagCloudSize caps the popular-tags aggregate.
	TagCloudSize int `koanf:"tag_cloud_size"`

	// TrendingSize caps the trending aggregate.
	TrendingSize int `koanf:"trending_size"`

	// FetchTimeoutMS bounds catalog fetches.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		CatalogURL:        "http://localhost:5173/events.json",
		AnnotateURL:       "",
		AnnotateTimeoutMS: 8000,
		DataDir:           "",
		TagCloudSize:      10,
		TrendingSize:      3,
		FetchTimeoutMS:    10_000,
	}
}
