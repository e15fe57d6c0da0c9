// Package gcat retrieves catalog content from GCAT (the General Catalog
// of Artificial Space Objects) over HTTP: the homepage's published
// "Data Update" date and the raw tab-separated dataset files.
package gcat

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the root under which dataset files live,
	// e.g. DefaultBaseURL + "tsv/tables/lv.tsv".
	DefaultBaseURL = "https://planet4589.org/space/gcat/"

	// DefaultHomepageURL is the page carrying the "Data Update" date.
	DefaultHomepageURL = "https://planet4589.org/space/gcat/"

	// DefaultChunkSize bounds how much of a response body is read per
	// call while accumulating a download.
	DefaultChunkSize = 1 << 20

	defaultUserAgent = "spacerep/1.0"
)

var (
	// ErrSourceUnavailable reports that an HTTP fetch against the
	// catalog did not succeed (transport error or non-2xx status).
	ErrSourceUnavailable = errors.New("gcat source unavailable")

	// ErrDateFormatNotFound reports that the homepage carried no
	// recognizable "Data Update" date.
	ErrDateFormatNotFound = errors.New("data update date not found")
)

// ClientConfig configures a Client. Zero values fall back to the GCAT
// defaults.
type ClientConfig struct {
	BaseURL     string
	HomepageURL string
	UserAgent   string
	Timeout     time.Duration
	ChunkSize   int
}

// Client is a single-attempt HTTP client for the catalog. It performs no
// retries; callers needing resilience wrap calls themselves.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	homepageURL string
	userAgent   string
	chunkSize   int
}

// NewClient creates a catalog client. cfg.Timeout of zero means no
// client-side timeout; cancellation is then up to the caller's context.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	homepageURL := cfg.HomepageURL
	if homepageURL == "" {
		homepageURL = DefaultHomepageURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     baseURL,
		homepageURL: homepageURL,
		userAgent:   userAgent,
		chunkSize:   chunkSize,
	}
}
