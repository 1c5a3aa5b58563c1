package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/evds-ng/internal/cache"
	"github.com/thesavant42/evds-ng/internal/frame"
	"golang.org/x/net/http/httpproxy"
)

const (
	defaultTimeout = 60 * time.Second
	userAgent      = "evds-ng/1.0"
	fetchOperation = "get_request"
)

var (
	// ErrCancelled is returned when the user declines a request
	ErrCancelled = errors.New("request was cancelled")

	// ErrMissingAPIKey is returned when a live request has no credential
	ErrMissingAPIKey = errors.New("EVDS API key not set")
)

// ConfirmFunc asks whether a live request to url should be made
type ConfirmFunc func(url string) (bool, error)

// Options configures a Client
type Options struct {
	APIKey  string
	Proxy   string // explicit proxy URL; empty means HTTPS_PROXY/HTTP_PROXY/NO_PROXY
	BaseURL string // defaults to BaseURL
	Timeout time.Duration

	// Cache is consulted before every live request. Nil disables caching.
	Cache *cache.Cache
	// Confirm is called before every live request. Nil skips the prompt.
	Confirm ConfirmFunc
	Logger  *log.Logger
}

// Client is an EVDS API client
type Client struct {
	httpClient *http.Client
	apiKey     string
	proxy      string
	baseURL    string
	cache      *cache.Cache
	confirm    ConfirmFunc
	logger     *log.Logger
}

// NewClient creates a client. An invalid explicit proxy URL is an error.
func NewClient(opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	} else {
		proxyFunc := httpproxy.FromEnvironment().ProxyFunc()
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			return proxyFunc(req.URL)
		}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		apiKey:  opts.APIKey,
		proxy:   opts.Proxy,
		baseURL: baseURL,
		cache:   opts.Cache,
		confirm: opts.Confirm,
		logger:  opts.Logger,
	}, nil
}

// URL returns the request URL for idx
func (c *Client) URL(idx Index, q Query) string {
	return BuildURL(c.baseURL, idx, q)
}

// Fingerprint returns the cache key used for a request to rawURL
func (c *Client) Fingerprint(rawURL string) string {
	return cache.Fingerprint(fetchOperation, rawURL, c.apiKey, c.proxy)
}

// IsCached reports whether a response for rawURL is already cached
func (c *Client) IsCached(rawURL string) bool {
	return c.cache != nil && c.cache.Has(c.Fingerprint(rawURL))
}

// Fetch returns the raw response body for rawURL, from the cache when an
// entry exists. Live responses are stored in the cache afterwards.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	fp := c.Fingerprint(rawURL)

	if c.cache != nil {
		body, ok, err := c.cache.Get(fp)
		if err != nil {
			return nil, err
		}
		if ok {
			if c.logger != nil {
				c.logger.Info("Loaded data from cache", "url", rawURL, "fingerprint", fp)
			}
			return body, nil
		}
	}

	// only live requests need the key; cached responses are served without it
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if c.confirm != nil {
		ok, err := c.confirm(rawURL)
		if err != nil {
			return nil, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return nil, ErrCancelled
		}
	}

	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(fp, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// FetchFrame fetches idx and flattens the response items into a DataFrame
func (c *Client) FetchFrame(ctx context.Context, idx Index, q Query) (*frame.DataFrame, error) {
	if idx.IsEmpty() {
		return nil, fmt.Errorf("empty index")
	}
	rawURL := c.URL(idx, q)
	if c.logger != nil {
		c.logger.Debug("Generated URL", "index", idx.String(), "url", rawURL)
	}

	body, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	df, err := frame.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response for %s: %w", idx, err)
	}
	if c.logger != nil {
		c.logger.Info("Series parsed", "index", idx.String(), "rows", df.Len(), "columns", len(df.Columns()))
	}
	return df, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to create request", "url", rawURL, "error", err)
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("key", c.apiKey)

	if c.logger != nil {
		c.logger.Info("GET", "endpoint", rawURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Request failed", "url", rawURL, "error", err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Error("API error", "status", resp.StatusCode, "response", string(body))
		}
		return nil, fmt.Errorf("EVDS API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
