package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/brettbedarf/filetree"
	"github.com/brettbedarf/filetree/internal/util"
)

type HTTPMethod = string

const (
	HTTPMethodGet  HTTPMethod = "GET"
	HTTPMethodPost HTTPMethod = "POST"
)

// HTTPClient is the subset of *http.Client the source needs
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSource contains http-specific source fields
type HTTPSource struct {
	URL     string            `json:"url"`
	Method  *HTTPMethod       `json:"method,omitempty"` // Default is GET
	Headers map[string]string `json:"headers,omitempty"`

	client HTTPClient
}

// HTTPProvider is the [ProviderFactory] for http sources. All sources it
// creates share Client.
type HTTPProvider struct {
	Client HTTPClient
}

func (p *HTTPProvider) NewProvider(raw []byte) (filetree.ContentProvider, error) {
	var src HTTPSource
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, err
	}
	src.URL = strings.TrimSpace(src.URL)
	if err := validateURL(src.URL); err != nil {
		return nil, err
	}
	src.client = p.Client
	return &src, nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: http source needs a url", ErrInvalidSource)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidSource, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidSource, raw)
	}
	if u.User != nil {
		return fmt.Errorf("%w: credentials in url are not allowed, use headers", ErrInvalidSource)
	}
	return nil
}

// Content fetches the whole resource. Any non-2xx status is an error.
func (h *HTTPSource) Content(ctx context.Context) ([]byte, error) {
	logger := util.GetLogger("HTTPSource.Content")

	req, err := http.NewRequestWithContext(ctx, h.getMethod(), h.URL, nil)
	if err != nil {
		return nil, err
	}
	// Add custom headers
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}

	resp, err := h.getClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug().Str("url", h.URL).Int("status", resp.StatusCode).Msg("Unexpected status")
		return nil, fmt.Errorf("%s %s: unexpected status %s", req.Method, h.URL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logger.Trace().Str("url", h.URL).Int("size", len(data)).Msg("Fetched")
	return data, nil
}

func (h *HTTPSource) getMethod() HTTPMethod {
	if h.Method != nil {
		return *h.Method
	}
	return HTTPMethodGet
}

func (h *HTTPSource) getClient() HTTPClient {
	if h.client != nil {
		return h.client
	}
	return http.DefaultClient
}
