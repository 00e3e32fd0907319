package schema

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"intakedocs/internal/domain"
)

// FileProvider loads the extraction config from a JSON file on disk.
// Safe for concurrent use; every Load re-reads the file.
type FileProvider struct {
	Path string
}

// NewFileProvider creates a file-backed config provider.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (p *FileProvider) Load(ctx context.Context) (*ExtractionConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigUnavailable, p.Path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrConfigUnavailable, p.Path, err)
	}
	return Parse(data)
}

// HTTPProvider loads the extraction config from a remote config endpoint
// (the admin schema editor's API).
type HTTPProvider struct {
	url    string
	client *http.Client
}

// NewHTTPProvider creates an HTTP-backed config provider.
func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) Load(ctx context.Context) (*ExtractionConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating config request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrConfigUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: config endpoint returned status %d", domain.ErrConfigUnavailable, resp.StatusCode)
	}
	return Parse(body)
}
