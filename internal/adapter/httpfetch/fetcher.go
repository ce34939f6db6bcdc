package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/internal/repository"
	"go.uber.org/zap"
)

// Options configures the HTTP transport.
type Options struct {
	Timeout    time.Duration
	Proxies    []string
	UserAgents []string
}

// Fetcher implements repository.FetcherRepository over net/http.
type Fetcher struct {
	client  *http.Client
	rotator *Rotator
	logger  *zap.Logger
}

// New creates a Fetcher. A zero Timeout leaves requests bounded only by ctx.
func New(opts Options, logger *zap.Logger) *Fetcher {
	rotator := NewRotator(opts.Proxies, opts.UserAgents)
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		if p := rotator.Proxy(); p != "" {
			return url.Parse(p)
		}
		return http.ProxyFromEnvironment(req)
	}
	return &Fetcher{
		client:  &http.Client{Transport: transport, Timeout: opts.Timeout},
		rotator: rotator,
		logger:  logger,
	}
}

// NewWithClient wraps an existing client, for tests and custom transports.
func NewWithClient(client *http.Client, logger *zap.Logger) *Fetcher {
	return &Fetcher{client: client, rotator: NewRotator(nil, nil), logger: logger}
}

// Fetch performs a GET and reads the whole body. Transport failures are
// returned wrapped, non-2xx responses as *repository.StatusError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*entity.Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrBadRequest, err)
	}
	req.Header.Set("User-Agent", f.rotator.UserAgent())
	req.Header.Set("Accept", "*/*")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	f.logger.Debug("response received",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &repository.StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, err)
	}

	return &entity.Resource{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
