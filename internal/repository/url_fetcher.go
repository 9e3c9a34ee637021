package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// URLFetcher downloads raw bytes from a remote URL.
type URLFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type urlFetcher struct {
	client *http.Client
	log    *zap.Logger
}

// NewURLFetcher builds a fetcher whose client enforces a total request
// timeout and a redirect cap.
func NewURLFetcher(timeout time.Duration, maxRedirects int, log *zap.Logger) URLFetcher {
	return &urlFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		log: log,
	}
}

func (f *urlFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	res, err := f.client.Do(req)
	if err != nil {
		f.log.Error("Failed to fetch URL", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		err = fmt.Errorf("unexpected status on fetch: %s", res.Status)
		f.log.Error("Upstream returned non-success status",
			zap.String("url", url),
			zap.Int("status", res.StatusCode))
		return nil, err
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		f.log.Error("Failed to read response body", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	f.log.Info("URL fetched",
		zap.String("url", url),
		zap.Int("size", len(data)))

	return data, nil
}
