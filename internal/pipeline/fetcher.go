package pipeline

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/util"
	"github.com/ppiankov/claimcheck/internal/validate"
)

// Fetcher fetches web pages and extracts their readable content
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      cache.Cache         // nil disables caching
	limiter    *util.Limiter       // nil disables pacing
	robots     *util.RobotsChecker // nil skips robots.txt
}

// NewFetcher creates a Fetcher from configuration
func NewFetcher(cfg model.Config) *Fetcher {
	client := &http.Client{
		Timeout:   cfg.HTTP.Timeout,
		Transport: util.NewTransport(cfg.HTTP),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.HTTP.UserAgent,
		maxBytes:   cfg.HTTP.MaxBodyBytes,
		limiter:    util.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
	}
	if f.maxBytes <= 0 {
		f.maxBytes = model.DefaultConfig().HTTP.MaxBodyBytes
	}
	if cfg.Cache.Enabled {
		f.cache = cache.NewMemoryCache(cfg.Cache.TTL)
	}
	if cfg.HTTP.RespectRobots {
		f.robots = util.NewRobotsChecker(client, cfg.HTTP.UserAgent)
	}
	return f
}

// Cache returns the fetch cache, or nil when caching is disabled
func (f *Fetcher) Cache() cache.Cache {
	return f.cache
}

// FetchResult contains the decoded body and metadata of one response
type FetchResult struct {
	Body     string
	Meta     model.FetchMeta
	FinalURL string
}

// FetchPage retrieves rawURL and returns its title and readable content.
// Non-2xx responses fail with a *model.FetchError; nothing is retried.
func (f *Fetcher) FetchPage(ctx context.Context, rawURL string) (*model.Page, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !validate.ValidateURL(rawURL) {
		return nil, fmt.Errorf("%q: %w", rawURL, model.ErrInvalidURL)
	}

	if f.cache != nil {
		if page, ok := f.cache.Get(rawURL); ok {
			log.Debug().Str("url", rawURL).Msg("fetch cache hit")
			page.FetchMeta.FromCache = true
			return &page, nil
		}
	}

	result, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	page := model.Page{
		URL:       rawURL,
		FinalURL:  result.FinalURL,
		FetchMeta: result.Meta,
		FetchedAt: time.Now().UTC(),
	}

	if isHTML(result.Meta.ContentType, result.Body) {
		article := ReadableText(result.Body)
		page.Title = article.Title
		page.Content = article.Content
		page.Readable = article.Readable
	} else {
		page.Title = model.DefaultTitle
		page.Content = strings.TrimSpace(result.Body)
	}

	if f.cache != nil {
		f.cache.Set(rawURL, page)
	}
	return &page, nil
}

// Fetch performs one GET of rawURL after the robots.txt and rate limit gates
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: disallowed by robots.txt: %w", rawURL, model.ErrFetchFailed)
		}
		if f.limiter != nil {
			f.limiter.SlowDown(rawURL, delay)
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	meta := model.FetchMeta{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
		Headers:      make(map[string]string),
	}

	for _, key := range []string{"Content-Length", "Server", "Cache-Control"} {
		if val := resp.Header.Get(key); val != "" {
			meta.Headers[key] = val
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
	}

	// Decode to UTF-8 using the declared or sniffed charset
	limited := io.LimitReader(resp.Body, f.maxBytes)
	reader, err := charset.NewReader(limited, meta.ContentType)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		Body:     string(body),
		Meta:     meta,
		FinalURL: resp.Request.URL.String(),
	}, nil
}

// isHTML trusts the declared type, sniffing only when none was sent
func isHTML(contentType, body string) bool {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			return mediaType == "text/html" || mediaType == "application/xhtml+xml"
		}
	}
	return strings.HasPrefix(http.DetectContentType([]byte(body)), "text/html")
}
