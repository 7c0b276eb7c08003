package base

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Fetch errors. Callers treat all of them as soft failures.
var (
	ErrStatus      = errors.New("unexpected status code")
	ErrEmptyBody   = errors.New("empty response body")
	ErrContentType = errors.New("unexpected content type")
	ErrDecode      = errors.New("malformed response body")
)

// Cache stores raw response bodies between runs
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Options configures a BaseScraper
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	UserAgent         string
	Cache             Cache
	Logger            *zap.Logger
}

// BaseScraper handles the HTTP fetching shared by every pipeline stage.
// Requests are issued one at a time by the callers; the limiter only spaces them out.
type BaseScraper struct {
	Client    *http.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	userAgent string
	cache     Cache
	logger    *zap.Logger
}

// NewBaseScraper creates a new BaseScraper instance
func NewBaseScraper(opts Options) *BaseScraper {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &BaseScraper{
		Client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		limiter:   rate.NewLimiter(limit, 1),
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		cache:     opts.Cache,
		logger:    opts.Logger,
	}
}

// Logger returns the logger the scraper was built with
func (b *BaseScraper) Logger() *zap.Logger {
	return b.logger
}

// CacheKey hashes a URL into a stable cache key.
func CacheKey(prefix, rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return prefix + ":" + hex.EncodeToString(h[:])
}

func (b *BaseScraper) get(ctx context.Context, url, accept string) (body []byte, contentType string, err error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	res, err := b.Client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %d %s", ErrStatus, res.StatusCode, http.StatusText(res.StatusCode))
	}

	body, err = io.ReadAll(res.Body)
	if err != nil {
		return nil, "", err
	}
	return body, res.Header.Get("Content-Type"), nil
}

// FetchDocumentHTTP fetches the URL and returns a GoQuery document
func (b *BaseScraper) FetchDocumentHTTP(ctx context.Context, url string) (*goquery.Document, error) {
	body, _, err := b.get(ctx, url, "text/html")
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// FetchJSON fetches a JSON endpoint and decodes it into v. Successful bodies are cached.
func (b *BaseScraper) FetchJSON(ctx context.Context, url string, v any) error {
	key := CacheKey("json", url)
	if body, ok := b.cached(ctx, key); ok {
		if err := json.Unmarshal(body, v); err == nil {
			return nil
		}
	}

	body, contentType, err := b.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if !strings.Contains(contentType, "application/json") {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		b.logger.Debug("unexpected content type", zap.String("url", url), zap.String("content_type", contentType), zap.String("snippet", snippet))
		return fmt.Errorf("%w: %q", ErrContentType, contentType)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b.store(ctx, key, body)
	return nil
}

// FetchBytes downloads a binary resource such as a product image.
func (b *BaseScraper) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	key := CacheKey("bytes", url)
	if body, ok := b.cached(ctx, key); ok {
		return body, nil
	}
	body, _, err := b.get(ctx, url, "*/*")
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	b.store(ctx, key, body)
	return body, nil
}

func (b *BaseScraper) cached(ctx context.Context, key string) ([]byte, bool) {
	if b.cache == nil {
		return nil, false
	}
	body, ok, err := b.cache.Get(ctx, key)
	if err != nil {
		b.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return body, ok
}

func (b *BaseScraper) store(ctx context.Context, key string, body []byte) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Set(ctx, key, body); err != nil {
		b.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
