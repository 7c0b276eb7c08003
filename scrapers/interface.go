package scrapers

import (
	"context"
	"errors"

	"github.com/raushankrgupta/storedeck/models"
)

var (
	// ErrInvalidProduct marks a product that failed validation; the caller skips it.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrImage marks a failure decoding or re-encoding a downloaded product image.
	ErrImage = errors.New("image processing failed")
)

// Scraper defines the storefront operations the deck pipeline relies on
type Scraper interface {
	// CandidateURLs returns the listing pages to crawl, in priority order
	CandidateURLs(storeURL string) []string
	// DiscoverProducts walks the candidates and collects product links
	DiscoverProducts(ctx context.Context, candidates []string) (*models.Discovery, error)
	// ToneSample returns a sample of the brand's own copy
	ToneSample(ctx context.Context, baseURL string) string
	// ScrapeProduct resolves a product link into a validated record
	ScrapeProduct(ctx context.Context, productURL string) (*models.ProductRecord, error)
}
