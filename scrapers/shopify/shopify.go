package shopify

import (
	"github.com/raushankrgupta/storedeck/images"
	"github.com/raushankrgupta/storedeck/scrapers/base"
)

// productPathMarker identifies anchors that point at product pages.
const productPathMarker = "/products/"

// productCardSelector lists the product-card containers whose text stands in
// for an anchor that has no text of its own.
const productCardSelector = ".frenzy_product_item, .product-card, .card-wrapper, .grid-product, .product-item"

// VariantDeriver turns downloaded image bytes into the embedded variants
type VariantDeriver interface {
	DeriveVariants(data []byte, baseName string) (*images.Variants, error)
}

// Options configures the Shopify scraper
type Options struct {
	PlatformSuffix    string
	ExclusionKeywords []string
	LinkCeiling       int
	DiscountRate      float64
	Images            VariantDeriver
}

// ShopifyScraper discovers and extracts products from Shopify-style storefronts
type ShopifyScraper struct {
	*base.BaseScraper
	opts Options
}

// NewShopifyScraper creates a new ShopifyScraper instance
func NewShopifyScraper(b *base.BaseScraper, opts Options) *ShopifyScraper {
	return &ShopifyScraper{
		BaseScraper: b,
		opts:        opts,
	}
}

// CandidateURLs lists the collection and shop pages visited during discovery
func (s *ShopifyScraper) CandidateURLs(storeURL string) []string {
	return GenerateCandidateURLs(storeURL, s.opts.PlatformSuffix)
}
