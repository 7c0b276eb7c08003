package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/raushankrgupta/storedeck/models"
	"github.com/raushankrgupta/storedeck/scrapers"
	"go.uber.org/zap"
)

// productResponse is the subset of GET <product>.json that the deck uses
type productResponse struct {
	Product *struct {
		Title    string `json:"title"`
		Variants []struct {
			Price price `json:"price"`
		} `json:"variants"`
		Images []struct {
			Src string `json:"src"`
		} `json:"images"`
	} `json:"product"`
}

// price accepts both "19.99" and 19.99.
type price float64

func (p *price) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*p = price(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			*p = 0
			return nil
		}
		*p = price(f)
	default:
		*p = 0
	}
	return nil
}

// JSONEndpoint derives the product JSON URL for a product page link.
func JSONEndpoint(productURL string) string {
	u, err := url.Parse(productURL)
	if err != nil {
		if strings.HasSuffix(productURL, ".json") {
			return productURL
		}
		return productURL + ".json"
	}
	if !strings.HasSuffix(u.Path, ".json") {
		u.Path = strings.TrimSuffix(u.Path, "/") + ".json"
		u.RawPath = ""
	}
	return u.String()
}

// ScrapeProduct fetches the product JSON, validates it and derives the
// embedded images. Validation and fetch failures, including the image
// download, wrap scrapers.ErrInvalidProduct. Decode or encode failures of a
// downloaded image wrap scrapers.ErrImage.
func (s *ShopifyScraper) ScrapeProduct(ctx context.Context, productURL string) (*models.ProductRecord, error) {
	logger := s.Logger()
	jsonURL := JSONEndpoint(productURL)
	logger.Info("scraping product json", zap.String("url", jsonURL))

	var resp productResponse
	if err := s.FetchJSON(ctx, jsonURL, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", scrapers.ErrInvalidProduct, jsonURL, err)
	}
	if resp.Product == nil {
		return nil, fmt.Errorf("%w: %s: missing product object", scrapers.ErrInvalidProduct, jsonURL)
	}

	title := strings.TrimSpace(resp.Product.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: %s: missing title", scrapers.ErrInvalidProduct, jsonURL)
	}
	var amount float64
	if len(resp.Product.Variants) > 0 {
		amount = float64(resp.Product.Variants[0].Price)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %s: price is not positive", scrapers.ErrInvalidProduct, jsonURL)
	}
	var imageSrc string
	if len(resp.Product.Images) > 0 {
		imageSrc = strings.TrimSpace(resp.Product.Images[0].Src)
	}
	if imageSrc == "" {
		return nil, fmt.Errorf("%w: %s: missing image", scrapers.ErrInvalidProduct, jsonURL)
	}
	imageURL := imageSrc
	if base, err := url.Parse(productURL); err == nil {
		if abs, err := resolve(base, imageSrc); err == nil {
			imageURL = abs.String()
		}
	}

	data, err := s.FetchBytes(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: download image %s: %v", scrapers.ErrInvalidProduct, imageURL, err)
	}
	variants, err := s.opts.Images.DeriveVariants(data, title)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", scrapers.ErrImage, imageURL, err)
	}

	record := &models.ProductRecord{
		Title:      title,
		Price:      amount,
		NewPrice:   models.DiscountedPrice(amount, s.opts.DiscountRate),
		ImageMain:  variants.MainDataURI(),
		ImageThumb: variants.ThumbDataURI(),
		Link:       productURL,
	}
	logger.Info("product accepted", zap.String("title", title), zap.Float64("price", amount))
	return record, nil
}
