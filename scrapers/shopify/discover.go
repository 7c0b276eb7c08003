package shopify

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/storedeck/models"
	"go.uber.org/zap"
)

// DiscoverProducts visits the candidate pages in order and collects product
// links until the link ceiling is reached. Pages that cannot be fetched are
// skipped. The first page declaring <html lang> sets the store language.
func (s *ShopifyScraper) DiscoverProducts(ctx context.Context, candidates []string) (*models.Discovery, error) {
	logger := s.Logger()
	result := &models.Discovery{Language: models.LanguageNotFound}
	seen := make(map[string]bool)
	excluded := make(map[string]bool)
	ceiling := s.opts.LinkCeiling

	for _, pageURL := range candidates {
		if ceiling > 0 && len(result.Links) >= ceiling {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Info("visiting candidate page", zap.String("url", pageURL))
		doc, err := s.FetchDocumentHTTP(ctx, pageURL)
		if err != nil {
			logger.Warn("candidate page not usable", zap.String("url", pageURL), zap.Error(err))
			continue
		}
		result.Visited = append(result.Visited, pageURL)

		if result.Language == models.LanguageNotFound {
			if lang := strings.TrimSpace(doc.Find("html").AttrOr("lang", "")); lang != "" {
				result.Language = lang
			}
		}

		base, err := url.Parse(pageURL)
		if err != nil {
			continue
		}

		doc.Find(`a[href*="` + productPathMarker + `"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href := strings.TrimSpace(a.AttrOr("href", ""))
			if href == "" {
				return true
			}
			full, err := productLink(base, href)
			if err != nil {
				logger.Debug("unparsable product href", zap.String("href", href), zap.Error(err))
				return true
			}

			if s.isExcluded(linkText(a)) {
				if !excluded[full] {
					excluded[full] = true
					result.Excluded = append(result.Excluded, models.ProductLink{URL: full, Excluded: true})
					logger.Info("skipped excluded product link", zap.String("url", full))
				}
				return true
			}

			if !seen[full] {
				seen[full] = true
				result.Links = append(result.Links, models.ProductLink{URL: full})
				logger.Debug("added product link", zap.String("url", full))
			}
			return ceiling <= 0 || len(result.Links) < ceiling
		})
	}

	logger.Info("product discovery finished",
		zap.Int("links", len(result.Links)),
		zap.Int("excluded", len(result.Excluded)),
		zap.String("language", result.Language))
	return result, nil
}

// linkText is the anchor's own text, or the text of its product card when the
// anchor is empty (image-only links).
func linkText(a *goquery.Selection) string {
	text := strings.ToLower(strings.TrimSpace(a.Text()))
	if text == "" {
		text = strings.ToLower(strings.TrimSpace(a.Closest(productCardSelector).Text()))
	}
	return text
}

func (s *ShopifyScraper) isExcluded(text string) bool {
	for _, k := range s.opts.ExclusionKeywords {
		if strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func resolve(base *url.URL, href string) (*url.URL, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(ref), nil
}

// productLink resolves href and drops the query and fragment so variant and
// anchor links collapse onto one product URL.
func productLink(base *url.URL, href string) (string, error) {
	u, err := resolve(base, href)
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}
