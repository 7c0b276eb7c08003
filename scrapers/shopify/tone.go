package shopify

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	noToneSample  = "No descriptive text found."
	minToneLength = 50
	maxToneLength = 500
)

var (
	aboutPaths = []string{"/pages/about", "/about", "/about-us", "/pages/our-story", "/our-story"}
	spaceRun   = regexp.MustCompile(`\s\s+`)
)

// ToneSample scrapes a block of the brand's own prose, preferring an about page
// and falling back to the home page.
func (s *ShopifyScraper) ToneSample(ctx context.Context, baseURL string) string {
	logger := s.Logger()
	base, err := url.Parse(baseURL)
	if err != nil {
		logger.Warn("invalid base url for tone sample", zap.String("url", baseURL), zap.Error(err))
		return noToneSample
	}

	for _, p := range aboutPaths {
		pageURL := base.ResolveReference(&url.URL{Path: p}).String()
		if text, ok := s.paragraphText(ctx, pageURL); ok {
			logger.Info("found about text", zap.String("url", pageURL))
			return text
		}
	}

	logger.Warn("no about page with significant text, trying home page")
	if text, ok := s.paragraphText(ctx, base.String()); ok {
		return text
	}
	return noToneSample
}

func (s *ShopifyScraper) paragraphText(ctx context.Context, pageURL string) (string, bool) {
	doc, err := s.FetchDocumentHTTP(ctx, pageURL)
	if err != nil {
		return "", false
	}
	text := spaceRun.ReplaceAllString(strings.TrimSpace(doc.Find("p").Text()), " ")
	runes := []rune(text)
	if len(runes) <= minToneLength {
		return "", false
	}
	if len(runes) > maxToneLength {
		runes = runes[:maxToneLength]
	}
	return string(runes) + "...", true
}
