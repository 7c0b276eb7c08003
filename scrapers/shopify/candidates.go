package shopify

import (
	"strings"

	"github.com/raushankrgupta/storedeck/models"
)

// candidatePaths are tried in this order; the order is the crawl priority.
var candidatePaths = []string{
	"/collections/new",
	"/collections/best-sellers",
	"/collections/all",
	"/collections/sale",
	"/products",
	"/shop",
	"/",
}

// GenerateCandidateURLs builds the ordered list of listing pages likely to
// link to products. Each path is emitted for the bare domain and, unless the
// domain ends in platformSuffix, for the www. host as well.
func GenerateCandidateURLs(raw, platformSuffix string) []string {
	domain := models.NormalizeDomain(raw)
	if domain == "" {
		return nil
	}
	hosted := platformSuffix != "" && strings.HasSuffix(strings.ToLower(domain), strings.ToLower(platformSuffix))

	seen := make(map[string]bool)
	var urls []string
	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	for _, p := range candidatePaths {
		add("https://" + domain + p)
		if !hosted {
			add("https://www." + domain + p)
		}
	}
	return urls
}
