package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCandidateURLs(t *testing.T) {
	urls := GenerateCandidateURLs("https://www.example.com/some/page", ".myshopify.com")

	assert.Len(t, urls, len(candidatePaths)*2)
	assert.Equal(t, "https://example.com/collections/new", urls[0])
	assert.Equal(t, "https://www.example.com/collections/new", urls[1])
	assert.Equal(t, "https://example.com/", urls[len(urls)-2])
	assert.Equal(t, "https://www.example.com/", urls[len(urls)-1])

	seen := map[string]bool{}
	for _, u := range urls {
		assert.False(t, seen[u], "duplicate %s", u)
		seen[u] = true
	}
	for _, p := range candidatePaths {
		assert.True(t, seen["https://example.com"+p])
		assert.True(t, seen["https://www.example.com"+p])
	}
}

func TestGenerateCandidateURLsPlatformHosted(t *testing.T) {
	urls := GenerateCandidateURLs("cool-store.myshopify.com", ".myshopify.com")

	assert.Len(t, urls, len(candidatePaths))
	for i, p := range candidatePaths {
		assert.Equal(t, "https://cool-store.myshopify.com"+p, urls[i])
	}
}

func TestGenerateCandidateURLsEmpty(t *testing.T) {
	assert.Empty(t, GenerateCandidateURLs("https://", ".myshopify.com"))
}
