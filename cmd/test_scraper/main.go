package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/raushankrgupta/storedeck/config"
	"github.com/raushankrgupta/storedeck/images"
	"github.com/raushankrgupta/storedeck/scrapers/base"
	"github.com/raushankrgupta/storedeck/scrapers/shopify"
	"go.uber.org/zap"
)

// Prints what discovery and product scraping find for each store given on
// the command line, without rendering a deck.
func main() {
	stores := os.Args[1:]
	if len(stores) == 0 {
		stores = []string{"nala.ro"}
	}

	cfg := config.Default()
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	scraper := shopify.NewShopifyScraper(
		base.NewBaseScraper(base.Options{Timeout: cfg.FetchTimeout(), UserAgent: cfg.UserAgent, Logger: logger}),
		shopify.Options{
			PlatformSuffix:    cfg.PlatformSuffix,
			ExclusionKeywords: cfg.Keywords(),
			LinkCeiling:       cfg.LinkCeiling(),
			DiscountRate:      cfg.DiscountRate,
			Images:            images.NewProcessor(images.Options{Logger: logger}),
		})

	ctx := context.Background()
	for _, store := range stores {
		fmt.Printf("Testing store: %s\n", store)
		disc, err := scraper.DiscoverProducts(ctx, scraper.CandidateURLs(store))
		if err != nil {
			log.Printf("Discovery failed for %s: %v\n", store, err)
			continue
		}
		fmt.Printf("Language: %s, links: %d, excluded: %d\n", disc.Language, len(disc.Links), len(disc.Excluded))

		accepted := 0
		for _, link := range disc.Links {
			if accepted == cfg.TargetProducts {
				break
			}
			product, err := scraper.ScrapeProduct(ctx, link.URL)
			if err != nil {
				log.Printf("Skipped %s: %v\n", link.URL, err)
				continue
			}
			accepted++
			b, err := json.MarshalIndent(product, "", "  ")
			if err != nil {
				log.Printf("Encoding %s failed: %v\n", link.URL, err)
				continue
			}
			fmt.Printf("Product: %s\n", string(b))
		}
		fmt.Println("--------------------------------------------------")
	}
}
