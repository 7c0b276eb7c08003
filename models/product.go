package models

import (
	"fmt"
	"math"
)

// ProductLink is a discovered product page URL
type ProductLink struct {
	URL      string `json:"url"`
	Excluded bool   `json:"excluded"`
}

// ProductRecord is a validated product ready to be placed on a deck page.
// ImageMain and ImageThumb hold self-contained data URIs.
type ProductRecord struct {
	Title      string  `json:"title" bson:"title"`
	Price      float64 `json:"price" bson:"price"`
	NewPrice   string  `json:"new_price" bson:"new_price"`
	ImageMain  string  `json:"-" bson:"-"`
	ImageThumb string  `json:"-" bson:"-"`
	Link       string  `json:"link" bson:"link"`
}

// PriceLabel formats the original price with two decimals
func (p ProductRecord) PriceLabel() string {
	return fmt.Sprintf("%.2f", p.Price)
}

// DiscountedPrice applies rate (0.20 = 20% off) and rounds to two decimals.
func DiscountedPrice(price, rate float64) string {
	return fmt.Sprintf("%.2f", math.Round(price*(1-rate)*100)/100)
}
