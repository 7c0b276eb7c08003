package models

// LanguageNotFound is reported when no crawled page declares <html lang>.
const LanguageNotFound = "Not found"

// Discovery is the outcome of walking a store's candidate pages
type Discovery struct {
	Links    []ProductLink `json:"links"`
	Excluded []ProductLink `json:"excluded"`
	Language string        `json:"language"`
	Visited  []string      `json:"visited"`
}

// URLs returns the accepted product URLs in discovery order
func (d *Discovery) URLs() []string {
	out := make([]string, 0, len(d.Links))
	for _, l := range d.Links {
		out = append(out, l.URL)
	}
	return out
}
