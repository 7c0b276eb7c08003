package deck

import (
	"embed"
	"fmt"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed templates/partials.html
var partials string

// Template identifiers
const (
	TemplateIntro       = "intro"
	TemplatePriceDrop   = "price-drop"
	TemplateLowStock    = "low-stock"
	TemplateBackInStock = "back-in-stock"
	TemplatePOS         = "pos"
	TemplateExtro       = "extro"
)

var productFields = []string{
	"to_email", "from_email", "product_name", "product_price", "new_price", "product_image", "product_link",
}

func withProduct(fields ...string) []string {
	return append(append([]string{}, productFields...), fields...)
}

// Schemas lists the placeholders each template accepts.
var Schemas = map[string][]string{
	TemplateIntro: {
		"domain", "intro_headline", "intro_greeting", "intro_p1", "intro_p2",
		"intro_li1", "intro_li2", "intro_li3", "intro_p3", "intro_p4", "intro_p5", "intro_footer",
	},
	TemplatePriceDrop: withProduct(
		"headline", "product_message", "priceDrop_greeting", "priceDrop_originalPriceLabel",
		"priceDrop_newPriceLabel", "priceDrop_buyNowButton", "priceDrop_replyButton", "priceDrop_forwardButton",
	),
	TemplateLowStock: withProduct(
		"lowStock_headline", "lowStock_metaPrefix", "lowStock_metaPrice", "lowStock_warning",
		"lowStock_description", "lowStock_buyNowButton", "lowStock_replyButton", "lowStock_forwardButton",
	),
	TemplateBackInStock: withProduct(
		"backInStock_headline", "backInStock_metaPrefix", "backInStock_metaPrice", "backInStock_description",
		"backInStock_buyNowButton", "backInStock_replyButton", "backInStock_forwardButton",
	),
	TemplatePOS: {
		"pos_pageTitle", "app_name", "edit_preferences_url", "wishlist_view_all_url", "bis_view_all_url",
		"cart_view_all_url", "pos_editPreferences", "pos_wishlistHeader", "pos_backInStockHeader",
		"pos_viewAll", "wishlists", "back_in_stock",
	},
	TemplateExtro: {
		"extro_headline", "extro_p1", "extro_p2", "extro_p3", "extro_p4", "extro_p5", "extro_ctaButton", "extro_footer",
	},
}

// TemplateSet holds every page template, parsed and schema-checked.
type TemplateSet map[string]*Template

// LoadTemplates parses the embedded templates.
func LoadTemplates() (TemplateSet, error) {
	set := make(TemplateSet, len(Schemas))
	for name, schema := range Schemas {
		src, err := templateFS.ReadFile("templates/" + name + ".html")
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		t, err := Parse(name, string(src), schema)
		if err != nil {
			return nil, err
		}
		set[name] = t
	}
	return set, nil
}

func (s TemplateSet) fill(name string, data Fields) (string, error) {
	t, ok := s[name]
	if !ok {
		return "", fmt.Errorf("template %s not loaded", name)
	}
	return t.Fill(data)
}
