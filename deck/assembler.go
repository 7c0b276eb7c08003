package deck

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/raushankrgupta/storedeck/models"
	"go.uber.org/zap"
)

// PageCount is the fixed length of every deck
const PageCount = 8

// ErrTooFewProducts is returned when fewer products than use cases are supplied
var ErrTooFewProducts = errors.New("not enough products for every use case")

const mmPerInch = 25.4

// PageOptions are the print settings for one page, in inches
type PageOptions struct {
	PaperWidth  float64
	PaperHeight float64
	Scale       float64
	Margin      float64
}

var (
	optionsA4     = PageOptions{PaperWidth: 210 / mmPerInch, PaperHeight: 297 / mmPerInch, Scale: 1}
	optionsSquare = PageOptions{PaperWidth: 210 / mmPerInch, PaperHeight: 210 / mmPerInch, Scale: 1}
	optionsPOS    = PageOptions{PaperWidth: 210 / mmPerInch, PaperHeight: 210 / mmPerInch, Scale: 0.8, Margin: 2 / mmPerInch}
)

// DocumentPage is one filled template waiting to be rendered
type DocumentPage struct {
	Template string
	Name     string
	HTML     string
	Options  PageOptions
}

// Renderer turns a complete HTML document into a single PDF page.
type Renderer interface {
	RenderPDF(ctx context.Context, html string, opts PageOptions) ([]byte, error)
	Close() error
}

// RendererFactory opens one rendering session. A session serves every page of
// a single deck and is closed once the merge completes.
type RendererFactory func(ctx context.Context) (Renderer, error)

// Merger concatenates rendered pages into one document.
type Merger interface {
	Merge(pages [][]byte) ([]byte, error)
	PageCount(doc []byte) (int, error)
}

// Input is everything a deck is built from
type Input struct {
	Target   models.StoreTarget
	ToEmail  string
	Content  models.ContentBundle
	Products []*models.ProductRecord
}

// Card is one product tile on the POS grid
type Card struct {
	Title string
	Thumb template.URL
}

type useCase struct {
	name     string
	template string
	copy     func(models.ContentBundle) models.UseCaseCopy
}

var useCases = []useCase{
	{"price-drop", TemplatePriceDrop, func(c models.ContentBundle) models.UseCaseCopy { return c.UseCases.PriceDrop }},
	{"low-stock", TemplateLowStock, func(c models.ContentBundle) models.UseCaseCopy { return c.UseCases.LowStock }},
	{"back-in-stock", TemplateBackInStock, func(c models.ContentBundle) models.UseCaseCopy { return c.UseCases.BackInStock }},
	{"wishlist-reminder", TemplatePriceDrop, func(c models.ContentBundle) models.UseCaseCopy { return c.UseCases.WishlistReminder }},
	{"wishlist-incentive", TemplatePriceDrop, func(c models.ContentBundle) models.UseCaseCopy { return c.UseCases.WishlistIncentive }},
}

// Options configures an Assembler
type Options struct {
	AppName       string
	RenderTimeout time.Duration
	Logger        *zap.Logger
}

// Assembler fills the page templates, renders them and merges the result.
type Assembler struct {
	templates   TemplateSet
	newRenderer RendererFactory
	merger      Merger
	opts        Options
	logger      *zap.Logger
}

// NewAssembler creates an Assembler over a loaded template set
func NewAssembler(templates TemplateSet, newRenderer RendererFactory, merger Merger, opts Options) *Assembler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{templates: templates, newRenderer: newRenderer, merger: merger, opts: opts, logger: logger}
}

// Pages fills every template in deck order: intro, the five use cases, the
// POS grid and the closing page.
func (a *Assembler) Pages(in Input) ([]DocumentPage, error) {
	if len(in.Products) < len(useCases) {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewProducts, len(in.Products), len(useCases))
	}
	c := in.Content
	pages := make([]DocumentPage, 0, PageCount)

	add := func(tmpl, name string, opts PageOptions, data Fields) error {
		html, err := a.templates.fill(tmpl, data)
		if err != nil {
			return err
		}
		pages = append(pages, DocumentPage{Template: tmpl, Name: name, HTML: html, Options: opts})
		return nil
	}

	err := add(TemplateIntro, "intro", optionsA4, Fields{
		"domain":         in.Target.ReadableDomain,
		"intro_headline": c.Intro.Headline,
		"intro_greeting": c.Intro.Greeting,
		"intro_p1":       c.Intro.P1,
		"intro_p2":       c.Intro.P2,
		"intro_li1":      c.Intro.Li1,
		"intro_li2":      c.Intro.Li2,
		"intro_li3":      c.Intro.Li3,
		"intro_p3":       c.Intro.P3,
		"intro_p4":       c.Intro.P4,
		"intro_p5":       c.Intro.P5,
		"intro_footer":   c.Intro.Footer,
	})
	if err != nil {
		return nil, err
	}

	for i, uc := range useCases {
		data := productData(in, in.Products[i])
		switch uc.template {
		case TemplateLowStock:
			l := c.LowStockTemplate
			data["lowStock_headline"] = l.Headline
			data["lowStock_metaPrefix"] = l.MetaPrefix
			data["lowStock_metaPrice"] = l.MetaPrice
			data["lowStock_warning"] = l.Warning
			data["lowStock_description"] = l.Description
			data["lowStock_buyNowButton"] = l.BuyNowButton
			data["lowStock_replyButton"] = l.ReplyButton
			data["lowStock_forwardButton"] = l.ForwardButton
		case TemplateBackInStock:
			b := c.BackInStockTemplate
			data["backInStock_headline"] = b.Headline
			data["backInStock_metaPrefix"] = b.MetaPrefix
			data["backInStock_metaPrice"] = b.MetaPrice
			data["backInStock_description"] = b.Description
			data["backInStock_buyNowButton"] = b.BuyNowButton
			data["backInStock_replyButton"] = b.ReplyButton
			data["backInStock_forwardButton"] = b.ForwardButton
		default:
			p := c.PriceDropTemplate
			text := uc.copy(c)
			data["headline"] = text.Headline
			data["product_message"] = text.Message
			data["priceDrop_greeting"] = p.Greeting
			data["priceDrop_originalPriceLabel"] = p.OriginalPriceLabel
			data["priceDrop_newPriceLabel"] = p.NewPriceLabel
			data["priceDrop_buyNowButton"] = p.BuyNowButton
			data["priceDrop_replyButton"] = p.ReplyButton
			data["priceDrop_forwardButton"] = p.ForwardButton
		}
		if err := add(uc.template, uc.name, optionsSquare, data); err != nil {
			return nil, err
		}
	}

	err = add(TemplatePOS, "pos", optionsPOS, Fields{
		"pos_pageTitle":         c.Pos.PageTitle,
		"app_name":              a.opts.AppName,
		"edit_preferences_url":  "#",
		"wishlist_view_all_url": "#",
		"bis_view_all_url":      "#",
		"cart_view_all_url":     "#",
		"pos_editPreferences":   c.Pos.EditPreferences,
		"pos_wishlistHeader":    c.Pos.WishlistHeader,
		"pos_backInStockHeader": c.Pos.BackInStockHeader,
		"pos_viewAll":           c.Pos.ViewAll,
		"wishlists":             cards(in.Products[0:4]),
		"back_in_stock":         cards(in.Products[1:4]),
	})
	if err != nil {
		return nil, err
	}

	err = add(TemplateExtro, "closing", optionsA4, Fields{
		"extro_headline":  c.Extro.Headline,
		"extro_p1":        c.Extro.P1,
		"extro_p2":        c.Extro.P2,
		"extro_p3":        c.Extro.P3,
		"extro_p4":        c.Extro.P4,
		"extro_p5":        c.Extro.P5,
		"extro_ctaButton": c.Extro.CtaButton,
		"extro_footer":    c.Extro.Footer,
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func productData(in Input, p *models.ProductRecord) Fields {
	return Fields{
		"to_email":      in.ToEmail,
		"from_email":    in.Target.FromEmail,
		"product_name":  p.Title,
		"product_price": p.PriceLabel(),
		"new_price":     p.NewPrice,
		"product_image": template.URL(p.ImageMain),
		"product_link":  p.Link,
	}
}

func cards(products []*models.ProductRecord) []Card {
	out := make([]Card, len(products))
	for i, p := range products {
		out[i] = Card{Title: p.Title, Thumb: template.URL(p.ImageThumb)}
	}
	return out
}

// Build renders every page in one renderer session and merges them. The
// merged document must have exactly PageCount pages.
func (a *Assembler) Build(ctx context.Context, in Input) ([]byte, error) {
	pages, err := a.Pages(in)
	if err != nil {
		return nil, err
	}

	renderer, err := a.newRenderer(ctx)
	if err != nil {
		return nil, fmt.Errorf("open renderer: %w", err)
	}
	defer func() {
		if cerr := renderer.Close(); cerr != nil {
			a.logger.Warn("failed to close renderer", zap.Error(cerr))
		}
	}()

	rendered := make([][]byte, 0, len(pages))
	for _, p := range pages {
		a.logger.Info("rendering page", zap.String("page", p.Name))
		pdf, err := a.render(ctx, renderer, p)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", p.Name, err)
		}
		rendered = append(rendered, pdf)
	}

	doc, err := a.merger.Merge(rendered)
	if err != nil {
		return nil, fmt.Errorf("merge pages: %w", err)
	}
	n, err := a.merger.PageCount(doc)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}
	if n != PageCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPageCount, n, PageCount)
	}
	return doc, nil
}

func (a *Assembler) render(ctx context.Context, r Renderer, p DocumentPage) ([]byte, error) {
	if a.opts.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.RenderTimeout)
		defer cancel()
	}
	return r.RenderPDF(ctx, p.HTML, p.Options)
}
