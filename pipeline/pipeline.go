package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raushankrgupta/storedeck/config"
	"github.com/raushankrgupta/storedeck/deck"
	"github.com/raushankrgupta/storedeck/delivery"
	"github.com/raushankrgupta/storedeck/localize"
	"github.com/raushankrgupta/storedeck/models"
	"github.com/raushankrgupta/storedeck/monitoring"
	"github.com/raushankrgupta/storedeck/scrapers"
	"go.uber.org/zap"
)

// ErrInsufficientProducts is returned when discovery runs out of links before
// enough products validate. No document is produced.
var ErrInsufficientProducts = errors.New("insufficient valid products")

// Run states
const (
	StateInit                = "init"
	StateCandidatesGenerated = "candidates_generated"
	StateLinksDiscovered     = "links_discovered"
	StateLocalized           = "localized"
	StateProductsValidated   = "products_validated"
	StatePagesAssembled      = "pages_assembled"
	StateDelivered           = "delivered"
)

// DeckBuilder renders and merges a deck
type DeckBuilder interface {
	Build(ctx context.Context, in deck.Input) ([]byte, error)
}

// RunRecorder persists run history
type RunRecorder interface {
	Record(ctx context.Context, rec *models.RunRecord) error
}

// Request is one deck run
type Request struct {
	StoreURL string `json:"storeUrl"`
	ToEmail  string `json:"toEmail"`
}

// Result is what a successful run produced
type Result struct {
	Record   *models.RunRecord
	Document []byte
	Path     string
}

// Pipeline wires the scraper, localizer, assembler and sinks into one run.
type Pipeline struct {
	Scraper        scrapers.Scraper
	Localizer      localize.Localizer
	Builder        DeckBuilder
	Output         delivery.Sink
	Sinks          []delivery.Sink
	Runs           RunRecorder
	Metrics        *monitoring.Metrics
	PushgatewayURL string
	TargetProducts int
	ImagePolicy    string
	Logger         *zap.Logger
}

// Run executes one deck run end to end. The returned record is always
// populated, including on failure.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	rec := &models.RunRecord{
		ToEmail:   req.ToEmail,
		State:     StateInit,
		StartedAt: time.Now().UTC(),
	}
	res := &Result{Record: rec}
	logger := p.Logger.With(zap.String("store", req.StoreURL))

	err := p.run(ctx, req, res, logger)

	rec.FinishedAt = time.Now().UTC()
	if err != nil {
		rec.Outcome = models.RunFailed
		rec.Error = err.Error()
		logger.Error("deck run failed", zap.String("state", rec.State), zap.Error(err))
	} else {
		rec.Outcome = models.RunSucceeded
		logger.Info("deck run finished", zap.String("path", res.Path))
	}
	p.finish(ctx, rec, logger)
	return res, err
}

func (p *Pipeline) run(ctx context.Context, req Request, res *Result, logger *zap.Logger) error {
	rec := res.Record
	transition := func(state string, fields ...zap.Field) {
		rec.State = state
		logger.Info("state changed", append([]zap.Field{zap.String("state", state)}, fields...)...)
	}

	target, err := models.NewStoreTarget(req.StoreURL)
	if err != nil {
		return err
	}
	rec.Store = target

	candidates := p.Scraper.CandidateURLs(req.StoreURL)
	transition(StateCandidatesGenerated, zap.Int("candidates", len(candidates)))

	disc, err := p.Scraper.DiscoverProducts(ctx, candidates)
	if err != nil {
		return fmt.Errorf("discover products: %w", err)
	}
	rec.Language = disc.Language
	rec.LinksFound = len(disc.Links)
	if p.Metrics != nil {
		p.Metrics.IncPages("ok", len(disc.Visited))
		p.Metrics.IncPages("unused", len(candidates)-len(disc.Visited))
	}
	transition(StateLinksDiscovered,
		zap.Int("links", len(disc.Links)),
		zap.Int("excluded", len(disc.Excluded)),
		zap.String("language", disc.Language))

	content := p.localize(ctx, target, disc.Language, rec, logger)
	transition(StateLocalized, zap.Bool("localized", rec.Localized))

	products, err := p.fetchProducts(ctx, disc.Links, logger)
	if err != nil {
		return err
	}
	for _, pr := range products {
		rec.Products = append(rec.Products, *pr)
	}
	if len(products) < p.TargetProducts {
		return fmt.Errorf("%w: found %d of %d", ErrInsufficientProducts, len(products), p.TargetProducts)
	}
	transition(StateProductsValidated, zap.Int("products", len(products)))

	doc, err := p.Builder.Build(ctx, deck.Input{
		Target:   target,
		ToEmail:  req.ToEmail,
		Content:  content,
		Products: products,
	})
	if err != nil {
		return fmt.Errorf("assemble deck: %w", err)
	}
	res.Document = doc
	transition(StatePagesAssembled, zap.Int("bytes", len(doc)))

	artifact := delivery.Artifact{
		FileName:    target.SafeName + ".pdf",
		ContentType: "application/pdf",
		Data:        doc,
		Target:      target,
		ToEmail:     req.ToEmail,
	}
	if p.Output != nil {
		path, err := p.Output.Deliver(ctx, artifact)
		if err != nil {
			return fmt.Errorf("write deck: %w", err)
		}
		res.Path = path
		rec.ArtifactPath = path
	}
	p.deliver(ctx, artifact, rec, logger)
	transition(StateDelivered)
	return nil
}

func (p *Pipeline) localize(ctx context.Context, target models.StoreTarget, language string, rec *models.RunRecord, logger *zap.Logger) models.ContentBundle {
	english := models.EnglishContent()
	if p.Localizer == nil || language == models.LanguageNotFound {
		return english
	}
	tone := p.Scraper.ToneSample(ctx, target.BaseURL)
	content, ok := localize.Apply(ctx, p.Localizer, english, language, tone, logger)
	rec.Localized = ok
	if p.Metrics != nil {
		if ok {
			p.Metrics.IncLocalization("translated")
		} else {
			p.Metrics.IncLocalization("fallback")
		}
	}
	return content
}

// fetchProducts walks links in discovery order and stops at the target count.
func (p *Pipeline) fetchProducts(ctx context.Context, links []models.ProductLink, logger *zap.Logger) ([]*models.ProductRecord, error) {
	var products []*models.ProductRecord
	for _, link := range links {
		if len(products) >= p.TargetProducts {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pr, err := p.Scraper.ScrapeProduct(ctx, link.URL)
		switch {
		case err == nil:
			logger.Info("product accepted", zap.String("url", link.URL), zap.String("title", pr.Title))
			products = append(products, pr)
		case errors.Is(err, scrapers.ErrImage):
			if p.ImagePolicy != config.ImageFailureSkip {
				return nil, fmt.Errorf("product %s: %w", link.URL, err)
			}
			p.reject("image", link.URL, err, logger)
		case errors.Is(err, scrapers.ErrInvalidProduct):
			p.reject("invalid", link.URL, err, logger)
		default:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.reject("error", link.URL, err, logger)
		}
	}
	return products, nil
}

func (p *Pipeline) reject(reason, url string, err error, logger *zap.Logger) {
	logger.Warn("skipping product", zap.String("reason", reason), zap.String("url", url), zap.Error(err))
	if p.Metrics != nil {
		p.Metrics.IncRejected(reason)
	}
}

// deliver runs the optional sinks. Their failures are reported, never fatal.
func (p *Pipeline) deliver(ctx context.Context, a delivery.Artifact, rec *models.RunRecord, logger *zap.Logger) {
	for _, sink := range p.Sinks {
		loc, err := sink.Deliver(ctx, a)
		status := "ok"
		if err != nil {
			status = "failed"
			logger.Warn("delivery failed", zap.String("sink", sink.Name()), zap.Error(err))
			rec.DeliveryNotes = append(rec.DeliveryNotes, fmt.Sprintf("%s: failed: %v", sink.Name(), err))
		} else {
			logger.Info("deck delivered", zap.String("sink", sink.Name()), zap.String("location", loc))
			rec.DeliveryNotes = append(rec.DeliveryNotes, fmt.Sprintf("%s: %s", sink.Name(), loc))
		}
		if p.Metrics != nil {
			p.Metrics.IncDelivery(sink.Name(), status)
		}
	}
}

func (p *Pipeline) finish(ctx context.Context, rec *models.RunRecord, logger *zap.Logger) {
	// History and metrics are written even when the caller's context is done.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if p.Runs != nil {
		if err := p.Runs.Record(ctx, rec); err != nil {
			logger.Warn("failed to record run", zap.Error(err))
		}
	}
	if p.Metrics == nil {
		return
	}
	p.Metrics.ObserveRun(rec.Outcome, rec.FinishedAt.Sub(rec.StartedAt))
	if p.PushgatewayURL != "" {
		if err := p.Metrics.Push(ctx, p.PushgatewayURL); err != nil {
			logger.Warn("failed to push metrics", zap.Error(err))
		}
	}
}
