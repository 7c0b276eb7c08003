package pipeline

import (
	"context"
	"fmt"

	"github.com/raushankrgupta/storedeck/config"
	"github.com/raushankrgupta/storedeck/deck"
	"github.com/raushankrgupta/storedeck/deck/render"
	"github.com/raushankrgupta/storedeck/delivery"
	"github.com/raushankrgupta/storedeck/images"
	"github.com/raushankrgupta/storedeck/localize"
	"github.com/raushankrgupta/storedeck/monitoring"
	"github.com/raushankrgupta/storedeck/scrapers/base"
	"github.com/raushankrgupta/storedeck/scrapers/shopify"
	"github.com/raushankrgupta/storedeck/storage"
	"go.uber.org/zap"
)

// Deps are the long-lived collaborators built from configuration. Close
// releases them.
type Deps struct {
	Pipeline *Pipeline
	Metrics  *monitoring.Metrics
	Runs     *storage.RunStore

	logger  *zap.Logger
	closers []func() error
}

// Close releases the collaborators in reverse order of creation. Failures are
// logged and do not stop the remaining closers.
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil && d.logger != nil {
			d.logger.Warn("failed to release dependency", zap.Error(err))
		}
	}
}

// NewFromConfig builds a pipeline. Optional backends (Redis, Gemini, S3,
// SendGrid, MongoDB) are enabled by their config keys; one that fails to
// connect is logged and left out.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Deps, error) {
	deps := &Deps{Metrics: monitoring.NewMetrics(), logger: logger}

	var cache base.Cache
	if cfg.RedisAddr != "" {
		rc := storage.NewResponseCache(cfg.RedisAddr, cfg.CacheTTL())
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, response cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			if err := rc.Close(); err != nil {
				logger.Warn("failed to close redis client", zap.Error(err))
			}
		} else {
			cache = rc
			deps.closers = append(deps.closers, rc.Close)
		}
	}

	fetcher := base.NewBaseScraper(base.Options{
		Timeout:           cfg.FetchTimeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		UserAgent:         cfg.UserAgent,
		Cache:             cache,
		Logger:            logger,
	})
	processor := images.NewProcessor(images.Options{
		MainQuality:  cfg.ImageMainQuality,
		ThumbQuality: cfg.ImageThumbQuality,
		ThumbWidth:   cfg.ImageThumbWidth,
		ScratchDir:   cfg.ImageScratchDir,
		Logger:       logger,
	})
	scraper := shopify.NewShopifyScraper(fetcher, shopify.Options{
		PlatformSuffix:    cfg.PlatformSuffix,
		ExclusionKeywords: cfg.Keywords(),
		LinkCeiling:       cfg.LinkCeiling(),
		DiscountRate:      cfg.DiscountRate,
		Images:            processor,
	})

	var localizer localize.Localizer
	if cfg.GeminiAPIKey != "" {
		gl, err := localize.NewGeminiLocalizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Warn("localization disabled", zap.Error(err))
		} else {
			localizer = gl
			deps.closers = append(deps.closers, gl.Close)
		}
	}

	templates, err := deck.LoadTemplates()
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("load templates: %w", err)
	}
	assembler := deck.NewAssembler(templates,
		render.Factory(render.Options{Logger: logger}),
		deck.NewPDFMerger(),
		deck.Options{AppName: cfg.AppName, RenderTimeout: cfg.RenderTimeout(), Logger: logger})

	var sinks []delivery.Sink
	if cfg.AWSBucketName != "" {
		s3Sink, err := delivery.NewS3Sink(ctx, cfg.AWSRegion, cfg.AWSBucketName)
		if err != nil {
			logger.Warn("S3 delivery disabled", zap.Error(err))
		} else {
			sinks = append(sinks, s3Sink)
		}
	}
	if cfg.SendGridAPIKey != "" {
		sinks = append(sinks, delivery.NewEmailSink(cfg.SendGridAPIKey, cfg.SenderName, cfg.SenderEmail, logger))
	}

	var runs RunRecorder
	if cfg.MongoURI != "" {
		store, err := storage.ConnectRunStore(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Warn("run history disabled", zap.Error(err))
		} else {
			runs = store
			deps.Runs = store
			deps.closers = append(deps.closers, func() error { return store.Close(context.Background()) })
		}
	}

	deps.Pipeline = &Pipeline{
		Scraper:        scraper,
		Localizer:      localizer,
		Builder:        assembler,
		Output:         delivery.FileSink{Dir: cfg.OutputDir},
		Sinks:          sinks,
		Runs:           runs,
		Metrics:        deps.Metrics,
		PushgatewayURL: cfg.PushgatewayURL,
		TargetProducts: cfg.TargetProducts,
		ImagePolicy:    cfg.ImageFailurePolicy,
		Logger:         logger,
	}
	return deps, nil
}
