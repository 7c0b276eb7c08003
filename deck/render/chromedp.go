package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/raushankrgupta/storedeck/deck"
	"go.uber.org/zap"
)

const imagesReady = `document.readyState === "complete" && Array.from(document.images).every(i => i.complete)`

// ChromeRenderer prints HTML pages to PDF in one headless Chrome session
type ChromeRenderer struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	imageWait     time.Duration
	logger        *zap.Logger
}

// Options configures the browser session
type Options struct {
	ExecPath  string
	ImageWait time.Duration
	Logger    *zap.Logger
}

// NewChromeRenderer launches the browser. It lives until Close, independent of
// ctx, which only bounds the launch.
func NewChromeRenderer(ctx context.Context, opts Options) (*ChromeRenderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.DisableGPU,
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// First Run starts the browser process.
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("chromedp start error: %w", err)
	}

	wait := opts.ImageWait
	if wait <= 0 {
		wait = 10 * time.Second
	}
	logger.Info("browser session started")
	return &ChromeRenderer{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		imageWait:     wait,
		logger:        logger,
	}, nil
}

// Factory adapts NewChromeRenderer to deck.RendererFactory.
func Factory(opts Options) deck.RendererFactory {
	return func(ctx context.Context) (deck.Renderer, error) {
		return NewChromeRenderer(ctx, opts)
	}
}

// RenderPDF loads html into a fresh tab and prints its first page.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, html string, opts deck.PageOptions) ([]byte, error) {
	tabCtx, cancel := chromedp.NewContext(r.browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var ready bool
			err := chromedp.Poll(imagesReady, &ready, chromedp.WithPollingTimeout(r.imageWait)).Do(ctx)
			if err != nil {
				r.logger.Warn("images not ready before print", zap.Error(err))
			}
			return nil
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(false).
				WithPaperWidth(opts.PaperWidth).
				WithPaperHeight(opts.PaperHeight).
				WithScale(scale).
				WithMarginTop(opts.Margin).
				WithMarginBottom(opts.Margin).
				WithMarginLeft(opts.Margin).
				WithMarginRight(opts.Margin).
				WithPageRanges("1").
				Do(ctx)
			if err != nil {
				return err
			}
			buf = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("chromedp print error: %w", err)
	}
	return buf, nil
}

// Close shuts the browser down.
func (r *ChromeRenderer) Close() error {
	r.browserCancel()
	r.allocCancel()
	r.logger.Info("browser session closed")
	return nil
}
