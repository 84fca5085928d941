// Package report turns domain reports into HTML and renders that HTML to
// PDF through a headless Chrome.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/derbent/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultRenderTimeout = 30 * time.Second

// A4 portrait with 15mm margins
const (
	a4WidthMM  = 210.0
	a4HeightMM = 297.0
	marginMM   = 15.0
)

var (
	ErrEmptyHTML     = errors.New("report: HTML content is empty")
	ErrRenderTimeout = errors.New("report: PDF rendering timed out")
)

// ChromedpRenderer renders HTML documents to PDF over the DevTools protocol.
// One browser process is shared; each render opens its own tab.
type ChromedpRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer starts the browser allocator. Chrome itself is
// launched lazily on the first render.
func NewChromedpRenderer(cfg config.ReportConfig, logger *zap.Logger) *ChromedpRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RenderTimeout
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromedpRenderer{
		timeout:     timeout,
		logger:      logger,
		allocCtx:    allocCtx,
		allocCancel: cancel,
	}
}

// Render prints html to an A4 PDF
func (r *ChromedpRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ErrEmptyHTML
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()

	// Tie the tab to the caller's deadline
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var pdf []byte
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
			data, _, err := printParams().Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v: %v", ErrRenderTimeout, r.timeout, err)
		}
		return nil, fmt.Errorf("report: render PDF: %w", err)
	}

	r.logger.Debug("PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)),
	)
	return pdf, nil
}

// Close shuts the browser down
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func printParams() *page.PrintToPDFParams {
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(mmToInches(a4WidthMM)).
		WithPaperHeight(mmToInches(a4HeightMM)).
		WithMarginTop(mmToInches(marginMM)).
		WithMarginRight(mmToInches(marginMM)).
		WithMarginBottom(mmToInches(marginMM)).
		WithMarginLeft(mmToInches(marginMM)).
		WithScale(1.0).
		WithPreferCSSPageSize(false)
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}
