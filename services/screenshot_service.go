package services

import (
	"context"
	"fmt"
	"time"

	"github.com/NomadCrew/school-dashboard/config"
	"github.com/NomadCrew/school-dashboard/internal/metrics"
	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/pkg/grayscale"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// BatteryHeader carries the device battery level on dashboard requests.
const BatteryHeader = "X-Battery-Level"

// hideScrollbarsJS appends a style tag suppressing scrollbars in every engine.
const hideScrollbarsJS = `(() => {
	const style = document.createElement('style');
	style.textContent = '::-webkit-scrollbar { display: none !important; } ' +
		'* { -ms-overflow-style: none !important; scrollbar-width: none !important; }';
	(document.head || document.documentElement).appendChild(style);
	return true;
})()`

// CaptureRequest describes one page to screenshot: either a URL to load or an
// HTML document to install directly.
type CaptureRequest struct {
	URL     string
	HTML    string
	Headers map[string]string
}

// Screenshotter captures a PNG of a page clipped to a fixed viewport.
type Screenshotter interface {
	Capture(ctx context.Context, req CaptureRequest) ([]byte, error)
}

// ChromeScreenshotter drives a fresh headless Chrome per capture.
type ChromeScreenshotter struct {
	cfg config.ScreenshotConfig
	log *zap.SugaredLogger
}

var _ Screenshotter = (*ChromeScreenshotter)(nil)

func NewChromeScreenshotter(cfg config.ScreenshotConfig) *ChromeScreenshotter {
	return &ChromeScreenshotter{cfg: cfg, log: logger.GetLogger()}
}

// Capture launches the browser, loads the page, waits for it to settle,
// hides scrollbars and returns a viewport-clipped PNG. The browser is torn
// down on every path.
func (c *ChromeScreenshotter) Capture(ctx context.Context, req CaptureRequest) ([]byte, error) {
	if req.URL == "" && req.HTML == "" {
		return nil, fmt.Errorf("capture request needs a URL or HTML")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(c.cfg.Width, c.cfg.Height),
		chromedp.Flag("hide-scrollbars", true),
	)
	if c.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(c.cfg.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(c.log.Debugf))
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.cfg.NavigationTimeout())
	defer cancelTimeout()

	width, height := int64(c.cfg.Width), int64(c.cfg.Height)
	if err := chromedp.Run(tabCtx, chromedp.EmulateViewport(width, height)); err != nil {
		return nil, fmt.Errorf("headless browser start: %w", err)
	}

	if err := c.load(tabCtx, req); err != nil {
		return nil, err
	}

	var fontsReady, styled bool
	var shot []byte
	err := chromedp.Run(tabCtx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &fontsReady,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams { return p.WithAwaitPromise(true) }),
		chromedp.Evaluate(hideScrollbarsJS, &styled),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			shot, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithClip(&page.Viewport{X: 0, Y: 0, Width: float64(width), Height: float64(height), Scale: 1}).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("headless capture: %w", err)
	}
	return shot, nil
}

// load puts the page into the tab: by navigation in url mode, or by replacing
// the blank document's content in inline mode.
func (c *ChromeScreenshotter) load(ctx context.Context, req CaptureRequest) error {
	if req.URL == "" {
		err := chromedp.Run(ctx,
			chromedp.Navigate("about:blank"),
			chromedp.ActionFunc(func(ctx context.Context) error {
				frameTree, err := page.GetFrameTree().Do(ctx)
				if err != nil {
					return err
				}
				return page.SetDocumentContent(frameTree.Frame.ID, req.HTML).Do(ctx)
			}),
		)
		if err != nil {
			return fmt.Errorf("set document content: %w", err)
		}
		return nil
	}

	headers := make(network.Headers, len(req.Headers))
	for k, v := range req.Headers {
		headers[k] = v
	}
	if err := chromedp.Run(ctx, network.Enable(), network.SetExtraHTTPHeaders(headers)); err != nil {
		return fmt.Errorf("set extra headers: %w", err)
	}

	resp, err := chromedp.RunResponse(ctx, chromedp.Navigate(req.URL))
	if err != nil {
		return fmt.Errorf("navigate %s: %w", req.URL, err)
	}
	// An error page would otherwise be captured as if it were the dashboard.
	if resp != nil && resp.Status != 200 {
		return fmt.Errorf("navigate %s: status %d", req.URL, resp.Status)
	}
	return nil
}

// ImageServiceInterface produces the grayscale dashboard PNG.
type ImageServiceInterface interface {
	DashboardPNG(ctx context.Context, batteryLevel string) ([]byte, error)
}

// ImageService runs the render, capture and grayscale stages.
type ImageService struct {
	dashboard   DashboardServiceInterface
	shooter     Screenshotter
	mode        string
	internalURL string
	log         *zap.SugaredLogger
}

var _ ImageServiceInterface = (*ImageService)(nil)

func NewImageService(dashboard DashboardServiceInterface, shooter Screenshotter, cfg config.ScreenshotConfig) *ImageService {
	return &ImageService{
		dashboard:   dashboard,
		shooter:     shooter,
		mode:        cfg.Mode,
		internalURL: cfg.InternalURL,
		log:         logger.GetLogger(),
	}
}

// DashboardPNG returns the dashboard as an 8-bit grayscale PNG. Data-source
// failures are returned unchanged; browser and image failures are wrapped in
// ErrRenderPipeline.
func (s *ImageService) DashboardPNG(ctx context.Context, batteryLevel string) ([]byte, error) {
	req, err := s.captureRequest(ctx, batteryLevel)
	if err != nil {
		return nil, err
	}

	m := metrics.Get()
	start := time.Now()
	shot, err := s.shooter.Capture(ctx, req)
	if err != nil {
		m.PipelineFailures.WithLabelValues("screenshot").Inc()
		s.log.Errorw("Screenshot failed", "mode", s.mode, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrRenderPipeline, err)
	}
	m.PipelineDuration.WithLabelValues("screenshot").Observe(time.Since(start).Seconds())

	start = time.Now()
	img, err := grayscale.FromPNG(shot)
	if err != nil {
		m.PipelineFailures.WithLabelValues("grayscale").Inc()
		s.log.Errorw("Grayscale conversion error", "bytes", len(shot), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrRenderPipeline, err)
	}
	m.PipelineDuration.WithLabelValues("grayscale").Observe(time.Since(start).Seconds())

	return img, nil
}

// captureRequest targets only the configured internal URL; nothing from the
// incoming request decides where the browser navigates.
func (s *ImageService) captureRequest(ctx context.Context, batteryLevel string) (CaptureRequest, error) {
	if s.mode == config.ScreenshotModeURL {
		if s.internalURL == "" {
			return CaptureRequest{}, fmt.Errorf("%w: url mode without an internal URL", ErrRenderPipeline)
		}
		return CaptureRequest{
			URL:     s.internalURL,
			Headers: map[string]string{BatteryHeader: batteryLevel},
		}, nil
	}

	html, err := s.dashboard.RenderHTML(ctx, batteryLevel)
	if err != nil {
		return CaptureRequest{}, err
	}
	return CaptureRequest{HTML: html}, nil
}
