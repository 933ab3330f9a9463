package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"calebs/ccsWebsite/internal/controller"
)

// DefaultWidths cover one viewport on each side of the table breakpoint.
var DefaultWidths = []int{400, 1024}

// Live drives the served page in a headless browser.
type Live struct {
	URL     string
	Widths  []int
	Timeout time.Duration
	// ControlURL connects to an already running browser instead of launching one.
	ControlURL string
	Log        *zap.Logger
}

// Run checks the page once per width.
func (l Live) Run(ctx context.Context) (*Report, error) {
	if l.URL == "" {
		return nil, fmt.Errorf("live checks need a page url")
	}
	widths := l.Widths
	if len(widths) == 0 {
		widths = DefaultWidths
	}
	timeout := l.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}

	controlURL := l.ControlURL
	if controlURL == "" {
		u, err := launcher.New().Headless(true).Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer browser.Close()

	report := &Report{}
	for _, width := range widths {
		log.Info("checking page", zap.String("url", l.URL), zap.Int("width", width))
		if err := l.checkWidth(browser, width, timeout, report); err != nil {
			return report, fmt.Errorf("width %d: %w", width, err)
		}
	}
	return report, nil
}

func (l Live) checkWidth(browser *rod.Browser, width int, timeout time.Duration, report *Report) error {
	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            900,
		DeviceScaleFactor: 1.0,
		Mobile:            width <= controller.TableMaxWidth,
	}).Call(page); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}

	page = page.Timeout(timeout)
	if err := page.Navigate(l.URL); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}

	want := string(controller.ViewForWidth(width))
	view, err := evalString(page, `() => document.getElementById('pricing').dataset.pricingView`)
	if err != nil {
		return err
	}
	report.add(fmt.Sprintf("pricing view at %dpx", width), view == want, "got %q, want %q", view, want)

	opened, err := evalBool(page, `() => {
		document.getElementById('menu-toggle').click();
		return !document.getElementById('mobile-menu').hidden;
	}`)
	if err != nil {
		return err
	}
	report.add(fmt.Sprintf("menu opens at %dpx", width), opened, "")

	closed, err := evalBool(page, `() => {
		document.querySelector('#mobile-menu [data-nav-link]').click();
		return document.getElementById('mobile-menu').hidden;
	}`)
	if err != nil {
		return err
	}
	report.add(fmt.Sprintf("nav link closes menu at %dpx", width), closed, "")

	return nil
}

func evalString(page *rod.Page, js string) (string, error) {
	res, err := page.Eval(js)
	if err != nil {
		return "", fmt.Errorf("eval: %w", err)
	}
	return res.Value.Str(), nil
}

func evalBool(page *rod.Page, js string) (bool, error) {
	res, err := page.Eval(js)
	if err != nil {
		return false, fmt.Errorf("eval: %w", err)
	}
	return res.Value.Bool(), nil
}
