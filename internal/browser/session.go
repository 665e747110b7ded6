// Package browser drives a headless Chrome instance and adapts it to the
// page interface the card walker works against.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"rentwatch/rentalscraper/internal/scraper"
	"rentwatch/rentalscraper/logger"
	"rentwatch/rentalscraper/pkg/errors"
)

// Options configures one browser session
type Options struct {
	Headless    bool
	UserAgent   string
	ProxyServer string
}

// Session owns one Chrome process and its browsing context. Tabs opened
// through NewPage share the process and its cookie storage.
type Session struct {
	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	log           *logger.Logger
}

// NewSession launches Chrome and prepares the browsing context with the
// request headers a regular desktop browser would send
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(opts.UserAgent),
	)
	if opts.ProxyServer != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.ProxyServer))
	}

	s := &Session{log: logger.ForSession()}
	s.allocCtx, s.cancelAlloc = chromedp.NewExecAllocator(ctx, allocOpts...)
	s.browserCtx, s.cancelBrowser = chromedp.NewContext(s.allocCtx)

	headers := network.Headers{
		"Accept-Language": "en-US,en;q=0.9",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	}
	if err := chromedp.Run(s.browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
	); err != nil {
		s.Close()
		return nil, errors.NewSession("failed to launch browser", err)
	}

	s.log.Info().Bool("headless", opts.Headless).Str("proxy", opts.ProxyServer).Msg("Browser session started")
	return s, nil
}

// NewPage opens a tab with the given cookies installed
func (s *Session) NewPage(ctx context.Context, cookies []scraper.Cookie) (scraper.Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)

	if len(cookies) > 0 {
		if err := chromedp.Run(tabCtx, setCookies(cookies)); err != nil {
			cancelTab()
			return nil, errors.NewSession("failed to install cookies", err)
		}
	}

	return &page{ctx: tabCtx, cancel: cancelTab, log: s.log}, nil
}

// Close tears down the browsing context and the Chrome process
func (s *Session) Close() {
	if s.cancelBrowser != nil {
		s.cancelBrowser()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
}

func setCookies(cookies []scraper.Cookie) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		params := make([]*network.CookieParam, 0, len(cookies))
		for _, c := range cookies {
			p := &network.CookieParam{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Secure:   c.Secure,
				HTTPOnly: c.HTTPOnly,
			}
			if c.Expires > 0 {
				exp := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
				p.Expires = &exp
			}
			params = append(params, p)
		}
		return storage.SetCookies(params).Do(ctx)
	})
}

type page struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    *logger.Logger
}

func (p *page) Navigate(ctx context.Context, url string) error {
	return p.run(ctx, chromedp.Navigate(url))
}

func (p *page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (p *page) HTML(ctx context.Context) (string, error) {
	var html string
	err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// ClickNth scrolls the index-th match into the viewport, waits for it to
// become visible and clicks it in page context; DOM-handle clicks are
// unreliable on cards re-rendered by the site's virtualized list
func (p *page) ClickNth(ctx context.Context, selector string, index int, timeout time.Duration) error {
	clickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var clicked bool
	err := p.run(clickCtx, chromedp.Evaluate(clickScript(selector, index), &clicked,
		func(ep *runtime.EvaluateParams) *runtime.EvaluateParams {
			return ep.WithAwaitPromise(true)
		}))
	if err != nil {
		return err
	}
	if !clicked {
		return errors.NewExtraction("", "", fmt.Sprintf("no visible element at index %d for %s", index, selector), nil)
	}
	return nil
}

// clickScript resolves to false when the element is missing or never
// becomes visible within the poll window; the CDP deadline bounds the
// whole evaluation.
func clickScript(selector string, index int) string {
	return fmt.Sprintf(`(async () => {
		const el = document.querySelectorAll(%q)[%d];
		if (!el) return false;
		el.scrollIntoView({block: "center"});
		const visible = () => {
			const r = el.getBoundingClientRect();
			return r.width > 0 && r.height > 0;
		};
		for (let i = 0; i < 50 && !visible(); i++) {
			await new Promise(resolve => setTimeout(resolve, 100));
		}
		if (!visible()) return false;
		el.click();
		return true;
	})()`, selector, index)
}

func (p *page) Cookies(ctx context.Context) ([]scraper.Cookie, error) {
	var out []scraper.Cookie
	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			out = append(out, scraper.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  c.Expires,
				Secure:   c.Secure,
				HTTPOnly: c.HTTPOnly,
			})
		}
		return nil
	}))
	return out, err
}

func (p *page) Close() {
	p.cancel()
}

// run executes actions on a context derived from the tab, cancelled as
// soon as the caller's context ends. Cancelling the derived context
// aborts the in-flight CDP command instead of leaving it running on the
// tab, so a timed-out wait cannot interleave with the next operation.
func (p *page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
