package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// Operation timeouts. Queries are quick DOM probes; navigations can stall on
// slow feed pages.
const (
	queryTimeout    = 15 * time.Second
	navigateTimeout = 60 * time.Second
)

// Chrome implements Driver on a single chromedp browser session. The session
// is exclusively owned by one engine invocation: Start must be paired with
// exactly one Stop, including on error paths.
type Chrome struct {
	headless bool

	ctx     context.Context
	cancels []context.CancelFunc
}

// NewChrome creates an unstarted browser driver.
func NewChrome(headless bool) *Chrome {
	return &Chrome{headless: headless}
}

// Start launches the browser. A launch failure is fatal for the invocation.
func (c *Chrome) Start(ctx context.Context) error {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, Options(c.headless)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions to force the browser process to launch now, so a
	// missing Chrome binary surfaces here rather than mid-workflow.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	c.ctx = browserCtx
	c.cancels = []context.CancelFunc{browserCancel, allocCancel}
	return nil
}

// Stop releases the browser session. Safe to call once after a successful
// Start.
func (c *Chrome) Stop() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
	c.ctx = nil
}

// run executes chromedp actions against the owned session. The caller's ctx
// is only consulted for cancellation before the action starts; an in-flight
// browser action always completes or fails.
func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx := c.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(c.ctx, timeout)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	return c.run(ctx, navigateTimeout, chromedp.Navigate(url))
}

func (c *Chrome) Refresh(ctx context.Context) error {
	return c.run(ctx, navigateTimeout, chromedp.Reload())
}

func (c *Chrome) WaitVisible(ctx context.Context, query string, timeout time.Duration) bool {
	return c.run(ctx, timeout, chromedp.WaitVisible(query, chromedp.ByQuery)) == nil
}

func (c *Chrome) FindAll(ctx context.Context, query string) ([]Handle, error) {
	var n int
	script := fmt.Sprintf(`document.querySelectorAll(%s).length`, jsString(query))
	if err := c.run(ctx, queryTimeout, chromedp.Evaluate(script, &n)); err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", query, err)
	}
	handles := make([]Handle, n)
	for i := range handles {
		handles[i] = Handle{Expr: fmt.Sprintf(`document.querySelectorAll(%s)[%d]`, jsString(query), i)}
	}
	return handles, nil
}

func (c *Chrome) FindWithin(ctx context.Context, h Handle, query string) (Handle, bool) {
	var found bool
	script := fmt.Sprintf(`(() => { const el = %s; return !!(el && el.querySelector(%s)); })()`,
		h.Expr, jsString(query))
	if err := c.run(ctx, queryTimeout, chromedp.Evaluate(script, &found)); err != nil || !found {
		return Handle{}, false
	}
	return Handle{Expr: fmt.Sprintf(`(%s).querySelector(%s)`, h.Expr, jsString(query))}, true
}

func (c *Chrome) FindAllWithin(ctx context.Context, h Handle, query string) ([]Handle, error) {
	var n int
	script := fmt.Sprintf(`(() => { const el = %s; return el ? el.querySelectorAll(%s).length : 0; })()`,
		h.Expr, jsString(query))
	if err := c.run(ctx, queryTimeout, chromedp.Evaluate(script, &n)); err != nil {
		return nil, fmt.Errorf("failed to query %q within element: %w", query, err)
	}
	handles := make([]Handle, n)
	for i := range handles {
		handles[i] = Handle{Expr: fmt.Sprintf(`(%s).querySelectorAll(%s)[%d]`, h.Expr, jsString(query), i)}
	}
	return handles, nil
}

func (c *Chrome) FindAllByText(ctx context.Context, query, text string) ([]Handle, error) {
	var indices []int
	script := fmt.Sprintf(`(() => {
		const out = [];
		document.querySelectorAll(%s).forEach((el, i) => {
			if ((el.innerText || '').includes(%s)) out.push(i);
		});
		return out;
	})()`, jsString(query), jsString(text))
	if err := c.run(ctx, queryTimeout, chromedp.Evaluate(script, &indices)); err != nil {
		return nil, fmt.Errorf("failed to query %q by text %q: %w", query, text, err)
	}
	handles := make([]Handle, 0, len(indices))
	for _, i := range indices {
		handles = append(handles, Handle{Expr: fmt.Sprintf(`document.querySelectorAll(%s)[%d]`, jsString(query), i)})
	}
	return handles, nil
}

func (c *Chrome) Click(ctx context.Context, h Handle) error {
	var ok bool
	script := fmt.Sprintf(`(() => { const el = %s; if (!el) return false; el.click(); return true; })()`, h.Expr)
	if err := c.run(ctx, queryTimeout, chromedp.Evaluate(script, &ok)); err != nil {
		return fmt.Errorf("failed to click element: %w", err)
	}
	if !ok {
		return fmt.Errorf("element no longer present")
	}
	return nil
}

func (c *Chrome) Type(ctx context.Context, h Handle, text string) error {
	var ok bool
	script := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		const tag = el.tagName;
		if (tag === 'TEXTAREA' || tag === 'INPUT') { el.value = %s; } else { el.innerText = %s; }
		el.dispatchEvent(new Event('input', {bubbles: true}));
		return true;
	})()`, h.Expr, jsString(text), jsString(text))
	if err := c.run(ctx, queryTimeout, chromedp.Evaluate(script, &ok)); err != nil {
		return fmt.Errorf("failed to type into element: %w", err)
	}
	if !ok {
		return fmt.Errorf("element no longer present")
	}
	return nil
}

func (c *Chrome) Text(ctx context.Context, h Handle) (string, bool) {
	var v *string
	script := fmt.Sprintf(`(() => { const el = %s; return el ? el.innerText : null; })()`, h.Expr)
	if err := c.run(ctx, queryTimeout, chromedp.Evaluate(script, &v)); err != nil || v == nil {
		return "", false
	}
	return strings.TrimSpace(*v), true
}

func (c *Chrome) Attr(ctx context.Context, h Handle, name string) (string, bool) {
	var v *string
	script := fmt.Sprintf(`(() => { const el = %s; return el ? el.getAttribute(%s) : null; })()`,
		h.Expr, jsString(name))
	if err := c.run(ctx, queryTimeout, chromedp.Evaluate(script, &v)); err != nil || v == nil {
		return "", false
	}
	return *v, true
}

func (c *Chrome) ScrollIntoView(ctx context.Context, h Handle) error {
	script := fmt.Sprintf(`(() => { const el = %s; if (el) el.scrollIntoView({behavior: 'smooth', block: 'center'}); })()`, h.Expr)
	return c.run(ctx, queryTimeout, chromedp.Evaluate(script, nil))
}

func (c *Chrome) Eval(ctx context.Context, script string, out any) error {
	return c.run(ctx, queryTimeout, chromedp.Evaluate(script, out))
}

// Cookies returns all cookies from the live session, for persisting the
// authenticated state across runs.
func (c *Chrome) Cookies(ctx context.Context) ([]*network.Cookie, error) {
	var cookies []*network.Cookie
	err := c.run(ctx, queryTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	return cookies, err
}

// InjectCookies sets cookies in the session before the first navigation.
func (c *Chrome) InjectCookies(ctx context.Context, cookies []*network.Cookie) error {
	return c.run(ctx, queryTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, ck := range cookies {
			err := network.SetCookie(ck.Name, ck.Value).
				WithDomain(ck.Domain).
				WithPath(ck.Path).
				WithSecure(ck.Secure).
				WithHTTPOnly(ck.HTTPOnly).
				WithSameSite(ck.SameSite).
				Do(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	}))
}

// jsString encodes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
