// Package browsertest provides a scripted in-memory Driver for exercising
// the engine without a live browser.
package browsertest

import (
	"context"
	"fmt"
	"time"

	"github.com/ajrudell/engagekit/internal/browser"
)

// Element is one scripted DOM element. Children maps a CSS query to the
// elements it would match within this element.
type Element struct {
	Text     string
	NoText   bool // Text lookups report not-found
	Attrs    map[string]string
	Children map[string][]*Element

	ClickErr error
	// OnClick, when set, runs on every successful click so tests can flip
	// scripted page state.
	OnClick func()

	Clicks int
	Typed  []string
}

// Driver is a scripted browser.Driver. Document-level queries resolve
// through Doc; label-based queries through ByText, keyed "query|text".
type Driver struct {
	Doc     map[string][]*Element
	ByText  map[string][]*Element
	Visible map[string]bool

	URL         string
	Navigations []string
	Refreshes   int
	NavErr      error
	// NavErrs fails navigation to specific URLs only.
	NavErrs map[string]error

	// EvalFn, when set, answers Eval calls. Unscripted scripts are no-ops.
	EvalFn func(script string, out any) error

	handles map[string]*Element
	next    int
}

func New() *Driver {
	return &Driver{
		Doc:     map[string][]*Element{},
		ByText:  map[string][]*Element{},
		Visible: map[string]bool{},
		handles: map[string]*Element{},
	}
}

func (d *Driver) register(el *Element) browser.Handle {
	d.next++
	key := fmt.Sprintf("el-%d", d.next)
	d.handles[key] = el
	return browser.Handle{Expr: key}
}

func (d *Driver) element(h browser.Handle) *Element {
	return d.handles[h.Expr]
}

func (d *Driver) registerAll(els []*Element) []browser.Handle {
	handles := make([]browser.Handle, len(els))
	for i, el := range els {
		handles[i] = d.register(el)
	}
	return handles
}

func (d *Driver) Navigate(_ context.Context, url string) error {
	if d.NavErr != nil {
		return d.NavErr
	}
	if err := d.NavErrs[url]; err != nil {
		return err
	}
	d.Navigations = append(d.Navigations, url)
	d.URL = url
	return nil
}

func (d *Driver) Refresh(context.Context) error {
	d.Refreshes++
	return nil
}

func (d *Driver) WaitVisible(_ context.Context, query string, _ time.Duration) bool {
	return d.Visible[query]
}

func (d *Driver) FindAll(_ context.Context, query string) ([]browser.Handle, error) {
	return d.registerAll(d.Doc[query]), nil
}

func (d *Driver) FindWithin(_ context.Context, h browser.Handle, query string) (browser.Handle, bool) {
	el := d.element(h)
	if el == nil || len(el.Children[query]) == 0 {
		return browser.Handle{}, false
	}
	return d.register(el.Children[query][0]), true
}

func (d *Driver) FindAllWithin(_ context.Context, h browser.Handle, query string) ([]browser.Handle, error) {
	el := d.element(h)
	if el == nil {
		return nil, nil
	}
	return d.registerAll(el.Children[query]), nil
}

func (d *Driver) FindAllByText(_ context.Context, query, text string) ([]browser.Handle, error) {
	return d.registerAll(d.ByText[query+"|"+text]), nil
}

func (d *Driver) Click(_ context.Context, h browser.Handle) error {
	el := d.element(h)
	if el == nil {
		return fmt.Errorf("element no longer present")
	}
	if el.ClickErr != nil {
		return el.ClickErr
	}
	el.Clicks++
	if el.OnClick != nil {
		el.OnClick()
	}
	return nil
}

func (d *Driver) Type(_ context.Context, h browser.Handle, text string) error {
	el := d.element(h)
	if el == nil {
		return fmt.Errorf("element no longer present")
	}
	el.Typed = append(el.Typed, text)
	return nil
}

func (d *Driver) Text(_ context.Context, h browser.Handle) (string, bool) {
	el := d.element(h)
	if el == nil || el.NoText {
		return "", false
	}
	return el.Text, true
}

func (d *Driver) Attr(_ context.Context, h browser.Handle, name string) (string, bool) {
	el := d.element(h)
	if el == nil {
		return "", false
	}
	v, ok := el.Attrs[name]
	return v, ok
}

func (d *Driver) ScrollIntoView(context.Context, browser.Handle) error {
	return nil
}

func (d *Driver) Eval(_ context.Context, script string, out any) error {
	if d.EvalFn != nil {
		return d.EvalFn(script, out)
	}
	return nil
}
