// internal/webdriver/cdpdriver/element.go
package cdpdriver

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

const (
	displayedFn = `function() {
	if (!this.isConnected) return false;
	const r = this.getBoundingClientRect();
	const s = window.getComputedStyle(this);
	return r.width > 0 && r.height > 0 && s.visibility !== 'hidden' && s.display !== 'none' && s.opacity !== '0';
}`

	enabledFn = `function() {
	return !this.disabled && this.getAttribute('aria-disabled') !== 'true';
}`

	textFn = `function() {
	return (this.innerText !== undefined ? this.innerText : this.textContent) || '';
}`

	// hitTestFn reports what a pointer at the element's centre would land on.
	hitTestFn = `function() {
	const r = this.getBoundingClientRect();
	if (r.width === 0 || r.height === 0) return 'hidden';
	const x = r.left + r.width / 2, y = r.top + r.height / 2;
	if (x < 0 || y < 0 || x > window.innerWidth || y > window.innerHeight) return 'offscreen';
	const hit = document.elementFromPoint(x, y);
	if (!hit || hit === this || this.contains(hit)) return 'ok';
	let desc = hit.tagName.toLowerCase();
	if (hit.id) desc += '#' + hit.id;
	if (typeof hit.className === 'string' && hit.className) desc += '.' + hit.className.trim().split(/\s+/).join('.');
	return 'covered:' + desc;
}`
)

// Element is a DOM node found in the driver's tab.
type Element struct {
	d    *Driver
	node *cdp.Node
}

var _ webdriver.Element = (*Element)(nil)

func (e *Element) call(ctx context.Context, decl string) (any, error) {
	return e.d.callFunction(ctx, decl, e, nil)
}

func (e *Element) callBool(ctx context.Context, decl string) (bool, error) {
	v, err := e.call(ctx, decl)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	return e.callBool(ctx, displayedFn)
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	return e.callBool(ctx, enabledFn)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	v, err := e.call(ctx, textFn)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// Click dispatches a real mouse click at the element's centre. It refuses when
// another element sits on top, which is what a user would hit instead.
func (e *Element) Click(ctx context.Context) error {
	v, err := e.call(ctx, hitTestFn)
	if err != nil {
		return err
	}
	result, _ := v.(string)
	if err := hitTestError(result); err != nil {
		return err
	}
	return e.d.run(ctx, chromedp.MouseClickNode(e.node))
}

func hitTestError(result string) error {
	switch {
	case result == "hidden":
		return fmt.Errorf("%w: element has an empty box", webdriver.ErrNotInteractable)
	case strings.HasPrefix(result, "covered:"):
		return fmt.Errorf("%w: other element would receive the click: %s",
			webdriver.ErrClickIntercepted, strings.TrimPrefix(result, "covered:"))
	default:
		// "ok" and "offscreen"; MouseClickNode scrolls the node into view itself.
		return nil
	}
}

func (e *Element) Clear(ctx context.Context) error {
	return e.d.run(ctx, chromedp.Clear([]cdp.NodeID{e.node.NodeID}, chromedp.ByNodeID))
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	return e.d.run(ctx, chromedp.SendKeys([]cdp.NodeID{e.node.NodeID}, text, chromedp.ByNodeID))
}
