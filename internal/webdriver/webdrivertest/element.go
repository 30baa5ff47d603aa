// internal/webdriver/webdrivertest/element.go
package webdrivertest

import (
	"context"
	"sync"

	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// Element is a fake DOM element. The zero value is not usable; use NewElement.
type Element struct {
	name string

	mu        sync.Mutex
	owner     *Driver
	displayed bool
	enabled   bool
	stale     bool
	text      string
	value     string

	clickErrs       []error
	scriptClickErrs []error
	clearErrs       []error
	onClick         func()

	nativeClicks int
	scriptClicks int
	scrolls      int
}

var _ webdriver.Element = (*Element)(nil)

// NewElement returns a visible, enabled element. name shows up in Events.
func NewElement(name string) *Element {
	return &Element{name: name, displayed: true, enabled: true}
}

func (e *Element) Name() string { return e.name }

func (e *Element) WithText(text string) *Element {
	e.SetText(text)
	return e
}

func (e *Element) Hidden() *Element {
	e.SetDisplayed(false)
	return e
}

func (e *Element) Disabled() *Element {
	e.SetEnabled(false)
	return e
}

func (e *Element) SetDisplayed(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.displayed = v
}

func (e *Element) SetEnabled(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = v
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

// SetStale makes every subsequent operation return webdriver.ErrStaleElement.
func (e *Element) SetStale(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stale = v
}

// FailClicks queues errors returned by successive native clicks.
func (e *Element) FailClicks(errs ...error) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clickErrs = append(e.clickErrs, errs...)
	return e
}

// FailScriptClicks queues errors returned by successive script clicks.
func (e *Element) FailScriptClicks(errs ...error) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scriptClickErrs = append(e.scriptClickErrs, errs...)
	return e
}

func (e *Element) FailClears(errs ...error) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearErrs = append(e.clearErrs, errs...)
	return e
}

// OnClick registers the page's reaction to a successful click, native or scripted.
func (e *Element) OnClick(fn func()) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onClick = fn
	return e
}

func (e *Element) NativeClicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nativeClicks
}

func (e *Element) ScriptClicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scriptClicks
}

func (e *Element) Scrolls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scrolls
}

// Value returns the text typed into the element.
func (e *Element) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

func (e *Element) attach(d *Driver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.owner = d
}

func (e *Element) record(event string) {
	e.mu.Lock()
	owner := e.owner
	e.mu.Unlock()
	if owner != nil {
		owner.record(event + ":" + e.name)
	}
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return false, webdriver.ErrStaleElement
	}
	return e.displayed, nil
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return false, webdriver.ErrStaleElement
	}
	return e.enabled, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return "", webdriver.ErrStaleElement
	}
	return e.text, nil
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.record("native-click")

	e.mu.Lock()
	if e.stale {
		e.mu.Unlock()
		return webdriver.ErrStaleElement
	}
	if len(e.clickErrs) > 0 {
		err := e.clickErrs[0]
		e.clickErrs = e.clickErrs[1:]
		e.mu.Unlock()
		return err
	}
	if !e.displayed || !e.enabled {
		e.mu.Unlock()
		return webdriver.ErrNotInteractable
	}
	e.nativeClicks++
	fn := e.onClick
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return webdriver.ErrStaleElement
	}
	if len(e.clearErrs) > 0 {
		err := e.clearErrs[0]
		e.clearErrs = e.clearErrs[1:]
		return err
	}
	e.value = ""
	return nil
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return webdriver.ErrStaleElement
	}
	if !e.displayed || !e.enabled {
		return webdriver.ErrNotInteractable
	}
	e.value += text
	return nil
}

func (e *Element) scriptClick() error {
	e.record("script-click")

	e.mu.Lock()
	if e.stale {
		e.mu.Unlock()
		return webdriver.ErrStaleElement
	}
	if len(e.scriptClickErrs) > 0 {
		err := e.scriptClickErrs[0]
		e.scriptClickErrs = e.scriptClickErrs[1:]
		e.mu.Unlock()
		return err
	}
	e.scriptClicks++
	fn := e.onClick
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

func (e *Element) scroll() error {
	e.record("scroll")

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return webdriver.ErrStaleElement
	}
	e.scrolls++
	return nil
}

func (e *Element) scriptClear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return webdriver.ErrStaleElement
	}
	e.value = ""
	return nil
}
