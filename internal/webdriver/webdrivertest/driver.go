// internal/webdriver/webdrivertest/driver.go

// Package webdrivertest provides an in-memory webdriver.Driver for tests.
// Pages are modelled as a map from locator to elements that tests mutate
// directly or through hooks that fire on clicks, scripts and navigation.
package webdrivertest

import (
	"context"
	"fmt"
	"sync"

	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// ScriptCall records one ExecuteScript invocation.
type ScriptCall struct {
	Script string
	Args   []any
}

// Driver is a scriptable, concurrency-safe fake browser.
type Driver struct {
	mu       sync.Mutex
	elements map[webdriver.Locator][]*Element
	finders  map[webdriver.Locator]func(call int) ([]*Element, error)
	finds    map[webdriver.Locator]int
	scripts  []ScriptCall
	events   []string

	url     string
	title   string
	source  string
	history []string

	screenshot    []byte
	screenshotErr error
	sourceErr     error

	quits   int
	quitErr error

	scriptHook   func(script string, args []any) (any, bool, error)
	navigateHook func(url string)
	refreshHook  func()
}

var _ webdriver.Driver = (*Driver)(nil)

// New returns an empty page at about:blank.
func New() *Driver {
	return &Driver{
		elements:   make(map[webdriver.Locator][]*Element),
		finders:    make(map[webdriver.Locator]func(int) ([]*Element, error)),
		finds:      make(map[webdriver.Locator]int),
		url:        "about:blank",
		screenshot: []byte("\x89PNG fake"),
		source:     "<html><body></body></html>",
	}
}

// Set replaces the elements matched by loc.
func (d *Driver) Set(loc webdriver.Locator, els ...*Element) {
	for _, el := range els {
		el.attach(d)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[loc] = els
}

// Add appends elements to those matched by loc.
func (d *Driver) Add(loc webdriver.Locator, els ...*Element) {
	for _, el := range els {
		el.attach(d)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[loc] = append(d.elements[loc], els...)
}

// Remove makes loc match nothing.
func (d *Driver) Remove(loc webdriver.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, loc)
	delete(d.finders, loc)
}

// OnFind installs a dynamic lookup for loc. call counts from 1 per locator.
func (d *Driver) OnFind(loc webdriver.Locator, fn func(call int) ([]*Element, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.finders[loc] = fn
}

// OnScript installs a hook consulted before the built-in scripts. Returning
// handled == false falls through to the built-ins.
func (d *Driver) OnScript(fn func(script string, args []any) (result any, handled bool, err error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scriptHook = fn
}

func (d *Driver) OnNavigate(fn func(url string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navigateHook = fn
}

func (d *Driver) OnRefresh(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refreshHook = fn
}

// SetPage sets what CurrentURL, Title and PageSource report.
func (d *Driver) SetPage(url, title, source string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url, d.title, d.source = url, title, source
}

func (d *Driver) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
}

// FailScreenshot makes Screenshot return err.
func (d *Driver) FailScreenshot(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.screenshotErr = err
}

// FailPageSource makes PageSource return err.
func (d *Driver) FailPageSource(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sourceErr = err
}

func (d *Driver) FailQuit(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.quitErr = err
}

// Scripts returns a copy of every script executed so far.
func (d *Driver) Scripts() []ScriptCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ScriptCall, len(d.scripts))
	copy(out, d.scripts)
	return out
}

// Events returns the ordered interaction log, e.g. "native-click:add", "scroll:add".
func (d *Driver) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.events))
	copy(out, d.events)
	return out
}

// FindCount reports how many times loc was looked up.
func (d *Driver) FindCount(loc webdriver.Locator) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finds[loc]
}

func (d *Driver) QuitCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quits
}

func (d *Driver) History() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.history...)
}

func (d *Driver) record(event string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *Driver) FindElements(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.finds[loc]++
	call := d.finds[loc]
	finder := d.finders[loc]
	static := append([]*Element(nil), d.elements[loc]...)
	d.mu.Unlock()

	els := static
	if finder != nil {
		dynamic, err := finder(call)
		if err != nil {
			return nil, err
		}
		for _, el := range dynamic {
			el.attach(d)
		}
		els = dynamic
	}

	out := make([]webdriver.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.scripts = append(d.scripts, ScriptCall{Script: script, Args: args})
	hook := d.scriptHook
	d.mu.Unlock()

	if hook != nil {
		if res, handled, err := hook(script, args); handled {
			return res, err
		}
	}

	var target *Element
	if len(args) > 0 {
		target, _ = args[0].(*Element)
	}

	switch script {
	case webdriver.ClickScript:
		if target == nil {
			return nil, fmt.Errorf("click script needs an element argument")
		}
		return nil, target.scriptClick()
	case webdriver.ScrollIntoViewScript:
		if target == nil {
			return nil, fmt.Errorf("scroll script needs an element argument")
		}
		return nil, target.scroll()
	case webdriver.ClearScript:
		if target == nil {
			return nil, fmt.Errorf("clear script needs an element argument")
		}
		return nil, target.scriptClear()
	}
	return nil, nil
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title, nil
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	d.url = url
	d.history = append(d.history, url)
	hook := d.navigateHook
	d.mu.Unlock()

	d.record("navigate:" + url)
	if hook != nil {
		hook(url)
	}
	return nil
}

func (d *Driver) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	hook := d.refreshHook
	d.mu.Unlock()

	d.record("refresh")
	if hook != nil {
		hook()
	}
	return nil
}

func (d *Driver) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sourceErr != nil {
		return "", d.sourceErr
	}
	return d.source, nil
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.screenshotErr != nil {
		return nil, d.screenshotErr
	}
	return append([]byte(nil), d.screenshot...), nil
}

func (d *Driver) Quit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.quits++
	return d.quitErr
}
