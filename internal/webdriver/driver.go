// internal/webdriver/driver.go
package webdriver

import "context"

// Driver is the browser automation capability the rest of the suite is written against.
// Implementations live in the cdpdriver, seleniumdriver and pwdriver packages.
//
// Scripts passed to ExecuteScript follow the WebDriver convention: the body of an
// anonymous function whose parameters are available as arguments[0..n]. Element
// arguments must be Elements returned by the same Driver.
type Driver interface {
	// FindElements returns every element matching loc. It returns an empty slice,
	// never an error, when nothing matches.
	FindElements(ctx context.Context, loc Locator) ([]Element, error)
	ExecuteScript(ctx context.Context, script string, args ...any) (any, error)

	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Navigate(ctx context.Context, url string) error
	Refresh(ctx context.Context) error

	PageSource(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)

	// Quit releases the browser process. Later calls return the first result.
	Quit() error
}

// Element is a handle to a DOM element. Handles go stale when the page re-renders;
// operations on a stale handle return an error matching ErrStaleElement.
type Element interface {
	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	Text(ctx context.Context) (string, error)
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
}

// Shared scripts. Every backend binds arguments[0] to the element argument.
const (
	ClickScript          = "arguments[0].click();"
	ScrollIntoViewScript = "arguments[0].scrollIntoView({block: 'center', inline: 'nearest'});"
	ClearScript          = `const el = arguments[0];
el.value = '';
el.dispatchEvent(new Event('input', { bubbles: true }));
el.dispatchEvent(new Event('change', { bubbles: true }));`
)

// HideAutomationScript runs before any page script and removes the markers
// bot checks look for first.
const HideAutomationScript = `(() => {
  Object.defineProperty(Navigator.prototype, 'webdriver', { get: () => undefined, configurable: true });
  if (!window.chrome) { window.chrome = { runtime: {} }; }
})();`
