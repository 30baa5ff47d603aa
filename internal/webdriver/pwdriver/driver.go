// internal/webdriver/pwdriver/driver.go

// Package pwdriver runs the suite on Playwright-managed browsers.
package pwdriver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/config"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

const (
	installTimeout = 5 * time.Minute
	launchTimeout  = 60 * time.Second
	// nativeClickTimeout caps Playwright's own actionability wait, so a covered
	// element fails fast and the caller can escalate.
	nativeClickTimeout = 2 * time.Second
)

// Driver is a webdriver.Driver on a single Playwright page.
type Driver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	logger  *zap.Logger

	quitOnce sync.Once
	quitErr  error
}

var _ webdriver.Driver = (*Driver)(nil)

// Open starts the Playwright driver, launches the configured browser and opens one page.
func Open(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Driver, error) {
	log := logger.Named("playwright")

	if cfg.Playwright.Install {
		if err := ensureInstallation(ctx, log, browserName(cfg)); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright driver: %w", err)
	}

	browserType, err := pickBrowserType(pw, browserName(cfg))
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}

	browser, err := browserType.Launch(LaunchOptions(cfg))
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser instance: %w", err)
	}

	page, err := browser.NewPage(PageOptions(cfg))
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	if cfg.Stealth.Enabled {
		if err := page.AddInitScript(playwright.Script{Content: playwright.String(webdriver.HideAutomationScript)}); err != nil {
			_ = browser.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("applying stealth settings: %w", err)
		}
	}
	if cfg.PageLoadTimeout > 0 {
		page.SetDefaultNavigationTimeout(float64(cfg.PageLoadTimeout.Milliseconds()))
	}

	log.Debug("Browser launched.", zap.String("browser", browserName(cfg)), zap.String("version", browser.Version()))
	return &Driver{pw: pw, browser: browser, page: page, logger: log}, nil
}

func browserName(cfg config.BrowserConfig) string {
	if cfg.Playwright.Browser == "" {
		return "chromium"
	}
	return cfg.Playwright.Browser
}

func pickBrowserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case "chromium":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unknown playwright browser %q", name)
	}
}

// ensureInstallation downloads the browser if needed. The install call blocks,
// so it runs in a goroutine and is abandoned once ctx or the install timeout ends.
func ensureInstallation(ctx context.Context, logger *zap.Logger, browser string) error {
	logger.Info("Verifying Playwright browser installation...", zap.String("browser", browser))
	installCtx, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()

	installErr := make(chan error, 1)
	go func() {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{browser}}); err != nil {
			installErr <- fmt.Errorf("failed to install playwright browsers: %w", err)
			return
		}
		installErr <- nil
	}()

	select {
	case err := <-installErr:
		return err
	case <-installCtx.Done():
		return fmt.Errorf("timeout waiting for Playwright installation: %w", installCtx.Err())
	}
}

// LaunchOptions merges container-friendly defaults with the configured args.
func LaunchOptions(cfg config.BrowserConfig) playwright.BrowserTypeLaunchOptions {
	args := []string{
		"--disable-gpu",
		"--no-sandbox",
		"--disable-dev-shm-usage",
	}
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Timeout:  playwright.Float(float64(launchTimeout.Milliseconds())),
	}
	if cfg.Stealth.Enabled {
		args = append(args, "--disable-blink-features=AutomationControlled")
		opts.IgnoreDefaultArgs = []string{"--enable-automation"}
	} else {
		args = append(args, "--enable-automation")
	}
	opts.Args = append(args, cfg.Args...)
	if cfg.BinaryPath != "" {
		opts.ExecutablePath = playwright.String(cfg.BinaryPath)
	}
	return opts
}

// PageOptions sizes the page and, with stealth on, sets the persona the page presents.
func PageOptions(cfg config.BrowserConfig) playwright.BrowserNewPageOptions {
	opts := playwright.BrowserNewPageOptions{}
	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		opts.Viewport = &playwright.Size{Width: cfg.WindowWidth, Height: cfg.WindowHeight}
	}
	if st := cfg.Stealth; st.Enabled {
		if st.UserAgent != "" {
			opts.UserAgent = playwright.String(st.UserAgent)
		}
		if st.Locale != "" {
			opts.Locale = playwright.String(st.Locale)
		}
		if st.Timezone != "" {
			opts.TimezoneId = playwright.String(st.Timezone)
		}
	}
	return opts
}

// Selector translates a locator into a Playwright selector with an explicit engine.
func Selector(loc webdriver.Locator) string {
	if css, ok := loc.CSSSelector(); ok {
		return "css=" + css
	}
	return "xpath=" + loc.Value
}

// scriptExpression wraps a WebDriver-style body so arguments[n] resolves to the
// n-th element of the evaluation argument.
func scriptExpression(body string) string {
	return "(args) => (function() {\n" + body + "\n}).apply(null, args)"
}

// clickTimeout bounds a native click by both nativeClickTimeout and ctx's deadline.
func clickTimeout(ctx context.Context) float64 {
	timeout := nativeClickTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout < time.Millisecond {
		timeout = time.Millisecond
	}
	return float64(timeout.Milliseconds())
}

func mapError(err error) error {
	return webdriver.Wrap(err)
}

func (d *Driver) FindElements(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := d.page.QuerySelectorAll(Selector(loc))
	if err != nil {
		return nil, mapError(err)
	}
	els := make([]webdriver.Element, 0, len(handles))
	for _, h := range handles {
		els = append(els, &Element{h: h})
	}
	return els, nil
}

func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	evalArgs := make([]interface{}, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case *Element:
			evalArgs[i] = v.h
		case webdriver.Element:
			return nil, fmt.Errorf("argument %d is an element from another driver (%T)", i, v)
		default:
			evalArgs[i] = v
		}
	}
	res, err := d.page.Evaluate(scriptExpression(script), evalArgs)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.page.URL(), nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	title, err := d.page.Title()
	return title, mapError(err)
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Goto(url, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateLoad})
	return mapError(err)
}

func (d *Driver) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Reload()
	return mapError(err)
}

func (d *Driver) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := d.page.Content()
	return html, mapError(err)
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	png, err := d.page.Screenshot(playwright.PageScreenshotOptions{FullPage: playwright.Bool(true)})
	return png, mapError(err)
}

// Quit closes the browser and stops the Playwright driver process.
func (d *Driver) Quit() error {
	d.quitOnce.Do(func() {
		var errs []error
		if err := d.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing browser: %w", err))
		}
		if err := d.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stopping playwright: %w", err))
		}
		d.quitErr = errors.Join(errs...)
	})
	return d.quitErr
}

// Element adapts a Playwright element handle.
type Element struct {
	h playwright.ElementHandle
}

var _ webdriver.Element = (*Element)(nil)

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := e.h.IsVisible()
	return ok, mapError(err)
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := e.h.IsEnabled()
	return ok, mapError(err)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := e.h.InnerText()
	return text, mapError(err)
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := e.h.Click(playwright.ElementHandleClickOptions{Timeout: playwright.Float(clickTimeout(ctx))})
	return mapError(err)
}

func (e *Element) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.h.Fill(""))
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.h.Type(text))
}
