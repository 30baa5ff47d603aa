// internal/webdriver/seleniumdriver/driver.go

// Package seleniumdriver speaks the W3C WebDriver wire protocol to chromedriver
// or a Selenium grid through tebeka/selenium.
package seleniumdriver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/config"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

const defaultDriverPort = 9515

// Driver adapts a selenium.WebDriver. The wire client has no context support,
// so ctx is checked around every call rather than interrupting it.
type Driver struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *zap.Logger

	quitOnce sync.Once
	quitErr  error
}

var _ webdriver.Driver = (*Driver)(nil)

// New wraps an existing remote session. service may be nil; when set it is
// stopped on Quit.
func New(wd selenium.WebDriver, service *selenium.Service, logger *zap.Logger) *Driver {
	return &Driver{wd: wd, service: service, logger: logger.Named("selenium")}
}

// Capabilities builds the session request for cfg.
func Capabilities(cfg config.BrowserConfig) selenium.Capabilities {
	name := cfg.Selenium.BrowserName
	if name == "" {
		name = "chrome"
	}
	caps := selenium.Capabilities{"browserName": name}

	args := []string{"--no-sandbox", "--disable-dev-shm-usage", "--disable-gpu"}
	if cfg.Headless {
		args = append(args, "--headless=new")
	}
	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		args = append(args, fmt.Sprintf("--window-size=%d,%d", cfg.WindowWidth, cfg.WindowHeight))
	}
	var exclude []string
	if st := cfg.Stealth; st.Enabled {
		args = append(args, "--disable-blink-features=AutomationControlled")
		if st.UserAgent != "" {
			args = append(args, "--user-agent="+st.UserAgent)
		}
		if st.Locale != "" {
			args = append(args, "--lang="+st.Locale)
		}
		exclude = []string{"enable-automation"}
	}
	args = append(args, cfg.Args...)

	caps.AddChrome(chrome.Capabilities{Path: cfg.BinaryPath, Args: args, ExcludeSwitches: exclude})
	return caps
}

// Open starts a local chromedriver when a driver path is configured, otherwise
// it connects to the remote endpoint in cfg.Selenium.URL.
func Open(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var service *selenium.Service
	url := cfg.Selenium.URL
	if cfg.Selenium.DriverPath != "" {
		port := cfg.Selenium.Port
		if port == 0 {
			port = defaultDriverPort
		}
		svc, err := selenium.NewChromeDriverService(cfg.Selenium.DriverPath, port)
		if err != nil {
			return nil, fmt.Errorf("failed to start chromedriver: %w", err)
		}
		service = svc
		url = fmt.Sprintf("http://localhost:%d/wd/hub", port)
	}

	wd, err := selenium.NewRemote(Capabilities(cfg), url)
	if err != nil {
		if service != nil {
			_ = service.Stop()
		}
		return nil, fmt.Errorf("failed to open webdriver session at %s: %w", url, err)
	}

	d := New(wd, service, logger)
	// Waiting belongs to the poller; implicit waits would stretch every lookup.
	if err := wd.SetImplicitWaitTimeout(0); err != nil {
		d.logger.Debug("Could not clear implicit wait.", zap.Error(err))
	}
	if cfg.PageLoadTimeout > 0 {
		if err := wd.SetPageLoadTimeout(cfg.PageLoadTimeout); err != nil {
			d.logger.Debug("Could not set page load timeout.", zap.Error(err))
		}
	}

	if err := ctx.Err(); err != nil {
		_ = d.Quit()
		return nil, err
	}
	d.logger.Debug("WebDriver session opened.", zap.String("url", url))
	return d, nil
}

// mapError attaches the matching sentinel to a wire error. The W3C error code
// is preferred over the free-text message.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var wireErr *selenium.Error
	if errors.As(err, &wireErr) {
		if sentinel := webdriver.Classify(wireErr.Err); sentinel != nil {
			return fmt.Errorf("%w: %v", sentinel, err)
		}
	}
	return webdriver.Wrap(err)
}

func byFor(loc webdriver.Locator) (by, value string) {
	switch loc.Strategy {
	case webdriver.ByID:
		return selenium.ByID, loc.Value
	case webdriver.ByClassName:
		return selenium.ByClassName, loc.Value
	case webdriver.ByXPath:
		return selenium.ByXPATH, loc.Value
	default:
		return selenium.ByCSSSelector, loc.Value
	}
}

func (d *Driver) FindElements(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	by, value := byFor(loc)
	found, err := d.wd.FindElements(by, value)
	if err != nil {
		mapped := mapError(err)
		if errors.Is(mapped, webdriver.ErrNoSuchElement) {
			return nil, nil
		}
		return nil, mapped
	}

	els := make([]webdriver.Element, 0, len(found))
	for _, we := range found {
		els = append(els, &Element{we: we})
	}
	return els, nil
}

func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wireArgs := make([]interface{}, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case *Element:
			wireArgs[i] = v.we
		case webdriver.Element:
			return nil, fmt.Errorf("argument %d is an element from another driver (%T)", i, v)
		default:
			wireArgs[i] = v
		}
	}
	res, err := d.wd.ExecuteScript(script, wireArgs)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	url, err := d.wd.CurrentURL()
	return url, mapError(err)
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	title, err := d.wd.Title()
	return title, mapError(err)
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(d.wd.Get(url))
}

func (d *Driver) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(d.wd.Refresh())
}

func (d *Driver) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := d.wd.PageSource()
	return src, mapError(err)
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	png, err := d.wd.Screenshot()
	return png, mapError(err)
}

// Quit ends the remote session and stops the local chromedriver, if any.
func (d *Driver) Quit() error {
	d.quitOnce.Do(func() {
		var errs []error
		if err := d.wd.Quit(); err != nil {
			errs = append(errs, fmt.Errorf("ending webdriver session: %w", err))
		}
		if d.service != nil {
			if err := d.service.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("stopping chromedriver: %w", err))
			}
		}
		d.quitErr = errors.Join(errs...)
	})
	return d.quitErr
}

// Element adapts a selenium.WebElement.
type Element struct {
	we selenium.WebElement
}

var _ webdriver.Element = (*Element)(nil)

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := e.we.IsDisplayed()
	return ok, mapError(err)
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := e.we.IsEnabled()
	return ok, mapError(err)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := e.we.Text()
	return text, mapError(err)
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.we.Click())
}

func (e *Element) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.we.Clear())
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.we.SendKeys(text))
}
