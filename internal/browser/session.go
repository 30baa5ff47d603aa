// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/config"
	"github.com/xkilldash9x/storefront-e2e/internal/interact"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// Options are fixed for the lifetime of a Session.
type Options struct {
	Timing          interact.Timing
	ArtifactsDir    string
	PageLoadTimeout time.Duration
}

// OptionsFromConfig derives session options from the suite configuration.
func OptionsFromConfig(cfg config.Interface) Options {
	return Options{
		Timing:          TimingFromConfig(cfg.Wait()),
		ArtifactsDir:    cfg.Artifacts().Dir,
		PageLoadTimeout: cfg.Browser().PageLoadTimeout,
	}
}

func TimingFromConfig(w config.WaitConfig) interact.Timing {
	return interact.Timing{
		Explicit:        w.Explicit,
		PollInterval:    w.PollInterval,
		ConfirmTimeout:  w.ConfirmTimeout,
		ConfirmAttempts: w.ConfirmAttempts,
		RetryDelay:      w.RetryDelay,
	}
}

// Session is one browser, exclusively owned by one scenario. Page objects reach
// the readiness, click, confirmation and typing capabilities through it.
type Session struct {
	id     string
	driver webdriver.Driver
	opts   Options
	logger *zap.Logger

	readiness *interact.Readiness
	clicker   *interact.Clicker
	gate      *interact.Gate
	typist    *interact.Typist

	closeOnce sync.Once
	closeErr  error
	onClose   func()
}

// NewSession wraps drv. The session takes ownership: Close quits drv.
func NewSession(drv webdriver.Driver, opts Options, logger *zap.Logger) *Session {
	id := uuid.New().String()
	log := logger.With(zap.String("session_id", id))

	readiness := interact.NewReadiness(drv, opts.Timing, log)
	return &Session{
		id:        id,
		driver:    drv,
		opts:      opts,
		logger:    log,
		readiness: readiness,
		clicker:   interact.NewClicker(drv, readiness, log),
		gate:      interact.NewGate(opts.Timing, log),
		typist:    interact.NewTypist(drv, readiness, log),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Driver() webdriver.Driver { return s.driver }

func (s *Session) Logger() *zap.Logger { return s.logger }

func (s *Session) Timing() interact.Timing { return s.opts.Timing }

// SetOnClose registers a callback run once, after the driver has quit.
func (s *Session) SetOnClose(callback func()) {
	s.onClose = callback
}

// Close quits the browser. Only the first call does anything; later calls
// return the same result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.logger.Debug("Closing session.")
		if err := s.driver.Quit(); err != nil {
			s.closeErr = fmt.Errorf("quitting browser for session %s: %w", s.id, err)
			s.logger.Warn("Browser did not quit cleanly.", zap.Error(err))
		}
		if s.onClose != nil {
			s.onClose()
		}
	})
	return s.closeErr
}

// -- Navigation --

// Navigate loads url, bounded by the configured page-load timeout.
func (s *Session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := s.pageLoadContext(ctx)
	defer cancel()

	s.logger.Debug("Navigating.", zap.String("url", url))
	if err := s.driver.Navigate(navCtx, url); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Refresh reloads the current page, bounded by the page-load timeout.
func (s *Session) Refresh(ctx context.Context) error {
	navCtx, cancel := s.pageLoadContext(ctx)
	defer cancel()

	if err := s.driver.Refresh(navCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("refreshing page: %w", err)
	}
	return nil
}

func (s *Session) pageLoadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.PageLoadTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.PageLoadTimeout)
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	return s.driver.CurrentURL(ctx)
}

func (s *Session) Title(ctx context.Context) (string, error) {
	return s.driver.Title(ctx)
}

// -- Element access --

func (s *Session) FindElements(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error) {
	els, err := s.driver.FindElements(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", loc, err)
	}
	return els, nil
}

func (s *Session) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	return s.driver.ExecuteScript(ctx, script, args...)
}

func (s *Session) WaitVisible(ctx context.Context, loc webdriver.Locator, timeout time.Duration) (webdriver.Element, error) {
	return s.readiness.WaitVisible(ctx, loc, timeout)
}

func (s *Session) WaitClickable(ctx context.Context, loc webdriver.Locator, timeout time.Duration) (webdriver.Element, error) {
	return s.readiness.WaitClickable(ctx, loc, timeout)
}

func (s *Session) WaitPresent(ctx context.Context, loc webdriver.Locator, timeout time.Duration) (webdriver.Element, error) {
	return s.readiness.WaitPresent(ctx, loc, timeout)
}

func (s *Session) WaitAnyVisible(ctx context.Context, timeout time.Duration, alts ...webdriver.Locator) (webdriver.Element, webdriver.Locator, error) {
	return s.readiness.WaitAnyVisible(ctx, timeout, alts...)
}

func (s *Session) WaitGone(ctx context.Context, loc webdriver.Locator, timeout time.Duration) error {
	return s.readiness.WaitGone(ctx, loc, timeout)
}

func (s *Session) WaitTitleContains(ctx context.Context, fragment string, timeout time.Duration) (string, error) {
	return s.readiness.WaitTitleContains(ctx, fragment, timeout)
}

func (s *Session) IsPresent(ctx context.Context, loc webdriver.Locator) (bool, error) {
	return s.readiness.IsPresent(ctx, loc)
}

func (s *Session) IsVisible(ctx context.Context, loc webdriver.Locator) (bool, error) {
	return s.readiness.IsVisible(ctx, loc)
}

// -- Interaction --

func (s *Session) Click(ctx context.Context, loc webdriver.Locator) (interact.InteractionOutcome, error) {
	return s.clicker.Click(ctx, loc)
}

func (s *Session) ClickWithScroll(ctx context.Context, loc webdriver.Locator) (interact.InteractionOutcome, error) {
	return s.clicker.ClickWithScroll(ctx, loc)
}

func (s *Session) SendKeysWhenReady(ctx context.Context, loc webdriver.Locator, text string) error {
	return s.typist.SendKeysWhenReady(ctx, loc, text)
}

func (s *Session) TextOf(ctx context.Context, loc webdriver.Locator) (string, error) {
	return s.typist.TextOf(ctx, loc)
}

func (s *Session) ConfirmEffect(ctx context.Context, cond interact.Condition, timeout time.Duration) (bool, error) {
	return s.gate.ConfirmEffect(ctx, cond, timeout)
}

func (s *Session) RunAction(ctx context.Context, action interact.Action) (interact.ActionReport, error) {
	return s.gate.Run(ctx, action)
}
