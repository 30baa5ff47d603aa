// internal/interact/clicker.go
package interact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// Strategy is one way of delivering a click, ordered from least to most invasive.
type Strategy int

const (
	// Native is a plain driver click.
	Native Strategy = iota
	// ScrollNative scrolls the element into view, then clicks natively.
	ScrollNative
	// Script dispatches the click from JavaScript.
	Script
)

func (s Strategy) String() string {
	switch s {
	case Native:
		return "native"
	case ScrollNative:
		return "scroll_native"
	case Script:
		return "script"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// StrategyAttempt is the result of trying one strategy.
type StrategyAttempt struct {
	Strategy Strategy
	Err      error
}

// InteractionOutcome reports which strategy delivered the click. Attempts lists
// every strategy tried, in order, for diagnostics.
type InteractionOutcome struct {
	Strategy  Strategy
	Succeeded bool
	Attempts  []StrategyAttempt
}

func (o *InteractionOutcome) record(s Strategy, err error) {
	o.Attempts = append(o.Attempts, StrategyAttempt{Strategy: s, Err: err})
	if err == nil {
		o.Strategy = s
		o.Succeeded = true
	}
}

// Clicker clicks elements, escalating from a native click to a scripted one only
// after the gentler technique has failed.
type Clicker struct {
	drv       webdriver.Driver
	readiness *Readiness
	logger    *zap.Logger
}

// NewClicker builds a Clicker that waits through readiness before clicking.
func NewClicker(drv webdriver.Driver, readiness *Readiness, logger *zap.Logger) *Clicker {
	return &Clicker{drv: drv, readiness: readiness, logger: logger.Named("clicker")}
}

// Click waits for loc to become clickable and clicks it.
//
// Native click first. An intercepted, not-interactable, stale or other driver
// error moves on to scroll-into-view plus a native click, and a second failure
// moves on to a script click. If the element never becomes clickable, one script
// click is tried on any matching element before ElementNotReadyError is returned.
func (c *Clicker) Click(ctx context.Context, loc webdriver.Locator) (InteractionOutcome, error) {
	return c.click(ctx, loc, false)
}

// ClickWithScroll scrolls the element into view before the first native click.
// It is for targets known to sit below the fold.
func (c *Clicker) ClickWithScroll(ctx context.Context, loc webdriver.Locator) (InteractionOutcome, error) {
	return c.click(ctx, loc, true)
}

func (c *Clicker) click(ctx context.Context, loc webdriver.Locator, scrollFirst bool) (InteractionOutcome, error) {
	start := time.Now()
	var outcome InteractionOutcome

	el, err := c.readiness.WaitClickable(ctx, loc, 0)
	if err != nil {
		var notReady *ElementNotReadyError
		if !errors.As(err, &notReady) {
			return outcome, err
		}
		return c.scriptFallback(ctx, loc, notReady)
	}

	if scrollFirst {
		if _, err := c.drv.ExecuteScript(ctx, webdriver.ScrollIntoViewScript, el); err != nil && ctx.Err() == nil {
			c.logger.Debug("Pre-click scroll failed.", zap.Stringer("locator", loc), zap.Error(err))
		}
	}

	// 1. Native.
	err = el.Click(ctx)
	outcome.record(Native, err)
	if err == nil {
		c.logSuccess(loc, outcome)
		return outcome, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome, ctxErr
	}
	c.logger.Debug("Native click failed, escalating.", zap.Stringer("locator", loc), zap.Stringer("next", ScrollNative), zap.Error(err))

	// 2. Scroll into view, then native once more.
	el, err = c.refresh(ctx, loc, el, err)
	if err == nil {
		if _, err = c.drv.ExecuteScript(ctx, webdriver.ScrollIntoViewScript, el); err == nil {
			err = el.Click(ctx)
		}
	}
	outcome.record(ScrollNative, err)
	if err == nil {
		c.logSuccess(loc, outcome)
		return outcome, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome, ctxErr
	}
	c.logger.Debug("Scrolled native click failed, escalating.", zap.Stringer("locator", loc), zap.Stringer("next", Script), zap.Error(err))

	// 3. Script click on the latest handle.
	el, err = c.refresh(ctx, loc, el, err)
	if err == nil {
		_, err = c.drv.ExecuteScript(ctx, webdriver.ClickScript, el)
	}
	outcome.record(Script, err)
	if err == nil {
		c.logSuccess(loc, outcome)
		return outcome, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome, ctxErr
	}

	failure := &InteractionFailedError{Locator: loc, Attempts: outcome.Attempts, Elapsed: time.Since(start), Err: err}
	c.logger.Warn("All click strategies failed.", zap.Stringer("locator", loc), zap.Error(failure))
	return outcome, failure
}

// refresh re-locates the element when there is no handle or the previous
// failure says the handle went stale or the element vanished.
func (c *Clicker) refresh(ctx context.Context, loc webdriver.Locator, el webdriver.Element, lastErr error) (webdriver.Element, error) {
	if el != nil && !errors.Is(lastErr, webdriver.ErrStaleElement) && !errors.Is(lastErr, webdriver.ErrNoSuchElement) {
		return el, nil
	}
	els, err := c.drv.FindElements(ctx, loc)
	if err != nil {
		return nil, webdriver.Wrap(err)
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("re-locating %s: %w", loc, webdriver.ErrNoSuchElement)
	}
	return els[0], nil
}

// scriptFallback runs after the readiness wait expired. It script-clicks any
// matching element, visible or not, exactly once.
func (c *Clicker) scriptFallback(ctx context.Context, loc webdriver.Locator, notReady *ElementNotReadyError) (InteractionOutcome, error) {
	var outcome InteractionOutcome

	els, err := c.drv.FindElements(ctx, loc)
	if err != nil && !webdriver.IsTransient(err) {
		notReady.Fallback = err
		return outcome, notReady
	}
	if len(els) == 0 {
		return outcome, notReady
	}

	c.logger.Debug("Element never became clickable, trying a script click.", zap.Stringer("locator", loc), zap.Duration("waited", notReady.Waited))
	_, err = c.drv.ExecuteScript(ctx, webdriver.ClickScript, els[0])
	outcome.record(Script, err)
	if err != nil {
		notReady.Fallback = err
		return outcome, notReady
	}
	c.logSuccess(loc, outcome)
	return outcome, nil
}

func (c *Clicker) logSuccess(loc webdriver.Locator, outcome InteractionOutcome) {
	log := c.logger.Debug
	if outcome.Strategy != Native {
		log = c.logger.Info
	}
	log("Click delivered.",
		zap.Stringer("locator", loc),
		zap.Stringer("strategy", outcome.Strategy),
		zap.Int("strategies_tried", len(outcome.Attempts)))
}
