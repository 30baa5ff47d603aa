// internal/pages/pages.go

// Package pages holds what every page object shares: the browser capability
// set it is built on and a few lookups that several sites need.
package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/browser"
	"github.com/xkilldash9x/storefront-e2e/internal/interact"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// Browser is the capability set a page object is composed over.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	Refresh(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)

	FindElements(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error)
	ExecuteScript(ctx context.Context, script string, args ...any) (any, error)

	WaitVisible(ctx context.Context, loc webdriver.Locator, timeout time.Duration) (webdriver.Element, error)
	WaitClickable(ctx context.Context, loc webdriver.Locator, timeout time.Duration) (webdriver.Element, error)
	WaitPresent(ctx context.Context, loc webdriver.Locator, timeout time.Duration) (webdriver.Element, error)
	WaitAnyVisible(ctx context.Context, timeout time.Duration, alts ...webdriver.Locator) (webdriver.Element, webdriver.Locator, error)
	WaitGone(ctx context.Context, loc webdriver.Locator, timeout time.Duration) error
	WaitTitleContains(ctx context.Context, fragment string, timeout time.Duration) (string, error)
	IsPresent(ctx context.Context, loc webdriver.Locator) (bool, error)
	IsVisible(ctx context.Context, loc webdriver.Locator) (bool, error)

	Click(ctx context.Context, loc webdriver.Locator) (interact.InteractionOutcome, error)
	ClickWithScroll(ctx context.Context, loc webdriver.Locator) (interact.InteractionOutcome, error)
	SendKeysWhenReady(ctx context.Context, loc webdriver.Locator, text string) error
	TextOf(ctx context.Context, loc webdriver.Locator) (string, error)

	ConfirmEffect(ctx context.Context, cond interact.Condition, timeout time.Duration) (bool, error)
	RunAction(ctx context.Context, action interact.Action) (interact.ActionReport, error)

	Logger() *zap.Logger
	Timing() interact.Timing
}

var _ Browser = (*browser.Session)(nil)

// Loaded waits for every locator to become visible, in order, each within timeout.
func Loaded(ctx context.Context, b Browser, timeout time.Duration, locs ...webdriver.Locator) error {
	for _, loc := range locs {
		if _, err := b.WaitVisible(ctx, loc, timeout); err != nil {
			return err
		}
	}
	return nil
}

// IsLoaded is Loaded as a yes/no answer, logging why when the answer is no.
func IsLoaded(ctx context.Context, b Browser, page string, locs ...webdriver.Locator) bool {
	if err := Loaded(ctx, b, 0, locs...); err != nil {
		b.Logger().Warn("Page not loaded.", zap.String("page", page), zap.Error(err))
		return false
	}
	b.Logger().Debug("Page loaded.", zap.String("page", page))
	return true
}

// Count returns how many elements loc matches right now.
func Count(ctx context.Context, b Browser, loc webdriver.Locator) (int, error) {
	els, err := b.FindElements(ctx, loc)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// Texts returns the trimmed text of every element loc matches.
func Texts(ctx context.Context, b Browser, loc webdriver.Locator) ([]string, error) {
	els, err := b.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading text of %s: %w", loc, err)
		}
		out = append(out, strings.TrimSpace(text))
	}
	return out, nil
}

// BadgeCount reads a numeric badge such as a cart counter. A missing badge or
// unparseable text counts as zero.
func BadgeCount(ctx context.Context, b Browser, loc webdriver.Locator) (int, error) {
	els, err := b.FindElements(ctx, loc)
	if err != nil {
		return 0, err
	}
	if len(els) == 0 {
		return 0, nil
	}
	text, err := els[0].Text(ctx)
	if err != nil {
		if webdriver.IsTransient(err) {
			return 0, nil
		}
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Nth narrows an XPath locator to its n-th match, counting from zero.
func Nth(loc webdriver.Locator, n int) webdriver.Locator {
	return webdriver.XPath(fmt.Sprintf("(%s)[%d]", loc.Value, n+1))
}

// XPathLiteral quotes s for use inside an XPath expression.
func XPathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}
