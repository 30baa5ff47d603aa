// internal/webdriver/cdpdriver/stealth.go
package cdpdriver

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/config"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// StealthTasks builds the tab setup that makes a headless Chrome look like a
// user-operated one.
func StealthTasks(st config.StealthConfig, logger *zap.Logger) chromedp.Tasks {
	logger.Debug("Applying stealth settings.",
		zap.String("user_agent", st.UserAgent),
		zap.String("locale", st.Locale),
		zap.String("timezone", st.Timezone))

	tasks := chromedp.Tasks{
		chromedp.ActionFunc(func(ctx context.Context) error {
			if _, err := page.AddScriptToEvaluateOnNewDocument(webdriver.HideAutomationScript).Do(ctx); err != nil {
				return fmt.Errorf("failed to inject automation evasions: %w", err)
			}
			return nil
		}),
	}
	if st.UserAgent != "" {
		tasks = append(tasks, emulation.SetUserAgentOverride(st.UserAgent).WithAcceptLanguage(acceptLanguage(st.Locale)))
	}
	if st.Timezone != "" {
		tasks = append(tasks, emulation.SetTimezoneOverride(st.Timezone))
	}
	if st.Locale != "" {
		tasks = append(tasks,
			emulation.SetLocaleOverride().WithLocale(st.Locale),
			network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": acceptLanguage(st.Locale)}),
		)
	}
	return tasks
}

// acceptLanguage turns "en-ZA" into "en-ZA,en;q=0.9".
func acceptLanguage(locale string) string {
	if locale == "" {
		return ""
	}
	base, _, found := strings.Cut(locale, "-")
	if !found {
		return locale
	}
	return fmt.Sprintf("%s,%s;q=0.9", locale, base)
}
