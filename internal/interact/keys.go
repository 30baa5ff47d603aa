// internal/interact/keys.go
package interact

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// Typist fills in form fields once they are ready.
type Typist struct {
	drv       webdriver.Driver
	readiness *Readiness
	logger    *zap.Logger
}

func NewTypist(drv webdriver.Driver, readiness *Readiness, logger *zap.Logger) *Typist {
	return &Typist{drv: drv, readiness: readiness, logger: logger.Named("typist")}
}

// SendKeysWhenReady waits for loc to be visible, clears it and types text.
// A failed native clear falls back to clearing through script.
func (t *Typist) SendKeysWhenReady(ctx context.Context, loc webdriver.Locator, text string) error {
	el, err := t.readiness.WaitVisible(ctx, loc, 0)
	if err != nil {
		return err
	}

	if err := el.Clear(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		t.logger.Debug("Native clear failed, clearing through script.", zap.Stringer("locator", loc), zap.Error(err))
		if _, err := t.drv.ExecuteScript(ctx, webdriver.ClearScript, el); err != nil {
			return fmt.Errorf("clearing %s: %w", loc, err)
		}
	}

	if err := el.SendKeys(ctx, text); err != nil {
		return fmt.Errorf("typing into %s: %w", loc, err)
	}
	t.logger.Debug("Typed into field.", zap.Stringer("locator", loc), zap.Int("length", len(text)))
	return nil
}

// TextOf waits for loc to be visible and returns its trimmed text.
func (t *Typist) TextOf(ctx context.Context, loc webdriver.Locator) (string, error) {
	el, err := t.readiness.WaitVisible(ctx, loc, 0)
	if err != nil {
		return "", err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("reading text of %s: %w", loc, err)
	}
	return strings.TrimSpace(text), nil
}
