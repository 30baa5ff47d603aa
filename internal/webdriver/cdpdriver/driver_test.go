// internal/webdriver/cdpdriver/driver_test.go
package cdpdriver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/storefront-e2e/internal/config"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

func TestAllocatorOptions(t *testing.T) {
	t.Run("headless adds an option", func(t *testing.T) {
		headless := AllocatorOptions(config.BrowserConfig{Headless: true})
		headed := AllocatorOptions(config.BrowserConfig{Headless: false})
		assert.Len(t, headless, len(headed)+1)
	})

	t.Run("window size and binary", func(t *testing.T) {
		base := AllocatorOptions(config.BrowserConfig{})
		opts := AllocatorOptions(config.BrowserConfig{WindowWidth: 1280, WindowHeight: 800, BinaryPath: "/opt/chrome"})
		assert.Len(t, opts, len(base)+2)
	})

	t.Run("args become flags", func(t *testing.T) {
		base := AllocatorOptions(config.BrowserConfig{})
		opts := AllocatorOptions(config.BrowserConfig{Args: []string{"--lang=en-ZA", "--mute-audio", "--", ""}})
		assert.Len(t, opts, len(base)+2, "empty flags are skipped")
		assert.NotEmpty(t, opts)
	})
}

func TestCombineContext(t *testing.T) {
	type ctxKey string
	const key ctxKey = "target"

	t.Run("inherits values from the browser context", func(t *testing.T) {
		browserCtx := context.WithValue(context.Background(), key, "tab-1")
		combined, cancel := combineContext(browserCtx, context.Background())
		defer cancel()
		assert.Equal(t, "tab-1", combined.Value(key))
		assert.NoError(t, combined.Err())
	})

	t.Run("canceled by the operation context", func(t *testing.T) {
		opCtx, opCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer opCancel()
		combined, cancel := combineContext(context.Background(), opCtx)
		defer cancel()

		assert.Eventually(t, func() bool { return combined.Err() != nil }, time.Second, 5*time.Millisecond)
		assert.ErrorIs(t, combined.Err(), context.Canceled)
	})

	t.Run("canceled by the browser context", func(t *testing.T) {
		browserCtx, browserCancel := context.WithCancel(context.Background())
		combined, cancel := combineContext(browserCtx, context.Background())
		defer cancel()

		browserCancel()
		assert.ErrorIs(t, combined.Err(), context.Canceled)
	})
}

func TestDetach(t *testing.T) {
	type ctxKey string
	parent, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey("k"), "v"))
	cancel()

	detached := detach(parent)
	assert.NoError(t, detached.Err())
	assert.Nil(t, detached.Done())
	_, ok := detached.Deadline()
	assert.False(t, ok)
	assert.Equal(t, "v", detached.Value(ctxKey("k")))
}

func TestDecodeValue(t *testing.T) {
	testCases := []struct {
		name string
		obj  *runtime.RemoteObject
		want any
	}{
		{"nil result", nil, nil},
		{"undefined", &runtime.RemoteObject{Type: runtime.TypeUndefined}, nil},
		{"number", &runtime.RemoteObject{Type: runtime.TypeNumber, Value: []byte(`42`)}, float64(42)},
		{"string", &runtime.RemoteObject{Type: runtime.TypeString, Value: []byte(`"Sauce Labs Backpack"`)}, "Sauce Labs Backpack"},
		{"bool", &runtime.RemoteObject{Type: runtime.TypeBoolean, Value: []byte(`true`)}, true},
		{"object", &runtime.RemoteObject{Type: runtime.TypeObject, Value: []byte(`{"count":2}`)}, map[string]any{"count": float64(2)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeValue(tc.obj)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDescribeException(t *testing.T) {
	withDescription := &runtime.ExceptionDetails{
		Text:      "Uncaught",
		Exception: &runtime.RemoteObject{Description: "TypeError: x.click is not a function"},
	}
	assert.Equal(t, "TypeError: x.click is not a function", describeException(withDescription))
	assert.Equal(t, "Uncaught", describeException(&runtime.ExceptionDetails{Text: "Uncaught"}))
}

func TestHitTestError(t *testing.T) {
	assert.NoError(t, hitTestError("ok"))
	assert.NoError(t, hitTestError("offscreen"))
	assert.True(t, errors.Is(hitTestError("hidden"), webdriver.ErrNotInteractable))

	err := hitTestError("covered:div#cookie-banner.overlay")
	assert.ErrorIs(t, err, webdriver.ErrClickIntercepted)
	assert.Contains(t, err.Error(), "div#cookie-banner.overlay")
}

func TestScriptDeclaration(t *testing.T) {
	decl := scriptDeclaration(webdriver.ClickScript)
	assert.True(t, strings.HasPrefix(decl, "function() {"))
	assert.Contains(t, decl, "arguments[0].click();")
	assert.True(t, strings.HasSuffix(decl, "}"))
}

func TestAllocatorOptions_Stealth(t *testing.T) {
	plain := AllocatorOptions(config.BrowserConfig{})
	stealthy := AllocatorOptions(config.BrowserConfig{Stealth: config.StealthConfig{Enabled: true, UserAgent: "Mozilla/5.0 test"}})
	assert.Len(t, stealthy, len(plain)+2)
}

func TestStealthTasks(t *testing.T) {
	logger := zaptest.NewLogger(t)

	minimal := StealthTasks(config.StealthConfig{Enabled: true}, logger)
	assert.Len(t, minimal, 1, "only the evasion script without overrides")

	full := StealthTasks(config.StealthConfig{
		Enabled:   true,
		UserAgent: "Mozilla/5.0 test",
		Locale:    "en-ZA",
		Timezone:  "Africa/Johannesburg",
	}, logger)
	assert.Len(t, full, 5)
}

func TestAcceptLanguage(t *testing.T) {
	assert.Equal(t, "en-ZA,en;q=0.9", acceptLanguage("en-ZA"))
	assert.Equal(t, "af", acceptLanguage("af"))
	assert.Empty(t, acceptLanguage(""))
	assert.Contains(t, webdriver.HideAutomationScript, "'webdriver'")
}
