// internal/webdriver/cdpdriver/options.go
package cdpdriver

import (
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/storefront-e2e/internal/config"
)

// AllocatorOptions turns the browser section of the config into chromedp exec
// allocator options. The base set suits CI containers; Headless is only added
// when asked for.
func AllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("enable-automation", !cfg.Stealth.Enabled),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	}

	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
	}
	if st := cfg.Stealth; st.Enabled {
		opts = append(opts, chromedp.Flag("disable-blink-features", "AutomationControlled"))
		if st.UserAgent != "" {
			opts = append(opts, chromedp.UserAgent(st.UserAgent))
		}
	}
	if cfg.BinaryPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.BinaryPath))
	}

	// "--lang=en-ZA" becomes Flag("lang", "en-ZA"), "--mute-audio" becomes Flag("mute-audio", true).
	for _, arg := range cfg.Args {
		key, value, found := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if key == "" {
			continue
		}
		if found {
			opts = append(opts, chromedp.Flag(key, value))
		} else {
			opts = append(opts, chromedp.Flag(key, true))
		}
	}
	return opts
}
