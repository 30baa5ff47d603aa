// File: internal/config/config_test.go
package config

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "storefront", cfg.Logger().ServiceName)
	assert.Equal(t, DriverChromedp, cfg.Browser().Driver)
	assert.True(t, cfg.Browser().Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser().PageLoadTimeout)
	assert.False(t, cfg.Browser().Stealth.Enabled)
	assert.Equal(t, "en-ZA", cfg.Browser().Stealth.Locale)
	assert.Equal(t, 15*time.Second, cfg.Wait().Explicit)
	assert.Equal(t, 250*time.Millisecond, cfg.Wait().PollInterval)
	assert.Equal(t, 3, cfg.Wait().ConfirmAttempts)
	assert.Equal(t, time.Second, cfg.Wait().RetryDelay)
	assert.Equal(t, "https://www.saucedemo.com", cfg.Sites().SauceDemo.BaseURL)
	assert.Equal(t, "standard_user", cfg.Sites().SauceDemo.Username)
	assert.Equal(t, "artifacts", cfg.Artifacts().Dir)
	assert.Equal(t, 1, cfg.Suite().Parallelism)
	assert.NoError(t, cfg.Validate(), "defaults must validate")
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown driver", func(c *Config) { c.BrowserCfg.Driver = "lynx" }, "browser.driver must be one of"},
		{"zero window", func(c *Config) { c.BrowserCfg.WindowWidth = 0 }, "browser.window_width"},
		{"selenium without endpoint", func(c *Config) {
			c.BrowserCfg.Driver = DriverSelenium
			c.BrowserCfg.Selenium.URL = ""
		}, "browser.selenium.url or browser.selenium.driver_path"},
		{"zero explicit wait", func(c *Config) { c.WaitCfg.Explicit = 0 }, "wait.explicit must be positive"},
		{"interval above explicit", func(c *Config) { c.WaitCfg.PollInterval = time.Minute }, "must not exceed wait.explicit"},
		{"zero confirm attempts", func(c *Config) { c.WaitCfg.ConfirmAttempts = 0 }, "wait.confirm_attempts must be a positive integer"},
		{"negative retry delay", func(c *Config) { c.WaitCfg.RetryDelay = -time.Second }, "wait.retry_delay must not be negative"},
		{"missing base url", func(c *Config) { c.SitesCfg.SauceDemo.BaseURL = "" }, "sites.saucedemo.base_url is a required"},
		{"zero parallelism", func(c *Config) { c.SuiteCfg.Parallelism = 0 }, "suite.parallelism must be a positive integer"},
		{"negative rate", func(c *Config) { c.SuiteCfg.SessionRate = -1 }, "suite.session_rate must not be negative"},
		{"capture without dir", func(c *Config) { c.ArtifactsCfg.Dir = "" }, "artifacts.dir is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSetters(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SetBrowserDriver(DriverPlaywright)
	cfg.SetBrowserHeadless(false)
	cfg.SetSuiteParallelism(4)
	cfg.SetSuiteFailFast(true)

	assert.Equal(t, DriverPlaywright, cfg.Browser().Driver)
	assert.False(t, cfg.Browser().Headless)
	assert.Equal(t, 4, cfg.Suite().Parallelism)
	assert.True(t, cfg.Suite().FailFast)
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
browser:
  driver: selenium
  headless: false
  args: ["--disable-dev-shm-usage", "--lang=en-ZA"]
  selenium:
    url: "http://grid:4444/wd/hub"
wait:
  explicit: 20s
  poll_interval: 100ms
suite:
  parallelism: 3
  session_rate: 0.5
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, DriverSelenium, cfg.Browser().Driver)
		assert.False(t, cfg.Browser().Headless)
		assert.Equal(t, []string{"--disable-dev-shm-usage", "--lang=en-ZA"}, cfg.Browser().Args)
		assert.Equal(t, "http://grid:4444/wd/hub", cfg.Browser().Selenium.URL)
		assert.Equal(t, 20*time.Second, cfg.Wait().Explicit)
		assert.Equal(t, 100*time.Millisecond, cfg.Wait().PollInterval)
		assert.Equal(t, 3, cfg.Suite().Parallelism)
		assert.InDelta(t, 0.5, cfg.Suite().SessionRate, 1e-9)
		// Defaults survive alongside the file.
		assert.Equal(t, 10*time.Second, cfg.Wait().ConfirmTimeout)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("suite.parallelism", 0)

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "suite.parallelism must be a positive integer")
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)

		yamlConfig := []byte(`
sites:
  saucedemo:
    password: "from-file"
`)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

		t.Setenv("STOREFRONT_SAUCEDEMO_USERNAME", "problem_user")
		t.Setenv("STOREFRONT_SAUCEDEMO_PASSWORD", "from-env")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "problem_user", cfg.Sites().SauceDemo.Username)
		assert.Equal(t, "from-env", cfg.Sites().SauceDemo.Password, "environment must override the config file")
	})

	t.Run("Home Directory Expansion", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("artifacts.dir", "~/storefront/artifacts")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		home, err := homedir.Dir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "storefront", "artifacts"), cfg.Artifacts().Dir)
	})
}
