// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Interface defines the contract for accessing suite configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Wait() WaitConfig
	Sites() SitesConfig
	Artifacts() ArtifactsConfig
	Suite() SuiteConfig

	// Browser Setters
	SetBrowserDriver(string)
	SetBrowserHeadless(bool)

	// Suite Setters
	SetSuiteParallelism(int)
	SetSuiteFailFast(bool)
}

// Config holds the entire suite configuration.
type Config struct {
	LoggerCfg    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	BrowserCfg   BrowserConfig   `mapstructure:"browser" yaml:"browser"`
	WaitCfg      WaitConfig      `mapstructure:"wait" yaml:"wait"`
	SitesCfg     SitesConfig     `mapstructure:"sites" yaml:"sites"`
	ArtifactsCfg ArtifactsConfig `mapstructure:"artifacts" yaml:"artifacts"`
	SuiteCfg     SuiteConfig     `mapstructure:"suite" yaml:"suite"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig       { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig     { return c.BrowserCfg }
func (c *Config) Wait() WaitConfig           { return c.WaitCfg }
func (c *Config) Sites() SitesConfig         { return c.SitesCfg }
func (c *Config) Artifacts() ArtifactsConfig { return c.ArtifactsCfg }
func (c *Config) Suite() SuiteConfig         { return c.SuiteCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetBrowserDriver(d string) { c.BrowserCfg.Driver = d }
func (c *Config) SetBrowserHeadless(b bool) { c.BrowserCfg.Headless = b }

func (c *Config) SetSuiteParallelism(n int) { c.SuiteCfg.Parallelism = n }
func (c *Config) SetSuiteFailFast(b bool)   { c.SuiteCfg.FailFast = b }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// Supported browser backends.
const (
	DriverChromedp   = "chromedp"
	DriverSelenium   = "selenium"
	DriverPlaywright = "playwright"
)

// BrowserConfig selects and tunes the browser backend.
type BrowserConfig struct {
	Driver          string           `mapstructure:"driver" yaml:"driver"`
	Headless        bool             `mapstructure:"headless" yaml:"headless"`
	WindowWidth     int              `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight    int              `mapstructure:"window_height" yaml:"window_height"`
	Args            []string         `mapstructure:"args" yaml:"args"`
	BinaryPath      string           `mapstructure:"binary_path" yaml:"binary_path"`
	PageLoadTimeout time.Duration    `mapstructure:"page_load_timeout" yaml:"page_load_timeout"`
	Selenium        SeleniumConfig   `mapstructure:"selenium" yaml:"selenium"`
	Playwright      PlaywrightConfig `mapstructure:"playwright" yaml:"playwright"`
	Stealth         StealthConfig    `mapstructure:"stealth" yaml:"stealth"`
}

// StealthConfig hides the usual automation markers from sites that block
// headless browsers. Empty fields leave the browser's own value in place.
type StealthConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
	Locale    string `mapstructure:"locale" yaml:"locale"`
	Timezone  string `mapstructure:"timezone" yaml:"timezone"`
}

// SeleniumConfig points at a WebDriver endpoint. When DriverPath is set a local
// chromedriver is started on Port instead of using URL.
type SeleniumConfig struct {
	URL         string `mapstructure:"url" yaml:"url"`
	DriverPath  string `mapstructure:"driver_path" yaml:"driver_path"`
	Port        int    `mapstructure:"port" yaml:"port"`
	BrowserName string `mapstructure:"browser_name" yaml:"browser_name"`
}

type PlaywrightConfig struct {
	Browser string `mapstructure:"browser" yaml:"browser"`
	Install bool   `mapstructure:"install" yaml:"install"`
}

// WaitConfig holds the polling and retry budget of the interaction layer.
type WaitConfig struct {
	Explicit        time.Duration `mapstructure:"explicit" yaml:"explicit"`
	PollInterval    time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	ConfirmTimeout  time.Duration `mapstructure:"confirm_timeout" yaml:"confirm_timeout"`
	ConfirmAttempts int           `mapstructure:"confirm_attempts" yaml:"confirm_attempts"`
	RetryDelay      time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
}

type SitesConfig struct {
	SauceDemo SauceDemoConfig `mapstructure:"saucedemo" yaml:"saucedemo"`
	Takealot  TakealotConfig  `mapstructure:"takealot" yaml:"takealot"`
}

type SauceDemoConfig struct {
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
}

type TakealotConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// ArtifactsConfig controls where failure diagnostics are written.
type ArtifactsConfig struct {
	Dir              string `mapstructure:"dir" yaml:"dir"`
	CaptureOnFailure bool   `mapstructure:"capture_on_failure" yaml:"capture_on_failure"`
}

// SuiteConfig controls how scenarios are scheduled.
type SuiteConfig struct {
	// Parallelism is the number of scenarios, each with its own browser, run at once.
	Parallelism int `mapstructure:"parallelism" yaml:"parallelism"`
	// SessionRate caps new browser sessions per second. Zero means unlimited.
	SessionRate float64 `mapstructure:"session_rate" yaml:"session_rate"`
	FailFast    bool    `mapstructure:"fail_fast" yaml:"fail_fast"`
}

// NewDefaultConfig creates a configuration populated with the default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for every configuration parameter.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "storefront")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.driver", DriverChromedp)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("browser.args", []string{})
	v.SetDefault("browser.page_load_timeout", "30s")
	v.SetDefault("browser.selenium.url", "http://localhost:4444/wd/hub")
	v.SetDefault("browser.selenium.port", 9515)
	v.SetDefault("browser.selenium.browser_name", "chrome")
	v.SetDefault("browser.playwright.browser", "chromium")
	v.SetDefault("browser.playwright.install", false)
	v.SetDefault("browser.stealth.enabled", false)
	v.SetDefault("browser.stealth.user_agent", "")
	v.SetDefault("browser.stealth.locale", "en-ZA")
	v.SetDefault("browser.stealth.timezone", "Africa/Johannesburg")

	// -- Waits --
	v.SetDefault("wait.explicit", "15s")
	v.SetDefault("wait.poll_interval", "250ms")
	v.SetDefault("wait.confirm_timeout", "10s")
	v.SetDefault("wait.confirm_attempts", 3)
	v.SetDefault("wait.retry_delay", "1s")

	// -- Sites --
	v.SetDefault("sites.saucedemo.base_url", "https://www.saucedemo.com")
	v.SetDefault("sites.saucedemo.username", "standard_user")
	v.SetDefault("sites.saucedemo.password", "secret_sauce")
	v.SetDefault("sites.takealot.base_url", "https://www.takealot.com")

	// -- Artifacts --
	v.SetDefault("artifacts.dir", "artifacts")
	v.SetDefault("artifacts.capture_on_failure", true)

	// -- Suite --
	v.SetDefault("suite.parallelism", 1)
	v.SetDefault("suite.session_rate", 0.0)
	v.SetDefault("suite.fail_fast", false)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Credentials are usually supplied through the environment or a .env file.
	v.BindEnv("sites.saucedemo.username", "STOREFRONT_SAUCEDEMO_USERNAME")
	v.BindEnv("sites.saucedemo.password", "STOREFRONT_SAUCEDEMO_PASSWORD")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// ExpandPaths resolves "~" in file system paths.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.ArtifactsCfg.Dir, &c.LoggerCfg.LogFile, &c.BrowserCfg.BinaryPath, &c.BrowserCfg.Selenium.DriverPath} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding path %q: %w", *p, err)
		}
		*p = filepath.Clean(expanded)
	}
	return nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.BrowserCfg.Driver) {
	case DriverChromedp, DriverSelenium, DriverPlaywright:
	default:
		return fmt.Errorf("browser.driver must be one of %s, %s, %s (got %q)", DriverChromedp, DriverSelenium, DriverPlaywright, c.BrowserCfg.Driver)
	}
	if c.BrowserCfg.WindowWidth <= 0 || c.BrowserCfg.WindowHeight <= 0 {
		return fmt.Errorf("browser.window_width and browser.window_height must be positive")
	}
	if c.BrowserCfg.Driver == DriverSelenium && c.BrowserCfg.Selenium.URL == "" && c.BrowserCfg.Selenium.DriverPath == "" {
		return fmt.Errorf("browser.selenium.url or browser.selenium.driver_path is required for the selenium driver")
	}
	if err := c.WaitCfg.Validate(); err != nil {
		return fmt.Errorf("wait configuration invalid: %w", err)
	}
	if c.SitesCfg.SauceDemo.BaseURL == "" {
		return fmt.Errorf("sites.saucedemo.base_url is a required configuration field")
	}
	if c.SuiteCfg.Parallelism <= 0 {
		return fmt.Errorf("suite.parallelism must be a positive integer")
	}
	if c.SuiteCfg.SessionRate < 0 {
		return fmt.Errorf("suite.session_rate must not be negative")
	}
	if c.ArtifactsCfg.CaptureOnFailure && c.ArtifactsCfg.Dir == "" {
		return fmt.Errorf("artifacts.dir is required when artifacts.capture_on_failure is set")
	}
	return nil
}

// Validate checks the wait budget.
func (w *WaitConfig) Validate() error {
	if w.Explicit <= 0 {
		return fmt.Errorf("wait.explicit must be positive")
	}
	if w.PollInterval <= 0 {
		return fmt.Errorf("wait.poll_interval must be positive")
	}
	if w.PollInterval > w.Explicit {
		return fmt.Errorf("wait.poll_interval (%s) must not exceed wait.explicit (%s)", w.PollInterval, w.Explicit)
	}
	if w.ConfirmTimeout <= 0 {
		return fmt.Errorf("wait.confirm_timeout must be positive")
	}
	if w.ConfirmAttempts <= 0 {
		return fmt.Errorf("wait.confirm_attempts must be a positive integer")
	}
	if w.RetryDelay < 0 {
		return fmt.Errorf("wait.retry_delay must not be negative")
	}
	return nil
}
