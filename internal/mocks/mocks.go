// File: internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/storefront-e2e/internal/config"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

var _ config.Interface = (*MockConfig)(nil)

// --- Getters ---

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Browser() config.BrowserConfig {
	args := m.Called()
	return args.Get(0).(config.BrowserConfig)
}

func (m *MockConfig) Wait() config.WaitConfig {
	args := m.Called()
	return args.Get(0).(config.WaitConfig)
}

func (m *MockConfig) Sites() config.SitesConfig {
	args := m.Called()
	return args.Get(0).(config.SitesConfig)
}

func (m *MockConfig) Artifacts() config.ArtifactsConfig {
	args := m.Called()
	return args.Get(0).(config.ArtifactsConfig)
}

func (m *MockConfig) Suite() config.SuiteConfig {
	args := m.Called()
	return args.Get(0).(config.SuiteConfig)
}

// --- Setters ---

func (m *MockConfig) SetBrowserDriver(d string) { m.Called(d) }
func (m *MockConfig) SetBrowserHeadless(b bool) { m.Called(b) }
func (m *MockConfig) SetSuiteParallelism(n int) { m.Called(n) }
func (m *MockConfig) SetSuiteFailFast(b bool)   { m.Called(b) }

// -- Driver Mocks --

// MockDriver mocks webdriver.Driver.
type MockDriver struct {
	mock.Mock
}

var _ webdriver.Driver = (*MockDriver)(nil)

func (m *MockDriver) FindElements(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]webdriver.Element), args.Error(1)
}

func (m *MockDriver) ExecuteScript(ctx context.Context, script string, scriptArgs ...any) (any, error) {
	args := m.Called(ctx, script, scriptArgs)
	return args.Get(0), args.Error(1)
}

func (m *MockDriver) CurrentURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockDriver) Title(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockDriver) Navigate(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *MockDriver) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDriver) PageSource(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockDriver) Screenshot(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDriver) Quit() error {
	return m.Called().Error(0)
}

// MockElement mocks webdriver.Element.
type MockElement struct {
	mock.Mock
}

var _ webdriver.Element = (*MockElement)(nil)

func (m *MockElement) IsDisplayed(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockElement) IsEnabled(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockElement) Text(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockElement) Click(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockElement) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockElement) SendKeys(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}
