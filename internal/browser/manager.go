// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/config"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver/cdpdriver"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver/pwdriver"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver/seleniumdriver"
)

// Opener starts a new browser and returns a driver for it.
type Opener func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (webdriver.Driver, error)

const shutdownGracePeriod = 15 * time.Second

// OpenerFor returns the Opener for a configured backend name.
func OpenerFor(driver string) (Opener, error) {
	switch driver {
	case config.DriverChromedp, "":
		return func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (webdriver.Driver, error) {
			return cdpdriver.Open(ctx, cfg, logger)
		}, nil
	case config.DriverSelenium:
		return func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (webdriver.Driver, error) {
			return seleniumdriver.Open(ctx, cfg, logger)
		}, nil
	case config.DriverPlaywright:
		return func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (webdriver.Driver, error) {
			return pwdriver.Open(ctx, cfg, logger)
		}, nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q", driver)
	}
}

// Manager opens sessions and keeps track of the ones still open so Shutdown
// can close them.
type Manager struct {
	cfg    config.Interface
	open   Opener
	logger *zap.Logger

	sessions map[string]*Session
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// NewManager creates a manager for the backend named in cfg.
func NewManager(cfg config.Interface, logger *zap.Logger) (*Manager, error) {
	open, err := OpenerFor(cfg.Browser().Driver)
	if err != nil {
		return nil, err
	}
	return NewManagerWithOpener(cfg, open, logger), nil
}

// NewManagerWithOpener creates a manager that starts browsers with open.
func NewManagerWithOpener(cfg config.Interface, open Opener, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		open:     open,
		logger:   logger.Named("browser_manager"),
		sessions: make(map[string]*Session),
	}
}

// NewSession starts a fresh browser and wraps it in a Session. The caller owns
// the session and must Close it.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	drv, err := m.open(ctx, m.cfg.Browser(), m.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s browser: %w", m.cfg.Browser().Driver, err)
	}

	session := NewSession(drv, OptionsFromConfig(m.cfg), m.logger)

	m.wg.Add(1)
	session.SetOnClose(func() {
		m.mu.Lock()
		delete(m.sessions, session.ID())
		m.mu.Unlock()
		m.wg.Done()
		m.logger.Debug("Session removed from manager.", zap.String("session_id", session.ID()))
	})

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	m.logger.Info("New session created.", zap.String("session_id", session.ID()), zap.String("driver", m.cfg.Browser().Driver))
	return session, nil
}

// ActiveSessions reports how many sessions have not been closed yet.
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown closes every session still open and waits for them, bounded by ctx
// and a grace period.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.RLock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.RUnlock()

	if len(open) > 0 {
		m.logger.Warn("Closing sessions left open.", zap.Int("count", len(open)))
	}
	for _, s := range open {
		if err := s.Close(); err != nil {
			m.logger.Warn("Error closing session during shutdown.", zap.String("session_id", s.ID()), zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	waitCtx, cancel := context.WithTimeout(ctx, shutdownGracePeriod)
	defer cancel()
	select {
	case <-done:
		m.logger.Info("Browser manager shut down.")
		return nil
	case <-waitCtx.Done():
		return fmt.Errorf("timed out waiting for sessions to close: %w", waitCtx.Err())
	}
}
