// internal/suite/runner_test.go
package suite

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/storefront-e2e/internal/browser"
	"github.com/xkilldash9x/storefront-e2e/internal/config"
	"github.com/xkilldash9x/storefront-e2e/internal/interact"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver/webdrivertest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSessions opens sessions over in-memory drivers.
type fakeSessions struct {
	t     *testing.T
	dir   string
	err   error
	setup func(*webdrivertest.Driver)

	mu      sync.Mutex
	drivers []*webdrivertest.Driver
}

func (f *fakeSessions) NewSession(ctx context.Context) (*browser.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	drv := webdrivertest.New()
	if f.setup != nil {
		f.setup(drv)
	}
	f.mu.Lock()
	f.drivers = append(f.drivers, drv)
	f.mu.Unlock()

	return browser.NewSession(drv, browser.Options{
		Timing: interact.Timing{
			Explicit:        150 * time.Millisecond,
			PollInterval:    5 * time.Millisecond,
			ConfirmTimeout:  40 * time.Millisecond,
			ConfirmAttempts: 3,
			RetryDelay:      time.Millisecond,
		},
		ArtifactsDir:    f.dir,
		PageLoadTimeout: time.Second,
	}, zaptest.NewLogger(f.t)), nil
}

func (f *fakeSessions) opened() []*webdrivertest.Driver {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*webdrivertest.Driver(nil), f.drivers...)
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.ArtifactsCfg.Dir = t.TempDir()
	return cfg
}

func scenario(name string, run func(ctx context.Context, env *Env) error) Scenario {
	return Scenario{Name: name, Site: "test", Run: run}
}

func pass(context.Context, *Env) error { return nil }

func TestRunner_ResultsKeepOrderAndSessionsClose(t *testing.T) {
	cfg := testConfig(t)
	cfg.SuiteCfg.Parallelism = 3
	src := &fakeSessions{t: t, dir: cfg.ArtifactsCfg.Dir}

	scenarios := []Scenario{
		scenario("passes", pass),
		scenario("expectation fails", func(context.Context, *Env) error {
			return Expect(false, "badge reads 1")
		}),
		scenario("panics", func(context.Context, *Env) error {
			panic("boom")
		}),
		scenario("also passes", func(ctx context.Context, env *Env) error {
			_, err := env.Browser.Title(ctx)
			return err
		}),
	}

	summary := NewRunner(src, cfg, zaptest.NewLogger(t)).Run(context.Background(), scenarios)

	require.Len(t, summary.Results, 4)
	names := make([]string, 0, 4)
	for _, r := range summary.Results {
		names = append(names, r.Scenario)
	}
	assert.Equal(t, []string{"passes", "expectation fails", "panics", "also passes"}, names)

	assert.Equal(t, Passed, summary.Results[0].Status)
	assert.Equal(t, Failed, summary.Results[1].Status)
	var assertion *AssertionError
	assert.ErrorAs(t, summary.Results[1].Err, &assertion)
	assert.Equal(t, Failed, summary.Results[2].Status)
	assert.ErrorContains(t, summary.Results[2].Err, `scenario "panics" panicked: boom`)
	assert.Equal(t, Passed, summary.Results[3].Status)

	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 2, summary.Failed)
	assert.False(t, summary.OK())

	drivers := src.opened()
	require.Len(t, drivers, 4)
	for _, drv := range drivers {
		assert.Equal(t, 1, drv.QuitCount(), "every session is closed exactly once")
	}
	for _, r := range summary.Results {
		assert.NotEmpty(t, r.SessionID)
	}
}

func TestRunner_CapturesDiagnosticsOnFailure(t *testing.T) {
	cfg := testConfig(t)
	src := &fakeSessions{t: t, dir: cfg.ArtifactsCfg.Dir}

	summary := NewRunner(src, cfg, zaptest.NewLogger(t)).Run(context.Background(), []Scenario{
		scenario("saucedemo/broken", func(context.Context, *Env) error { return errors.New("cart never updated") }),
		scenario("fine", pass),
	})

	failed := summary.Results[0]
	require.Len(t, failed.Artifacts, 2)
	for _, p := range failed.Artifacts {
		_, err := os.Stat(p)
		assert.NoError(t, err)
		assert.Contains(t, p, "saucedemo_broken_")
	}
	assert.Empty(t, summary.Results[1].Artifacts)
}

func TestRunner_NoDiagnosticsWhenDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.ArtifactsCfg.CaptureOnFailure = false
	src := &fakeSessions{t: t, dir: cfg.ArtifactsCfg.Dir}

	summary := NewRunner(src, cfg, zaptest.NewLogger(t)).Run(context.Background(), []Scenario{
		scenario("broken", func(context.Context, *Env) error { return errors.New("nope") }),
	})
	assert.Empty(t, summary.Results[0].Artifacts)

	entries, err := os.ReadDir(cfg.ArtifactsCfg.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunner_RespectsParallelism(t *testing.T) {
	cfg := testConfig(t)
	cfg.SuiteCfg.Parallelism = 2
	src := &fakeSessions{t: t, dir: cfg.ArtifactsCfg.Dir}

	var running, peak atomic.Int32
	slow := func(ctx context.Context, _ *Env) error {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		return nil
	}

	var scenarios []Scenario
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		scenarios = append(scenarios, scenario(name, slow))
	}
	summary := NewRunner(src, cfg, zaptest.NewLogger(t)).Run(context.Background(), scenarios)

	assert.True(t, summary.OK())
	assert.Equal(t, 6, summary.Passed)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunner_FailFastSkipsTheRest(t *testing.T) {
	cfg := testConfig(t)
	cfg.SuiteCfg.FailFast = true
	src := &fakeSessions{t: t, dir: cfg.ArtifactsCfg.Dir}

	summary := NewRunner(src, cfg, zaptest.NewLogger(t)).Run(context.Background(), []Scenario{
		scenario("first", pass),
		scenario("second", func(context.Context, *Env) error { return Expect(false, "broken") }),
		scenario("third", pass),
		scenario("fourth", pass),
	})

	statuses := []Status{}
	for _, r := range summary.Results {
		statuses = append(statuses, r.Status)
	}
	assert.Equal(t, []Status{Passed, Failed, Skipped, Skipped}, statuses)
	assert.Len(t, src.opened(), 2)
}

func TestRunner_CancelledBeforeStart(t *testing.T) {
	cfg := testConfig(t)
	src := &fakeSessions{t: t, dir: cfg.ArtifactsCfg.Dir}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := NewRunner(src, cfg, zaptest.NewLogger(t)).Run(ctx, []Scenario{scenario("a", pass), scenario("b", pass)})
	assert.Equal(t, 2, summary.Skipped)
	assert.Empty(t, src.opened())
}

func TestRunner_SessionStartFailure(t *testing.T) {
	cfg := testConfig(t)
	src := &fakeSessions{t: t, err: errors.New("chrome not found")}

	summary := NewRunner(src, cfg, zaptest.NewLogger(t)).Run(context.Background(), []Scenario{scenario("a", pass)})
	require.Len(t, summary.Results, 1)
	assert.Equal(t, Failed, summary.Results[0].Status)
	assert.ErrorContains(t, summary.Results[0].Err, "starting browser: chrome not found")
}

func TestRunner_SessionRatePacesStarts(t *testing.T) {
	cfg := testConfig(t)
	cfg.SuiteCfg.Parallelism = 4
	cfg.SuiteCfg.SessionRate = 20
	src := &fakeSessions{t: t, dir: cfg.ArtifactsCfg.Dir}

	start := time.Now()
	summary := NewRunner(src, cfg, zaptest.NewLogger(t)).Run(context.Background(), []Scenario{
		scenario("a", pass), scenario("b", pass), scenario("c", pass),
	})
	assert.True(t, summary.OK())
	// Burst of one, then 50ms per start.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "PASS", Passed.String())
	assert.Equal(t, "FAIL", Failed.String())
	assert.Equal(t, "SKIP", Skipped.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
