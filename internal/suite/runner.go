// internal/suite/runner.go
package suite

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/storefront-e2e/internal/browser"
	"github.com/xkilldash9x/storefront-e2e/internal/config"
)

const diagnosticsTimeout = 30 * time.Second

// SessionSource hands out a fresh browser session per scenario.
type SessionSource interface {
	NewSession(ctx context.Context) (*browser.Session, error)
}

var _ SessionSource = (*browser.Manager)(nil)

type Status int

const (
	Passed Status = iota
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "PASS"
	case Failed:
		return "FAIL"
	case Skipped:
		return "SKIP"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of one scenario.
type Result struct {
	Scenario  string
	Site      string
	Status    Status
	Err       error
	SessionID string
	Duration  time.Duration
	Artifacts []string
}

// Summary holds results in the order the scenarios were given.
type Summary struct {
	Results  []Result
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
}

func (s Summary) OK() bool { return s.Failed == 0 && s.Skipped == 0 }

// Runner executes scenarios. Each gets its own session, closed when the
// scenario ends however it ends.
type Runner struct {
	sessions         SessionSource
	sites            config.SitesConfig
	logger           *zap.Logger
	parallelism      int
	failFast         bool
	captureOnFailure bool
	limiter          *rate.Limiter
}

func NewRunner(sessions SessionSource, cfg config.Interface, logger *zap.Logger) *Runner {
	suiteCfg := cfg.Suite()
	parallelism := suiteCfg.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	limit := rate.Inf
	if suiteCfg.SessionRate > 0 {
		limit = rate.Limit(suiteCfg.SessionRate)
	}
	return &Runner{
		sessions:         sessions,
		sites:            cfg.Sites(),
		logger:           logger.Named("runner"),
		parallelism:      parallelism,
		failFast:         suiteCfg.FailFast,
		captureOnFailure: cfg.Artifacts().CaptureOnFailure,
		limiter:          rate.NewLimiter(limit, 1),
	}
}

var errFailFast = errors.New("stopping after first failure")

// Run executes scenarios with at most the configured number in flight. When
// fail-fast is set, scenarios not yet started after a failure are skipped.
// Cancelling ctx skips whatever has not started and aborts what is running.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) Summary {
	start := time.Now()
	results := make([]Result, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	r.logger.Info("Running scenarios.", zap.Int("count", len(scenarios)), zap.Int("parallelism", r.parallelism))

	for i, sc := range scenarios {
		results[i] = Result{Scenario: sc.Name, Site: sc.Site, Status: Skipped}
		if gctx.Err() != nil {
			continue
		}
		g.Go(func() error {
			results[i] = r.runOne(gctx, sc)
			if results[i].Status == Failed && r.failFast {
				return errFailFast
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{Results: results, Duration: time.Since(start)}
	for _, res := range results {
		switch res.Status {
		case Passed:
			summary.Passed++
		case Failed:
			summary.Failed++
		default:
			summary.Skipped++
		}
	}
	r.logger.Info("Scenarios finished.",
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", summary.Duration))
	return summary
}

func (r *Runner) runOne(ctx context.Context, sc Scenario) Result {
	res := Result{Scenario: sc.Name, Site: sc.Site, Status: Skipped}
	logger := r.logger.With(zap.String("scenario", sc.Name))
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if err := r.limiter.Wait(ctx); err != nil {
		res.Err = err
		return res
	}

	session, err := r.sessions.NewSession(ctx)
	if err != nil {
		if ctx.Err() != nil {
			res.Err = ctx.Err()
			return res
		}
		res.Status, res.Err = Failed, fmt.Errorf("starting browser: %w", err)
		logger.Error("Could not start a browser session.", zap.Error(err))
		return res
	}
	res.SessionID = session.ID()
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Failed to close browser session.", zap.Error(err))
		}
	}()

	logger = logger.With(zap.String("session_id", session.ID()))
	logger.Info("Scenario started.")

	env := &Env{Browser: session, Sites: r.sites, Logger: logger}
	if err := invoke(ctx, sc, env); err != nil {
		res.Status, res.Err = Failed, err
		logger.Error("Scenario failed.", zap.Error(err))
		if r.captureOnFailure {
			res.Artifacts = r.capture(ctx, session, sc.Name, logger)
		}
		return res
	}

	res.Status = Passed
	logger.Info("Scenario passed.", zap.Duration("duration", time.Since(start)))
	return res
}

// invoke runs the scenario, turning a panic into a failure.
func invoke(ctx context.Context, sc Scenario, env *Env) (err error) {
	defer func() {
		if p := recover(); p != nil {
			env.Logger.Error("Scenario panicked.", zap.Any("panic", p), zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("scenario %q panicked: %v", sc.Name, p)
		}
	}()
	return sc.Run(ctx, env)
}

// capture saves diagnostics even when ctx was cancelled, bounded on its own.
func (r *Runner) capture(ctx context.Context, session *browser.Session, name string, logger *zap.Logger) []string {
	captureCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), diagnosticsTimeout)
	defer cancel()

	paths, err := session.CaptureDiagnostics(captureCtx, name)
	if err != nil {
		logger.Warn("Diagnostics incomplete.", zap.Error(err))
	}
	return paths
}
