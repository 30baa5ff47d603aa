// cmd/run.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/browser"
	"github.com/xkilldash9x/storefront-e2e/internal/config"
	"github.com/xkilldash9x/storefront-e2e/internal/observability"
	"github.com/xkilldash9x/storefront-e2e/internal/suite"
)

const shutdownTimeout = 30 * time.Second

// ErrScenariosFailed is returned when at least one scenario did not pass.
var ErrScenariosFailed = errors.New("scenarios did not all pass")

// sessionsFactory is swapped in tests to avoid starting real browsers.
var sessionsFactory = func(cfg config.Interface, logger *zap.Logger) (suite.SessionSource, func(context.Context) error, error) {
	m, err := browser.NewManager(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return m, m.Shutdown, nil
}

func newRunCmd() *cobra.Command {
	var filter suite.Filter

	cmd := &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Runs scenarios, each in a fresh browser session",
		Long: `Runs the named scenarios, or every scenario matching --site and --tag.
With no names and no filters the whole suite runs. The exit status is non-zero
when any scenario fails or is skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			filter.Names = args

			selected, err := suite.Default().Select(filter)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				return fmt.Errorf("no scenarios match site %q and tags %v", filter.Site, filter.Tags)
			}
			return runScenarios(ctx, cfg, observability.GetLogger(), selected, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&filter.Site, "site", "", "only run scenarios for this site (saucedemo, takealot)")
	cmd.Flags().StringSliceVarP(&filter.Tags, "tag", "t", nil, "only run scenarios carrying any of these tags")
	cmd.Flags().String("driver", config.DriverChromedp, "browser backend: chromedp, selenium or playwright")
	cmd.Flags().Bool("headless", true, "run the browser without a window")
	cmd.Flags().IntP("parallel", "p", 1, "scenarios to run at once")
	cmd.Flags().Bool("fail-fast", false, "stop starting scenarios after the first failure")
	cmd.Flags().String("artifacts", "artifacts", "directory for failure screenshots and page sources")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

// runScenarios executes selected and writes a summary table to out.
func runScenarios(ctx context.Context, cfg config.Interface, logger *zap.Logger, selected []suite.Scenario, out io.Writer) error {
	sessions, shutdown, err := sessionsFactory(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up browser sessions: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("Browser shutdown incomplete.", zap.Error(err))
		}
	}()

	logger.Info("Starting run.",
		zap.Int("scenarios", len(selected)),
		zap.String("driver", cfg.Browser().Driver),
		zap.Int("parallelism", cfg.Suite().Parallelism))

	summary := suite.NewRunner(sessions, cfg, logger).Run(ctx, selected)
	if err := writeSummary(out, summary); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if !summary.OK() {
		return fmt.Errorf("%w: %d failed, %d skipped", ErrScenariosFailed, summary.Failed, summary.Skipped)
	}
	return nil
}

func writeSummary(out io.Writer, summary suite.Summary) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tSCENARIO\tDURATION\tDETAIL")
	for _, r := range summary.Results {
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Status, r.Scenario, r.Duration.Round(time.Millisecond), detail)
		for _, a := range r.Artifacts {
			fmt.Fprintf(tw, "\t\t\t%s\n", a)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d passed, %d failed, %d skipped in %s\n",
		summary.Passed, summary.Failed, summary.Skipped, summary.Duration.Round(time.Millisecond))
	return err
}
