// internal/browser/diagnostics.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.uber.org/zap"
)

const artifactTimeLayout = "2006-01-02_15-04-05"

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ArtifactName turns a scenario name and time into "<name>_2006-01-02_15-04-05".
func ArtifactName(name string, at time.Time) string {
	safe := unsafeFileChars.ReplaceAllString(name, "_")
	if safe == "" {
		safe = "scenario"
	}
	return safe + "_" + at.Format(artifactTimeLayout)
}

// CaptureDiagnostics saves a screenshot and the page source for name into the
// artifacts directory and returns the files written. Each capture is attempted
// even if the other fails.
func (s *Session) CaptureDiagnostics(ctx context.Context, name string) ([]string, error) {
	dir := s.opts.ArtifactsDir
	if dir == "" {
		return nil, fmt.Errorf("no artifacts directory configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifacts directory: %w", err)
	}

	base := filepath.Join(dir, ArtifactName(name, time.Now()))
	var written []string
	var errs []error

	if png, err := s.driver.Screenshot(ctx); err != nil {
		errs = append(errs, fmt.Errorf("screenshot: %w", err))
	} else if err := os.WriteFile(base+".png", png, 0o644); err != nil {
		errs = append(errs, fmt.Errorf("writing screenshot: %w", err))
	} else {
		written = append(written, base+".png")
	}

	if source, err := s.driver.PageSource(ctx); err != nil {
		errs = append(errs, fmt.Errorf("page source: %w", err))
	} else if err := os.WriteFile(base+".html", []byte(source), 0o644); err != nil {
		errs = append(errs, fmt.Errorf("writing page source: %w", err))
	} else {
		written = append(written, base+".html")
	}

	if url, err := s.driver.CurrentURL(ctx); err == nil {
		s.logger.Info("Captured failure diagnostics.", zap.String("url", url), zap.Strings("files", written))
	}
	return written, errors.Join(errs...)
}
