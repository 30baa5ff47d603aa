// internal/webdriver/cdpdriver/context.go
package cdpdriver

import (
	"context"
	"time"
)

// combineContext derives from browserCtx, which carries the CDP target, and is
// also canceled when opCtx is done. chromedp needs the values of the former
// and callers hand in deadlines through the latter.
func combineContext(browserCtx, opCtx context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(browserCtx)
	go func() {
		select {
		case <-opCtx.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}

// valueOnlyContext keeps the CDP values of its parent but drops its deadline and
// cancellation.
type valueOnlyContext struct {
	context.Context
}

func (valueOnlyContext) Deadline() (deadline time.Time, ok bool) { return }

func (valueOnlyContext) Done() <-chan struct{} { return nil }

func (valueOnlyContext) Err() error { return nil }

// detach lets teardown outlive a canceled scenario context.
func detach(ctx context.Context) context.Context {
	return valueOnlyContext{ctx}
}
