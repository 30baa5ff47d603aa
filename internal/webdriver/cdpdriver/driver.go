// internal/webdriver/cdpdriver/driver.go

// Package cdpdriver drives a local Chrome over the DevTools protocol using chromedp.
package cdpdriver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/config"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

const shutdownTimeout = 10 * time.Second

// Driver is a webdriver.Driver backed by one Chrome tab.
type Driver struct {
	ctx         context.Context // tab context, carries the CDP target
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *zap.Logger

	quitOnce sync.Once
	quitErr  error
}

var _ webdriver.Driver = (*Driver)(nil)

// Open launches Chrome and attaches to its first tab. The browser outlives ctx;
// ctx only bounds the launch. Quit releases it.
func Open(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Driver, error) {
	log := logger.Named("cdp")
	allocCtx, allocCancel := chromedp.NewExecAllocator(detach(ctx), AllocatorOptions(cfg)...)

	sugar := log.Sugar()
	tabCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)

	// The first Run starts the browser and must use the tab context itself, so the
	// caller's deadline is enforced from the outside.
	started := make(chan error, 1)
	go func() { started <- chromedp.Run(tabCtx) }()

	select {
	case err := <-started:
		if err != nil {
			cancel()
			allocCancel()
			return nil, fmt.Errorf("failed to launch chrome: %w", err)
		}
	case <-ctx.Done():
		cancel()
		allocCancel()
		return nil, fmt.Errorf("launching chrome: %w", ctx.Err())
	}

	d := &Driver{ctx: tabCtx, cancel: cancel, allocCancel: allocCancel, logger: log}
	if cfg.Stealth.Enabled {
		if err := d.run(ctx, StealthTasks(cfg.Stealth, log)); err != nil {
			_ = d.Quit()
			return nil, fmt.Errorf("applying stealth settings: %w", err)
		}
	}

	log.Debug("Chrome started.", zap.Bool("headless", cfg.Headless), zap.Bool("stealth", cfg.Stealth.Enabled))
	return d, nil
}

// run executes actions in the tab, canceled early if opCtx ends.
func (d *Driver) run(opCtx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := combineContext(d.ctx, opCtx)
	defer cancel()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := opCtx.Err(); ctxErr != nil {
			return ctxErr
		}
		return webdriver.Wrap(err)
	}
	return nil
}

func (d *Driver) FindElements(ctx context.Context, loc webdriver.Locator) ([]webdriver.Element, error) {
	var nodes []*cdp.Node
	var action chromedp.QueryAction
	if sel, ok := loc.CSSSelector(); ok {
		action = chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))
	} else {
		action = chromedp.Nodes(loc.Value, &nodes, chromedp.BySearch, chromedp.AtLeast(0))
	}
	if err := d.run(ctx, action); err != nil {
		return nil, err
	}

	els := make([]webdriver.Element, 0, len(nodes))
	for _, n := range nodes {
		els = append(els, &Element{d: d, node: n})
	}
	return els, nil
}

// ExecuteScript runs script as the body of a function, so it can use
// arguments[n] and return a value. *Element arguments arrive as DOM nodes.
func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	return d.callFunction(ctx, scriptDeclaration(script), nil, args)
}

func scriptDeclaration(body string) string {
	return "function() {\n" + body + "\n}"
}

// callFunction calls decl with this bound to the this element, or to the global
// object when this is nil.
func (d *Driver) callFunction(ctx context.Context, decl string, this *Element, args []any) (any, error) {
	var result any
	err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var held []runtime.RemoteObjectID
		defer func() {
			for _, id := range held {
				_ = runtime.ReleaseObject(id).Do(ctx)
			}
		}()

		resolve := func(el *Element) (runtime.RemoteObjectID, error) {
			obj, err := dom.ResolveNode().WithNodeID(el.node.NodeID).Do(ctx)
			if err != nil {
				return "", err
			}
			held = append(held, obj.ObjectID)
			return obj.ObjectID, nil
		}

		callArgs := make([]*runtime.CallArgument, 0, len(args))
		for i, a := range args {
			switch v := a.(type) {
			case *Element:
				id, err := resolve(v)
				if err != nil {
					return err
				}
				callArgs = append(callArgs, &runtime.CallArgument{ObjectID: id})
			case webdriver.Element:
				return fmt.Errorf("argument %d is an element from another driver (%T)", i, v)
			default:
				raw, err := json.Marshal(v)
				if err != nil {
					return fmt.Errorf("encoding script argument %d: %w", i, err)
				}
				callArgs = append(callArgs, &runtime.CallArgument{Value: raw})
			}
		}

		var target runtime.RemoteObjectID
		if this != nil {
			id, err := resolve(this)
			if err != nil {
				return err
			}
			target = id
		} else {
			global, exc, err := runtime.Evaluate("globalThis").Do(ctx)
			if err != nil {
				return err
			}
			if exc != nil {
				return errors.New(describeException(exc))
			}
			held = append(held, global.ObjectID)
			target = global.ObjectID
		}

		res, exc, err := runtime.CallFunctionOn(decl).
			WithObjectID(target).
			WithArguments(callArgs).
			WithReturnByValue(true).
			WithAwaitPromise(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return webdriver.Wrap(fmt.Errorf("script error: %s", describeException(exc)))
		}
		result, err = decodeValue(res)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// decodeValue maps a by-value result onto plain Go values. undefined becomes nil.
func decodeValue(res *runtime.RemoteObject) (any, error) {
	if res == nil || res.Type == runtime.TypeUndefined || len(res.Value) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(res.Value, &v); err != nil {
		return nil, fmt.Errorf("decoding script result: %w", err)
	}
	return v, nil
}

func describeException(exc *runtime.ExceptionDetails) string {
	if exc.Exception != nil && exc.Exception.Description != "" {
		return exc.Exception.Description
	}
	return exc.Text
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	var url string
	err := d.run(ctx, chromedp.Location(&url))
	return url, err
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	var title string
	err := d.run(ctx, chromedp.Title(&title))
	return title, err
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, chromedp.Navigate(url))
}

func (d *Driver) Refresh(ctx context.Context) error {
	return d.run(ctx, chromedp.Reload())
}

func (d *Driver) PageSource(ctx context.Context) (string, error) {
	var html string
	err := d.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := d.run(ctx, chromedp.CaptureScreenshot(&buf))
	return buf, err
}

// Quit closes the browser. chromedp.Cancel blocks until Chrome exits, so it is
// bounded by shutdownTimeout before the allocator is torn down regardless.
func (d *Driver) Quit() error {
	d.quitOnce.Do(func() {
		done := make(chan error, 1)
		go func() { done <- chromedp.Cancel(d.ctx) }()

		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				d.quitErr = fmt.Errorf("closing chrome: %w", err)
			}
		case <-time.After(shutdownTimeout):
			d.quitErr = fmt.Errorf("chrome did not exit within %s", shutdownTimeout)
		}
		d.cancel()
		d.allocCancel()
		d.logger.Debug("Chrome closed.", zap.Error(d.quitErr))
	})
	return d.quitErr
}
