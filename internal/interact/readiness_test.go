// internal/interact/readiness_test.go
package interact_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/storefront-e2e/internal/interact"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver/webdrivertest"
)

func TestWaitVisible_NoMatchRaisesElementNotReady(t *testing.T) {
	f := newFixture(t)
	loc := webdriver.ID("missing")
	timeout := 150 * time.Millisecond

	start := time.Now()
	el, err := f.readiness.WaitVisible(context.Background(), loc, timeout)
	wall := time.Since(start)

	assert.Nil(t, el)
	var notReady *interact.ElementNotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, loc, notReady.Locator)
	assert.Equal(t, timeout, notReady.Waited)
	assert.Equal(t, "visible", notReady.Condition)
	assert.GreaterOrEqual(t, notReady.Elapsed, timeout)
	assert.Greater(t, notReady.Attempts, 1)
	assert.Less(t, wall, timeout+50*time.Millisecond)
	assert.NotErrorIs(t, err, webdriver.ErrNoSuchElement, "absence must surface as not-ready, not not-found")
}

func TestWaitVisible_ElementAppearsLater(t *testing.T) {
	f := newFixture(t)
	loc := webdriver.ClassName("inventory_item")
	item := webdrivertest.NewElement("item")

	f.drv.OnFind(loc, func(call int) ([]*webdrivertest.Element, error) {
		switch {
		case call == 1:
			return nil, nil
		case call == 2:
			return nil, webdriver.ErrStaleElement
		default:
			return []*webdrivertest.Element{item}, nil
		}
	})

	el, err := f.readiness.WaitVisible(context.Background(), loc, 0)
	require.NoError(t, err)
	assert.Same(t, item, el)
	assert.Equal(t, 3, f.drv.FindCount(loc))
}

func TestWaitVisible_HiddenThenShown(t *testing.T) {
	f := newFixture(t)
	loc := webdriver.CSS(".badge")
	badge := webdrivertest.NewElement("badge").Hidden()
	f.drv.Set(loc, badge)
	time.AfterFunc(40*time.Millisecond, func() { badge.SetDisplayed(true) })

	el, err := f.readiness.WaitVisible(context.Background(), loc, 0)
	require.NoError(t, err)
	assert.Same(t, badge, el)
}

func TestWaitClickable_RequiresEnabled(t *testing.T) {
	f := newFixture(t)
	loc := webdriver.ID("finish")
	btn := webdrivertest.NewElement("finish").Disabled()
	f.drv.Set(loc, btn)

	_, err := f.readiness.WaitClickable(context.Background(), loc, 60*time.Millisecond)
	var notReady *interact.ElementNotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, "clickable", notReady.Condition)

	btn.SetEnabled(true)
	el, err := f.readiness.WaitClickable(context.Background(), loc, 60*time.Millisecond)
	require.NoError(t, err)
	assert.Same(t, btn, el)
}

func TestWaitVisible_FatalErrorWrappedWithLocator(t *testing.T) {
	f := newFixture(t)
	loc := webdriver.ID("user-name")
	boom := errors.New("invalid session id")
	f.drv.OnFind(loc, func(int) ([]*webdrivertest.Element, error) { return nil, boom })

	_, err := f.readiness.WaitVisible(context.Background(), loc, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "id=user-name")

	var notReady *interact.ElementNotReadyError
	assert.False(t, errors.As(err, &notReady))
}

func TestWaitAnyVisible_TriesAlternativesInOrder(t *testing.T) {
	f := newFixture(t)
	primary := webdriver.CSS(".inventory_item button[data-test^='add-to-cart']")
	secondary := webdriver.CSS("button.btn_inventory")
	btn := webdrivertest.NewElement("add")
	f.drv.Set(secondary, btn)

	el, matched, err := f.readiness.WaitAnyVisible(context.Background(), 0, primary, secondary)
	require.NoError(t, err)
	assert.Same(t, btn, el)
	assert.Equal(t, secondary, matched)
	assert.GreaterOrEqual(t, f.drv.FindCount(primary), 1)

	_, _, err = f.readiness.WaitAnyVisible(context.Background(), 30*time.Millisecond, webdriver.ID("a"), webdriver.ID("b"))
	var notReady *interact.ElementNotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Contains(t, notReady.Condition, "id=b")
}

func TestWaitGone(t *testing.T) {
	f := newFixture(t)
	loc := webdriver.ClassName("spinner")
	spinner := webdrivertest.NewElement("spinner")
	f.drv.Set(loc, spinner)
	time.AfterFunc(30*time.Millisecond, func() { f.drv.Remove(loc) })

	require.NoError(t, f.readiness.WaitGone(context.Background(), loc, 0))

	stuck := webdriver.ClassName("overlay")
	f.drv.Set(stuck, webdrivertest.NewElement("overlay"))
	err := f.readiness.WaitGone(context.Background(), stuck, 30*time.Millisecond)
	var notReady *interact.ElementNotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, "gone", notReady.Condition)
}

func TestIsPresentAndVisible(t *testing.T) {
	f := newFixture(t)
	loc := webdriver.ID("finish")

	present, err := f.readiness.IsPresent(context.Background(), loc)
	require.NoError(t, err)
	assert.False(t, present)

	f.drv.Set(loc, webdrivertest.NewElement("finish").Hidden())
	present, err = f.readiness.IsPresent(context.Background(), loc)
	require.NoError(t, err)
	assert.True(t, present)

	visible, err := f.readiness.IsVisible(context.Background(), loc)
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestWaitTitleContains(t *testing.T) {
	f := newFixture(t)
	f.drv.SetTitle("Loading")
	time.AfterFunc(30*time.Millisecond, func() { f.drv.SetTitle("Swag Labs") })

	title, err := f.readiness.WaitTitleContains(context.Background(), "swag", 0)
	require.NoError(t, err)
	assert.Equal(t, "Swag Labs", title)

	_, err = f.readiness.WaitTitleContains(context.Background(), "takealot", 30*time.Millisecond)
	assert.ErrorContains(t, err, "takealot")
}
