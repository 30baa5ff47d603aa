// internal/pages/saucedemo/pages_test.go
package saucedemo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/storefront-e2e/internal/browser"
	"github.com/xkilldash9x/storefront-e2e/internal/interact"
	"github.com/xkilldash9x/storefront-e2e/internal/pages"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver/webdrivertest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const baseURL = "https://shop.test"

func newShop(t *testing.T) (*browser.Session, *webdrivertest.Driver) {
	t.Helper()
	drv := webdrivertest.New()
	opts := browser.Options{
		Timing: interact.Timing{
			Explicit:        150 * time.Millisecond,
			PollInterval:    5 * time.Millisecond,
			ConfirmTimeout:  40 * time.Millisecond,
			ConfirmAttempts: 3,
			RetryDelay:      time.Millisecond,
		},
		PageLoadTimeout: time.Second,
	}
	s := browser.NewSession(drv, opts, zaptest.NewLogger(t))
	t.Cleanup(func() { _ = s.Close() })
	return s, drv
}

// inventory lays out n products, none of them in the cart.
func inventory(drv *webdrivertest.Driver, names ...string) {
	var items, titles, prices []*webdrivertest.Element
	for _, n := range names {
		items = append(items, webdrivertest.NewElement("item "+n))
		titles = append(titles, webdrivertest.NewElement("title "+n).WithText("  "+n+"  "))
		prices = append(prices, webdrivertest.NewElement("price "+n).WithText("$9.99"))
	}
	drv.Set(inventoryItems, items...)
	drv.Set(inventoryNames, titles...)
	drv.Set(inventoryPrices, prices...)
}

func TestLoginPage_Login(t *testing.T) {
	ctx := context.Background()
	s, drv := newShop(t)

	user := webdrivertest.NewElement("username")
	pass := webdrivertest.NewElement("password")
	drv.OnNavigate(func(string) {
		drv.Set(loginContainer, webdrivertest.NewElement("login form"))
		drv.Set(usernameInput, user)
		drv.Set(passwordInput, pass)
		drv.Set(loginButton, webdrivertest.NewElement("login").OnClick(func() {
			inventory(drv, "Backpack", "Bike Light")
		}))
	})

	login := NewLoginPage(s, baseURL+"/")
	require.NoError(t, login.Open(ctx))
	assert.Equal(t, []string{baseURL + "/"}, drv.History())
	assert.True(t, login.IsLoaded(ctx))

	inv, err := login.Login(ctx, "standard_user", "secret_sauce")
	require.NoError(t, err)
	assert.Equal(t, "standard_user", user.Value())
	assert.Equal(t, "secret_sauce", pass.Value())

	assert.True(t, inv.IsLoaded(ctx))
	names, err := inv.ProductNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Backpack", "Bike Light"}, names)
}

func TestLoginPage_LockedOutUser(t *testing.T) {
	ctx := context.Background()
	s, drv := newShop(t)

	drv.Set(usernameInput, webdrivertest.NewElement("username"))
	drv.Set(passwordInput, webdrivertest.NewElement("password"))
	drv.Set(loginButton, webdrivertest.NewElement("login").OnClick(func() {
		drv.Set(errorMessage, webdrivertest.NewElement("error").WithText("Epic sadface: Sorry, this user has been locked out."))
	}))

	login := NewLoginPage(s, baseURL)
	inv, err := login.Login(ctx, "locked_out_user", "secret_sauce")
	require.NoError(t, err)
	assert.False(t, inv.IsLoaded(ctx))

	assert.True(t, login.IsErrorDisplayed(ctx))
	msg, err := login.ErrorMessage(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "locked out")
}

func TestInventoryPage_AddFirstProductToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed by the badge", func(t *testing.T) {
		s, drv := newShop(t)
		inventory(drv, "Backpack")
		add := webdrivertest.NewElement("add").OnClick(func() {
			drv.Set(cartBadge, webdrivertest.NewElement("badge").WithText("1"))
		})
		drv.Set(addToCartButtons, add)

		inv := NewInventoryPage(s, baseURL)
		report, err := inv.AddFirstProductToCart(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Attempts)
		assert.False(t, report.FallbackApplied)
		assert.Equal(t, 1, add.NativeClicks())
		assert.Equal(t, 1, add.Scrolls(), "the button is scrolled to before clicking")

		count, err := inv.CartCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("confirmed by the remove button", func(t *testing.T) {
		s, drv := newShop(t)
		inventory(drv, "Backpack")
		drv.Set(addToCartButtons, webdrivertest.NewElement("add").OnClick(func() {
			drv.Set(removeButtons, webdrivertest.NewElement("remove"))
		}))

		report, err := NewInventoryPage(s, baseURL).AddFirstProductToCart(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Attempts)
	})

	t.Run("falls back to writing the cart", func(t *testing.T) {
		s, drv := newShop(t)
		inventory(drv, "Backpack")
		add := webdrivertest.NewElement("add")
		drv.Set(addToCartButtons, add)

		injected := 0
		drv.OnScript(func(script string, _ []any) (any, bool, error) {
			if script != CartInjectionScript {
				return nil, false, nil
			}
			injected++
			return float64(1), true, nil
		})
		drv.OnRefresh(func() {
			drv.Set(cartBadge, webdrivertest.NewElement("badge").WithText("1"))
		})

		report, err := NewInventoryPage(s, baseURL).AddFirstProductToCart(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, report.Attempts)
		assert.True(t, report.FallbackApplied)
		assert.Equal(t, 3, add.NativeClicks())
		assert.Equal(t, 1, injected, "the state fallback runs once")
		assert.Contains(t, drv.Events(), "refresh")
	})

	t.Run("unconfirmed when the page has no product link", func(t *testing.T) {
		s, drv := newShop(t)
		inventory(drv, "Backpack")
		drv.Set(addToCartButtons, webdrivertest.NewElement("add"))
		drv.OnScript(func(script string, _ []any) (any, bool, error) {
			if script == CartInjectionScript {
				return float64(-1), true, nil
			}
			return nil, false, nil
		})

		_, err := NewInventoryPage(s, baseURL).AddFirstProductToCart(ctx)
		var notConfirmed *interact.ActionNotConfirmedError
		require.ErrorAs(t, err, &notConfirmed)
		assert.Equal(t, 3, notConfirmed.Attempts)
		assert.True(t, notConfirmed.FallbackApplied)
		assert.ErrorContains(t, err, "no product on the page")
		assert.NotContains(t, drv.Events(), "refresh")
	})

	t.Run("existing remove button does not confirm a non-empty cart", func(t *testing.T) {
		s, drv := newShop(t)
		inventory(drv, "Backpack", "Bike Light")
		drv.Set(cartBadge, webdrivertest.NewElement("badge").WithText("1"))
		drv.Set(removeButtons, webdrivertest.NewElement("remove"))
		add := webdrivertest.NewElement("add")
		drv.Set(addToCartButtons, add)
		drv.OnScript(func(script string, _ []any) (any, bool, error) {
			if script == CartInjectionScript {
				return float64(2), true, nil
			}
			return nil, false, nil
		})

		_, err := NewInventoryPage(s, baseURL).AddFirstProductToCart(ctx)
		var notConfirmed *interact.ActionNotConfirmedError
		require.ErrorAs(t, err, &notConfirmed)
		assert.Equal(t, 3, notConfirmed.Attempts)
		assert.True(t, notConfirmed.FallbackApplied)
		assert.Equal(t, 3, add.NativeClicks())
	})

	t.Run("unconfirmed when the product is already in the cart", func(t *testing.T) {
		s, drv := newShop(t)
		inventory(drv, "Backpack")
		drv.Set(cartBadge, webdrivertest.NewElement("badge").WithText("1"))
		drv.Set(addToCartButtons, webdrivertest.NewElement("add"))
		drv.OnScript(func(script string, _ []any) (any, bool, error) {
			if script == CartInjectionScript {
				return float64(0), true, nil
			}
			return nil, false, nil
		})

		_, err := NewInventoryPage(s, baseURL).AddFirstProductToCart(ctx)
		var notConfirmed *interact.ActionNotConfirmedError
		require.ErrorAs(t, err, &notConfirmed)
		assert.ErrorContains(t, err, "already in the cart")
		assert.NotContains(t, drv.Events(), "refresh")
	})
}

func TestInventoryPage_WaitForCartCountToIncrease(t *testing.T) {
	ctx := context.Background()

	t.Run("badge catches up", func(t *testing.T) {
		s, drv := newShop(t)
		drv.OnFind(cartBadge, func(call int) ([]*webdrivertest.Element, error) {
			if call < 4 {
				return []*webdrivertest.Element{webdrivertest.NewElement("badge").WithText("1")}, nil
			}
			return []*webdrivertest.Element{webdrivertest.NewElement("badge").WithText("2")}, nil
		})

		got, err := NewInventoryPage(s, baseURL).WaitForCartCountToIncrease(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, got)
	})

	t.Run("remove button counts from empty", func(t *testing.T) {
		s, drv := newShop(t)
		drv.Set(removeButtons, webdrivertest.NewElement("remove"))

		got, err := NewInventoryPage(s, baseURL).WaitForCartCountToIncrease(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})

	t.Run("timeout returns the current count", func(t *testing.T) {
		s, drv := newShop(t)
		drv.Set(cartBadge, webdrivertest.NewElement("badge").WithText("3"))

		start := time.Now()
		got, err := NewInventoryPage(s, baseURL).WaitForCartCountToIncrease(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, got)
		assert.Less(t, time.Since(start), time.Second)
	})
}

// sortable wires a dropdown whose selection is read back through script.
func sortable(drv *webdrivertest.Driver, clickSticks bool) *string {
	selected := SortNameAsc
	drv.Set(sortDropdown, webdrivertest.NewElement("sort"))
	for _, option := range []string{SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc} {
		drv.Set(sortOptionLocator(option), webdrivertest.NewElement("option "+option).OnClick(func() {
			if clickSticks {
				selected = option
			}
		}))
	}
	drv.OnScript(func(script string, args []any) (any, bool, error) {
		switch script {
		case SelectedOptionScript:
			return selected, true, nil
		case SelectOptionScript:
			selected = args[1].(string)
			return true, true, nil
		}
		return nil, false, nil
	})
	return &selected
}

func TestInventoryPage_SortBy(t *testing.T) {
	ctx := context.Background()

	t.Run("click selects", func(t *testing.T) {
		s, drv := newShop(t)
		selected := sortable(drv, true)

		require.NoError(t, NewInventoryPage(s, baseURL).SortBy(ctx, SortPriceAsc))
		assert.Equal(t, SortPriceAsc, *selected)
		for _, call := range drv.Scripts() {
			assert.NotEqual(t, SelectOptionScript, call.Script)
		}
	})

	t.Run("script sets the value when clicks do not stick", func(t *testing.T) {
		s, drv := newShop(t)
		selected := sortable(drv, false)

		require.NoError(t, NewInventoryPage(s, baseURL).SortBy(ctx, SortPriceDesc))
		assert.Equal(t, SortPriceDesc, *selected)
	})
}

func TestInventoryPage_OpenProductOutOfRange(t *testing.T) {
	s, drv := newShop(t)
	inventory(drv, "Backpack")

	_, err := NewInventoryPage(s, baseURL).OpenProduct(context.Background(), 3)
	assert.ErrorContains(t, err, "product index 3 out of range (1 listed)")
}

func TestInventoryPage_OpenProduct(t *testing.T) {
	ctx := context.Background()
	s, drv := newShop(t)
	inventory(drv, "Backpack", "Bike Light")

	drv.Set(pages.Nth(productNameXPath, 1), webdrivertest.NewElement("second title").OnClick(func() {
		drv.Set(detailsContainer, webdrivertest.NewElement("details"))
		drv.Set(detailsName, webdrivertest.NewElement("name").WithText("Bike Light"))
		drv.Set(detailsPrice, webdrivertest.NewElement("price").WithText("$9.99"))
		drv.Set(detailsAddButton, webdrivertest.NewElement("add").OnClick(func() {
			drv.Set(detailsRemove, webdrivertest.NewElement("remove"))
			drv.Set(cartBadge, webdrivertest.NewElement("badge").WithText("1"))
		}))
	}))

	details, err := NewInventoryPage(s, baseURL).OpenProduct(ctx, 1)
	require.NoError(t, err)
	assert.True(t, details.IsLoaded(ctx))
	name, err := details.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bike Light", name)

	require.NoError(t, details.AddToCart(ctx))
	inCart, err := details.IsInCart(ctx)
	require.NoError(t, err)
	assert.True(t, inCart)
	count, err := details.CartCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	drv.Set(detailsAddButton, webdrivertest.NewElement("add").Hidden())
	drv.Set(detailsRemove, webdrivertest.NewElement("remove").OnClick(func() {
		drv.Set(detailsAddButton, webdrivertest.NewElement("add"))
		drv.Remove(detailsRemove)
		drv.Remove(cartBadge)
	}))
	require.NoError(t, details.RemoveFromCart(ctx))
	count, err = details.CartCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCartPage_RemoveItemAt(t *testing.T) {
	ctx := context.Background()
	s, drv := newShop(t)

	first := webdrivertest.NewElement("line 1")
	second := webdrivertest.NewElement("line 2")
	drv.Set(cartItems, first, second)
	drv.Set(pages.Nth(cartRemoveXPath, 1), webdrivertest.NewElement("remove 2").OnClick(func() {
		drv.Set(cartItems, first)
	}))

	cart := NewCartPage(s, baseURL)
	require.NoError(t, cart.RemoveItemAt(ctx, 1))
	n, err := cart.ItemCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorContains(t, cart.RemoveItemAt(ctx, 5), "cart index 5 out of range (1 items)")
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("order goes through", func(t *testing.T) {
		s, drv := newShop(t)
		first := webdrivertest.NewElement("first")
		last := webdrivertest.NewElement("last")
		zip := webdrivertest.NewElement("zip")
		drv.Set(firstNameInput, first)
		drv.Set(lastNameInput, last)
		drv.Set(postalCodeInput, zip)
		drv.Set(continueButton, webdrivertest.NewElement("continue").OnClick(func() {
			drv.Set(finishButton, webdrivertest.NewElement("finish").OnClick(func() {
				drv.Set(completeHeader, webdrivertest.NewElement("header").WithText("Thank you for your order!"))
				drv.Set(completeText, webdrivertest.NewElement("text").WithText("Your order has been dispatched"))
			}))
		}))

		checkout := NewCheckoutPage(s, baseURL)
		assert.True(t, checkout.IsLoaded(ctx))
		require.NoError(t, checkout.FillInformation(ctx, "Ada", "Lovelace", "8001"))
		require.NoError(t, checkout.Continue(ctx))
		assert.Equal(t, "Ada", first.Value())
		assert.Equal(t, "Lovelace", last.Value())
		assert.Equal(t, "8001", zip.Value())

		done, err := checkout.Finish(ctx)
		require.NoError(t, err)
		assert.True(t, done.IsDisplayed(ctx))
		header, err := done.Message(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Thank you for your order!", header)
	})

	t.Run("missing postal code is rejected", func(t *testing.T) {
		s, drv := newShop(t)
		drv.Set(firstNameInput, webdrivertest.NewElement("first"))
		drv.Set(lastNameInput, webdrivertest.NewElement("last"))
		drv.Set(postalCodeInput, webdrivertest.NewElement("zip"))
		drv.Set(continueButton, webdrivertest.NewElement("continue").OnClick(func() {
			drv.Set(errorMessage, webdrivertest.NewElement("error").WithText("Error: Postal Code is required"))
		}))

		checkout := NewCheckoutPage(s, baseURL)
		require.NoError(t, checkout.FillInformation(ctx, "Ada", "Lovelace", ""))
		err := checkout.Continue(ctx)
		assert.ErrorContains(t, err, "Postal Code is required")
	})

	t.Run("finish is tried twice at most", func(t *testing.T) {
		s, drv := newShop(t)
		finish := webdrivertest.NewElement("finish")
		drv.Set(finishButton, finish)

		_, err := NewCheckoutPage(s, baseURL).Finish(ctx)
		var notConfirmed *interact.ActionNotConfirmedError
		require.True(t, errors.As(err, &notConfirmed))
		assert.Equal(t, 2, notConfirmed.Attempts)
		assert.False(t, notConfirmed.FallbackApplied)
		assert.Equal(t, 2, finish.NativeClicks())
	})
}
