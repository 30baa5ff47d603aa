// internal/pages/saucedemo/inventory.go
package saucedemo

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/interact"
	"github.com/xkilldash9x/storefront-e2e/internal/pages"
	"github.com/xkilldash9x/storefront-e2e/internal/poll"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// CartInjectionScript adds the first listed product's id to the persisted cart
// and returns the new cart size. It returns -1 when no product link is on the
// page and 0 when the product was already in the cart.
const CartInjectionScript = `
const link = document.querySelector(".inventory_item a[id^='item_'][id$='_title_link']");
if (!link) return -1;
const id = parseInt(link.id.split('_')[1], 10);
const cart = JSON.parse(window.localStorage.getItem('cart-contents') || '[]');
if (cart.includes(id)) return 0;
cart.push(id);
window.localStorage.setItem('cart-contents', JSON.stringify(cart));
return cart.length;`

// SelectOptionScript selects the option of arguments[0] whose text contains
// arguments[1], going through the native setter so React sees the change.
const SelectOptionScript = `
const select = arguments[0], wanted = arguments[1];
const option = Array.from(select.options).find(o => o.text.includes(wanted));
if (!option) return false;
const setter = Object.getOwnPropertyDescriptor(HTMLSelectElement.prototype, 'value').set;
setter.call(select, option.value);
select.dispatchEvent(new Event('change', { bubbles: true }));
return true;`

// SelectedOptionScript returns the text of the selected option of arguments[0].
const SelectedOptionScript = `
const select = arguments[0];
return select.selectedIndex < 0 ? '' : select.options[select.selectedIndex].text;`

// Sort options as labelled in the dropdown.
const (
	SortNameAsc   = "Name (A to Z)"
	SortNameDesc  = "Name (Z to A)"
	SortPriceAsc  = "Price (low to high)"
	SortPriceDesc = "Price (high to low)"
)

// InventoryPage lists the products after login.
type InventoryPage struct {
	b       pages.Browser
	baseURL string
}

func NewInventoryPage(b pages.Browser, baseURL string) *InventoryPage {
	return &InventoryPage{b: b, baseURL: baseURL}
}

func (p *InventoryPage) IsLoaded(ctx context.Context) bool {
	return pages.IsLoaded(ctx, p.b, "saucedemo inventory", inventoryItems)
}

func (p *InventoryPage) Title(ctx context.Context) (string, error) {
	return p.b.TextOf(ctx, pageTitle)
}

func (p *InventoryPage) ProductCount(ctx context.Context) (int, error) {
	if _, err := p.b.WaitVisible(ctx, inventoryItems, 0); err != nil {
		return 0, err
	}
	return pages.Count(ctx, p.b, inventoryItems)
}

func (p *InventoryPage) ProductNames(ctx context.Context) ([]string, error) {
	if _, err := p.b.WaitVisible(ctx, inventoryNames, 0); err != nil {
		return nil, err
	}
	return pages.Texts(ctx, p.b, inventoryNames)
}

// ProductPrices returns the listed prices as shown, e.g. "$29.99".
func (p *InventoryPage) ProductPrices(ctx context.Context) ([]string, error) {
	if _, err := p.b.WaitVisible(ctx, inventoryPrices, 0); err != nil {
		return nil, err
	}
	return pages.Texts(ctx, p.b, inventoryPrices)
}

// OpenProduct opens the details of the i-th listed product, counting from zero.
func (p *InventoryPage) OpenProduct(ctx context.Context, i int) (*ProductDetailsPage, error) {
	count, err := p.ProductCount(ctx)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= count {
		return nil, fmt.Errorf("product index %d out of range (%d listed)", i, count)
	}
	if _, err := p.b.ClickWithScroll(ctx, pages.Nth(productNameXPath, i)); err != nil {
		return nil, err
	}
	details := NewProductDetailsPage(p.b, p.baseURL)
	if err := pages.Loaded(ctx, p.b, 0, detailsContainer); err != nil {
		return nil, fmt.Errorf("product details did not load: %w", err)
	}
	return details, nil
}

// CartCount reads the cart badge; no badge means an empty cart.
func (p *InventoryPage) CartCount(ctx context.Context) (int, error) {
	return pages.BadgeCount(ctx, p.b, cartBadge)
}

// addedToCart holds once the badge passes initial or, from an empty cart, a
// remove button shows up.
func (p *InventoryPage) addedToCart(initial int) interact.Condition {
	return func(ctx context.Context) (bool, error) {
		count, err := p.CartCount(ctx)
		if err != nil {
			return false, err
		}
		if count > initial {
			return true, nil
		}
		if initial > 0 {
			return false, nil
		}
		return p.b.IsPresent(ctx, removeButtons)
	}
}

// AddFirstProductToCart clicks the first add-to-cart button and confirms the
// cart changed. When every attempt goes unconfirmed, the product is written
// into the persisted cart and the page reloaded, once.
func (p *InventoryPage) AddFirstProductToCart(ctx context.Context) (interact.ActionReport, error) {
	if _, err := p.b.WaitVisible(ctx, inventoryItems, 0); err != nil {
		return interact.ActionReport{}, err
	}
	initial, err := p.CartCount(ctx)
	if err != nil {
		return interact.ActionReport{}, err
	}

	report, err := p.b.RunAction(ctx, interact.Action{
		Name: "add first product to cart",
		Perform: func(ctx context.Context) error {
			_, err := p.b.ClickWithScroll(ctx, addToCartButtons)
			return err
		},
		Effect:   p.addedToCart(initial),
		Fallback: p.injectFirstProduct,
	})
	if err != nil {
		return report, err
	}
	if report.FallbackApplied {
		p.b.Logger().Warn("Cart change only confirmed after writing the cart directly.",
			zap.Int("attempts", report.Attempts))
	}
	return report, nil
}

func (p *InventoryPage) injectFirstProduct(ctx context.Context) error {
	res, err := p.b.ExecuteScript(ctx, CartInjectionScript)
	if err != nil {
		return fmt.Errorf("writing cart contents: %w", err)
	}
	if n, ok := res.(float64); ok {
		switch {
		case n < 0:
			return fmt.Errorf("writing cart contents: no product on the page")
		case n == 0:
			return fmt.Errorf("writing cart contents: first product already in the cart")
		}
	}
	return p.b.Refresh(ctx)
}

// WaitForCartCountToIncrease waits for the badge to exceed initial and returns
// the new count. From an empty cart a visible remove button counts as one. On
// timeout it returns whatever the badge shows.
func (p *InventoryPage) WaitForCartCountToIncrease(ctx context.Context, initial int) (int, error) {
	timing := p.b.Timing()
	res := poll.Poll(ctx, timing.Explicit, timing.PollInterval, func(ctx context.Context) (int, bool, error) {
		current, err := p.CartCount(ctx)
		if err != nil {
			return 0, false, err
		}
		if current > initial {
			return current, true, nil
		}
		if initial == 0 {
			present, err := p.b.IsPresent(ctx, removeButtons)
			if err != nil {
				return 0, false, err
			}
			if present {
				return 1, true, nil
			}
		}
		return 0, false, nil
	}, poll.WithTransient(webdriver.IsTransient))

	switch res.Outcome {
	case poll.Success:
		return res.Value, nil
	case poll.TimedOut:
		return p.CartCount(ctx)
	default:
		return 0, res.Err
	}
}

func sortOptionLocator(option string) webdriver.Locator {
	return webdriver.XPath(fmt.Sprintf("//select[contains(@class, 'product_sort_container')]/option[contains(text(), %s)]",
		pages.XPathLiteral(option)))
}

// SortBy picks option from the sort dropdown and confirms the selection took.
// If clicking never sticks the value is set through the select element.
func (p *InventoryPage) SortBy(ctx context.Context, option string) error {
	option = strings.TrimSpace(option)
	optionLoc := sortOptionLocator(option)

	selected := func(ctx context.Context) (bool, error) {
		el, err := p.b.WaitPresent(ctx, sortDropdown, 0)
		if err != nil {
			return false, err
		}
		text, err := p.b.ExecuteScript(ctx, SelectedOptionScript, el)
		if err != nil {
			return false, err
		}
		s, _ := text.(string)
		return strings.Contains(s, option), nil
	}

	_, err := p.b.RunAction(ctx, interact.Action{
		Name: "sort by " + option,
		Perform: func(ctx context.Context) error {
			if _, err := p.b.Click(ctx, sortDropdown); err != nil {
				return err
			}
			_, err := p.b.Click(ctx, optionLoc)
			return err
		},
		Effect: selected,
		Fallback: func(ctx context.Context) error {
			el, err := p.b.WaitPresent(ctx, sortDropdown, 0)
			if err != nil {
				return err
			}
			res, err := p.b.ExecuteScript(ctx, SelectOptionScript, el, option)
			if err != nil {
				return err
			}
			if ok, _ := res.(bool); !ok {
				return fmt.Errorf("no sort option containing %q", option)
			}
			return nil
		},
	})
	return err
}

func (p *InventoryPage) GoToCart(ctx context.Context) (*CartPage, error) {
	if _, err := p.b.Click(ctx, cartLink); err != nil {
		return nil, err
	}
	cart := NewCartPage(p.b, p.baseURL)
	if err := pages.Loaded(ctx, p.b, 0, cartList); err != nil {
		return nil, fmt.Errorf("cart did not load: %w", err)
	}
	return cart, nil
}

// Logout opens the side menu and signs out.
func (p *InventoryPage) Logout(ctx context.Context) (*LoginPage, error) {
	if _, err := p.b.Click(ctx, menuButton); err != nil {
		return nil, err
	}
	if _, err := p.b.WaitVisible(ctx, logoutLink, 0); err != nil {
		return nil, err
	}
	if _, err := p.b.ClickWithScroll(ctx, logoutLink); err != nil {
		return nil, err
	}
	login := NewLoginPage(p.b, p.baseURL)
	if err := pages.Loaded(ctx, p.b, 0, loginContainer); err != nil {
		return nil, fmt.Errorf("login page did not return after logout: %w", err)
	}
	return login, nil
}
