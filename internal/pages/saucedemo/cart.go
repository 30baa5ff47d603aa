// internal/pages/saucedemo/cart.go
package saucedemo

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/storefront-e2e/internal/interact"
	"github.com/xkilldash9x/storefront-e2e/internal/pages"
)

type CartPage struct {
	b       pages.Browser
	baseURL string
}

func NewCartPage(b pages.Browser, baseURL string) *CartPage {
	return &CartPage{b: b, baseURL: baseURL}
}

func (p *CartPage) IsLoaded(ctx context.Context) bool {
	return pages.IsLoaded(ctx, p.b, "saucedemo cart", cartList)
}

func (p *CartPage) ItemCount(ctx context.Context) (int, error) {
	return pages.Count(ctx, p.b, cartItems)
}

func (p *CartPage) ItemNames(ctx context.Context) ([]string, error) {
	return pages.Texts(ctx, p.b, cartItemNames)
}

// RemoveItemAt removes the i-th cart line, counting from zero, and waits for
// the line count to drop.
func (p *CartPage) RemoveItemAt(ctx context.Context, i int) error {
	before, err := p.ItemCount(ctx)
	if err != nil {
		return err
	}
	if i < 0 || i >= before {
		return fmt.Errorf("cart index %d out of range (%d items)", i, before)
	}
	_, err = p.b.RunAction(ctx, interact.Action{
		Name: fmt.Sprintf("remove cart item %d", i),
		Perform: func(ctx context.Context) error {
			_, err := p.b.ClickWithScroll(ctx, pages.Nth(cartRemoveXPath, i))
			return err
		},
		Effect: func(ctx context.Context) (bool, error) {
			n, err := p.ItemCount(ctx)
			return n < before, err
		},
	})
	return err
}

func (p *CartPage) ContinueShopping(ctx context.Context) (*InventoryPage, error) {
	if _, err := p.b.Click(ctx, continueShopping); err != nil {
		return nil, err
	}
	if err := pages.Loaded(ctx, p.b, 0, inventoryItems); err != nil {
		return nil, fmt.Errorf("inventory did not load: %w", err)
	}
	return NewInventoryPage(p.b, p.baseURL), nil
}

// ProceedToCheckout starts checkout and waits for the customer form.
func (p *CartPage) ProceedToCheckout(ctx context.Context) (*CheckoutPage, error) {
	if _, err := p.b.ClickWithScroll(ctx, checkoutButton); err != nil {
		return nil, err
	}
	if err := pages.Loaded(ctx, p.b, 0, firstNameInput); err != nil {
		return nil, fmt.Errorf("checkout form did not load: %w", err)
	}
	return NewCheckoutPage(p.b, p.baseURL), nil
}
