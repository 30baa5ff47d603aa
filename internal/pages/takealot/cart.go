// internal/pages/takealot/cart.go
package takealot

import (
	"context"

	"github.com/xkilldash9x/storefront-e2e/internal/pages"
)

type CartPage struct {
	b pages.Browser
}

func (p *CartPage) ItemCount(ctx context.Context) (int, error) {
	return pages.Count(ctx, p.b, cartItems)
}

// IsEmpty waits for either cart lines or the empty-cart notice.
func (p *CartPage) IsEmpty(ctx context.Context) (bool, error) {
	_, loc, err := p.b.WaitAnyVisible(ctx, 0, cartItems, emptyCart)
	if err != nil {
		return false, err
	}
	return loc == emptyCart, nil
}

func (p *CartPage) ProceedToCheckout(ctx context.Context) error {
	_, err := p.b.ClickWithScroll(ctx, checkoutButton)
	return err
}
