// internal/pages/saucedemo/confirmation.go
package saucedemo

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/storefront-e2e/internal/pages"
)

// OrderConfirmationPage is shown once an order went through.
type OrderConfirmationPage struct {
	b       pages.Browser
	baseURL string
}

func NewOrderConfirmationPage(b pages.Browser, baseURL string) *OrderConfirmationPage {
	return &OrderConfirmationPage{b: b, baseURL: baseURL}
}

func (p *OrderConfirmationPage) IsDisplayed(ctx context.Context) bool {
	return pages.IsLoaded(ctx, p.b, "saucedemo order confirmation", completeHeader)
}

// Message is the confirmation headline.
func (p *OrderConfirmationPage) Message(ctx context.Context) (string, error) {
	return p.b.TextOf(ctx, completeHeader)
}

func (p *OrderConfirmationPage) Text(ctx context.Context) (string, error) {
	return p.b.TextOf(ctx, completeText)
}

func (p *OrderConfirmationPage) BackHome(ctx context.Context) (*InventoryPage, error) {
	if _, err := p.b.Click(ctx, backHomeButton); err != nil {
		return nil, err
	}
	if err := pages.Loaded(ctx, p.b, 0, inventoryItems); err != nil {
		return nil, fmt.Errorf("inventory did not load: %w", err)
	}
	return NewInventoryPage(p.b, p.baseURL), nil
}
