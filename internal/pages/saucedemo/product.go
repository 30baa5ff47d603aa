// internal/pages/saucedemo/product.go
package saucedemo

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/storefront-e2e/internal/interact"
	"github.com/xkilldash9x/storefront-e2e/internal/pages"
)

// ProductDetailsPage shows a single product.
type ProductDetailsPage struct {
	b       pages.Browser
	baseURL string
}

func NewProductDetailsPage(b pages.Browser, baseURL string) *ProductDetailsPage {
	return &ProductDetailsPage{b: b, baseURL: baseURL}
}

func (p *ProductDetailsPage) IsLoaded(ctx context.Context) bool {
	return pages.IsLoaded(ctx, p.b, "saucedemo product details", detailsContainer, detailsName)
}

func (p *ProductDetailsPage) Title(ctx context.Context) (string, error) {
	return p.b.TextOf(ctx, detailsName)
}

func (p *ProductDetailsPage) Price(ctx context.Context) (string, error) {
	return p.b.TextOf(ctx, detailsPrice)
}

func (p *ProductDetailsPage) Description(ctx context.Context) (string, error) {
	return p.b.TextOf(ctx, detailsDescription)
}

// AddToCart clicks add-to-cart and confirms the button turned into remove.
func (p *ProductDetailsPage) AddToCart(ctx context.Context) error {
	_, err := p.b.RunAction(ctx, interact.Action{
		Name: "add product to cart from details",
		Perform: func(ctx context.Context) error {
			_, err := p.b.ClickWithScroll(ctx, detailsAddButton)
			return err
		},
		Effect: func(ctx context.Context) (bool, error) {
			return p.b.IsVisible(ctx, detailsRemove)
		},
	})
	return err
}

// RemoveFromCart clicks remove and confirms add-to-cart came back.
func (p *ProductDetailsPage) RemoveFromCart(ctx context.Context) error {
	_, err := p.b.RunAction(ctx, interact.Action{
		Name: "remove product from cart on details",
		Perform: func(ctx context.Context) error {
			_, err := p.b.ClickWithScroll(ctx, detailsRemove)
			return err
		},
		Effect: func(ctx context.Context) (bool, error) {
			return p.b.IsVisible(ctx, detailsAddButton)
		},
	})
	return err
}

func (p *ProductDetailsPage) IsInCart(ctx context.Context) (bool, error) {
	return p.b.IsVisible(ctx, detailsRemove)
}

func (p *ProductDetailsPage) CartCount(ctx context.Context) (int, error) {
	return pages.BadgeCount(ctx, p.b, cartBadge)
}

// BackToProducts returns to the inventory list.
func (p *ProductDetailsPage) BackToProducts(ctx context.Context) (*InventoryPage, error) {
	if _, err := p.b.Click(ctx, detailsBack); err != nil {
		return nil, err
	}
	if err := pages.Loaded(ctx, p.b, 0, inventoryItems); err != nil {
		return nil, fmt.Errorf("inventory did not load: %w", err)
	}
	return NewInventoryPage(p.b, p.baseURL), nil
}
