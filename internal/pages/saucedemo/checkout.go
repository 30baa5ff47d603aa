// internal/pages/saucedemo/checkout.go
package saucedemo

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/storefront-e2e/internal/interact"
	"github.com/xkilldash9x/storefront-e2e/internal/pages"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// CheckoutPage covers both the information step and the overview step.
type CheckoutPage struct {
	b       pages.Browser
	baseURL string
}

func NewCheckoutPage(b pages.Browser, baseURL string) *CheckoutPage {
	return &CheckoutPage{b: b, baseURL: baseURL}
}

func (p *CheckoutPage) IsLoaded(ctx context.Context) bool {
	return pages.IsLoaded(ctx, p.b, "saucedemo checkout", firstNameInput, lastNameInput, postalCodeInput)
}

// FillInformation types the customer details into the information step.
func (p *CheckoutPage) FillInformation(ctx context.Context, first, last, postal string) error {
	fields := []struct {
		name  string
		loc   webdriver.Locator
		value string
	}{
		{"first name", firstNameInput, first},
		{"last name", lastNameInput, last},
		{"postal code", postalCodeInput, postal},
	}
	for _, f := range fields {
		if err := p.b.SendKeysWhenReady(ctx, f.loc, f.value); err != nil {
			return fmt.Errorf("filling %s: %w", f.name, err)
		}
	}
	return nil
}

// Continue submits the information step and waits for the overview. A form
// error keeps the page where it is and is returned as is.
func (p *CheckoutPage) Continue(ctx context.Context) error {
	if _, err := p.b.ClickWithScroll(ctx, continueButton); err != nil {
		return err
	}
	_, loc, err := p.b.WaitAnyVisible(ctx, 0, finishButton, errorMessage)
	if err != nil {
		return fmt.Errorf("checkout overview did not load: %w", err)
	}
	if loc == errorMessage {
		msg, _ := p.ErrorMessage(ctx)
		return fmt.Errorf("checkout information rejected: %s", msg)
	}
	return nil
}

func (p *CheckoutPage) ErrorMessage(ctx context.Context) (string, error) {
	return p.b.TextOf(ctx, errorMessage)
}

// Finish places the order. The confirmation header is the effect; two tries
// at most, since a double submit would place a second order on a real shop.
func (p *CheckoutPage) Finish(ctx context.Context) (*OrderConfirmationPage, error) {
	_, err := p.b.RunAction(ctx, interact.Action{
		Name:        "finish checkout",
		MaxAttempts: 2,
		Perform: func(ctx context.Context) error {
			_, err := p.b.ClickWithScroll(ctx, finishButton)
			return err
		},
		Effect: func(ctx context.Context) (bool, error) {
			return p.b.IsVisible(ctx, completeHeader)
		},
	})
	if err != nil {
		return nil, err
	}
	return NewOrderConfirmationPage(p.b, p.baseURL), nil
}

// Cancel leaves checkout, landing on the inventory.
func (p *CheckoutPage) Cancel(ctx context.Context) (*InventoryPage, error) {
	if _, err := p.b.Click(ctx, cancelButton); err != nil {
		return nil, err
	}
	if err := pages.Loaded(ctx, p.b, 0, inventoryItems); err != nil {
		return nil, fmt.Errorf("inventory did not load: %w", err)
	}
	return NewInventoryPage(p.b, p.baseURL), nil
}
