// internal/pages/saucedemo/login.go
package saucedemo

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/pages"
)

// LoginPage is the site's landing page.
type LoginPage struct {
	b       pages.Browser
	baseURL string
}

func NewLoginPage(b pages.Browser, baseURL string) *LoginPage {
	return &LoginPage{b: b, baseURL: strings.TrimRight(baseURL, "/")}
}

// Open navigates to the site root and waits for the login form.
func (p *LoginPage) Open(ctx context.Context) error {
	if err := p.b.Navigate(ctx, p.baseURL+"/"); err != nil {
		return err
	}
	if err := pages.Loaded(ctx, p.b, 0, loginContainer, usernameInput); err != nil {
		return fmt.Errorf("login page did not load: %w", err)
	}
	return nil
}

// Login submits the form. It does not check the outcome; callers ask the
// returned inventory page or this page's error message.
func (p *LoginPage) Login(ctx context.Context, username, password string) (*InventoryPage, error) {
	p.b.Logger().Info("Logging in.", zap.String("username", username))
	if err := p.b.SendKeysWhenReady(ctx, usernameInput, username); err != nil {
		return nil, err
	}
	if err := p.b.SendKeysWhenReady(ctx, passwordInput, password); err != nil {
		return nil, err
	}
	if _, err := p.b.Click(ctx, loginButton); err != nil {
		return nil, err
	}
	return NewInventoryPage(p.b, p.baseURL), nil
}

func (p *LoginPage) ErrorMessage(ctx context.Context) (string, error) {
	return p.b.TextOf(ctx, errorMessage)
}

func (p *LoginPage) IsErrorDisplayed(ctx context.Context) bool {
	_, err := p.b.WaitVisible(ctx, errorMessage, 0)
	return err == nil
}

func (p *LoginPage) IsLoaded(ctx context.Context) bool {
	return pages.IsLoaded(ctx, p.b, "saucedemo login", loginContainer)
}
