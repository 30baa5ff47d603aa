// internal/pages/takealot/account.go
package takealot

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/storefront-e2e/internal/pages"
)

// AccountPage is the account menu opened from the header.
type AccountPage struct {
	b       pages.Browser
	baseURL string
}

func (p *AccountPage) GoToLogin(ctx context.Context) (*LoginPage, error) {
	if _, err := p.b.Click(ctx, loginLink); err != nil {
		return nil, err
	}
	login := &LoginPage{b: p.b, baseURL: p.baseURL}
	if err := pages.Loaded(ctx, p.b, 0, emailInput, loginButton); err != nil {
		return nil, fmt.Errorf("login form did not load: %w", err)
	}
	return login, nil
}

func (p *AccountPage) GoToSignUp(ctx context.Context) (*SignUpPage, error) {
	if _, err := p.b.Click(ctx, signUpLink); err != nil {
		return nil, err
	}
	signUp := &SignUpPage{b: p.b, baseURL: p.baseURL}
	if err := pages.Loaded(ctx, p.b, 0, emailInput, signUpButton); err != nil {
		return nil, fmt.Errorf("sign-up form did not load: %w", err)
	}
	return signUp, nil
}

// Logout signs out and confirms the login link is back.
func (p *AccountPage) Logout(ctx context.Context) error {
	if _, err := p.b.Click(ctx, logoutButton); err != nil {
		return err
	}
	if _, err := p.b.WaitVisible(ctx, loginLink, 0); err != nil {
		return fmt.Errorf("still signed in after logout: %w", err)
	}
	return nil
}

func (p *AccountPage) Username(ctx context.Context) (string, error) {
	return p.b.TextOf(ctx, usernameText)
}

func (p *AccountPage) IsLoggedIn(ctx context.Context) (bool, error) {
	return p.b.IsVisible(ctx, usernameText)
}
