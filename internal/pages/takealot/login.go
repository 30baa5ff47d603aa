// internal/pages/takealot/login.go
package takealot

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/pages"
)

type LoginPage struct {
	b       pages.Browser
	baseURL string
}

func (p *LoginPage) IsLoaded(ctx context.Context) bool {
	return pages.IsLoaded(ctx, p.b, "takealot login", emailInput, loginPasswordInput, loginButton)
}

// Login submits the credentials. Whether they were accepted is for the caller
// to check, via ErrorMessage or the account menu.
func (p *LoginPage) Login(ctx context.Context, email, password string) error {
	p.b.Logger().Info("Logging in.", zap.String("email", email))
	if err := p.b.SendKeysWhenReady(ctx, emailInput, email); err != nil {
		return err
	}
	if err := p.b.SendKeysWhenReady(ctx, loginPasswordInput, password); err != nil {
		return err
	}
	_, err := p.b.Click(ctx, loginButton)
	return err
}

func (p *LoginPage) ErrorMessage(ctx context.Context) (string, error) {
	return p.b.TextOf(ctx, formError)
}

func (p *LoginPage) GoToSignUp(ctx context.Context) (*SignUpPage, error) {
	if _, err := p.b.Click(ctx, signUpLink); err != nil {
		return nil, err
	}
	return &SignUpPage{b: p.b, baseURL: p.baseURL}, nil
}
