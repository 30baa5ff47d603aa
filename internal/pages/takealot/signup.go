// internal/pages/takealot/signup.go
package takealot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/interact"
	"github.com/xkilldash9x/storefront-e2e/internal/pages"
	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

// CheckedScript reports whether the checkbox in arguments[0] is ticked.
const CheckedScript = `return arguments[0].checked === true;`

// CheckScript ticks the checkbox in arguments[0] and lets listeners know.
const CheckScript = `
const box = arguments[0];
box.checked = true;
box.dispatchEvent(new Event('input', { bubbles: true }));
box.dispatchEvent(new Event('change', { bubbles: true }));
return box.checked;`

// SignUpForm holds what the registration form asks for. Password is typed
// into both password fields.
type SignUpForm struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Phone     string
}

type SignUpPage struct {
	b       pages.Browser
	baseURL string
}

func (p *SignUpPage) IsLoaded(ctx context.Context) bool {
	return pages.IsLoaded(ctx, p.b, "takealot sign-up", emailInput, signUpButton)
}

func (p *SignUpPage) Fill(ctx context.Context, form SignUpForm) error {
	p.b.Logger().Info("Filling sign-up form.", zap.String("email", form.Email))
	fields := []struct {
		loc   webdriver.Locator
		value string
	}{
		{emailInput, form.Email},
		{firstNameInput, form.FirstName},
		{lastNameInput, form.LastName},
		{signUpPasswordInput, form.Password},
		{confirmPasswordInput, form.Password},
		{phoneInput, form.Phone},
	}
	for _, f := range fields {
		if err := p.b.SendKeysWhenReady(ctx, f.loc, f.value); err != nil {
			return err
		}
	}
	return nil
}

func (p *SignUpPage) termsChecked(ctx context.Context) (bool, error) {
	box, err := p.b.WaitPresent(ctx, termsCheckbox, 0)
	if err != nil {
		return false, err
	}
	res, err := p.b.ExecuteScript(ctx, CheckedScript, box)
	if err != nil {
		return false, err
	}
	checked, _ := res.(bool)
	return checked, nil
}

// AcceptTerms ticks the terms checkbox and confirms it stayed ticked. If clicks
// never stick, the box is set through script once.
func (p *SignUpPage) AcceptTerms(ctx context.Context) error {
	already, err := p.termsChecked(ctx)
	if err != nil {
		return err
	}
	if already {
		return nil
	}
	_, err = p.b.RunAction(ctx, interact.Action{
		Name: "accept terms",
		Perform: func(ctx context.Context) error {
			_, err := p.b.ClickWithScroll(ctx, termsCheckbox)
			return err
		},
		Effect: p.termsChecked,
		Fallback: func(ctx context.Context) error {
			box, err := p.b.WaitPresent(ctx, termsCheckbox, 0)
			if err != nil {
				return err
			}
			_, err = p.b.ExecuteScript(ctx, CheckScript, box)
			return err
		},
	})
	return err
}

// Submit sends the form and waits for the site's verdict. A visible error
// message is not an error here; callers read it through ErrorMessage.
func (p *SignUpPage) Submit(ctx context.Context) error {
	if _, err := p.b.ClickWithScroll(ctx, signUpButton); err != nil {
		return err
	}
	if _, _, err := p.b.WaitAnyVisible(ctx, 0, formError, formSuccess); err != nil {
		return fmt.Errorf("sign-up gave no feedback: %w", err)
	}
	return nil
}

func (p *SignUpPage) ErrorMessage(ctx context.Context) (string, error) {
	return p.b.TextOf(ctx, formError)
}

func (p *SignUpPage) IsErrorDisplayed(ctx context.Context) (bool, error) {
	return p.b.IsVisible(ctx, formError)
}

func (p *SignUpPage) IsSuccessDisplayed(ctx context.Context) (bool, error) {
	return p.b.IsVisible(ctx, formSuccess)
}
