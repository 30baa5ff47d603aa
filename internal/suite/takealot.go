// internal/suite/takealot.go
package suite

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/fixtures"
	"github.com/xkilldash9x/storefront-e2e/internal/pages/takealot"
)

func TakealotScenarios() []Scenario {
	return []Scenario{
		{Name: "takealot/home-loads", Site: SiteTakealot, Tags: []string{"smoke"}, Run: takealotHomeLoads},
		{Name: "takealot/search", Site: SiteTakealot, Tags: []string{"search"}, Run: takealotSearch},
		{Name: "takealot/signup-validation", Site: SiteTakealot, Tags: []string{"auth"}, Run: takealotSignUpValidation},
	}
}

func openTakealot(ctx context.Context, env *Env) (*takealot.HomePage, error) {
	home := takealot.NewHomePage(env.Browser, env.Sites.Takealot.BaseURL)
	if err := home.Open(ctx); err != nil {
		return nil, err
	}
	return home, nil
}

func takealotHomeLoads(ctx context.Context, env *Env) error {
	home, err := openTakealot(ctx, env)
	if err != nil {
		return err
	}
	title, err := home.Title(ctx)
	if err != nil {
		return err
	}
	return Expectf(strings.Contains(strings.ToLower(title), "takealot"), "page title %q names the store", title)
}

func takealotSearch(ctx context.Context, env *Env) error {
	home, err := openTakealot(ctx, env)
	if err != nil {
		return err
	}
	results, err := home.Search(ctx, "laptop")
	if err != nil {
		return err
	}
	n, err := results.ProductCount(ctx)
	if err != nil {
		return err
	}
	env.Logger.Info("Search results.", zap.String("term", results.Term()), zap.Int("count", n))
	return Expectf(n > 0, "search for %q returns products", results.Term())
}

func takealotSignUpValidation(ctx context.Context, env *Env) error {
	home, err := openTakealot(ctx, env)
	if err != nil {
		return err
	}
	account, err := home.GoToAccount(ctx)
	if err != nil {
		return err
	}
	signUp, err := account.GoToSignUp(ctx)
	if err != nil {
		return err
	}
	form := takealot.SignUpForm{
		Email:     "not-an-email-" + fixtures.RandomString(6),
		FirstName: "Test",
		LastName:  "User",
		Password:  fixtures.RandomString(12),
		Phone:     fixtures.RandomPhone(),
	}
	if err := signUp.Fill(ctx, form); err != nil {
		return err
	}
	if err := signUp.AcceptTerms(ctx); err != nil {
		return err
	}
	if err := signUp.Submit(ctx); err != nil {
		return err
	}
	shown, err := signUp.IsErrorDisplayed(ctx)
	if err != nil {
		return err
	}
	return Expect(shown, "sign-up rejects a malformed email address")
}
