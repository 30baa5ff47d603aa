// internal/suite/saucedemo.go
package suite

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/fixtures"
	"github.com/xkilldash9x/storefront-e2e/internal/pages/saucedemo"
)

// SauceDemoScenarios covers login, browsing, cart and checkout.
func SauceDemoScenarios() []Scenario {
	return []Scenario{
		{Name: "saucedemo/login-success", Site: SiteSauceDemo, Tags: []string{"smoke", "auth"}, Run: loginSuccess},
		{Name: "saucedemo/login-locked-out", Site: SiteSauceDemo, Tags: []string{"auth"}, Run: loginLockedOut},
		{Name: "saucedemo/login-invalid", Site: SiteSauceDemo, Tags: []string{"auth"}, Run: loginInvalid},
		{Name: "saucedemo/inventory-loads", Site: SiteSauceDemo, Tags: []string{"smoke", "inventory"}, Run: inventoryLoads},
		{Name: "saucedemo/add-to-cart", Site: SiteSauceDemo, Tags: []string{"smoke", "cart"}, Run: addToCart},
		{Name: "saucedemo/remove-from-cart", Site: SiteSauceDemo, Tags: []string{"cart"}, Run: removeFromCart},
		{Name: "saucedemo/product-details", Site: SiteSauceDemo, Tags: []string{"inventory"}, Run: productDetails},
		{Name: "saucedemo/sort-by-price", Site: SiteSauceDemo, Tags: []string{"inventory"}, Run: sortByPrice},
		{Name: "saucedemo/checkout", Site: SiteSauceDemo, Tags: []string{"smoke", "checkout"}, Run: checkoutEndToEnd},
		{Name: "saucedemo/checkout-validation", Site: SiteSauceDemo, Tags: []string{"checkout"}, Run: checkoutValidation},
		{Name: "saucedemo/logout", Site: SiteSauceDemo, Tags: []string{"auth"}, Run: logout},
	}
}

func openSauceLogin(ctx context.Context, env *Env) (*saucedemo.LoginPage, error) {
	login := saucedemo.NewLoginPage(env.Browser, env.Sites.SauceDemo.BaseURL)
	if err := login.Open(ctx); err != nil {
		return nil, err
	}
	return login, nil
}

// signIn logs in with the configured account and waits for the inventory.
func signIn(ctx context.Context, env *Env) (*saucedemo.InventoryPage, error) {
	login, err := openSauceLogin(ctx, env)
	if err != nil {
		return nil, err
	}
	inv, err := login.Login(ctx, env.Sites.SauceDemo.Username, env.Sites.SauceDemo.Password)
	if err != nil {
		return nil, err
	}
	if !inv.IsLoaded(ctx) {
		msg, _ := login.ErrorMessage(ctx)
		return nil, Expectf(false, "inventory did not load after login (error shown: %q)", msg)
	}
	return inv, nil
}

func loginSuccess(ctx context.Context, env *Env) error {
	inv, err := signIn(ctx, env)
	if err != nil {
		return err
	}
	n, err := inv.ProductCount(ctx)
	if err != nil {
		return err
	}
	return Expectf(n > 0, "inventory lists products (got %d)", n)
}

func expectLoginRejected(ctx context.Context, env *Env, user, password, fragment string) error {
	login, err := openSauceLogin(ctx, env)
	if err != nil {
		return err
	}
	if _, err := login.Login(ctx, user, password); err != nil {
		return err
	}
	if err := Expect(login.IsErrorDisplayed(ctx), "login error is displayed"); err != nil {
		return err
	}
	msg, err := login.ErrorMessage(ctx)
	if err != nil {
		return err
	}
	env.Logger.Info("Login rejected.", zap.String("message", msg))
	return Expectf(strings.Contains(strings.ToLower(msg), fragment), "login error %q mentions %q", msg, fragment)
}

func loginLockedOut(ctx context.Context, env *Env) error {
	return expectLoginRejected(ctx, env, fixtures.LockedOutUser, fixtures.SaucePassword, fixtures.LockedOutFragment)
}

func loginInvalid(ctx context.Context, env *Env) error {
	return expectLoginRejected(ctx, env, fixtures.InvalidUser, fixtures.InvalidPassword, "do not match")
}

func inventoryLoads(ctx context.Context, env *Env) error {
	inv, err := signIn(ctx, env)
	if err != nil {
		return err
	}
	title, err := env.Browser.Title(ctx)
	if err != nil {
		return err
	}
	if err := Expectf(strings.Contains(title, "Swag Labs"), "page title %q contains Swag Labs", title); err != nil {
		return err
	}
	heading, err := inv.Title(ctx)
	if err != nil {
		return err
	}
	if err := Expectf(heading == "Products", "inventory heading is Products (got %q)", heading); err != nil {
		return err
	}
	names, err := inv.ProductNames(ctx)
	if err != nil {
		return err
	}
	return Expectf(len(names) > 0 && !slices.Contains(names, ""), "every product has a name (%q)", names)
}

func addToCart(ctx context.Context, env *Env) error {
	inv, err := signIn(ctx, env)
	if err != nil {
		return err
	}
	before, err := inv.CartCount(ctx)
	if err != nil {
		return err
	}
	if _, err := inv.AddFirstProductToCart(ctx); err != nil {
		return err
	}
	after, err := inv.WaitForCartCountToIncrease(ctx, before)
	if err != nil {
		return err
	}
	return Expectf(after > before, "cart count went from %d to more (got %d)", before, after)
}

func removeFromCart(ctx context.Context, env *Env) error {
	inv, err := signIn(ctx, env)
	if err != nil {
		return err
	}
	if _, err := inv.AddFirstProductToCart(ctx); err != nil {
		return err
	}
	cart, err := inv.GoToCart(ctx)
	if err != nil {
		return err
	}
	n, err := cart.ItemCount(ctx)
	if err != nil {
		return err
	}
	if err := Expectf(n == 1, "cart holds the added product (got %d items)", n); err != nil {
		return err
	}
	if err := cart.RemoveItemAt(ctx, 0); err != nil {
		return err
	}
	n, err = cart.ItemCount(ctx)
	if err != nil {
		return err
	}
	return Expectf(n == 0, "cart is empty after removal (got %d items)", n)
}

func productDetails(ctx context.Context, env *Env) error {
	inv, err := signIn(ctx, env)
	if err != nil {
		return err
	}
	details, err := inv.OpenProduct(ctx, 0)
	if err != nil {
		return err
	}
	title, err := details.Title(ctx)
	if err != nil {
		return err
	}
	price, err := details.Price(ctx)
	if err != nil {
		return err
	}
	desc, err := details.Description(ctx)
	if err != nil {
		return err
	}
	env.Logger.Info("Product details.", zap.String("title", title), zap.String("price", price),
		zap.String("description", fixtures.Truncate(desc, 40)))

	if err := Expect(title != "" && desc != "", "product shows a title and a description"); err != nil {
		return err
	}
	amount, err := fixtures.ExtractCurrencyValue(price)
	if err != nil {
		return &AssertionError{Message: err.Error()}
	}
	if err := Expectf(amount > 0, "product price %q is positive", price); err != nil {
		return err
	}
	if _, err := details.BackToProducts(ctx); err != nil {
		return fmt.Errorf("returning to inventory: %w", err)
	}
	return nil
}

func sortByPrice(ctx context.Context, env *Env) error {
	inv, err := signIn(ctx, env)
	if err != nil {
		return err
	}
	for _, tc := range []struct {
		option string
		order  func(a, b float64) int
	}{
		{saucedemo.SortPriceAsc, cmp.Compare[float64]},
		{saucedemo.SortPriceDesc, func(a, b float64) int { return cmp.Compare(b, a) }},
	} {
		if err := inv.SortBy(ctx, tc.option); err != nil {
			return err
		}
		shown, err := inv.ProductPrices(ctx)
		if err != nil {
			return err
		}
		prices := make([]float64, 0, len(shown))
		for _, p := range shown {
			v, err := fixtures.ExtractCurrencyValue(p)
			if err != nil {
				return &AssertionError{Message: err.Error()}
			}
			prices = append(prices, v)
		}
		if err := Expectf(slices.IsSortedFunc(prices, tc.order), "prices are ordered for %q: %v", tc.option, prices); err != nil {
			return err
		}
	}
	return nil
}

func toCheckout(ctx context.Context, env *Env) (*saucedemo.CheckoutPage, error) {
	inv, err := signIn(ctx, env)
	if err != nil {
		return nil, err
	}
	if _, err := inv.AddFirstProductToCart(ctx); err != nil {
		return nil, err
	}
	cart, err := inv.GoToCart(ctx)
	if err != nil {
		return nil, err
	}
	return cart.ProceedToCheckout(ctx)
}

func checkoutEndToEnd(ctx context.Context, env *Env) error {
	checkout, err := toCheckout(ctx, env)
	if err != nil {
		return err
	}
	c := fixtures.CheckoutCustomer
	if err := checkout.FillInformation(ctx, c.FirstName, c.LastName, c.PostalCode); err != nil {
		return err
	}
	if err := checkout.Continue(ctx); err != nil {
		return err
	}
	done, err := checkout.Finish(ctx)
	if err != nil {
		return err
	}
	msg, err := done.Message(ctx)
	if err != nil {
		return err
	}
	return Expectf(strings.Contains(strings.ToLower(msg), "thank you"), "order confirmation thanks the customer (got %q)", msg)
}

func checkoutValidation(ctx context.Context, env *Env) error {
	checkout, err := toCheckout(ctx, env)
	if err != nil {
		return err
	}
	c := fixtures.CheckoutCustomer
	if err := checkout.FillInformation(ctx, c.FirstName, c.LastName, ""); err != nil {
		return err
	}
	if err := checkout.Continue(ctx); err == nil {
		return Expect(false, "checkout continues without a postal code")
	}
	msg, err := checkout.ErrorMessage(ctx)
	if err != nil {
		return err
	}
	return Expectf(strings.Contains(msg, "Postal Code is required"), "checkout asks for the postal code (got %q)", msg)
}

func logout(ctx context.Context, env *Env) error {
	inv, err := signIn(ctx, env)
	if err != nil {
		return err
	}
	login, err := inv.Logout(ctx)
	if err != nil {
		return err
	}
	return Expect(login.IsLoaded(ctx), "login page is back after logout")
}
