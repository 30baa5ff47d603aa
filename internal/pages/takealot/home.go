// internal/pages/takealot/home.go
package takealot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/storefront-e2e/internal/pages"
)

type HomePage struct {
	b       pages.Browser
	baseURL string
}

func NewHomePage(b pages.Browser, baseURL string) *HomePage {
	return &HomePage{b: b, baseURL: strings.TrimRight(baseURL, "/")}
}

// Open navigates to the storefront and waits for the search box.
func (p *HomePage) Open(ctx context.Context) error {
	if err := p.b.Navigate(ctx, p.baseURL+"/"); err != nil {
		return err
	}
	if err := pages.Loaded(ctx, p.b, 0, searchInput); err != nil {
		return fmt.Errorf("home page did not load: %w", err)
	}
	return nil
}

func (p *HomePage) IsLoaded(ctx context.Context) bool {
	return pages.IsLoaded(ctx, p.b, "takealot home", searchInput)
}

func (p *HomePage) Title(ctx context.Context) (string, error) {
	return p.b.Title(ctx)
}

// Search submits term and waits until either results or the no-results
// notice render.
func (p *HomePage) Search(ctx context.Context, term string) (*SearchResultsPage, error) {
	p.b.Logger().Info("Searching.", zap.String("term", term))
	if err := p.b.SendKeysWhenReady(ctx, searchInput, term); err != nil {
		return nil, err
	}
	if _, err := p.b.Click(ctx, searchButton); err != nil {
		return nil, err
	}
	if _, _, err := p.b.WaitAnyVisible(ctx, 0, productItems, noResults); err != nil {
		return nil, fmt.Errorf("search results for %q did not load: %w", term, err)
	}
	return &SearchResultsPage{b: p.b, term: term}, nil
}

func (p *HomePage) GoToCart(ctx context.Context) (*CartPage, error) {
	if _, err := p.b.Click(ctx, basketIcon); err != nil {
		return nil, err
	}
	return &CartPage{b: p.b}, nil
}

// GoToAccount opens the account menu.
func (p *HomePage) GoToAccount(ctx context.Context) (*AccountPage, error) {
	if _, err := p.b.Click(ctx, accountIcon); err != nil {
		return nil, err
	}
	return &AccountPage{b: p.b, baseURL: p.baseURL}, nil
}
