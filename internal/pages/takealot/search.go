// internal/pages/takealot/search.go
package takealot

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/storefront-e2e/internal/pages"
)

type SearchResultsPage struct {
	b    pages.Browser
	term string
}

func (p *SearchResultsPage) Term() string { return p.term }

func (p *SearchResultsPage) ProductCount(ctx context.Context) (int, error) {
	return pages.Count(ctx, p.b, productItems)
}

func (p *SearchResultsPage) HasResults(ctx context.Context) (bool, error) {
	n, err := p.ProductCount(ctx)
	return n > 0, err
}

func (p *SearchResultsPage) IsNoResultsDisplayed(ctx context.Context) (bool, error) {
	return p.b.IsVisible(ctx, noResults)
}

// ProductNames returns the names of the listed products.
func (p *SearchResultsPage) ProductNames(ctx context.Context) ([]string, error) {
	return pages.Texts(ctx, p.b, productNameLinks)
}

// OpenFirstProduct follows the first result's link and returns the page URL.
func (p *SearchResultsPage) OpenFirstProduct(ctx context.Context) (string, error) {
	ok, err := p.HasResults(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no results for %q", p.term)
	}
	if _, err := p.b.ClickWithScroll(ctx, pages.Nth(productNameLinks, 0)); err != nil {
		return "", err
	}
	return p.b.CurrentURL(ctx)
}
