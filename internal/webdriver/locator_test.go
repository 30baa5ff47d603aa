// internal/webdriver/locator_test.go
package webdriver_test

import (
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/storefront-e2e/internal/webdriver"
)

func TestParseLocator(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected webdriver.Locator
		wantErr  bool
	}{
		{name: "id", input: "id=user-name", expected: webdriver.ID("user-name")},
		{name: "class", input: "class=inventory_item", expected: webdriver.ClassName("inventory_item")},
		{name: "classname alias", input: "ClassName=title", expected: webdriver.ClassName("title")},
		{name: "css", input: "css=button[data-test^='add-to-cart']", expected: webdriver.CSS("button[data-test^='add-to-cart']")},
		{name: "xpath keeps equals in value", input: "xpath=//h3[@data-test='error']", expected: webdriver.XPath("//h3[@data-test='error']")},
		{name: "bare xpath", input: "//input[@type='email']", expected: webdriver.XPath("//input[@type='email']")},
		{name: "grouped xpath", input: "(//button)[1]", expected: webdriver.XPath("(//button)[1]")},
		{name: "bare css", input: ".shopping_cart_badge", expected: webdriver.CSS(".shopping_cart_badge")},
		{name: "unknown prefix is css", input: "input[name=q]", expected: webdriver.CSS("input[name=q]")},
		{name: "surrounding whitespace", input: "  id=checkout  ", expected: webdriver.ID("checkout")},
		{name: "empty", input: "   ", wantErr: true},
		{name: "empty value", input: "id=", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loc, err := webdriver.ParseLocator(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, loc)
		})
	}
}

func TestLocator_String(t *testing.T) {
	assert.Equal(t, "id=login-button", webdriver.ID("login-button").String())
	assert.Equal(t, "xpath=//h3", webdriver.XPath("//h3").String())
	assert.Equal(t, "[css=a | class=b]", webdriver.Alternatives{webdriver.CSS("a"), webdriver.ClassName("b")}.String())
	assert.True(t, webdriver.Locator{}.IsZero())
}

func TestLocator_CSSSelector(t *testing.T) {
	sel, ok := webdriver.ID("user-name").CSSSelector()
	assert.True(t, ok)
	assert.Equal(t, "#user-name", sel)

	sel, ok = webdriver.ClassName("inventory_item").CSSSelector()
	assert.True(t, ok)
	assert.Equal(t, ".inventory_item", sel)

	sel, ok = webdriver.ID("a.b:c").CSSSelector()
	assert.True(t, ok)
	assert.Equal(t, `#a\.b\:c`, sel)

	sel, ok = webdriver.ID("1st").CSSSelector()
	assert.True(t, ok)
	assert.Equal(t, `#\31 st`, sel)

	_, ok = webdriver.XPath("//div").CSSSelector()
	assert.False(t, ok)
}

func FuzzParseLocator_RoundTrip(f *testing.F) {
	f.Add([]byte("id=user-name"))
	f.Add([]byte("//div[@class='x']"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		input := struct {
			Prefix string
			Value  string
		}{}
		if err := fuzz.NewConsumer(data).GenerateStruct(&input); err != nil {
			return
		}

		loc, err := webdriver.ParseLocator(input.Prefix + "=" + input.Value)
		if err != nil {
			return
		}

		again, err := webdriver.ParseLocator(loc.String())
		require.NoError(t, err, "String() output must parse: %q", loc.String())
		assert.Equal(t, loc, again)
	})
}
