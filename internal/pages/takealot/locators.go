// internal/pages/takealot/locators.go

// Package takealot models a Takealot-style storefront: search, account,
// login, sign-up and cart.
package takealot

import "github.com/xkilldash9x/storefront-e2e/internal/webdriver"

// Header
var (
	searchInput  = webdriver.XPath("//input[@placeholder='Search for anything']")
	searchButton = webdriver.XPath("//button[contains(@class, 'search-button')]")
	accountIcon  = webdriver.XPath("//button[contains(@class, 'account')]")
	basketIcon   = webdriver.XPath("//button[contains(@class, 'basket')]")
)

// Search results
var (
	productItems     = webdriver.XPath("//div[contains(@class, 'product-item')]")
	productNameLinks = webdriver.XPath("//div[contains(@class, 'product-item')]//a[contains(@class, 'product-name')]")
	noResults        = webdriver.XPath("//p[contains(text(), 'No products found')]")
)

// Account menu
var (
	loginLink    = webdriver.XPath("//a[contains(text(), 'Login')]")
	signUpLink   = webdriver.XPath("//a[contains(text(), 'Sign Up')]")
	logoutButton = webdriver.XPath("//button[contains(text(), 'Logout')]")
	usernameText = webdriver.XPath("//span[contains(@class, 'username')]")
)

// Login and sign-up forms
var (
	emailInput           = webdriver.XPath("//input[@type='email']")
	loginPasswordInput   = webdriver.XPath("//input[@type='password']")
	loginButton          = webdriver.XPath("//button[contains(text(), 'Login')]")
	formError            = webdriver.XPath("//div[contains(@class, 'error-message')]")
	formSuccess          = webdriver.XPath("//div[contains(@class, 'success-message')]")
	signUpPasswordInput  = webdriver.XPath("//input[@name='password']")
	confirmPasswordInput = webdriver.XPath("//input[@name='confirmPassword']")
	firstNameInput       = webdriver.XPath("//input[@placeholder='First Name']")
	lastNameInput        = webdriver.XPath("//input[@placeholder='Last Name']")
	phoneInput           = webdriver.XPath("//input[@type='tel']")
	termsCheckbox        = webdriver.XPath("//input[@type='checkbox']")
	signUpButton         = webdriver.XPath("//button[contains(text(), 'Sign Up')]")
)

// Cart
var (
	cartItems      = webdriver.XPath("//div[contains(@class, 'cart-item')]")
	checkoutButton = webdriver.XPath("//button[contains(text(), 'Checkout')]")
	emptyCart      = webdriver.XPath("//p[contains(text(), 'Your cart is empty')]")
)
