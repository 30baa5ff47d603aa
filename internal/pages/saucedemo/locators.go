// internal/pages/saucedemo/locators.go

// Package saucedemo models the Sauce Demo storefront (www.saucedemo.com).
package saucedemo

import "github.com/xkilldash9x/storefront-e2e/internal/webdriver"

// Login
var (
	usernameInput  = webdriver.ID("user-name")
	passwordInput  = webdriver.ID("password")
	loginButton    = webdriver.ID("login-button")
	errorMessage   = webdriver.XPath("//h3[@data-test='error']")
	loginContainer = webdriver.ClassName("login_container")
)

// Inventory and header
var (
	inventoryItems   = webdriver.ClassName("inventory_item")
	inventoryNames   = webdriver.ClassName("inventory_item_name")
	inventoryPrices  = webdriver.ClassName("inventory_item_price")
	productNameXPath = webdriver.XPath("//*[contains(@class, 'inventory_item_name')]")
	addToCartButtons = webdriver.CSS(".inventory_item button[data-test^='add-to-cart']")
	removeButtons    = webdriver.CSS(".inventory_item button[data-test^='remove']")
	cartLink         = webdriver.ClassName("shopping_cart_link")
	cartBadge        = webdriver.ClassName("shopping_cart_badge")
	sortDropdown     = webdriver.ClassName("product_sort_container")
	menuButton       = webdriver.ID("react-burger-menu-btn")
	logoutLink       = webdriver.ID("logout_sidebar_link")
	pageTitle        = webdriver.ClassName("title")
)

// Product details
var (
	detailsName        = webdriver.ClassName("inventory_details_name")
	detailsPrice       = webdriver.ClassName("inventory_details_price")
	detailsDescription = webdriver.ClassName("inventory_details_desc")
	detailsAddButton   = webdriver.CSS("button[data-test^='add-to-cart']")
	detailsRemove      = webdriver.CSS("button[data-test^='remove']")
	detailsBack        = webdriver.ID("back-to-products")
	detailsContainer   = webdriver.ClassName("inventory_details")
)

// Cart
var (
	cartItems        = webdriver.ClassName("cart_item")
	cartItemNames    = webdriver.ClassName("inventory_item_name")
	cartRemoveXPath  = webdriver.XPath("//div[contains(@class, 'cart_item')]//button[contains(@class, 'btn_secondary')]")
	checkoutButton   = webdriver.ID("checkout")
	continueShopping = webdriver.ID("continue-shopping")
	cartList         = webdriver.ClassName("cart_list")
)

// Checkout and confirmation
var (
	firstNameInput  = webdriver.ID("first-name")
	lastNameInput   = webdriver.ID("last-name")
	postalCodeInput = webdriver.ID("postal-code")
	continueButton  = webdriver.ID("continue")
	finishButton    = webdriver.ID("finish")
	cancelButton    = webdriver.ID("cancel")
	completeHeader  = webdriver.ClassName("complete-header")
	completeText    = webdriver.ClassName("complete-text")
	backHomeButton  = webdriver.ID("back-to-products")
)
