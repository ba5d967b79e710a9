package catalog

// Package catalog provides settings validation.

import (
	"fmt"
	"regexp"
	"strings"
)

type SettingsValidator struct{}

func NewSettingsValidator() *SettingsValidator {
	return &SettingsValidator{}
}

var currencyCodeRegex = regexp.MustCompile(`^[a-z]{3}$`)

// IsValidCurrency reports whether code is a lower-case ISO 4217 style code.
func IsValidCurrency(code string) bool {
	return currencyCodeRegex.MatchString(code)
}

func (v *SettingsValidator) Validate(settings *StoreSettings) error {
	if settings == nil {
		return fmt.Errorf("store settings are required")
	}

	if err := v.validateStore(&settings.Store); err != nil {
		return fmt.Errorf("store validation failed: %w", err)
	}

	if err := v.validateShipping(&settings.Shipping); err != nil {
		return fmt.Errorf("shipping validation failed: %w", err)
	}

	if settings.Checkout.MaxQuantity < 1 {
		return fmt.Errorf("checkout max quantity must be at least 1")
	}

	return nil
}

func (v *SettingsValidator) validateStore(store *StoreInfo) error {
	if strings.TrimSpace(store.Name) == "" {
		return fmt.Errorf("store name is required")
	}

	if !IsValidCurrency(store.Currency) {
		return fmt.Errorf("currency must be a three letter lower-case code")
	}

	return nil
}

func (v *SettingsValidator) validateShipping(shipping *ShippingSettings) error {
	if shipping.FlatRate < 0 {
		return fmt.Errorf("shipping flat rate must be zero or positive")
	}

	if shipping.FreeOver < 0 {
		return fmt.Errorf("free shipping threshold must be zero or positive")
	}

	return nil
}
