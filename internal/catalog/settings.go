package catalog

// Package catalog provides store settings parsing functionality.

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type StoreSettings struct {
	Store    StoreInfo        `yaml:"store"`
	Shipping ShippingSettings `yaml:"shipping"`
	Checkout CheckoutSettings `yaml:"checkout"`
}

type StoreInfo struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

type ShippingSettings struct {
	FlatRate float64 `yaml:"flat_rate"`
	FreeOver float64 `yaml:"free_over"`
}

type CheckoutSettings struct {
	MaxQuantity int `yaml:"max_quantity"`
}

func DefaultSettings() *StoreSettings {
	return &StoreSettings{
		Store: StoreInfo{
			Name:     "ElectroStore",
			Currency: "ars",
		},
		Shipping: ShippingSettings{
			FlatRate: 5000,
			FreeOver: 150000,
		},
		Checkout: CheckoutSettings{
			MaxQuantity: 10,
		},
	}
}

type SettingsParser struct{}

func NewSettingsParser() *SettingsParser {
	return &SettingsParser{}
}

// Parse decodes YAML over the defaults, so omitted keys keep their default.
func (p *SettingsParser) Parse(content []byte) (*StoreSettings, error) {
	settings := DefaultSettings()
	if err := yaml.Unmarshal(content, settings); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return settings, nil
}

func (p *SettingsParser) ParseFromString(content string) (*StoreSettings, error) {
	return p.Parse([]byte(content))
}

// Load reads settings from path. An empty path yields the defaults.
func (p *SettingsParser) Load(path string) (*StoreSettings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store settings: %w", err)
	}
	return p.Parse(content)
}
