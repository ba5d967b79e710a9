package catalog

import "testing"

func TestSettingsValidator_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings func() *StoreSettings
		wantErr  bool
	}{
		{
			name:     "defaults are valid",
			settings: DefaultSettings,
			wantErr:  false,
		},
		{
			name: "blank store name",
			settings: func() *StoreSettings {
				s := DefaultSettings()
				s.Store.Name = "  "
				return s
			},
			wantErr: true,
		},
		{
			name: "upper-case currency",
			settings: func() *StoreSettings {
				s := DefaultSettings()
				s.Store.Currency = "ARS"
				return s
			},
			wantErr: true,
		},
		{
			name: "negative flat rate",
			settings: func() *StoreSettings {
				s := DefaultSettings()
				s.Shipping.FlatRate = -1
				return s
			},
			wantErr: true,
		},
		{
			name: "zero max quantity",
			settings: func() *StoreSettings {
				s := DefaultSettings()
				s.Checkout.MaxQuantity = 0
				return s
			},
			wantErr: true,
		},
	}

	validator := NewSettingsValidator()
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := validator.Validate(tc.settings())
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}
