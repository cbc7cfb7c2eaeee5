package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/mmeshcher/clubsite-analytics/internal/model"
)

func validSettings() model.Settings {
	return model.Settings{
		SlotMinutes:       60,
		OpenHour:          8,
		CloseHour:         23,
		PrepaymentPercent: 30,
		CancellationHours: 6,
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *model.Settings)
		valid  bool
	}{
		{
			name:   "demo settings",
			modify: func(s *model.Settings) {},
			valid:  true,
		},
		{
			name:   "zero prepayment",
			modify: func(s *model.Settings) { s.PrepaymentPercent = 0 },
			valid:  true,
		},
		{
			name:   "full prepayment",
			modify: func(s *model.Settings) { s.PrepaymentPercent = 100 },
			valid:  true,
		},
		{
			name:   "prepayment above hundred",
			modify: func(s *model.Settings) { s.PrepaymentPercent = 120 },
			valid:  false,
		},
		{
			name:   "negative prepayment",
			modify: func(s *model.Settings) { s.PrepaymentPercent = -5 },
			valid:  false,
		},
		{
			name:   "zero slot",
			modify: func(s *model.Settings) { s.SlotMinutes = 0 },
			valid:  false,
		},
		{
			name:   "close before open",
			modify: func(s *model.Settings) { s.OpenHour, s.CloseHour = 20, 10 },
			valid:  false,
		},
		{
			name:   "closes at midnight",
			modify: func(s *model.Settings) { s.CloseHour = 24 },
			valid:  true,
		},
		{
			name:   "slot longer than a day",
			modify: func(s *model.Settings) { s.SlotMinutes = 1441 },
			valid:  false,
		},
		{
			name:   "open hour past midnight",
			modify: func(s *model.Settings) { s.OpenHour, s.CloseHour = 24, 24 },
			valid:  false,
		},
		{
			name:   "close equals open",
			modify: func(s *model.Settings) { s.OpenHour, s.CloseHour = 10, 10 },
			valid:  false,
		},
		{
			name:   "close after midnight",
			modify: func(s *model.Settings) { s.CloseHour = 25 },
			valid:  false,
		},
		{
			name:   "negative cancellation window",
			modify: func(s *model.Settings) { s.CancellationHours = -1 },
			valid:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.modify(&s)

			err := ValidateSettings(s)
			if tt.valid && err != nil {
				t.Fatalf("ValidateSettings(%+v) = %v, want nil", s, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("ValidateSettings(%+v) = %v, want ErrInvalidSettings", s, err)
			}
		})
	}
}

func TestValidateSettings_ReportsAllFields(t *testing.T) {
	s := validSettings()
	s.PrepaymentPercent = 150
	s.SlotMinutes = 0

	err := ValidateSettings(s)
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("err = %v, want ErrInvalidSettings", err)
	}
	for _, field := range []string{"PrepaymentPercent: max=100", "SlotMinutes: min=1"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("err %q does not mention %q", err, field)
		}
	}
}

func TestValidateCourt(t *testing.T) {
	tests := []struct {
		name  string
		court model.Court
		valid bool
	}{
		{name: "synthetic grass", court: model.Court{Name: "Cancha 4", Surface: "Césped sintético"}, valid: true},
		{name: "glass indoor", court: model.Court{Name: "Central", Surface: "Vidrio", Indoor: true}, valid: true},
		{name: "empty name", court: model.Court{Surface: "Muro"}, valid: false},
		{name: "unknown surface", court: model.Court{Name: "Cancha 5", Surface: "Clay"}, valid: false},
		{name: "name too long", court: model.Court{Name: strings.Repeat("x", 65), Surface: "Carpet"}, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCourt(tt.court)
			if tt.valid && err != nil {
				t.Fatalf("ValidateCourt(%+v) = %v, want nil", tt.court, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidCourt) {
				t.Fatalf("ValidateCourt(%+v) = %v, want ErrInvalidCourt", tt.court, err)
			}
		})
	}
}

func TestValidateMerchItem(t *testing.T) {
	tests := []struct {
		name  string
		item  model.MerchItem
		valid bool
	}{
		{name: "default product", item: model.MerchItem{Name: "Nuevo producto", Price: 10000, Stock: 10}, valid: true},
		{name: "free and sold out", item: model.MerchItem{Name: "Sticker", Price: 0, Stock: 0}, valid: true},
		{name: "negative price", item: model.MerchItem{Name: "Grip", Price: -1, Stock: 1}, valid: false},
		{name: "negative stock", item: model.MerchItem{Name: "Grip", Price: 100, Stock: -3}, valid: false},
		{name: "empty name", item: model.MerchItem{Price: 100, Stock: 1}, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMerchItem(tt.item)
			if tt.valid && err != nil {
				t.Fatalf("ValidateMerchItem(%+v) = %v, want nil", tt.item, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidMerchItem) {
				t.Fatalf("ValidateMerchItem(%+v) = %v, want ErrInvalidMerchItem", tt.item, err)
			}
		})
	}
}
