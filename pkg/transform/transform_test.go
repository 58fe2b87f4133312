package transform

import (
	"errors"
	"testing"

	"github.com/dtnitsch/gdp-etl/models"
	"github.com/google/go-cmp/cmp"
)

func TestMillionsToBillions(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: "12,345", want: 12.35},
		{in: "999", want: 1.0},
		{in: "0", want: 0.0},
		{in: "26,000", want: 26.0},
		{in: "26,854,599", want: 26854.6},
		{in: "1,234", want: 1.23},
		{in: "125", want: 0.13},
		{in: "115", want: 0.12},
		{in: "4", want: 0.0},
		{in: "5", want: 0.01},
		{in: "1,500.5", want: 1.5},
		{in: " 2,000 ", want: 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := MillionsToBillions(tt.in)
			if err != nil {
				t.Fatalf("MillionsToBillions(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("MillionsToBillions(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMillionsToBillions_Invalid(t *testing.T) {
	for _, in := range []string{"", "—", "n/a", "-5", "1e5", "1.2.3", "12,3a4", "+7"} {
		t.Run(in, func(t *testing.T) {
			if _, err := MillionsToBillions(in); !errors.Is(err, models.ErrParse) {
				t.Errorf("MillionsToBillions(%q) error = %v, want ErrParse", in, err)
			}
		})
	}
}

func TestToBillions(t *testing.T) {
	in := []models.RawCountry{
		{Country: "United States", GDPMillions: "26,854,599"},
		{Country: "Tuvalu", GDPMillions: "63"},
		{Country: "United States", GDPMillions: "12,345"},
	}
	snapshot := append([]models.RawCountry(nil), in...)

	got, err := ToBillions(in)
	if err != nil {
		t.Fatalf("ToBillions() error = %v", err)
	}

	want := []models.Country{
		{Country: "United States", GDPBillions: 26854.6},
		{Country: "Tuvalu", GDPBillions: 0.06},
		{Country: "United States", GDPBillions: 12.35},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToBillions() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(snapshot, in); diff != "" {
		t.Errorf("ToBillions() mutated its input (-before +after):\n%s", diff)
	}
	for i := range in {
		if got[i].Country != in[i].Country {
			t.Errorf("record %d country = %q, want %q", i, got[i].Country, in[i].Country)
		}
	}
}

func TestToBillions_Empty(t *testing.T) {
	got, err := ToBillions(nil)
	if err != nil {
		t.Fatalf("ToBillions(nil) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(ToBillions(nil)) = %d, want 0", len(got))
	}
}

func TestToBillions_FailsLoud(t *testing.T) {
	in := []models.RawCountry{
		{Country: "A", GDPMillions: "1,000"},
		{Country: "B", GDPMillions: "unknown"},
	}

	got, err := ToBillions(in)
	if !errors.Is(err, models.ErrParse) {
		t.Fatalf("ToBillions() error = %v, want ErrParse", err)
	}
	if got != nil {
		t.Errorf("ToBillions() = %+v, want nil on error", got)
	}
}
