package format

import (
	"math"
	"testing"
)

func TestDecimal(t *testing.T) {
	tests := []struct {
		x      float64
		places int
		want   string
	}{
		{3, 2, "3"},
		{0, 2, "0"},
		{-4, 2, "-4"},
		{0.127, 2, "0.13"},
		{1.5, 2, "1.50"},
		{2.26, 1, "2.3"},
		{100.001, 2, "100.00"},
	}

	for _, tt := range tests {
		if got := Decimal(tt.x, tt.places); got != tt.want {
			t.Errorf("Decimal(%v, %d) = %q, want %q", tt.x, tt.places, got, tt.want)
		}
	}
}

func TestProduction(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0.25, "+0.25/s"},
		{0.333, "+0.33/s"},
		{2, "+2/s"},
		{0, ""},
		{-0.5, "-0.50/s"},
	}

	for _, tt := range tests {
		if got := Production(tt.rate); got != tt.want {
			t.Errorf("Production(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestRatioAsPercentage(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, ""},
		{1.2, "+20%"},
		{0.5, "-50%"},
		{2.5, "+150%"},
		{1.001, ""},
	}

	for _, tt := range tests {
		if got := RatioAsPercentage(tt.ratio); got != tt.want {
			t.Errorf("RatioAsPercentage(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestTimeLeft(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"infinite", math.Inf(1), ""},
		{"nan", math.NaN(), ""},
		{"zero", 0, "0s"},
		{"under ten", 4.56, "4.5s"},
		{"whole under ten", 3, "3s"},
		{"seconds", 42.9, "42s"},
		{"minutes", 61, "1m 1s"},
		{"exact minute", 120, "2m 0s"},
		{"hours", 3661, "1h 1m 1s"},
		{"days", 90061, "1d 1h 1m 1s"},
		{"day and seconds", 86400 + 5, "1d 5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeLeft(tt.seconds); got != tt.want {
				t.Errorf("TimeLeft(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestPrice(t *testing.T) {
	if got := Price(nil); got != "free" {
		t.Errorf("Price(nil) = %q, want free", got)
	}
	got := Price(map[string]float64{"Wood": 2, "Grain": 11.5})
	if got != "11.50 Grain, 2 Wood" {
		t.Errorf("Price = %q", got)
	}
}
