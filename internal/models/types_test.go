package models

import (
	"math"
	"testing"
)

func TestOperationApply(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		x    float64
		want float64
	}{
		{"multiply", Multiply(0.5), 4, 2},
		{"multiply by zero", Multiply(0), 12, 0},
		{"add", Add(3), 4, 7},
		{"add negative", Add(-1.5), 1, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.Apply(tt.x); got != tt.want {
				t.Errorf("Apply(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestOperationApplyUnknownOperatorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown operator")
		}
	}()
	Operation{Operator: "divide", Argument: 2}.Apply(1)
}

func TestMerge(t *testing.T) {
	base := LinkedPropertyValue{Flat: 10, Ratio: 1}

	got := Merge(base, NeutralValue())
	if got != base {
		t.Errorf("Merge with no contributions = %+v, want %+v", got, base)
	}

	// One additive link worth 5 and one ratio link worth 0.2
	resolved := LinkedPropertyValue{Flat: 5, Ratio: 1.2}
	got = Merge(base, resolved)
	if got.Flat != 15 || math.Abs(got.Ratio-1.2) > 1e-9 {
		t.Errorf("Merge = %+v, want {15 1.2}", got)
	}
	if math.Abs(got.Value()-18) > 1e-9 {
		t.Errorf("Value = %v, want 18", got.Value())
	}
}

func TestKindIsValid(t *testing.T) {
	for _, k := range AllKinds() {
		if !k.IsValid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if Kind("Location").IsValid() {
		t.Error("Location is not a linkable kind")
	}
}

func TestCompositionModeIsValid(t *testing.T) {
	for _, m := range []CompositionMode{"", ModeAdditive, ModeRatio} {
		if !m.IsValid() {
			t.Errorf("mode %q should be valid", m)
		}
	}
	if CompositionMode("product").IsValid() {
		t.Error("product is not a composition mode")
	}
	if (LinkConfig{}).IsRatio() {
		t.Error("zero LinkConfig must default to additive")
	}
}

func TestRarityByName(t *testing.T) {
	r, ok := RarityByName("Uncommon")
	if !ok || r.Color != "green" {
		t.Errorf("RarityByName(Uncommon) = %+v, %v", r, ok)
	}
	if _, ok := RarityByName("Mythic"); ok {
		t.Error("Mythic should not exist")
	}
}
