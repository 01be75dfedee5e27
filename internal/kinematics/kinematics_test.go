package kinematics

import (
	"math"
	"testing"
)

func TestDeltaPhi_Wraps(t *testing.T) {
	tests := []struct {
		name       string
		phi1, phi2 float64
		want       float64
	}{
		{"zero", 1.0, 1.0, 0},
		{"small", 0.5, 0.2, 0.3},
		{"across pi", math.Pi - 0.1, -math.Pi + 0.1, -0.2},
		{"across minus pi", -math.Pi + 0.1, math.Pi - 0.1, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeltaPhi(tt.phi1, tt.phi2)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("DeltaPhi(%v, %v) = %v, want %v", tt.phi1, tt.phi2, got, tt.want)
			}
		})
	}
}

func TestDeltaR(t *testing.T) {
	got := DeltaR(1.0, 0.0, 1.3, 0.4)
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("DeltaR = %v, want 0.5", got)
	}
	if got := DeltaR2(0, 0, 0.3, 0.4); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("DeltaR2 = %v, want 0.25", got)
	}
}

func TestPtFromEnergy(t *testing.T) {
	if got := PtFromEnergy(50, 0); got != 50 {
		t.Errorf("PtFromEnergy(50, 0) = %v, want 50", got)
	}
	got := PtFromEnergy(100, 1.5)
	want := 100 / math.Cosh(1.5)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("PtFromEnergy(100, 1.5) = %v, want %v", got, want)
	}
}
