package simulation

import (
	"math"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name            string
		v, origin, size float64
		want            float64
	}{
		{"inside", 10, 0, 100, 10},
		{"on origin", 0, 0, 100, 0},
		{"on far edge", 100, 0, 100, 100},
		{"just past far edge", 101, 0, 100, 1},
		{"below origin", -24, 0, 1024, 1000},
		{"several sizes out", 2058, 0, 1024, 10},
		{"offset origin", -150, -100, 200, 50},
		{"offset origin below", -120, -100, 200, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrap(tt.v, tt.origin, tt.size); got != tt.want {
				t.Errorf("wrap(%v, %v, %v) = %v, want %v", tt.v, tt.origin, tt.size, got, tt.want)
			}
		})
	}
}

func TestFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if finite(v) {
			t.Errorf("Expected %v to be rejected", v)
		}
	}
	if !finite(-3.5) {
		t.Error("Expected ordinary value to be accepted")
	}
}
