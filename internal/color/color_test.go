package color

import (
	"math"
	"testing"
)

func TestSRGBToLinearEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"black", 0, 0},
		{"white", 1, 1},
		{"linear segment", 0.04045, 0.04045 / 12.92},
		{"mid gray", 0.5, 0.21404114048223255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SRGBToLinear(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SRGBToLinear(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for i := 0; i <= 100; i++ {
		s := float64(i) / 100
		got := LinearToSRGB(SRGBToLinear(s))
		if math.Abs(got-s) > 1e-9 {
			t.Errorf("round trip of %v = %v", s, got)
		}
	}
}

func TestByteRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		got := EncodeByte(DecodeByte(uint8(i)))
		if got != uint8(i) {
			t.Errorf("EncodeByte(DecodeByte(%d)) = %d", i, got)
		}
	}
}

func TestEncodeByteClamps(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-0.5, 0}, {math.NaN(), 0}, {2, 255}, {1, 255},
	}
	for _, tt := range tests {
		if got := EncodeByte(tt.in); got != tt.want {
			t.Errorf("EncodeByte(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
