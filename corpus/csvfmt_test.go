package corpus

import (
	"math"
	"testing"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0.0"},
		{in: math.Copysign(0, -1), want: "-0.0"},
		{in: 1, want: "1.0"},
		{in: 0.5, want: "0.5"},
		{in: 0.1, want: "0.1"},
		{in: -23.456, want: "-23.456"},
		{in: 1.2499375, want: "1.2499375"},
		{in: 1234567, want: "1234567.0"},
		{in: 0.0001, want: "0.0001"},
		{in: 0.00001, want: "1e-05"},
		{in: 1.5e-7, want: "1.5e-07"},
		{in: 9999999999999998, want: "9999999999999998.0"},
		{in: 1e16, want: "1e+16"},
		{in: 1.2345678901234568e17, want: "1.2345678901234568e+17"},
		{in: math.NaN(), want: ""},
		{in: math.Inf(1), want: "inf"},
		{in: math.Inf(-1), want: "-inf"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Fatalf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFloatInvertsFormat(t *testing.T) {
	for _, v := range []float64{0, -1.5, 0.1, 3e-9, 7.25e18, math.Inf(1), math.Inf(-1)} {
		got, err := parseFloat(formatFloat(v))
		if err != nil {
			t.Fatalf("parseFloat(%q): %v", formatFloat(v), err)
		}
		if got != v {
			t.Fatalf("round trip %v -> %v", v, got)
		}
	}
	got, err := parseFloat("")
	if err != nil || !math.IsNaN(got) {
		t.Fatalf("parseFloat(\"\") = %v, %v; want NaN", got, err)
	}
	if _, err := parseFloat("abc"); err == nil {
		t.Fatal("expected error for garbage")
	}
}
