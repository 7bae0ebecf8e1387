package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"", 0, true},
		{"0", 0, true},
		{"50000", 50000, true},
		{"25.000", 25000, true},
		{"1,250,000", 1250000, true},
		{"Rp 75.000", 75000, true},
		{" 100 ", 100, true},
		{"-5", 0, false},
		{"abc", 0, false},
		{"12.5x", 0, false},
		{"...", 0, false},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if c.ok && err != nil {
			t.Fatalf("%q unexpected err: %v", c.in, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("%q expected error", c.in)
		}
		if c.ok && got != c.want {
			t.Fatalf("%q => %d want %d", c.in, got, c.want)
		}
	}
}

func TestParseOdometer(t *testing.T) {
	cases := map[string]int64{
		"":      0,
		"12000": 12000,
		" 42 ":  42,
		"abc":   0,
		"-10":   0,
	}
	for in, want := range cases {
		if got := ParseOdometer(in); got != want {
			t.Fatalf("ParseOdometer(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	cases := map[int64]string{
		0:       "Rp 0",
		999:     "Rp 999",
		1000:    "Rp 1.000",
		75000:   "Rp 75.000",
		1250000: "Rp 1.250.000",
	}
	for in, want := range cases {
		if got := FormatRupiah(in); got != want {
			t.Fatalf("FormatRupiah(%d) = %q, want %q", in, got, want)
		}
	}
	if got := FormatKm(-100); got != "-100 km" {
		t.Fatalf("FormatKm(-100) = %q", got)
	}
	if got := FormatKm(12500); got != "12.500 km" {
		t.Fatalf("FormatKm(12500) = %q", got)
	}
}
