package importer

import "testing"

func TestParsePercent(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{float64(0.5), 1, true},
		{float64(1), 1, true},
		{float64(2), 2, true},
		{float64(45), 45, true},
		{45, 45, true},
		{"45%", 45, true},
		{" 45 % ", 45, true},
		{"45,5", 46, true},
		{"0.5", 1, true},
		{Fraction(0.45), 45, true},
		{Fraction(1), 100, true},
		{"", 0, false},
		{nil, 0, false},
		{"metade", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParsePercent(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParsePercent(%#v) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFractionText(t *testing.T) {
	if got := Text(Fraction(0.45)); got != "45%" {
		t.Fatalf("Text = %q", got)
	}
	if !(RawRow{Fraction(0)}).Blank() {
		t.Fatal("zero fraction should count as blank")
	}
}
