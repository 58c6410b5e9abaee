package metrics

import "testing"

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1234", 1234},
		{"1,234", 1234},
		{"1,234.5", 1234.5},
		{"1.234,5", 1234.5},
		{"1 234,5", 1234.5},
		{"1.2e3", 1200},
		{"1.5", 1.5},
		{"12,5", 12.5},
		{"1.234.567", 1234567},
		{"1,234,567", 1234567},
		{"-42", -42},
		{"0", 0},
		{"50000", 50000},
	}
	for _, tc := range cases {
		got, err := ParseNumber(tc.in)
		if err != nil {
			t.Errorf("ParseNumber(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseNumber(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseNumberRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "12abc34", "--5", " "} {
		if v, err := ParseNumber(in); err == nil {
			t.Errorf("ParseNumber(%q)=%v, want error", in, v)
		}
	}
}
