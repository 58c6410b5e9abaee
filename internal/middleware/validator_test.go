package middleware

import "testing"

func TestValidateCompanyName(t *testing.T) {
	for _, ok := range []string{"Acme", "Acme Corp.", "Ben & Jerry's", "Société Générale", "3M (US)"} {
		if err := ValidateCompanyName(ok); err != nil {
			t.Errorf("ValidateCompanyName(%q) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "  ", "<script>", "a;drop table", string(make([]byte, 300))} {
		if err := ValidateCompanyName(bad); err == nil {
			t.Errorf("ValidateCompanyName(%q) should fail", bad)
		}
	}
}

func TestValidateAnalysisID(t *testing.T) {
	if err := ValidateAnalysisID("0d1f3c44-9a1b-4c9e-8f25-8e9a25a6d2bc"); err != nil {
		t.Errorf("uuid rejected: %v", err)
	}
	for _, bad := range []string{"", "not-a-uuid", "0D1F3C44-9A1B-4C9E-8F25-8E9A25A6D2BC'"} {
		if err := ValidateAnalysisID(bad); err == nil {
			t.Errorf("ValidateAnalysisID(%q) should fail", bad)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("abc\x00def\x07"); got != "abcdef" {
		t.Errorf("got %q", got)
	}
	if got := SanitizeString("  keep inner\tspace  "); got != "keep inner\tspace" {
		t.Errorf("got %q", got)
	}
}

func TestClamps(t *testing.T) {
	if ValidateLimit(0) != 20 || ValidateLimit(500) != 100 || ValidateLimit(7) != 7 {
		t.Error("ValidateLimit clamps wrong")
	}
	if ValidateDays(0) != 90 || ValidateDays(999) != 365 || ValidateDays(30) != 30 {
		t.Error("ValidateDays clamps wrong")
	}
}
