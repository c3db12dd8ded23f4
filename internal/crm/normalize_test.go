package crm_test

import (
	"testing"

	"crmlink/internal/crm"
)

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase passthrough", "a@acme.com", "a@acme.com"},
		{"mixed case", "A@ACME.com", "a@acme.com"},
		{"surrounding whitespace", "  sales@acme.com \t", "sales@acme.com"},
		{"bare domain", " ACME.COM ", "acme.com"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := crm.NormalizeEmail(tc.input); got != tc.want {
				t.Fatalf("NormalizeEmail(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestEmailDomain(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "a@acme.com", "acme.com"},
		{"mixed case and whitespace", " A@ACME.Com ", "acme.com"},
		{"quoted local part with at", `"odd@local"@acme.com`, "acme.com"},
		{"no at sign", "acme.com", ""},
		{"trailing at", "a@", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := crm.EmailDomain(tc.input); got != tc.want {
				t.Fatalf("EmailDomain(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestCompanyHasDomain(t *testing.T) {
	if (crm.Company{Domain: "  "}).HasDomain() {
		t.Fatal("whitespace domain should not count as a join key")
	}
	if !(crm.Company{Domain: "Acme.com"}).HasDomain() {
		t.Fatal("expected non-empty domain to count as a join key")
	}
}
