package utils

import "testing"

func TestValidateISSN(t *testing.T) {
	valid := []string{"1234-5678", "2049-363X"}
	for _, issn := range valid {
		if !ValidateISSN(issn) {
			t.Errorf("expected %q to be a valid ISSN", issn)
		}
	}

	invalid := []string{"", "12345678", "1234-567", "1234-567Y", "abcd-efgh"}
	for _, issn := range invalid {
		if ValidateISSN(issn) {
			t.Errorf("expected %q to be rejected", issn)
		}
	}
}

func TestValidateDOI(t *testing.T) {
	if !ValidateDOI("10.1234/csmr.1718000000000.a1b2c3d4") {
		t.Error("expected generated-style doi to validate")
	}
	for _, doi := range []string{"", "11.1234/x", "10.12/x", "10.1234/"} {
		if ValidateDOI(doi) {
			t.Errorf("expected %q to be rejected", doi)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("editor@journal.org") {
		t.Error("expected valid email to pass")
	}
	if ValidateEmail("not-an-email") {
		t.Error("expected invalid email to fail")
	}
}
