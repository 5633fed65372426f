package domain

import "testing"

func TestParseType(t *testing.T) {
	for _, typ := range Types {
		got, err := ParseType(string(typ))
		if err != nil {
			t.Errorf("ParseType(%q) returned error: %v", typ, err)
		}
		if got != typ {
			t.Errorf("ParseType(%q) = %q", typ, got)
		}
	}

	for _, bad := range []string{"", "Full-Time", "fulltime", "freelance", " contract"} {
		if _, err := ParseType(bad); err == nil {
			t.Errorf("ParseType(%q) expected error", bad)
		}
	}
}
