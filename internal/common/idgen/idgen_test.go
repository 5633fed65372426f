package idgen

import "testing"

func TestUUIDGenerator_NewID(t *testing.T) {
	g := NewUUIDGenerator()

	a, err := g.NewID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, _ := g.NewID()

	if a == b {
		t.Error("expected distinct ids")
	}
	if !IsValid(a) {
		t.Errorf("generated id %q is not a valid uuid", a)
	}
}

func TestIsValid(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", false},
		{"garbage", "not-a-uuid", false},
		{"uuid", "3f2504e0-4f89-11d3-9a0c-0305e82c3301", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValid(tc.in); got != tc.want {
				t.Errorf("IsValid(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
