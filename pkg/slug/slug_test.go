package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Midnight Oud", "midnight-oud"},
		{"  Rose & Santal 33  ", "rose-santal-33"},
		{"Eau de Parfum / 50ml", "eau-de-parfum-50ml"},
		{"UPPER_case_name", "upper-case-name"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Fatalf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMakeUnique(t *testing.T) {
	first := MakeUnique("Midnight Oud")
	second := MakeUnique("Midnight Oud")
	if first == second {
		t.Fatalf("expected distinct slugs, got %q twice", first)
	}
	if !strings.HasPrefix(first, "midnight-oud-") {
		t.Fatalf("unexpected slug %q", first)
	}
	if MakeUnique("***") == "" {
		t.Fatal("empty base should still produce a suffix")
	}
}
