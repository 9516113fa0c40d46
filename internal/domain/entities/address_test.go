package entities

import (
	"testing"
)

func TestParseAddress(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"sip:alice@example.org", "sip:alice@example.org", true},
		{"SIP:alice@EXAMPLE.ORG", "sip:alice@example.org", true},
		{"sips:bob@secure.example.org", "sips:bob@secure.example.org", true},
		{"  sip:carol@example.org  ", "sip:carol@example.org", true},
		{"", "", false},
		{"alice@example.org", "", false},
		{"http:alice@example.org", "", false},
		{"sip:example.org", "", false},
		{"sip:@example.org", "", false},
	}

	for _, c := range cases {
		got, err := ParseAddress(c.raw)
		if c.ok && err != nil {
			t.Fatalf("ParseAddress(%q): unexpected error %v", c.raw, err)
		}
		if !c.ok {
			if err == nil {
				t.Fatalf("ParseAddress(%q): expected an error", c.raw)
			}
			continue
		}
		if got.URI != c.want {
			t.Fatalf("ParseAddress(%q) = %q, want %q", c.raw, got.URI, c.want)
		}
	}
}

func TestAddressEqual(t *testing.T) {
	a := MustParseAddress("sip:alice@example.org")
	b := MustParseAddress("SIP:alice@Example.Org")
	b.DisplayName = "Alice"

	if !a.Equal(b) {
		t.Fatal("addresses differing only in case and display name must compare equal")
	}
	if a.Equal(MustParseAddress("sip:bob@example.org")) {
		t.Fatal("different users must not compare equal")
	}
}

func TestAddressDisplay(t *testing.T) {
	a := MustParseAddress("sip:alice@example.org")
	if a.ShortDisplay() != "alice" {
		t.Fatalf("expected user part, got %q", a.ShortDisplay())
	}
	if a.String() != "sip:alice@example.org" {
		t.Fatalf("unexpected String: %q", a.String())
	}

	a.DisplayName = "Alice Appleseed"
	if a.ShortDisplay() != "Alice Appleseed" {
		t.Fatalf("display name should win, got %q", a.ShortDisplay())
	}
	if a.String() != "Alice Appleseed <sip:alice@example.org>" {
		t.Fatalf("unexpected String: %q", a.String())
	}
}
