package entities

import (
	"fmt"
	"strings"
)

// Address identifies a conference participant or a conference focus by URI.
type Address struct {
	URI         string `json:"uri"`
	DisplayName string `json:"display_name,omitempty"`
}

// ParseAddress parses a raw URI into an Address. The scheme and host are
// lowercased so that two spellings of the same URI compare equal.
func ParseAddress(raw string) (Address, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Address{}, fmt.Errorf("empty address")
	}

	scheme, rest, ok := strings.Cut(trimmed, ":")
	if !ok || rest == "" {
		return Address{}, fmt.Errorf("address %q has no scheme", raw)
	}
	scheme = strings.ToLower(scheme)
	if scheme != "sip" && scheme != "sips" {
		return Address{}, fmt.Errorf("unsupported address scheme %q", scheme)
	}

	user, host, ok := strings.Cut(rest, "@")
	if !ok || user == "" || host == "" {
		return Address{}, fmt.Errorf("address %q is not user@host", raw)
	}

	return Address{URI: scheme + ":" + user + "@" + strings.ToLower(host)}, nil
}

// MustParseAddress is ParseAddress for fixtures; it panics on invalid input.
func MustParseAddress(raw string) Address {
	addr, err := ParseAddress(raw)
	if err != nil {
		panic(err)
	}
	return addr
}

// Canonical returns the comparison key for the address.
func (a Address) Canonical() string {
	return strings.ToLower(a.URI)
}

// Equal reports whether both addresses point at the same URI, ignoring
// display names.
func (a Address) Equal(other Address) bool {
	return a.Canonical() == other.Canonical()
}

// ShortDisplay returns the display name when set, otherwise the user part of
// the URI.
func (a Address) ShortDisplay() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	rest := a.URI
	if _, after, ok := strings.Cut(rest, ":"); ok {
		rest = after
	}
	if user, _, ok := strings.Cut(rest, "@"); ok {
		return user
	}
	return rest
}

// String implements fmt.Stringer.
func (a Address) String() string {
	if a.DisplayName != "" {
		return fmt.Sprintf("%s <%s>", a.DisplayName, a.URI)
	}
	return a.URI
}
