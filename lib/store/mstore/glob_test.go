package mstore

import "testing"

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"*", "", true},
		{"*", "anything", true},
		{"main:*", "main:key", true},
		{"main:*", "other:key", false},
		{"main:foo*", "main:foobar", true},
		{"main:foo*", "main:fo", false},
		{"h?llo", "hello", true},
		{"h?llo", "hllo", false},
		{"h[ae]llo", "hello", true},
		{"h[ae]llo", "hallo", true},
		{"h[ae]llo", "hillo", false},
		{"h[^e]llo", "hallo", true},
		{"h[^e]llo", "hello", false},
		{"h[a-c]llo", "hbllo", true},
		{"h[a-c]llo", "hdllo", false},
		{"a*b*c", "aXbYc", true},
		{"a*b*c", "aXbY", false},
		{"a**b", "ab", true},
		{`literal\*`, "literal*", true},
		{`literal\*`, "literalX", false},
		{"ns:*", "ns:with/slash", true},
		{"ns:*", "ns:with:colon", true},
		{"[unterminated", "x", false},
		{"", "", true},
		{"", "x", false},
	}

	for _, tc := range tests {
		if got := matchGlob(tc.pattern, tc.s); got != tc.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tc.pattern, tc.s, got, tc.want)
		}
	}
}
