package codec

import "testing"

func TestKeyRoundTrip(t *testing.T) {
	tests := []struct {
		namespace string
		key       string
		formatted string
	}{
		{"main", "answer", "main:answer"},
		{"main", "", "main:"},
		{"sessions", "user:42", "sessions:user:42"},
		{"a", "b", "a:b"},
	}
	for _, tc := range tests {
		formatted := FormatKey(tc.namespace, tc.key)
		if formatted != tc.formatted {
			t.Errorf("FormatKey(%q, %q) = %q, want %q", tc.namespace, tc.key, formatted, tc.formatted)
		}
		if parsed := ParseKey(tc.namespace, formatted); parsed != tc.key {
			t.Errorf("ParseKey(%q, %q) = %q, want %q", tc.namespace, formatted, parsed, tc.key)
		}
	}
}

func TestIterQuery(t *testing.T) {
	tests := []struct {
		namespace string
		term      string
		want      string
	}{
		{"main", "", "main:*"},
		{"main", "foo", "main:foo*"},
		{"cache", "user:1", "cache:user:1*"},
	}
	for _, tc := range tests {
		if got := IterQuery(tc.namespace, tc.term); got != tc.want {
			t.Errorf("IterQuery(%q, %q) = %q, want %q", tc.namespace, tc.term, got, tc.want)
		}
	}
}

func TestEscapeMatch(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"plain", "plain"},
		{"a*b", `a\*b`},
		{"a?b", `a\?b`},
		{"[set]", `\[set\]`},
		{`back\slash`, `back\\slash`},
		{`*?[]\`, `\*\?\[\]\\`},
	}
	for _, tc := range tests {
		if got := EscapeMatch(tc.term); got != tc.want {
			t.Errorf("EscapeMatch(%q) = %q, want %q", tc.term, got, tc.want)
		}
	}
}

func TestInsertionOrderKey(t *testing.T) {
	if got := InsertionOrderKey("main"); got != "valkey-dict-insertion-order-main" {
		t.Fatalf("InsertionOrderKey = %q", got)
	}
}
