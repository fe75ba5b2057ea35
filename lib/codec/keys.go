package codec

import "strings"

// FormatKey prefixes a user key with the container namespace.
// The result is the key under which the value is stored.
func FormatKey(namespace, key string) string {
	return namespace + ":" + key
}

// ParseKey strips the namespace prefix from a formatted key and returns the
// original user key. The formatted key must have been produced by FormatKey
// with the same namespace; keys from foreign namespaces must not be passed in.
func ParseKey(namespace, formattedKey string) string {
	return formattedKey[len(namespace)+1:]
}

// IterQuery builds the scan match pattern for all keys of a namespace that
// start with searchTerm. Glob metacharacters in searchTerm are passed through
// uninterpreted; use EscapeMatch for literal matching.
func IterQuery(namespace, searchTerm string) string {
	return namespace + ":" + searchTerm + "*"
}

// InsertionOrderKey returns the name of the secondary index key used by the
// ordered container variant to track insertion order. The core container never
// writes this key; the name is exported so both variants agree on the format.
func InsertionOrderKey(namespace string) string {
	return "valkey-dict-insertion-order-" + namespace
}

// matchEscaper escapes the glob metacharacters understood by the store's
// MATCH option.
var matchEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

// EscapeMatch escapes glob metacharacters in a search term so it matches
// literally when used in a scan pattern.
func EscapeMatch(term string) string {
	return matchEscaper.Replace(term)
}
