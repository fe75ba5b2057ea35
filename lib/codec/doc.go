// Package codec implements the typed serialization layer of valkey-dict.
// It converts arbitrary Go values into the wire envelope "tag:payload" and
// back, and formats the namespaced keys under which envelopes are stored.
//
// The package focuses on:
//   - Key formatting and parsing for namespaced containers (FormatKey, ParseKey)
//   - A type-tagged encode/decode registry with built-in support for strings,
//     integers, floats, booleans, nil, lists and maps
//   - Runtime extension with caller-defined types, either through explicit
//     encode/decode function pairs or through a reflection adapter that derives
//     the pair from named methods
//
// Key Components:
//
//   - Registry: The mapping from a type tag to an EncodeFunc and, independently,
//     to a DecodeFunc. Registries are explicit objects so registrations can be
//     scoped per container; Default() returns a shared process-wide instance
//     for callers who want the convenience of global registration. Both maps
//     are backed by xsync.MapOf, so lookups and registrations are safe under
//     concurrency.
//
//   - Envelope format: "tag:payload", split on the first colon only. The tag
//     identifies the decoder; the payload may itself contain colons. Decoding
//     an envelope whose tag has no registered decoder never fails: the payload
//     degrades to a best-effort literal (integer, float, boolean) or to the
//     raw string.
//
//   - Built-in tags: "str", "int", "float", "bool", "none", "list" and "dict".
//     Values decode to canonical Go types (string, int64, float64, bool, nil,
//     []any, map[string]any). List and map payloads are JSON.
//
// The wire format is shared with the Python valkey-dict family: keys are
// "namespace:key" and the companion insertion-order index of the ordered
// variant lives under InsertionOrderKey(namespace).
package codec
