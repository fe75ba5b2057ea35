// Package mstore provides an in-memory implementation of the store.IStore
// interface. It mirrors the command semantics of a Redis/Valkey server close
// enough for the container layer: per-key TTLs with lazy expiry, atomic
// conditional writes, glob-based cursor scanning and write pipelines.
//
// The implementation backs the hermetic test suites of this repository and is
// usable as an embedded store where no server is available. It makes no
// attempt at durability; Close discards all data.
//
// Entries live in an xsync.MapOf keyed by the formatted key. Composite
// commands that read and write in one step (SetIfAbsentGet, GetDel) are
// serialized by a mutex so their atomicity guarantees hold under concurrency.
// Scanning takes a sorted snapshot of the live keys and pages through it with
// an offset cursor; as with the real server, keys added or removed while a
// scan is in flight may or may not be observed.
package mstore
