// Package dict implements a dictionary-like container backed by a remote
// key-value store. It offers the ergonomics of a mutable typed map — item
// access, iteration, batch update, defaults, expiration — while durability,
// replication and lookup are delegated to the store behind the store.IStore
// interface.
//
// The package focuses on:
//   - Mapping-style operations (Get, Set, Delete, Has, Len, Pop, PopItem,
//     SetDefault, Update, Clear) with explicit error semantics
//   - TTL policy: a container-wide default expiration, optional preservation
//     of existing TTLs on update, and scoped overrides
//   - Pipelined batching: a reentrant scope that coalesces all writes issued
//     inside it into a single network round trip
//   - Lazy, cursor-driven key enumeration and prefix-based multi-key
//     operations built on the store's scan primitive
//
// Key Components:
//
//   - Dict: The container. Each instance owns a namespace, its TTL
//     configuration and its pipeline state; the codec registry is shared or
//     per-instance depending on the Config. A Dict is safe for concurrent
//     reads, but pipeline scopes and expiration scopes mutate instance state
//     and must not run concurrently with other operations on the same
//     instance.
//
//   - Config: All recognized options with their defaults; the zero value is
//     usable and yields the namespace "main", no expiration, non-strict
//     deletes and the shared codec registry.
//
//   - Error System: A structured error type with a return code per failure
//     kind (validation, not-found, type mismatch, unsupported operation),
//     plus predicates such as IsNotFound for ergonomic checks.
//
// Value typing is handled by the codec package: values round-trip through the
// "tag:payload" envelope, integers canonicalize to int64 and floats to
// float64, and caller-defined types can be registered at runtime.
package dict
