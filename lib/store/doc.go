// Package store defines the command vocabulary valkey-dict speaks against its
// backing key-value store. The container layer never talks to a concrete
// client; it issues the small set of commands below through the IStore
// interface and leaves transport, pooling and durability to the
// implementation.
//
// The package focuses on:
//   - A unified interface (IStore) covering the exact command shapes the
//     container needs: plain and TTL-aware writes, the conditional
//     set-if-absent-and-get write, atomic get-and-delete, cursor-driven key
//     scanning, and the batch fetch/delete commands
//   - A queueable write subset (Writer) and a Pipeline handle that collects
//     queued writes and sends them as one round trip
//   - Feature flags so implementations can declare which parts of the
//     vocabulary they support, with a standardized error code for the rest
//
// Key Components:
//
//   - IStore Interface: All blocking methods take a context.Context; ordering
//     guarantees are those of the underlying store. Key-not-found conditions
//     are reported through found booleans, never through errors.
//
//   - Error System: A structured error type wrapping a return code and a
//     message, letting callers react to specific conditions (an unsupported
//     operation, an internal store failure) instead of matching strings.
//
//   - Feature Flags: Bitwise-combinable capabilities (scanning, conditional
//     set, get-and-delete, pipelining). Containers probe these before using
//     the corresponding commands and surface an unsupported-operation error
//     otherwise.
//
// Implementations:
//
//	The package ships two implementations of the IStore interface:
//
//	- Redis/Valkey Store (rstore): The production implementation, backed by
//	  go-redis and therefore usable against Redis, Valkey and compatible
//	  servers. Available in "github.com/Attumm/valkey-dict/lib/store/rstore".
//
//	- In-Memory Store (mstore): A process-local implementation with the same
//	  semantics, including TTL handling and glob scanning. It backs the test
//	  suites and suits embedded use where no server is available. Available in
//	  "github.com/Attumm/valkey-dict/lib/store/mstore".
package store
