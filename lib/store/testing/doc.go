// Package testing provides a reusable conformance suite for store.IStore
// implementations. Every implementation in this repository runs the same
// suite, so the in-memory store and the server-backed store stay
// interchangeable from the container's point of view.
//
// Usage from an implementation package:
//
//	func Test(t *testing.T) {
//		storetesting.RunStoreTests(t, "MStore", func() store.IStore {
//			return mstore.New()
//		})
//	}
//
// The factory must return a fresh, empty store per invocation.
package testing
