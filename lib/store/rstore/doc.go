// Package rstore implements the store.IStore interface on top of go-redis,
// making it usable against Redis, Valkey and protocol-compatible servers.
//
// The mapping to server commands is one to one: Set issues SET with an
// optional EX, SetKeepTTL issues SET ... KEEPTTL, SetIfAbsentGet issues the
// conditional SET ... NX GET with either EX or KEEPTTL, GetDel issues GETDEL,
// and scanning drives the SCAN cursor with an optional COUNT hint. The
// server's key-not-found reply (redis.Nil) is normalized into found booleans,
// so callers never have to compare errors against the sentinel.
//
// Pipelines wrap a go-redis Pipeliner; queued writes are sent as one round
// trip on Exec, and the flush happens regardless of errors raised while the
// pipeline was being filled.
package rstore
