// Package cmd implements the command-line interface for valkey-dict. It
// provides a hierarchical command structure for inspecting and manipulating a
// dictionary stored on a Valkey/Redis server.
//
// The package is organized into several subpackages:
//
//   - dict: Commands for dictionary operations (get, set, del, keys, etc.)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See vdict -help for a list of all commands.
package cmd
