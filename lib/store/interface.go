package store

import (
	"context"
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Feature Flags
// --------------------------------------------------------------------------

// Feature represents store capabilities as bit flags.
type Feature uint64

const (
	FeatureScan           Feature = 1 << iota // Support for cursor-driven key scanning
	FeatureGetDel                             // Support for atomic get-and-delete
	FeatureConditionalSet                     // Support for set-if-absent-and-get
	FeaturePipeline                           // Support for batched command pipelines
)

func (f Feature) String() string {
	switch f {
	case FeatureScan:
		return "Scan"
	case FeatureGetDel:
		return "GetDel"
	case FeatureConditionalSet:
		return "ConditionalSet"
	case FeaturePipeline:
		return "Pipeline"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Writer is the write subset of the command vocabulary that can be queued in
// a Pipeline. Issued against an IStore the commands execute immediately;
// issued against a Pipeline they are collected until Exec.
type Writer interface {
	// Set stores value under key. An expire of zero stores without a TTL,
	// a positive expire sets the key's TTL (SET ... EX).
	Set(ctx context.Context, key, value string, expire time.Duration) error
	// SetKeepTTL stores value under key and leaves the key's current TTL
	// untouched (SET ... KEEPTTL).
	SetKeepTTL(ctx context.Context, key, value string) error
	// Delete removes the given keys and returns how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)
}

// Pipeline collects queued write commands and sends them as a single round
// trip on Exec. Counts returned by queued Deletes are not available.
type Pipeline interface {
	Writer
	// Exec flushes every queued command in order. Commands queued before a
	// failing one are still sent; Exec reports the first error encountered.
	Exec(ctx context.Context) error
}

// IStore is the generic interface for the remote key-value store valkey-dict
// is layered over. Absence of a key is reported through the found return
// value, never as an error.
type IStore interface {
	Writer

	// Get returns the value for key. found reports whether the key exists.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// MGet returns the values for the given keys in order; missing keys
	// yield nil entries.
	MGet(ctx context.Context, keys ...string) ([]*string, error)
	// GetDel atomically returns and removes the value for key.
	GetDel(ctx context.Context, key string) (value string, found bool, err error)
	// SetIfAbsentGet stores value under key only if the key is absent and
	// always returns the key's previous value (SET ... NX GET). existed
	// reports whether the key was already present; if so prev holds the
	// winning value and the write was a no-op. With keepTTL set the key's
	// TTL is preserved instead of applying expire.
	SetIfAbsentGet(ctx context.Context, key, value string, expire time.Duration, keepTTL bool) (prev string, existed bool, err error)
	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
	// TTL returns the remaining time to live of key. ok is false if the key
	// does not exist or has no expiration set.
	TTL(ctx context.Context, key string) (ttl time.Duration, ok bool, err error)
	// Scan returns one page of keys matching the glob pattern, starting at
	// cursor. A returned cursor of zero ends the iteration. count is a
	// server-side batching hint, not a page-size guarantee; zero means no
	// hint.
	Scan(ctx context.Context, cursor uint64, match string, count int64) (keys []string, next uint64, err error)

	// Pipeline returns a fresh command pipeline.
	Pipeline() Pipeline
	// SupportsFeature checks if the implementation supports the specified
	// features. Multiple features can be checked at once using bitwise OR.
	SupportsFeature(feature Feature) bool
	// Close releases the underlying connection or storage.
	Close() error
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the implementation.
	RetCInvalidOperation                    // 3: Invalid operation.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	default:
		return "Unknown"
	}
}
