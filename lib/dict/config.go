package dict

import (
	"time"

	"github.com/Attumm/valkey-dict/lib/codec"
)

// Defaults for the zero Config.
const (
	DefaultNamespace = "main"
	DefaultBatchSize = 200
	// DefaultMaxStringSize is the byte-length ceiling for string keys and
	// string values, 500 MB.
	DefaultMaxStringSize = 500 * 1024 * 1024
)

// Config holds all configuration parameters for a Dict. The zero value is
// usable; see the constants above for the defaults.
type Config struct {
	// Namespace prefixes every key stored by the container.
	Namespace string
	// Expire is the TTL applied to written keys. Zero stores keys without
	// expiration. Positive values below one second are clamped to one
	// second, the store's TTL granularity.
	Expire time.Duration
	// PreserveExpiration keeps the existing TTL when an existing key is
	// updated instead of resetting it to Expire.
	PreserveExpiration bool
	// StrictDelete makes Delete fail with a not-found error when the key
	// does not exist. By default deleting an absent key is a no-op, which
	// is the safer behavior when several processes share a namespace.
	StrictDelete bool
	// BatchSize is the COUNT hint passed to scan commands. It tunes round
	// trips, not page sizes.
	BatchSize int64
	// MaxStringSize is the byte-length ceiling for string keys and values,
	// checked before any network call.
	MaxStringSize int
	// Registry is the codec registry used to encode and decode values.
	// Nil selects the shared process-wide registry (codec.Default), so
	// type registrations are visible to every container using it.
	Registry *codec.Registry
	// EncodeMethod and DecodeMethod name the methods used when a type is
	// registered without explicit functions. Empty selects "Encode" and
	// "Decode".
	EncodeMethod string
	DecodeMethod string
}

// DefaultConfig returns the configuration used for a zero Config.
func DefaultConfig() Config {
	return Config{
		Namespace:     DefaultNamespace,
		BatchSize:     DefaultBatchSize,
		MaxStringSize: DefaultMaxStringSize,
		Registry:      codec.Default(),
		EncodeMethod:  codec.DefaultEncodeMethod,
		DecodeMethod:  codec.DefaultDecodeMethod,
	}
}

// withDefaults fills the zero fields of a Config.
func (c Config) withDefaults() Config {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MaxStringSize == 0 {
		c.MaxStringSize = DefaultMaxStringSize
	}
	if c.Registry == nil {
		c.Registry = codec.Default()
	}
	if c.EncodeMethod == "" {
		c.EncodeMethod = codec.DefaultEncodeMethod
	}
	if c.DecodeMethod == "" {
		c.DecodeMethod = codec.DefaultDecodeMethod
	}
	return c
}
