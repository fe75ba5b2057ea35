package rstore

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Attumm/valkey-dict/lib/store"
)

// Options holds the connection parameters for a server-backed store.
type Options struct {
	// Server address as host:port.
	Address string
	// Password required when connecting to the server.
	Password string
	// DB to connect to.
	DB int
	// TLS config, nil for plaintext connections.
	TLSConfig *tls.Config
}

// DefaultOptions returns options for a local server on the default port.
func DefaultOptions() Options {
	return Options{
		Address:  "localhost:6379",
		Password: "", // no password set
		DB:       0,  // use default DB
	}
}

type storeImpl struct {
	client redis.UniversalClient
}

// New wraps an existing go-redis client. The caller keeps ownership of the
// client; Close closes it.
func New(client redis.UniversalClient) store.IStore {
	return &storeImpl{client: client}
}

// NewClient opens a new connection with the given options and returns a
// store backed by it.
func NewClient(options Options) store.IStore {
	return New(redis.NewClient(&redis.Options{
		Addr:      options.Address,
		Password:  options.Password,
		DB:        options.DB,
		TLSConfig: options.TLSConfig,
	}))
}

// keyNotFound reports whether the error is the server's key-not-found reply.
func keyNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(ctx context.Context, key, value string, expire time.Duration) error {
	if err := s.client.Set(ctx, key, value, expire).Err(); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("set failed for key %s: %v", key, err))
	}
	return nil
}

func (s *storeImpl) SetKeepTTL(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, redis.KeepTTL).Err(); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("set keepttl failed for key %s: %v", key, err))
	}
	return nil
}

func (s *storeImpl) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, store.NewError(store.RetCInternalError, fmt.Sprintf("delete failed: %v", err))
	}
	return n, nil
}

func (s *storeImpl) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if keyNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, store.NewError(store.RetCInternalError, fmt.Sprintf("get failed for key %s: %v", key, err))
	}
	return v, true, nil
}

func (s *storeImpl) MGet(ctx context.Context, keys ...string) ([]*string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	raw, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("mget failed: %v", err))
	}
	values := make([]*string, len(raw))
	for i, item := range raw {
		if sv, ok := item.(string); ok {
			v := sv
			values[i] = &v
		}
	}
	return values, nil
}

func (s *storeImpl) GetDel(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.GetDel(ctx, key).Result()
	if keyNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, store.NewError(store.RetCInternalError, fmt.Sprintf("getdel failed for key %s: %v", key, err))
	}
	return v, true, nil
}

func (s *storeImpl) SetIfAbsentGet(ctx context.Context, key, value string, expire time.Duration, keepTTL bool) (string, bool, error) {
	args := redis.SetArgs{
		Mode: "NX",
		Get:  true,
	}
	if keepTTL {
		args.KeepTTL = true
	} else {
		args.TTL = expire
	}
	prev, err := s.client.SetArgs(ctx, key, value, args).Result()
	// The GET part replies nil when the key was absent, i.e. our write won.
	if keyNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, store.NewError(store.RetCInternalError, fmt.Sprintf("set nx get failed for key %s: %v", key, err))
	}
	return prev, true, nil
}

func (s *storeImpl) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, store.NewError(store.RetCInternalError, fmt.Sprintf("exists failed for key %s: %v", key, err))
	}
	return n > 0, nil
}

func (s *storeImpl) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, store.NewError(store.RetCInternalError, fmt.Sprintf("ttl failed for key %s: %v", key, err))
	}
	// Negative replies mean no key or no expiration.
	if ttl < 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}

func (s *storeImpl) Scan(ctx context.Context, cursor uint64, match string, count int64) ([]string, uint64, error) {
	keys, next, err := s.client.Scan(ctx, cursor, match, count).Result()
	if err != nil {
		return nil, 0, store.NewError(store.RetCInternalError, fmt.Sprintf("scan failed for pattern %s: %v", match, err))
	}
	return keys, next, nil
}

func (s *storeImpl) Pipeline() store.Pipeline {
	return &pipeline{pipe: s.client.Pipeline()}
}

func (s *storeImpl) SupportsFeature(feature store.Feature) bool {
	supported := store.FeatureScan | store.FeatureGetDel | store.FeatureConditionalSet | store.FeaturePipeline
	return feature&supported == feature
}

func (s *storeImpl) Close() error {
	return s.client.Close()
}
