package codec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Function Types
// --------------------------------------------------------------------------

// EncodeFunc converts a value into its payload string.
type EncodeFunc func(v any) (string, error)

// DecodeFunc converts a payload string back into a value.
type DecodeFunc func(payload string) (any, error)

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

// Registry maps type tags to encoders and, independently, to decoders.
// The two maps need not agree: a tag may have only an encoder (write-only
// types) or only a decoder. Registration is last-write-wins per tag.
//
// A Registry is safe for concurrent use. Registrations made while lookups are
// in flight become visible to subsequent operations.
type Registry struct {
	encoders *xsync.MapOf[string, EncodeFunc]
	decoders *xsync.MapOf[string, DecodeFunc]

	// tags maps registered Go types to their tag, resolved once at
	// registration time so Encode never reflects over unregistered values.
	tags *xsync.MapOf[reflect.Type, string]
}

// NewRegistry creates a Registry pre-populated with the built-in types.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: xsync.NewMapOf[string, EncodeFunc](),
		decoders: xsync.NewMapOf[string, DecodeFunc](),
		tags:     xsync.NewMapOf[reflect.Type, string](),
	}
	registerBuiltins(r)
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the shared process-wide registry. Every container created
// without an explicit registry uses this instance, so registrations on it are
// visible to all of them. Use NewRegistry for isolated registrations.
func Default() *Registry {
	return defaultRegistry
}

// RegisterEncoder registers fn as the encoder for tag, replacing any previous
// encoder.
func (r *Registry) RegisterEncoder(tag string, fn EncodeFunc) {
	r.encoders.Store(tag, fn)
}

// RegisterDecoder registers fn as the decoder for tag, replacing any previous
// decoder.
func (r *Registry) RegisterDecoder(tag string, fn DecodeFunc) {
	r.decoders.Store(tag, fn)
}

// TagOf resolves the type tag for a value. Types registered via Extend win
// over the built-in resolution; values of unregistered types fall back to
// their Go type name.
func (r *Registry) TagOf(v any) string {
	if v == nil {
		return TagNone
	}
	if tag, ok := r.tags.Load(reflect.TypeOf(v)); ok {
		return tag
	}
	return builtinTag(v)
}

// Encode converts a value into its wire envelope "tag:payload". Values of
// types without a registered encoder are formatted with their default string
// representation, mirroring the identity fallback of the registry.
func (r *Registry) Encode(v any) (string, error) {
	tag := r.TagOf(v)
	enc, ok := r.encoders.Load(tag)
	if !ok {
		return tag + ":" + fmt.Sprint(v), nil
	}
	payload, err := enc(v)
	if err != nil {
		return "", fmt.Errorf("codec: encoding %q value failed: %w", tag, err)
	}
	return tag + ":" + payload, nil
}

// Decode converts a wire envelope back into a value. The envelope is split on
// the first colon; payloads may contain further colons. An unregistered tag is
// not an error: the payload degrades to a best-effort literal or to the raw
// string.
func (r *Registry) Decode(envelope string) (any, error) {
	tag, payload, found := strings.Cut(envelope, ":")
	if !found {
		// No tag separator at all, treat the whole envelope as payload.
		return defaultDecode(envelope), nil
	}
	dec, ok := r.decoders.Load(tag)
	if !ok {
		return defaultDecode(payload), nil
	}
	v, err := dec(payload)
	if err != nil {
		return nil, fmt.Errorf("codec: decoding %q value failed: %w", tag, err)
	}
	return v, nil
}

// --------------------------------------------------------------------------
// Runtime Type Extension
// --------------------------------------------------------------------------

// Extend registers encode and decode functions for the type of prototype,
// keyed by the type's name. Either function may be nil, in which case it is
// derived from the type's "Encode" and "Decode" methods (see ExtendByMethods).
//
// The encoder and decoder maps are updated independently: if deriving the
// decoder fails after the encoder was registered, the encoder registration
// stands. This is the documented contract, callers who need both must supply
// both or handle the returned error.
func (r *Registry) Extend(prototype any, enc EncodeFunc, dec DecodeFunc) error {
	return r.ExtendNamed(prototype, enc, dec, DefaultEncodeMethod, DefaultDecodeMethod)
}

// ExtendByMethods registers the type of prototype using encode and decode
// functions derived from the named methods. The encode method must be an
// instance method with signature func() (string, error) or func() string; the
// decode method must take a single string and return the new value, with an
// optional error. A missing or incompatible method yields a
// *MissingMethodError.
func (r *Registry) ExtendByMethods(prototype any, encodeMethod, decodeMethod string) error {
	return r.ExtendNamed(prototype, nil, nil, encodeMethod, decodeMethod)
}

// ExtendNamed is the general form of Extend: nil functions are derived from
// the methods named by encodeMethod and decodeMethod.
func (r *Registry) ExtendNamed(prototype any, enc EncodeFunc, dec DecodeFunc, encodeMethod, decodeMethod string) error {
	tag := typeName(prototype)

	if enc == nil {
		derived, err := EncodeFromMethod(prototype, encodeMethod)
		if err != nil {
			return err
		}
		enc = derived
	}
	r.encoders.Store(tag, enc)
	r.tags.Store(reflect.TypeOf(prototype), tag)

	if dec == nil {
		derived, err := DecodeFromMethod(prototype, decodeMethod)
		if err != nil {
			return err
		}
		dec = derived
	}
	r.decoders.Store(tag, dec)
	return nil
}

// typeName returns the tag for a prototype value: the Go type name, with
// pointers resolved to their element type.
func typeName(prototype any) string {
	t := reflect.TypeOf(prototype)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
