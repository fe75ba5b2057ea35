package dict

import (
	"errors"
	"fmt"

	"github.com/Attumm/valkey-dict/lib/codec"
)

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
	return fmt.Sprintf("DictError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new dict Error with the given code and message.
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
	RetCSuccess       RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                // 1: Operation failed due to an internal or store error.
	RetCValidation                   // 2: Key or value failed validation before any network call.
	RetCNotFound                     // 3: Key not found where the operation requires one.
	RetCTypeMismatch                 // 4: Operand of a merge operation is not a mapping.
	RetCUnsupported                  // 5: Operation is not supported by the store implementation.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCValidation:
		return "Validation"
	case RetCNotFound:
		return "NotFound"
	case RetCTypeMismatch:
		return "TypeMismatch"
	case RetCUnsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Predicates
// --------------------------------------------------------------------------

func is(err error, code RetCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsNotFound reports whether err is a missing-key error.
func IsNotFound(err error) bool { return is(err, RetCNotFound) }

// IsValidation reports whether err is a size-validation error.
func IsValidation(err error) bool { return is(err, RetCValidation) }

// IsTypeMismatch reports whether err is a merge-operand type error.
func IsTypeMismatch(err error) bool { return is(err, RetCTypeMismatch) }

// IsUnsupported reports whether err signals an operation the store
// implementation does not support.
func IsUnsupported(err error) bool { return is(err, RetCUnsupported) }

// IsMissingCapability reports whether err stems from registering a type that
// lacks a required encode or decode method. These errors originate in the
// codec package and carry the type and method names.
func IsMissingCapability(err error) bool {
	var e *codec.MissingMethodError
	return errors.As(err, &e)
}
