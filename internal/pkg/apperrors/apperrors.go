package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so transport code can pick a status
// without string-matching messages.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAssetUpload
	KindDependentWrite
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAssetUpload:
		return "asset_upload"
	case KindDependentWrite:
		return "dependent_write"
	default:
		return "internal"
	}
}

// Error is a classified application error. The message is safe to return to
// clients; the wrapped cause is for logs.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }
func (e *Error) Kind() Kind    { return e.kind }

// Message is the client-facing text without the wrapped cause.
func (e *Error) Message() string { return e.message }

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Conflictf(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

// AssetUpload wraps a storage-backend failure during an upload.
func AssetUpload(err error) *Error {
	return &Error{kind: KindAssetUpload, message: "asset upload failed", cause: err}
}

// DependentWrite wraps a database failure that happened after an asset was
// already uploaded. The caller compensates; the original cause is preserved.
func DependentWrite(err error) *Error {
	return &Error{kind: KindDependentWrite, message: "write after asset upload failed", cause: err}
}

func Internal(err error) *Error {
	return &Error{kind: KindInternal, message: "internal error", cause: err}
}

// KindOf extracts the kind of any error, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindInternal
}

// ClientMessage returns the text a handler may expose for err.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.cause != nil && (e.kind == KindDependentWrite || e.kind == KindAssetUpload) {
			return fmt.Sprintf("%s: %v", e.message, e.cause)
		}
		return e.Message()
	}
	return "internal error"
}
