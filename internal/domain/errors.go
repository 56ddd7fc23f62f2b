package domain

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates the failure classes surfaced at operation
// boundaries. Validation and authorization failures are never retried;
// not-found means the caller should refresh its view; transient store
// failures may be retried by the caller with backoff.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindAuthorization
	KindNotFound
	KindTransientStore
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindTransientStore:
		return "transient_store"
	}
	return "unknown"
}

type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func Validationf(format string, a ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, a...)}
}

func Authorizationf(format string, a ...any) error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, a...)}
}

func NotFoundf(format string, a ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, a...)}
}

// TransientStore wraps an infrastructure failure from the document store.
func TransientStore(msg string, err error) error {
	return &Error{Kind: KindTransientStore, Msg: msg, Err: err}
}

// KindOf extracts the error kind, or 0 if err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

func IsValidation(err error) bool     { return KindOf(err) == KindValidation }
func IsAuthorization(err error) bool  { return KindOf(err) == KindAuthorization }
func IsNotFound(err error) bool       { return KindOf(err) == KindNotFound }
func IsTransientStore(err error) bool { return KindOf(err) == KindTransientStore }
