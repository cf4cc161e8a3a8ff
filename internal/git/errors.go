package git

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrNotARepository means no git directory or refs/heads was found.
	ErrNotARepository     = errors.New("not a git repository")
	// ErrMalformedReference is a branch ref that is empty, not a hash, or
	// cannot be resolved.
	ErrMalformedReference = errors.New("malformed reference")
	// ErrObjectNotFound is a commit missing from every object store.
	ErrObjectNotFound     = errors.New("object not found")
	// ErrCorruptObject is an object that cannot be inflated or parsed as a commit.
	ErrCorruptObject      = errors.New("corrupt object")
)

// Error carries one of the sentinel kinds above together with the offending
// path or hash.
type Error struct {
	Kind    error
	Subject string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Subject != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Subject)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func refError(path string, format string, args ...any) error {
	return &Error{Kind: ErrMalformedReference, Subject: path, Err: fmt.Errorf(format, args...)}
}

func objectError(kind error, hash string, err error) error {
	return &Error{Kind: kind, Subject: hash, Err: err}
}
