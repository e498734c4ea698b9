package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a business-rule failure so the HTTP layer can map it
// to a status code without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindPermission
	KindState
	KindNotFound
)

type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, msg: fmt.Sprintf(format, args...)}
}

func Permissionf(format string, args ...any) error {
	return &Error{Kind: KindPermission, msg: fmt.Sprintf(format, args...)}
}

func Statef(format string, args ...any) error {
	return &Error{Kind: KindState, msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a domain error, or KindUnknown for any
// other error (including nil).
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
