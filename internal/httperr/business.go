package httperr

import "errors"

// Kind classifies a BusinessError for callers and for the HTTP layer.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindInvariant    Kind = "invariant_violation"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrInvalidInput(code string) error {
	return BusinessError{Kind: KindInvalidInput, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

// ErrInvariant marks an internal consistency failure. It is a defect, never a
// caller mistake, and the operation that produced it must be aborted.
func ErrInvariant(code string) error {
	return BusinessError{Kind: KindInvariant, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
