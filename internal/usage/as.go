package usage

import "errors"

// As finds the first usage error in err's chain.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// KindOf returns the kind of the first usage error in err's chain,
// or ErrUnknown when there is none.
func KindOf(err error) ErrorKind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ErrUnknown
}
