package error

import "errors"

// Coded is implemented by every domain error that carries a machine-readable code.
type Coded interface {
	error
	ErrorCode() string
}

// CodeOf returns the code of the first coded error in err's chain.
func CodeOf(err error) (string, bool) {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ErrorCode(), true
	}
	return "", false
}
