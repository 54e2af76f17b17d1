package math

import "errors"

var (
	ErrZeroLength        = errors.New("vector has zero length")
	ErrDivideByZero      = errors.New("division by zero")
	ErrZeroW             = errors.New("homogeneous w is zero")
	ErrInvalidProjection = errors.New("invalid projection parameters")
)
