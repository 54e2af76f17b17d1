package core

import (
	"errors"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrDisplayInit   = errors.New("display could not be initialized")
	ErrUnknown       = errors.New("unknown")
)
