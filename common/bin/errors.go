package bin

import "github.com/pkg/errors"

var (
	ErrInvalidLength = errors.New("invalid length")
)
