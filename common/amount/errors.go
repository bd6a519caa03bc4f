package amount

import "github.com/pkg/errors"

var (
	ErrInvalidAmountFormat = errors.New("invalid amount format")
)
