package backend

import "github.com/pkg/errors"

var (
	ErrNotExistDriver = errors.New("not exist backend driver")
	ErrNotExistKey    = errors.New("not exist key")
)
