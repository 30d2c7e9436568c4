package identity

import "errors"

var (
	ErrBadSeed = errors.New("key seed has wrong size")
)
