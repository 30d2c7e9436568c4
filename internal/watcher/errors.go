package watcher

import "errors"

var (
	ErrInvalidPath = errors.New("invalid path")
)
