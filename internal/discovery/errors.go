package discovery

import "errors"

var (
	ErrIdentityUnset    = errors.New("local identity is not set")
	ErrNotStarted       = errors.New("discovery is not started")
	ErrAlreadyRunning   = errors.New("discovery is already running")
	ErrBadAddress       = errors.New("invalid multicast or interface address")
	ErrRegisterRejected = errors.New("peer rejected registration")
)
