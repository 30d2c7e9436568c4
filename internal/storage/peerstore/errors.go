package peerstore

import "errors"

var (
	ErrPeerNotFound   = errors.New("peer not found")
	ErrBucketNotFound = errors.New("bucket not found")
	ErrNilStore       = errors.New("store connection is nil")
)
