package link

import "errors"

var (
	ErrAlreadyConnected = errors.New("already connected")
	ErrNotConnected     = errors.New("not connected")
	ErrDeviceClosed     = errors.New("device closed")
	ErrInvalidLine      = errors.New("invalid report line")
)
