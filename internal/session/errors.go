package session

import "errors"

var (
	ErrUnknownMode      = errors.New("unknown session mode")
	ErrKeyRequired      = errors.New("keys-only mode requires a derived key")
	ErrPasswordRequired = errors.New("password modes require a password")
)
