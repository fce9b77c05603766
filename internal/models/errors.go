package models

import "errors"

// Custom errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateKey  = errors.New("duplicate key violation")
	ErrInvalidResult = errors.New("result must be win, loss or push")
	ErrNoMarketLine  = errors.New("no betting lines available")
)
