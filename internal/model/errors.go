package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email is already registered")
	ErrInvalidAvatar   = errors.New("avatar must be an integer")

	// Watchlist errors
	ErrInvalidEntry   = errors.New("invalid watchlist entry")
	ErrDuplicateEntry = errors.New("entry is already in the watchlist")
	ErrInvalidRequest = errors.New("invalid request")

	// Storage errors
	ErrConcurrentUpdate = errors.New("too many concurrent updates")
)
