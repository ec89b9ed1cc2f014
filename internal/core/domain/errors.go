package domain

import "errors"

var (
	ErrNoSeatsAvailable = errors.New("no seats available")
	ErrEventNotFound    = errors.New("event not found")
	ErrUserNotFound     = errors.New("user not found")
)
