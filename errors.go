package hamming

import "errors"

var (
	ErrInvalidCount      = errors.New("hamming: count must be positive")
	ErrInvalidBudget     = errors.New("hamming: time budget must be positive")
	ErrAlreadyConfigured = errors.New("hamming: network already configured")
	ErrNotConfigured     = errors.New("hamming: network not configured")
	ErrAlreadyStarted    = errors.New("hamming: network already started")
)
