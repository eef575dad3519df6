package services

import "errors"

// Rejection reasons for the click pipeline and user directory. Handlers map
// these onto HTTP statuses with errors.Is; the messages double as the wire
// error text.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidClickReport    = errors.New("invalid clickCount or timestamp")
	ErrStaleTimestamp        = errors.New("timestamp is outside the accepted window")
	ErrBurstLimitExceeded    = errors.New("click count exceeds the per-report limit")
	ErrInsufficientAllowance = errors.New("insufficient click allowance")
	ErrInvalidPurchase       = errors.New("purchased click amount must be positive")
	ErrStorage               = errors.New("storage error")
	ErrRedisUnavailable      = errors.New("redis is not connected")
)
