package mining

import "errors"

var (
	ErrInvalidLockPeriod    = errors.New("illegal lock period (lock account for 100 - 1100 days)")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrUnknownPosition      = errors.New("position id is not mapped to a valid address")
	ErrLockNotElapsed       = errors.New("unlocking time has not arrived yet")
	ErrUnauthorisedNotifier = errors.New("caller is not the registered liquidity protection contract")
	ErrInvalidNotifierData  = errors.New("invalid transfer notification data")
	ErrNotPositionProvider  = errors.New("protected position is not held by liquidity mining")
	ErrRewardOverflow       = errors.New("reward accumulator overflow")
)
