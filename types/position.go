package types

import (
	"fmt"
	"time"

	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

const (
	MinLockDurationDays uint16 = 100
	MaxLockDurationDays uint16 = 1100

	Day = 24 * time.Hour
)

// Position is a stake locked in the liquidity mining contract.
type Position struct {
	ID               uint64
	Owner            ethcmn.Address
	Amount           *num.Uint
	LockDurationDays uint16
	LockStartTime    time.Time
	Unlocked         bool

	// Weight is the share of the reward pool the position is entitled to,
	// RewardDebt the part of the accumulated rewards that was already
	// distributed before the position was created.
	Weight     *num.Uint
	RewardDebt *num.Uint
}

// UnlockableAt is the first instant at which the position may be unlocked.
func (p Position) UnlockableAt() time.Time {
	return p.LockStartTime.Add(time.Duration(p.LockDurationDays) * Day)
}

// CanUnlock reports whether the lock period has elapsed at t.
func (p Position) CanUnlock(t time.Time) bool {
	return !t.Before(p.UnlockableAt())
}

func (p Position) Clone() *Position {
	cpy := p
	if p.Amount != nil {
		cpy.Amount = p.Amount.Clone()
	}
	if p.Weight != nil {
		cpy.Weight = p.Weight.Clone()
	}
	if p.RewardDebt != nil {
		cpy.RewardDebt = p.RewardDebt.Clone()
	}
	return &cpy
}

func (p Position) String() string {
	return fmt.Sprintf(
		"id(%d) owner(%s) amount(%s) lockDurationDays(%d) lockStartTime(%s) unlocked(%v)",
		p.ID,
		p.Owner.Hex(),
		p.Amount,
		p.LockDurationDays,
		p.LockStartTime.UTC().Format(time.RFC3339),
		p.Unlocked,
	)
}

// ValidLockDuration reports whether days is within the accepted lock range.
func ValidLockDuration(days uint16) bool {
	return days >= MinLockDurationDays && days <= MaxLockDurationDays
}
