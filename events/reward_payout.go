package events

import (
	"context"

	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

// RewardPayout is sent for every unlock, including zero payouts.
type RewardPayout struct {
	*Base
	Owner      ethcmn.Address
	PositionID uint64
	Amount     *num.Uint
	// PercentageOfPool is the payout relative to the pool balance right
	// before it was paid.
	PercentageOfPool num.Decimal
	Timestamp        int64
}

func NewRewardPayout(ctx context.Context, timestamp int64, owner ethcmn.Address, positionID uint64, amount, poolBalance *num.Uint) *RewardPayout {
	return &RewardPayout{
		Base:             newBase(ctx, RewardPayoutEvent),
		Owner:            owner,
		PositionID:       positionID,
		Amount:           amount.Clone(),
		PercentageOfPool: num.Percentage(amount, poolBalance, 4),
		Timestamp:        timestamp,
	}
}

func (rp RewardPayout) IsParty(owner ethcmn.Address) bool {
	return rp.Owner == owner
}
