package events

import (
	"context"

	"code.bbsnetwork.io/lm/types"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

type PositionLocked struct {
	*Base
	p types.Position
}

func NewPositionLocked(ctx context.Context, p types.Position) *PositionLocked {
	return &PositionLocked{
		Base: newBase(ctx, PositionLockedEvent),
		p:    *p.Clone(),
	}
}

func (p PositionLocked) Position() types.Position {
	return p.p
}

func (p PositionLocked) IsParty(owner ethcmn.Address) bool {
	return p.p.Owner == owner
}

type PositionUnlocked struct {
	*Base
	p types.Position
}

func NewPositionUnlocked(ctx context.Context, p types.Position) *PositionUnlocked {
	return &PositionUnlocked{
		Base: newBase(ctx, PositionUnlockedEvent),
		p:    *p.Clone(),
	}
}

func (p PositionUnlocked) Position() types.Position {
	return p.p
}

func (p PositionUnlocked) IsParty(owner ethcmn.Address) bool {
	return p.p.Owner == owner
}
