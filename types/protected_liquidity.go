package types

import (
	"time"

	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

// ProtectedLiquidity is a liquidity provision held by the protection store.
// ReserveAmount is the stake carried over when the position is moved to
// liquidity mining.
type ProtectedLiquidity struct {
	ID            uint64
	Provider      ethcmn.Address
	PoolToken     ethcmn.Address
	ReserveToken  ethcmn.Address
	PoolAmount    *num.Uint
	ReserveAmount *num.Uint
	ReserveRateN  *num.Uint
	ReserveRateD  *num.Uint
	Timestamp     time.Time
}

func (p ProtectedLiquidity) Clone() *ProtectedLiquidity {
	cpy := p
	cpy.PoolAmount = p.PoolAmount.Clone()
	cpy.ReserveAmount = p.ReserveAmount.Clone()
	cpy.ReserveRateN = p.ReserveRateN.Clone()
	cpy.ReserveRateD = p.ReserveRateD.Clone()
	return &cpy
}
