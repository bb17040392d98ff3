package events

import (
	"context"

	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

// Transfer mirrors the ERC20 Transfer log. Issuance has a zero From.
type Transfer struct {
	*Base
	Token  ethcmn.Address
	From   ethcmn.Address
	To     ethcmn.Address
	Amount *num.Uint
}

func NewTransfer(ctx context.Context, token, from, to ethcmn.Address, amount *num.Uint) *Transfer {
	return &Transfer{
		Base:   newBase(ctx, TransferEvent),
		Token:  token,
		From:   from,
		To:     to,
		Amount: amount.Clone(),
	}
}

func (t Transfer) IsParty(addr ethcmn.Address) bool {
	return t.From == addr || t.To == addr
}

type ProtectedLiquidityTransferred struct {
	*Base
	OldID       uint64
	NewID       uint64
	OldProvider ethcmn.Address
	NewProvider ethcmn.Address
}

func NewProtectedLiquidityTransferred(ctx context.Context, oldID, newID uint64, oldProvider, newProvider ethcmn.Address) *ProtectedLiquidityTransferred {
	return &ProtectedLiquidityTransferred{
		Base:        newBase(ctx, ProtectedLiquidityTransferredEvent),
		OldID:       oldID,
		NewID:       newID,
		OldProvider: oldProvider,
		NewProvider: newProvider,
	}
}
