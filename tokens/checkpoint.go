package tokens

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sort"

	"code.bbsnetwork.io/lm/types"
	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

type balanceEntry struct {
	Account ethcmn.Address
	Amount  *big.Int
}

type checkpoint struct {
	Owner       ethcmn.Address
	TotalSupply *big.Int
	Balances    []balanceEntry
}

func (*Token) Name() types.CheckpointName {
	return types.TokensCheckpoint
}

// Checkpoint returns the RLP encoded balances, sorted by account.
func (t *Token) Checkpoint() ([]byte, error) {
	cp := checkpoint{
		Owner:       t.owner,
		TotalSupply: t.totalSupply.BigInt(),
		Balances:    make([]balanceEntry, 0, len(t.balances)),
	}
	for addr, bal := range t.balances {
		cp.Balances = append(cp.Balances, balanceEntry{Account: addr, Amount: bal.BigInt()})
	}
	sort.Slice(cp.Balances, func(i, j int) bool {
		return bytes.Compare(cp.Balances[i].Account[:], cp.Balances[j].Account[:]) < 0
	})
	return rlp.EncodeToBytes(&cp)
}

// Load replaces the ledger with the content of a checkpoint.
func (t *Token) Load(_ context.Context, data []byte) error {
	var cp checkpoint
	if err := rlp.DecodeBytes(data, &cp); err != nil {
		return fmt.Errorf("could not decode token checkpoint: %w", err)
	}
	supply, overflow := num.UintFromBig(cp.TotalSupply)
	if overflow {
		return fmt.Errorf("invalid total supply in checkpoint: %s", cp.TotalSupply)
	}
	balances := make(map[ethcmn.Address]*num.Uint, len(cp.Balances))
	for _, b := range cp.Balances {
		amt, overflow := num.UintFromBig(b.Amount)
		if overflow {
			return fmt.Errorf("invalid balance in checkpoint for %s", b.Account.Hex())
		}
		balances[b.Account] = amt
	}
	t.owner = cp.Owner
	t.totalSupply = supply
	t.balances = balances
	return nil
}
