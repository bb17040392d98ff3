package protection

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	"code.bbsnetwork.io/lm/types"
	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

type record struct {
	ID            uint64
	Provider      ethcmn.Address
	PoolToken     ethcmn.Address
	ReserveToken  ethcmn.Address
	PoolAmount    *big.Int
	ReserveAmount *big.Int
	ReserveRateN  *big.Int
	ReserveRateD  *big.Int
	Timestamp     uint64
}

type checkpoint struct {
	NextID  uint64
	Records []record
}

func (*Store) Name() types.CheckpointName {
	return types.ProtectionCheckpoint
}

// Checkpoint returns the RLP encoded records, sorted by id.
func (s *Store) Checkpoint() ([]byte, error) {
	cp := checkpoint{
		NextID:  s.nextID,
		Records: make([]record, 0, len(s.records)),
	}
	for _, pl := range s.records {
		cp.Records = append(cp.Records, record{
			ID:            pl.ID,
			Provider:      pl.Provider,
			PoolToken:     pl.PoolToken,
			ReserveToken:  pl.ReserveToken,
			PoolAmount:    pl.PoolAmount.BigInt(),
			ReserveAmount: pl.ReserveAmount.BigInt(),
			ReserveRateN:  pl.ReserveRateN.BigInt(),
			ReserveRateD:  pl.ReserveRateD.BigInt(),
			Timestamp:     uint64(pl.Timestamp.UnixNano()),
		})
	}
	sort.Slice(cp.Records, func(i, j int) bool { return cp.Records[i].ID < cp.Records[j].ID })
	return rlp.EncodeToBytes(&cp)
}

// Load replaces the store content with a checkpoint. Provider indexes are
// rebuilt in id order.
func (s *Store) Load(_ context.Context, data []byte) error {
	var cp checkpoint
	if err := rlp.DecodeBytes(data, &cp); err != nil {
		return fmt.Errorf("could not decode protection checkpoint: %w", err)
	}
	fresh := NewStore(s.address)
	fresh.nextID = cp.NextID
	for _, r := range cp.Records {
		if r.ID >= cp.NextID {
			return fmt.Errorf("protected liquidity %d beyond next id %d", r.ID, cp.NextID)
		}
		amounts := make([]*num.Uint, 0, 4)
		for _, b := range []*big.Int{r.PoolAmount, r.ReserveAmount, r.ReserveRateN, r.ReserveRateD} {
			u, overflow := num.UintFromBig(b)
			if overflow {
				return fmt.Errorf("invalid amount in protected liquidity %d", r.ID)
			}
			amounts = append(amounts, u)
		}
		fresh.put(&types.ProtectedLiquidity{
			ID:            r.ID,
			Provider:      r.Provider,
			PoolToken:     r.PoolToken,
			ReserveToken:  r.ReserveToken,
			PoolAmount:    amounts[0],
			ReserveAmount: amounts[1],
			ReserveRateN:  amounts[2],
			ReserveRateD:  amounts[3],
			Timestamp:     time.Unix(0, int64(r.Timestamp)).UTC(),
		})
	}
	s.nextID = fresh.nextID
	s.records = fresh.records
	s.providers = fresh.providers
	return nil
}
