package mining

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/metrics"
	"code.bbsnetwork.io/lm/types"
	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

type positionRecord struct {
	ID               uint64
	Owner            ethcmn.Address
	Amount           *big.Int
	LockDurationDays uint16
	LockStartTime    uint64
	Weight           *big.Int
	RewardDebt       *big.Int
}

type checkpoint struct {
	NextID          uint64
	RewardPerWeight *big.Int
	TotalWeight     *big.Int
	Accounted       *big.Int
	Positions       []positionRecord
}

func (*Engine) Name() types.CheckpointName {
	return types.MiningCheckpoint
}

// Checkpoint returns the RLP encoding of the ledger and the reward
// accumulator. Positions are written in id order, so equal states give
// equal bytes.
func (e *Engine) Checkpoint() ([]byte, error) {
	acc := e.distributor.acc
	cp := checkpoint{
		NextID:          e.ledger.nextID,
		RewardPerWeight: acc.rewardPerWeight.BigInt(),
		TotalWeight:     acc.totalWeight.BigInt(),
		Accounted:       acc.accounted.BigInt(),
	}
	for _, p := range e.ledger.sorted() {
		cp.Positions = append(cp.Positions, positionRecord{
			ID:               p.ID,
			Owner:            p.Owner,
			Amount:           p.Amount.BigInt(),
			LockDurationDays: p.LockDurationDays,
			LockStartTime:    uint64(p.LockStartTime.UnixNano()),
			Weight:           p.Weight.BigInt(),
			RewardDebt:       p.RewardDebt.BigInt(),
		})
	}
	data, err := rlp.EncodeToBytes(&cp)
	if err != nil {
		return nil, err
	}
	metrics.CheckpointSizeObserve(len(data))
	return data, nil
}

// Hash is the keccak256 of the current checkpoint.
func (e *Engine) Hash() ([]byte, error) {
	data, err := e.Checkpoint()
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(data), nil
}

// Load replaces the engine state with a checkpoint. Nothing changes if the
// checkpoint is invalid.
func (e *Engine) Load(_ context.Context, data []byte) error {
	var cp checkpoint
	if err := rlp.DecodeBytes(data, &cp); err != nil {
		return fmt.Errorf("could not decode mining checkpoint: %w", err)
	}

	acc := accumulator{}
	var err error
	if acc.rewardPerWeight, err = uintFromCheckpoint("reward per weight", cp.RewardPerWeight); err != nil {
		return err
	}
	if acc.totalWeight, err = uintFromCheckpoint("total weight", cp.TotalWeight); err != nil {
		return err
	}
	if acc.accounted, err = uintFromCheckpoint("accounted", cp.Accounted); err != nil {
		return err
	}

	ledger := NewPositionLedger()
	ledger.nextID = cp.NextID
	for _, r := range cp.Positions {
		if r.ID >= cp.NextID {
			return fmt.Errorf("position %d is beyond the id counter %d", r.ID, cp.NextID)
		}
		if _, ok := ledger.get(r.ID); ok {
			return fmt.Errorf("duplicate position %d in checkpoint", r.ID)
		}
		if !types.ValidLockDuration(r.LockDurationDays) {
			return fmt.Errorf("position %d: %w", r.ID, ErrInvalidLockPeriod)
		}
		pos := &types.Position{
			ID:               r.ID,
			Owner:            r.Owner,
			LockDurationDays: r.LockDurationDays,
			LockStartTime:    time.Unix(0, int64(r.LockStartTime)).UTC(),
		}
		if pos.Amount, err = uintFromCheckpoint("amount", r.Amount); err != nil {
			return err
		}
		if pos.Weight, err = uintFromCheckpoint("weight", r.Weight); err != nil {
			return err
		}
		if pos.RewardDebt, err = uintFromCheckpoint("reward debt", r.RewardDebt); err != nil {
			return err
		}
		ledger.add(pos)
	}

	e.ledger = ledger
	e.distributor.commit(acc)
	e.log.Info("mining checkpoint loaded",
		logging.Int("positions", ledger.Len()),
		logging.Uint64("next-id", ledger.nextID),
	)
	metrics.ActivePositionsSet(ledger.Len())
	return nil
}

func uintFromCheckpoint(field string, b *big.Int) (*num.Uint, error) {
	if b == nil {
		return num.Zero(), nil
	}
	u, overflow := num.UintFromBig(b)
	if overflow {
		return nil, fmt.Errorf("invalid %s in checkpoint: %s", field, b)
	}
	return u, nil
}
