package protocol

import (
	"context"
	"fmt"

	"code.bbsnetwork.io/lm/types"

	"github.com/ethereum/go-ethereum/rlp"
)

type checkpointer interface {
	Name() types.CheckpointName
	Checkpoint() ([]byte, error)
	Load(ctx context.Context, data []byte) error
}

type namedCheckpoint struct {
	Name string
	Data []byte
}

func (s *Services) checkpointers() []checkpointer {
	return []checkpointer{s.Token, s.Store, s.Mining}
}

// Snapshot returns the checkpoints of the token ledger, the protection
// store and the mining engine in one RLP blob.
func (s *Services) Snapshot() ([]byte, error) {
	cps := []namedCheckpoint{}
	for _, c := range s.checkpointers() {
		data, err := c.Checkpoint()
		if err != nil {
			return nil, fmt.Errorf("checkpoint %s: %w", c.Name(), err)
		}
		cps = append(cps, namedCheckpoint{Name: string(c.Name()), Data: data})
	}
	return rlp.EncodeToBytes(cps)
}

// Restore loads a snapshot taken by Snapshot.
func (s *Services) Restore(ctx context.Context, data []byte) error {
	var cps []namedCheckpoint
	if err := rlp.DecodeBytes(data, &cps); err != nil {
		return fmt.Errorf("could not decode snapshot: %w", err)
	}
	byName := make(map[string][]byte, len(cps))
	for _, cp := range cps {
		byName[cp.Name] = cp.Data
	}
	for _, c := range s.checkpointers() {
		data, ok := byName[string(c.Name())]
		if !ok {
			return fmt.Errorf("snapshot has no %s checkpoint", c.Name())
		}
		if err := c.Load(ctx, data); err != nil {
			return err
		}
	}
	return nil
}
