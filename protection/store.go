package protection

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"code.bbsnetwork.io/lm/types"
	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

var ErrUnknownProtectedLiquidity = errors.New("unknown protected liquidity")

// Store holds protected liquidity records. Ids are allocated from 0.
type Store struct {
	address   ethcmn.Address
	nextID    uint64
	records   map[uint64]*types.ProtectedLiquidity
	providers map[ethcmn.Address][]uint64
}

func NewStore(address ethcmn.Address) *Store {
	return &Store{
		address:   address,
		records:   map[uint64]*types.ProtectedLiquidity{},
		providers: map[ethcmn.Address][]uint64{},
	}
}

func (s *Store) Address() ethcmn.Address {
	return s.address
}

// AddProtectedLiquidity records a new protected position and returns its id.
func (s *Store) AddProtectedLiquidity(
	provider, poolToken, reserveToken ethcmn.Address,
	poolAmount, reserveAmount, reserveRateN, reserveRateD *num.Uint,
	timestamp time.Time,
) uint64 {
	id := s.nextID
	s.nextID++
	s.put(&types.ProtectedLiquidity{
		ID:            id,
		Provider:      provider,
		PoolToken:     poolToken,
		ReserveToken:  reserveToken,
		PoolAmount:    orZero(poolAmount),
		ReserveAmount: orZero(reserveAmount),
		ReserveRateN:  orZero(reserveRateN),
		ReserveRateD:  orZero(reserveRateD),
		Timestamp:     timestamp,
	})
	return id
}

// ProtectedLiquidity returns a copy of the record with the given id.
func (s *Store) ProtectedLiquidity(id uint64) (*types.ProtectedLiquidity, error) {
	pl, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProtectedLiquidity, id)
	}
	return pl.Clone(), nil
}

func (s *Store) RemoveProtectedLiquidity(id uint64) error {
	pl, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProtectedLiquidity, id)
	}
	delete(s.records, id)
	ids := s.providers[pl.Provider]
	for i, v := range ids {
		if v == id {
			ids = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(s.providers, pl.Provider)
	} else {
		s.providers[pl.Provider] = ids
	}
	return nil
}

// ProtectedLiquidityIDs lists the ids held by provider, oldest first.
func (s *Store) ProtectedLiquidityIDs(provider ethcmn.Address) []uint64 {
	ids := s.providers[provider]
	cpy := make([]uint64, len(ids))
	copy(cpy, ids)
	return cpy
}

func (s *Store) put(pl *types.ProtectedLiquidity) {
	s.records[pl.ID] = pl
	s.providers[pl.Provider] = append(s.providers[pl.Provider], pl.ID)
}

// revertTransfer undoes a remove of old followed by the add of newID.
func (s *Store) revertTransfer(old *types.ProtectedLiquidity, newID uint64) {
	_ = s.RemoveProtectedLiquidity(newID)
	if newID+1 == s.nextID {
		s.nextID = newID
	}
	s.records[old.ID] = old
	ids := s.providers[old.Provider]
	i := sort.Search(len(ids), func(i int) bool { return ids[i] > old.ID })
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = old.ID
	s.providers[old.Provider] = ids
}

func orZero(u *num.Uint) *num.Uint {
	if u == nil {
		return num.Zero()
	}
	return u.Clone()
}
