package mining

import (
	"sort"
	"time"

	"code.bbsnetwork.io/lm/types"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/google/btree"
)

const maturityDegree = 32

type maturity struct {
	at int64
	id uint64
}

func maturityLess(a, b maturity) bool {
	if a.at == b.at {
		return a.id < b.id
	}
	return a.at < b.at
}

// PositionLedger holds the active positions. Besides the id lookup it keeps
// the ids of each owner in creation order and a maturity index.
type PositionLedger struct {
	nextID    uint64
	positions map[uint64]*types.Position
	owners    map[ethcmn.Address][]uint64
	maturity  *btree.BTreeG[maturity]
}

func NewPositionLedger() *PositionLedger {
	return &PositionLedger{
		positions: map[uint64]*types.Position{},
		owners:    map[ethcmn.Address][]uint64{},
		maturity:  btree.NewG(maturityDegree, maturityLess),
	}
}

// allocateID hands out the next position id. Ids are never reused.
func (l *PositionLedger) allocateID() uint64 {
	id := l.nextID
	l.nextID++
	return id
}

func (l *PositionLedger) add(p *types.Position) {
	l.positions[p.ID] = p
	l.owners[p.Owner] = append(l.owners[p.Owner], p.ID)
	l.maturity.ReplaceOrInsert(maturity{at: p.UnlockableAt().UnixNano(), id: p.ID})
}

func (l *PositionLedger) get(id uint64) (*types.Position, bool) {
	p, ok := l.positions[id]
	return p, ok
}

func (l *PositionLedger) remove(id uint64) (*types.Position, bool) {
	p, ok := l.positions[id]
	if !ok {
		return nil, false
	}
	delete(l.positions, id)
	l.maturity.Delete(maturity{at: p.UnlockableAt().UnixNano(), id: id})

	ids := l.owners[p.Owner]
	for i, v := range ids {
		if v == id {
			ids = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(l.owners, p.Owner)
	} else {
		l.owners[p.Owner] = ids
	}
	return p, true
}

// Positions returns the active ids of owner, oldest first, as a new slice.
func (l *PositionLedger) Positions(owner ethcmn.Address) []uint64 {
	ids := l.owners[owner]
	cpy := make([]uint64, len(ids))
	copy(cpy, ids)
	return cpy
}

// Unlockable returns the ids of the positions whose lock has elapsed at
// now, earliest maturity first.
func (l *PositionLedger) Unlockable(now time.Time) []uint64 {
	ids := []uint64{}
	pivot := maturity{at: now.UnixNano() + 1}
	l.maturity.AscendLessThan(pivot, func(m maturity) bool {
		ids = append(ids, m.id)
		return true
	})
	return ids
}

func (l *PositionLedger) Len() int {
	return len(l.positions)
}

// sorted returns the active positions ordered by id.
func (l *PositionLedger) sorted() []*types.Position {
	out := make([]*types.Position, 0, len(l.positions))
	for _, p := range l.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
