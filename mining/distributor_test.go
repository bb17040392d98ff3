package mining

import (
	"strings"
	"testing"
	"time"

	"code.bbsnetwork.io/lm/types"
	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockWeight(t *testing.T, d *RewardDistributor, weight, balance uint64) *types.Position {
	t.Helper()
	w := num.NewUint(weight)
	debt, acc, err := d.lock(w, num.NewUint(balance))
	require.NoError(t, err)
	d.commit(acc)
	return &types.Position{Weight: w, RewardDebt: debt}
}

func TestWeight(t *testing.T) {
	w, overflow := Weight(num.NewUint(100), 998)
	assert.False(t, overflow)
	assert.Equal(t, "99800", w.String())

	maxUint := num.MustUintFromString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	_, overflow = Weight(maxUint, 100)
	assert.True(t, overflow)
}

func TestDistributorLeavesStateUntilCommit(t *testing.T) {
	d := NewRewardDistributor()
	pos := lockWeight(t, d, 10000, 0)

	payout, acc, err := d.unlock(pos, num.NewUint(50))
	require.NoError(t, err)
	assert.Equal(t, "50", payout.String())
	assert.True(t, acc.totalWeight.IsZero())

	// nothing applied yet
	assert.Equal(t, "10000", d.TotalWeight().String())
	assert.True(t, d.Accounted().IsZero())
	assert.True(t, d.RewardPerWeight().IsZero())

	d.commit(acc)
	assert.True(t, d.TotalWeight().IsZero())
	assert.True(t, d.Accounted().IsZero())
}

func TestDistributorCarriesSyncRemainder(t *testing.T) {
	d := NewRewardDistributor()
	pos := lockWeight(t, d, 99800, 0)

	payout, acc, err := d.unlock(pos, num.NewUint(1000))
	require.NoError(t, err)
	d.commit(acc)
	assert.Equal(t, "999", payout.String())
	// the unit the truncated increment could not represent is still pending
	assert.True(t, d.Accounted().IsZero())

	next := lockWeight(t, d, 10000, 1)
	pending, err := d.Pending(next, num.NewUint(1))
	require.NoError(t, err)
	assert.Equal(t, "1", pending.String())
}

func TestDistributorKeepsPayoutDust(t *testing.T) {
	d := NewRewardDistributor()
	first := lockWeight(t, d, 10000, 0)
	second := lockWeight(t, d, 10000, 0)

	paid, acc, err := d.unlock(first, num.NewUint(14321))
	require.NoError(t, err)
	d.commit(acc)
	assert.Equal(t, "7160", paid.String())
	paid, acc, err = d.unlock(second, num.NewUint(14321-7160))
	require.NoError(t, err)
	d.commit(acc)
	assert.Equal(t, "7160", paid.String())

	// the increment covered the whole deposit, so the last unit stays
	// accounted and is not shared again
	assert.Equal(t, "1", d.Accounted().String())
	next := lockWeight(t, d, 10000, 1)
	pending, err := d.Pending(next, num.NewUint(1))
	require.NoError(t, err)
	assert.True(t, pending.IsZero())
}

func TestDistributorSmallDepositOnLargeWeight(t *testing.T) {
	d := NewRewardDistributor()
	// one whole 18 decimal token locked for 100 days
	weight := num.MustUintFromString("100000000000000000000", 10)
	debt, acc, err := d.lock(weight, num.Zero())
	require.NoError(t, err)
	d.commit(acc)
	pos := &types.Position{Weight: weight, RewardDebt: debt}

	// 50 units are less than one increment of the accumulator
	acc = d.sync(num.NewUint(50))
	assert.True(t, acc.accounted.IsZero())
	assert.True(t, acc.rewardPerWeight.IsZero())

	paid, acc, err := d.unlock(pos, num.NewUint(50))
	require.NoError(t, err)
	d.commit(acc)
	assert.True(t, paid.IsZero())

	// the deposit was never absorbed, the next sole claimant takes it
	next := lockWeight(t, d, 10000, 50)
	paid, acc, err = d.unlock(next, num.NewUint(50))
	require.NoError(t, err)
	d.commit(acc)
	assert.Equal(t, "50", paid.String())
	assert.True(t, d.Accounted().IsZero())
}

func TestDistributorHugeDeposit(t *testing.T) {
	d := NewRewardDistributor()
	pos := lockWeight(t, d, 10000, 0)
	huge := num.MustUintFromString("1"+strings.Repeat("0", 66), 10)

	acc := d.sync(huge)
	// only what fits is folded in
	assert.True(t, acc.accounted.LT(huge))
	assert.False(t, acc.accounted.IsZero())

	paid, err := d.Pending(pos, huge)
	require.NoError(t, err)
	assert.False(t, paid.IsZero())

	// a later locker is still accepted
	_, acc, err = d.lock(num.NewUint(10000), huge)
	require.NoError(t, err)
	d.commit(acc)

	paid, acc, err = d.unlock(pos, huge)
	require.NoError(t, err)
	d.commit(acc)
	assert.False(t, paid.IsZero())
	assert.True(t, paid.LTE(huge))
}

func TestDistributorPayoutCappedByBalance(t *testing.T) {
	d := NewRewardDistributor()
	pos := lockWeight(t, d, 10000, 0)
	d.commit(d.sync(num.NewUint(100)))

	// the pool shrank below what was accrued
	payout, _, err := d.unlock(pos, num.NewUint(40))
	require.NoError(t, err)
	assert.Equal(t, "40", payout.String())
}

func TestLedgerMaturityIndex(t *testing.T) {
	l := NewPositionLedger()
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	owner := ethcmn.HexToAddress("0x01")
	for _, days := range []uint16{300, 100, 100, 200} {
		l.add(&types.Position{
			ID:               l.allocateID(),
			Owner:            owner,
			LockDurationDays: days,
			LockStartTime:    start,
		})
	}

	assert.Empty(t, l.Unlockable(start.Add(100*types.Day-time.Nanosecond)))
	assert.Equal(t, []uint64{1, 2}, l.Unlockable(start.Add(100*types.Day)))
	assert.Equal(t, []uint64{1, 2, 3, 0}, l.Unlockable(start.Add(300*types.Day)))

	_, ok := l.remove(2)
	assert.True(t, ok)
	_, ok = l.remove(2)
	assert.False(t, ok)
	assert.Equal(t, []uint64{1, 3, 0}, l.Unlockable(start.Add(300*types.Day)))
	assert.Equal(t, []uint64{0, 1, 3}, l.Positions(owner))

	sorted := l.sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, uint64(0), sorted[0].ID)
	assert.Equal(t, uint64(3), sorted[2].ID)
}
