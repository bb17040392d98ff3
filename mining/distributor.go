package mining

import (
	"code.bbsnetwork.io/lm/types"
	"code.bbsnetwork.io/lm/types/num"
)

// RewardPrecision scales the reward accumulated per unit of weight.
var RewardPrecision = num.MustUintFromString("1000000000000000000", 10)

type accumulator struct {
	rewardPerWeight *num.Uint
	totalWeight     *num.Uint
	// accounted is the part of the pool balance already folded into
	// rewardPerWeight and not paid out yet.
	accounted *num.Uint
}

func (a accumulator) clone() accumulator {
	return accumulator{
		rewardPerWeight: a.rewardPerWeight.Clone(),
		totalWeight:     a.totalWeight.Clone(),
		accounted:       a.accounted.Clone(),
	}
}

// RewardDistributor shares the reward pool between positions in proportion
// to their weight. Deposits are picked up lazily: every lock and unlock
// first folds whatever arrived since the previous call into the
// accumulator. A deposit made while no weight is outstanding waits for the
// next locker.
//
// All methods compute the new state without applying it. The caller applies
// it with commit once every other side effect has succeeded.
type RewardDistributor struct {
	acc accumulator
}

func NewRewardDistributor() *RewardDistributor {
	return &RewardDistributor{
		acc: accumulator{
			rewardPerWeight: num.Zero(),
			totalWeight:     num.Zero(),
			accounted:       num.Zero(),
		},
	}
}

// Weight is amount * lockDurationDays.
func Weight(amount *num.Uint, lockDurationDays uint16) (*num.Uint, bool) {
	return num.Zero().MulOverflow(amount, num.NewUint(uint64(lockDurationDays)))
}

func (d *RewardDistributor) TotalWeight() *num.Uint {
	return d.acc.totalWeight.Clone()
}

func (d *RewardDistributor) RewardPerWeight() *num.Uint {
	return d.acc.rewardPerWeight.Clone()
}

func (d *RewardDistributor) Accounted() *num.Uint {
	return d.acc.accounted.Clone()
}

func (d *RewardDistributor) commit(a accumulator) {
	d.acc = a
}

// sync returns the accumulator with any new deposit folded in. Only the
// part of the deposit that the truncated increment represents is marked as
// accounted. The remainder waits for the next sync. The increment is capped
// so that the accrued reward of the whole outstanding weight still fits in
// 256 bits, and whatever does not fit also stays pending.
func (d *RewardDistributor) sync(balance *num.Uint) accumulator {
	a := d.acc.clone()
	if a.totalWeight.IsZero() || !balance.GT(a.accounted) {
		return a
	}
	delta := num.Zero().Sub(balance, a.accounted)
	inc, overflow := num.Zero().MulDiv(delta, RewardPrecision, a.totalWeight)
	if room := headroom(a); overflow || inc.GT(room) {
		inc = room
	}
	if inc.IsZero() {
		return a
	}
	// never more than delta
	folded, _ := num.Zero().MulDiv(inc, a.totalWeight, RewardPrecision)
	a.rewardPerWeight.Add(a.rewardPerWeight, inc)
	a.accounted.Add(a.accounted, folded)
	return a
}

// headroom is how far rewardPerWeight may still grow.
func headroom(a accumulator) *num.Uint {
	limit, overflow := num.Zero().MulDiv(num.MaxUint(), RewardPrecision, a.totalWeight)
	if overflow {
		limit = num.MaxUint()
	}
	if !limit.GT(a.rewardPerWeight) {
		return num.Zero()
	}
	return limit.Sub(limit, a.rewardPerWeight)
}

// accrued is what weight has earned since rewardPerWeight was zero.
func accrued(weight, rewardPerWeight *num.Uint) (*num.Uint, error) {
	v, overflow := num.Zero().MulDiv(weight, rewardPerWeight, RewardPrecision)
	if overflow {
		return nil, ErrRewardOverflow
	}
	return v, nil
}

// lock returns the reward debt of a new position of the given weight and
// the accumulator once it is added.
func (d *RewardDistributor) lock(weight, balance *num.Uint) (*num.Uint, accumulator, error) {
	a := d.sync(balance)
	debt, err := accrued(weight, a.rewardPerWeight)
	if err != nil {
		return nil, a, err
	}
	if _, overflow := a.totalWeight.AddOverflow(a.totalWeight, weight); overflow {
		return nil, a, ErrRewardOverflow
	}
	return debt, a, nil
}

// owed is the reward of p under accumulator a, before the pool cap.
func owed(p *types.Position, a accumulator) (*num.Uint, error) {
	total, err := accrued(p.Weight, a.rewardPerWeight)
	if err != nil {
		return nil, err
	}
	if total.LTE(p.RewardDebt) {
		return num.Zero(), nil
	}
	return total.Sub(total, p.RewardDebt), nil
}

// unlock returns the payout of p, never more than balance, and the
// accumulator once p is removed and paid.
func (d *RewardDistributor) unlock(p *types.Position, balance *num.Uint) (*num.Uint, accumulator, error) {
	a := d.sync(balance)
	payout, err := owed(p, a)
	if err != nil {
		return nil, a, err
	}
	payout = num.Min(payout, balance).Clone()

	if payout.GT(a.accounted) {
		a.accounted = num.Zero()
	} else {
		a.accounted.Sub(a.accounted, payout)
	}
	if p.Weight.GT(a.totalWeight) {
		a.totalWeight = num.Zero()
	} else {
		a.totalWeight.Sub(a.totalWeight, p.Weight)
	}
	return payout, a, nil
}

// Pending is the payout p would receive if it were unlocked against balance.
func (d *RewardDistributor) Pending(p *types.Position, balance *num.Uint) (*num.Uint, error) {
	payout, err := owed(p, d.sync(balance))
	if err != nil {
		return nil, err
	}
	return num.Min(payout, balance).Clone(), nil
}
