package mining

import (
	"context"
	"fmt"
	"time"

	"code.bbsnetwork.io/lm/events"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/metrics"
	"code.bbsnetwork.io/lm/types"
	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

const (
	lockPathDirect   = "direct"
	lockPathNotifier = "notifier"
)

// Broker for sending events.
//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.bbsnetwork.io/lm/mining Broker,TimeService,Token,ProtectedLiquidityStore,Registry
type Broker interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// TimeService provides the current time.
type TimeService interface {
	GetTimeNow() time.Time
}

// Token is the ledger holding the reward pool, at the engine's address.
type Token interface {
	BalanceOf(addr ethcmn.Address) *num.Uint
	Transfer(ctx context.Context, from, to ethcmn.Address, amount *num.Uint) error
}

// ProtectedLiquidityStore gives access to the positions moved in by the
// liquidity protection contract.
type ProtectedLiquidityStore interface {
	ProtectedLiquidity(id uint64) (*types.ProtectedLiquidity, error)
}

// Registry resolves contract names to addresses.
type Registry interface {
	AddressOf(name [32]byte) (ethcmn.Address, error)
}

// Engine is the liquidity mining contract: positions are locked in the
// ledger and, once their lock has elapsed, unlocked against a share of the
// reward pool.
type Engine struct {
	log      *logging.Logger
	config   Config
	broker   Broker
	time     TimeService
	token    Token
	store    ProtectedLiquidityStore
	registry Registry

	address     ethcmn.Address
	ledger      *PositionLedger
	distributor *RewardDistributor
}

// New returns a new liquidity mining engine deployed at address.
func New(
	log *logging.Logger,
	config Config,
	broker Broker,
	ts TimeService,
	token Token,
	store ProtectedLiquidityStore,
	registry Registry,
	address ethcmn.Address,
) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &Engine{
		log:         log,
		config:      config,
		broker:      broker,
		time:        ts,
		token:       token,
		store:       store,
		registry:    registry,
		address:     address,
		ledger:      NewPositionLedger(),
		distributor: NewRewardDistributor(),
	}
}

// ReloadConf updates the internal configuration.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
	e.config = cfg
}

func (e *Engine) Address() ethcmn.Address {
	return e.address
}

// LockPosition locks amount for lockDurationDays on behalf of owner and
// returns the new position id.
func (e *Engine) LockPosition(ctx context.Context, amount *num.Uint, lockDurationDays uint16, owner ethcmn.Address) (uint64, error) {
	return e.lockPosition(ctx, amount, lockDurationDays, owner, lockPathDirect)
}

func (e *Engine) lockPosition(ctx context.Context, amount *num.Uint, lockDurationDays uint16, owner ethcmn.Address, path string) (uint64, error) {
	defer metrics.EngineTimeCounterAdd(time.Now(), namedLogger, "LockPosition")

	if !types.ValidLockDuration(lockDurationDays) {
		return 0, ErrInvalidLockPeriod
	}
	if amount == nil || amount.IsZero() {
		return 0, ErrInvalidAmount
	}
	weight, overflow := Weight(amount, lockDurationDays)
	if overflow {
		return 0, fmt.Errorf("%w: weight overflows", ErrInvalidAmount)
	}

	debt, acc, err := e.distributor.lock(weight, e.token.BalanceOf(e.address))
	if err != nil {
		return 0, err
	}
	e.distributor.commit(acc)

	pos := &types.Position{
		ID:               e.ledger.allocateID(),
		Owner:            owner,
		Amount:           amount.Clone(),
		LockDurationDays: lockDurationDays,
		LockStartTime:    e.time.GetTimeNow(),
		Weight:           weight,
		RewardDebt:       debt,
	}
	e.ledger.add(pos)

	if e.log.GetLevel() <= logging.DebugLevel {
		e.log.Debug("position locked",
			logging.PositionID(pos.ID),
			logging.Address("owner", owner),
			logging.BigUint("amount", amount),
			logging.Uint16("lock-duration-days", lockDurationDays),
			logging.String("path", path),
		)
	}
	e.broker.Send(events.NewPositionLocked(ctx, *pos))
	metrics.PositionLockedInc(path)
	metrics.ActivePositionsSet(e.ledger.Len())
	return pos.ID, nil
}

// UnlockPosition closes the position once its lock has elapsed and pays its
// share of the reward pool to the owner. The payout may be zero.
func (e *Engine) UnlockPosition(ctx context.Context, positionID uint64) (*num.Uint, error) {
	defer metrics.EngineTimeCounterAdd(time.Now(), namedLogger, "UnlockPosition")

	pos, ok := e.ledger.get(positionID)
	if !ok {
		return nil, ErrUnknownPosition
	}
	now := e.time.GetTimeNow()
	if !pos.CanUnlock(now) {
		return nil, ErrLockNotElapsed
	}

	balance := e.token.BalanceOf(e.address)
	payout, acc, err := e.distributor.unlock(pos, balance)
	if err != nil {
		return nil, err
	}
	if !payout.IsZero() {
		if err := e.token.Transfer(ctx, e.address, pos.Owner, payout); err != nil {
			e.log.Error("could not pay reward",
				logging.PositionID(positionID),
				logging.BigUint("payout", payout),
				logging.Error(err),
			)
			return nil, fmt.Errorf("could not pay reward for position %d: %w", positionID, err)
		}
	}
	e.distributor.commit(acc)
	e.ledger.remove(positionID)

	unlocked := pos.Clone()
	unlocked.Unlocked = true

	e.log.Debug("position unlocked",
		logging.PositionID(positionID),
		logging.Address("owner", pos.Owner),
		logging.BigUint("payout", payout),
		logging.BigUint("pool-balance", balance),
	)
	e.broker.SendBatch([]events.Event{
		events.NewPositionUnlocked(ctx, *unlocked),
		events.NewRewardPayout(ctx, now.UnixNano(), pos.Owner, positionID, payout, balance),
	})
	metrics.PositionUnlockedInc()
	metrics.RewardsPaidAdd(payout.ToDecimal().InexactFloat64())
	metrics.ActivePositionsSet(e.ledger.Len())
	return payout, nil
}

// GetPositions returns the active position ids of owner in creation order.
// Every call returns a new slice.
func (e *Engine) GetPositions(owner ethcmn.Address) []uint64 {
	return e.ledger.Positions(owner)
}

// GetPosition returns a copy of an active position.
func (e *Engine) GetPosition(positionID uint64) (*types.Position, error) {
	pos, ok := e.ledger.get(positionID)
	if !ok {
		return nil, ErrUnknownPosition
	}
	return pos.Clone(), nil
}

// UnlockablePositions lists the positions that can be unlocked at now,
// earliest maturity first.
func (e *Engine) UnlockablePositions(now time.Time) []uint64 {
	return e.ledger.Unlockable(now)
}

func (e *Engine) ActivePositionsCount() int {
	return e.ledger.Len()
}

// PendingReward is what UnlockPosition would pay right now, whether or not
// the lock has elapsed.
func (e *Engine) PendingReward(positionID uint64) (*num.Uint, error) {
	pos, ok := e.ledger.get(positionID)
	if !ok {
		return nil, ErrUnknownPosition
	}
	return e.distributor.Pending(pos, e.token.BalanceOf(e.address))
}

// RewardPoolBalance is the token balance held by the engine.
func (e *Engine) RewardPoolBalance() *num.Uint {
	return e.token.BalanceOf(e.address)
}
