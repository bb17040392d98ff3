package protection

import (
	"context"
	"errors"
	"fmt"

	"code.bbsnetwork.io/lm/events"
	"code.bbsnetwork.io/lm/logging"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

var ErrAccessDenied = errors.New("access denied")

// Broker sends events.
type Broker interface {
	Send(e events.Event)
}

// TransferPositionCallback is notified once a position has been moved to
// its new provider.
//go:generate go run github.com/golang/mock/mockgen -destination mocks/transfer_position_callback_mock.go -package mocks code.bbsnetwork.io/lm/protection TransferPositionCallback
type TransferPositionCallback interface {
	OnTransferPosition(ctx context.Context, sender ethcmn.Address, newPositionID uint64, provider ethcmn.Address, data []byte) error
}

// Engine moves protected positions between providers.
type Engine struct {
	log    *logging.Logger
	config Config
	broker Broker

	address ethcmn.Address
	store   *Store
}

func New(log *logging.Logger, conf Config, broker Broker, address ethcmn.Address, store *Store) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())

	return &Engine{
		log:     log,
		config:  conf,
		broker:  broker,
		address: address,
		store:   store,
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

// TransferPositionAndNotify moves position id from sender to newProvider
// under a new id, then calls the callback. If the callback fails the move
// is undone and its error returned.
func (e *Engine) TransferPositionAndNotify(
	ctx context.Context,
	sender ethcmn.Address,
	id uint64,
	newProvider ethcmn.Address,
	callback TransferPositionCallback,
	data []byte,
) (uint64, error) {
	old, err := e.store.ProtectedLiquidity(id)
	if err != nil {
		return 0, err
	}
	if old.Provider != sender {
		e.log.Debug("transfer refused, sender is not the provider",
			logging.Uint64("id", id),
			logging.Address("sender", sender),
			logging.Address("provider", old.Provider),
		)
		return 0, ErrAccessDenied
	}

	if err := e.store.RemoveProtectedLiquidity(id); err != nil {
		return 0, err
	}
	newID := e.store.AddProtectedLiquidity(
		newProvider, old.PoolToken, old.ReserveToken,
		old.PoolAmount, old.ReserveAmount, old.ReserveRateN, old.ReserveRateD,
		old.Timestamp,
	)

	if err := callback.OnTransferPosition(ctx, e.address, newID, sender, data); err != nil {
		e.log.Debug("transfer callback failed, rolling back",
			logging.Uint64("id", id),
			logging.Uint64("new-id", newID),
			logging.Error(err),
		)
		e.store.revertTransfer(old, newID)
		return 0, fmt.Errorf("transfer position %d: %w", id, err)
	}

	e.broker.Send(events.NewProtectedLiquidityTransferred(ctx, id, newID, sender, newProvider))
	return newID, nil
}
