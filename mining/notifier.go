package mining

import (
	"context"
	"fmt"

	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/registry"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcmn "github.com/ethereum/go-ethereum/common"
)

// transferDataArgs is the layout of the data passed along a position
// transfer: (uint16 lockDurationDays, address owner).
var transferDataArgs abi.Arguments

func init() {
	typUint16, err := abi.NewType("uint16", "", nil)
	if err != nil {
		panic(fmt.Sprintf("couldn't create uint16 type: %v", err))
	}
	typAddr, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(fmt.Sprintf("couldn't create address type: %v", err))
	}
	transferDataArgs = abi.Arguments{
		{Name: "lockDurationDays", Type: typUint16},
		{Name: "owner", Type: typAddr},
	}
}

// EncodeTransferData builds the payload expected by OnTransferPosition.
func EncodeTransferData(lockDurationDays uint16, owner ethcmn.Address) ([]byte, error) {
	return transferDataArgs.Pack(lockDurationDays, owner)
}

// DecodeTransferData is the inverse of EncodeTransferData.
func DecodeTransferData(data []byte) (uint16, ethcmn.Address, error) {
	values, err := transferDataArgs.Unpack(data)
	if err != nil {
		return 0, ethcmn.Address{}, fmt.Errorf("%w: %v", ErrInvalidNotifierData, err)
	}
	if len(values) != len(transferDataArgs) {
		return 0, ethcmn.Address{}, ErrInvalidNotifierData
	}
	days, ok := values[0].(uint16)
	if !ok {
		return 0, ethcmn.Address{}, ErrInvalidNotifierData
	}
	owner, ok := values[1].(ethcmn.Address)
	if !ok {
		return 0, ethcmn.Address{}, ErrInvalidNotifierData
	}
	return days, owner, nil
}

// OnTransferPosition is called by the liquidity protection contract once a
// protected position has been handed over to liquidity mining. The reserve
// amount of that position is locked for the owner and duration carried in
// data.
func (e *Engine) OnTransferPosition(ctx context.Context, sender ethcmn.Address, newPositionID uint64, provider ethcmn.Address, data []byte) error {
	notifier, err := e.registry.AddressOf(registry.Name(registry.LiquidityProtection))
	if err != nil || notifier != sender {
		e.log.Warn("rejected position transfer notification",
			logging.Address("sender", sender),
			logging.Uint64("protected-position-id", newPositionID),
		)
		return ErrUnauthorisedNotifier
	}

	days, owner, err := DecodeTransferData(data)
	if err != nil {
		return err
	}

	pl, err := e.store.ProtectedLiquidity(newPositionID)
	if err != nil {
		return fmt.Errorf("could not read protected position %d: %w", newPositionID, err)
	}
	if pl.Provider != e.address {
		return ErrNotPositionProvider
	}

	e.log.Debug("position transferred to liquidity mining",
		logging.Uint64("protected-position-id", newPositionID),
		logging.Address("provider", provider),
		logging.Address("owner", owner),
	)
	_, err = e.lockPosition(ctx, pl.ReserveAmount, days, owner, lockPathNotifier)
	return err
}
