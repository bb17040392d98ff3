package mining_test

import (
	"context"
	"errors"
	"testing"

	"code.bbsnetwork.io/lm/mining"
	"code.bbsnetwork.io/lm/registry"
	"code.bbsnetwork.io/lm/types"
	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedLiquidity(id uint64, provider ethcmn.Address) *types.ProtectedLiquidity {
	return &types.ProtectedLiquidity{
		ID:            id,
		Provider:      provider,
		PoolAmount:    num.NewUint(1),
		ReserveAmount: num.NewUint(stakeAmount),
		ReserveRateN:  num.NewUint(1),
		ReserveRateD:  num.NewUint(1),
	}
}

func (te *testEngine) expectNotifier() {
	te.registry.EXPECT().AddressOf(registry.Name(registry.LiquidityProtection)).Return(notifierAddr, nil).AnyTimes()
}

func (te *testEngine) transfer(t *testing.T, protectedID uint64, days uint16, owner ethcmn.Address) error {
	t.Helper()
	data, err := mining.EncodeTransferData(days, owner)
	require.NoError(t, err)
	return te.OnTransferPosition(context.Background(), notifierAddr, protectedID, owner, data)
}

func TestTransferData(t *testing.T) {
	data, err := mining.EncodeTransferData(998, alice)
	require.NoError(t, err)
	// two 32 bytes words
	assert.Len(t, data, 64)
	assert.Equal(t, byte(0x03), data[30])
	assert.Equal(t, byte(0xe6), data[31])

	days, owner, err := mining.DecodeTransferData(data)
	require.NoError(t, err)
	assert.Equal(t, uint16(998), days)
	assert.Equal(t, alice, owner)

	for _, bad := range [][]byte{nil, {0x01}, data[:40]} {
		_, _, err := mining.DecodeTransferData(bad)
		assert.ErrorIs(t, err, mining.ErrInvalidNotifierData)
	}
}

func TestOnTransferPosition(t *testing.T) {
	t.Run("reserve amount is locked for the owner in the payload", testTransferLocksReserve)
	t.Run("only the registered notifier may call", testTransferUnauthorised)
	t.Run("position must have been handed to liquidity mining", testTransferNotProvider)
	t.Run("lock period is validated", testTransferIllegalPeriod)
	t.Run("store errors are returned", testTransferStoreError)
	t.Run("notifier path pays like the direct path", testTransferRewards)
}

func testTransferLocksReserve(t *testing.T) {
	te := getEngine(t)
	te.expectNotifier()
	te.store.EXPECT().ProtectedLiquidity(uint64(7)).Return(protectedLiquidity(7, miningAddr), nil).Times(1)

	require.NoError(t, te.transfer(t, 7, 100, alice))
	ids := te.GetPositions(alice)
	require.Len(t, ids, 1)
	pos, err := te.GetPosition(ids[0])
	require.NoError(t, err)
	assert.Equal(t, "100", pos.Amount.String())
	assert.Equal(t, uint16(100), pos.LockDurationDays)
}

func testTransferUnauthorised(t *testing.T) {
	te := getEngine(t)
	te.expectNotifier()
	data, err := mining.EncodeTransferData(100, alice)
	require.NoError(t, err)

	err = te.OnTransferPosition(context.Background(), alice, 0, alice, data)
	assert.ErrorIs(t, err, mining.ErrUnauthorisedNotifier)

	unregistered := getEngine(t)
	unregistered.registry.EXPECT().AddressOf(gomock.Any()).Return(ethcmn.Address{}, registry.ErrUnknownContract).Times(1)
	err = unregistered.OnTransferPosition(context.Background(), notifierAddr, 0, alice, data)
	assert.ErrorIs(t, err, mining.ErrUnauthorisedNotifier)

	assert.Equal(t, 0, te.ActivePositionsCount())
}

func testTransferNotProvider(t *testing.T) {
	te := getEngine(t)
	te.expectNotifier()
	te.store.EXPECT().ProtectedLiquidity(uint64(0)).Return(protectedLiquidity(0, alice), nil).Times(1)

	assert.ErrorIs(t, te.transfer(t, 0, 100, alice), mining.ErrNotPositionProvider)
	assert.Equal(t, 0, te.ActivePositionsCount())
}

func testTransferIllegalPeriod(t *testing.T) {
	te := getEngine(t)
	te.expectNotifier()
	te.store.EXPECT().ProtectedLiquidity(gomock.Any()).Return(protectedLiquidity(0, miningAddr), nil).AnyTimes()

	assert.ErrorIs(t, te.transfer(t, 0, 99, alice), mining.ErrInvalidLockPeriod)
	assert.ErrorIs(t, te.transfer(t, 0, 1101, alice), mining.ErrInvalidLockPeriod)
	assert.Equal(t, 0, te.ActivePositionsCount())
}

func testTransferStoreError(t *testing.T) {
	te := getEngine(t)
	te.expectNotifier()
	errStore := errors.New("unknown protected liquidity")
	te.store.EXPECT().ProtectedLiquidity(uint64(3)).Return(nil, errStore).Times(1)

	assert.ErrorIs(t, te.transfer(t, 3, 100, alice), errStore)
}

func testTransferRewards(t *testing.T) {
	te := getEngine(t)
	te.expectNotifier()
	te.store.EXPECT().ProtectedLiquidity(gomock.Any()).DoAndReturn(func(id uint64) (*types.ProtectedLiquidity, error) {
		return protectedLiquidity(id, miningAddr), nil
	}).AnyTimes()

	require.NoError(t, te.transfer(t, 0, 200, alice))
	require.NoError(t, te.transfer(t, 1, 195, bob))
	te.deposit(t, 5000)
	te.advanceDays(200)

	assert.Equal(t, "2531", te.unlock(t, te.GetPositions(alice)[0]).String())
	assert.Equal(t, "2468", te.unlock(t, te.GetPositions(bob)[0]).String())
}
