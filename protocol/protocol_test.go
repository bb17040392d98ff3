package protocol_test

import (
	"context"
	"testing"

	"code.bbsnetwork.io/lm/config"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/mining"
	"code.bbsnetwork.io/lm/protection"
	"code.bbsnetwork.io/lm/protocol"
	"code.bbsnetwork.io/lm/registry"
	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deployer = ethcmn.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	alice    = ethcmn.HexToAddress("0xa1")
	bob      = ethcmn.HexToAddress("0xa2")
)

func getServices(t *testing.T) *protocol.Services {
	t.Helper()
	svcs, err := protocol.New(context.Background(), logging.NewTestLogger(), config.NewDefaultConfig(), deployer)
	require.NoError(t, err)
	return svcs
}

func TestDeterministicAddresses(t *testing.T) {
	first := getServices(t)
	second := getServices(t)
	assert.Equal(t, first.Mining.Address(), second.Mining.Address())
	assert.Equal(t, protocol.ContractAddress(deployer, 4), first.Mining.Address())
	assert.NotEqual(t, first.Token.Address(), first.Mining.Address())

	for name, addr := range map[string]ethcmn.Address{
		registry.RewardToken:              first.Token.Address(),
		registry.LiquidityProtectionStore: first.Store.Address(),
		registry.LiquidityProtection:      first.Protection.Address(),
		registry.LiquidityMining:          first.Mining.Address(),
	} {
		assert.Equal(t, addr, first.Registry.MustAddressOf(name), name)
	}
}

func TestInvalidGenesis(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Time.Genesis = "not a time"
	_, err := protocol.New(context.Background(), logging.NewTestLogger(), cfg, deployer)
	assert.Error(t, err)
}

func TestTransferPositionEndToEnd(t *testing.T) {
	ctx := context.Background()
	svcs := getServices(t)

	aliceID := svcs.AddProtectedLiquidity(alice, num.NewUint(100))
	bobID := svcs.AddProtectedLiquidity(bob, num.NewUint(100))

	_, err := svcs.TransferPosition(ctx, alice, aliceID, 100, alice)
	require.NoError(t, err)
	_, err = svcs.TransferPosition(ctx, bob, bobID, 100, bob)
	require.NoError(t, err)

	// the protected positions now belong to liquidity mining
	assert.Empty(t, svcs.Store.ProtectedLiquidityIDs(alice))
	assert.Len(t, svcs.Store.ProtectedLiquidityIDs(svcs.Mining.Address()), 2)

	require.NoError(t, svcs.Fund(ctx, deployer, num.NewUint(14321)))
	require.NoError(t, svcs.Deposit(ctx, deployer, num.NewUint(14321)))
	require.NoError(t, svcs.Time.IncreaseDays(ctx, 100))

	for _, owner := range []ethcmn.Address{alice, bob} {
		ids := svcs.Mining.GetPositions(owner)
		require.Len(t, ids, 1)
		paid, err := svcs.Mining.UnlockPosition(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, "7160", paid.String())
		assert.Equal(t, "7160", svcs.Token.BalanceOf(owner).String())
	}
}

func TestTransferPositionRollback(t *testing.T) {
	ctx := context.Background()
	svcs := getServices(t)
	id := svcs.AddProtectedLiquidity(alice, num.NewUint(100))

	_, err := svcs.TransferPosition(ctx, alice, id, 99, alice)
	assert.ErrorIs(t, err, mining.ErrInvalidLockPeriod)
	assert.Equal(t, []uint64{id}, svcs.Store.ProtectedLiquidityIDs(alice))

	_, err = svcs.TransferPosition(ctx, bob, id, 100, bob)
	assert.ErrorIs(t, err, protection.ErrAccessDenied)
	assert.Equal(t, 0, svcs.Mining.ActivePositionsCount())
}

func TestSnapshotRestore(t *testing.T) {
	ctx := context.Background()
	svcs := getServices(t)

	_, err := svcs.Mining.LockPosition(ctx, num.NewUint(100), 100, alice)
	require.NoError(t, err)
	_, err = svcs.Mining.LockPosition(ctx, num.NewUint(100), 100, bob)
	require.NoError(t, err)
	require.NoError(t, svcs.Fund(ctx, deployer, num.NewUint(14321)))
	require.NoError(t, svcs.Deposit(ctx, deployer, num.NewUint(14321)))
	protectedID := svcs.AddProtectedLiquidity(alice, num.NewUint(100))

	snap, err := svcs.Snapshot()
	require.NoError(t, err)

	restored := getServices(t)
	require.NoError(t, restored.Restore(ctx, snap))
	require.NoError(t, restored.Time.IncreaseDays(ctx, 100))

	paid, err := restored.Mining.UnlockPosition(ctx, restored.Mining.GetPositions(alice)[0])
	require.NoError(t, err)
	assert.Equal(t, "7160", paid.String())
	assert.Equal(t, "7161", restored.Mining.RewardPoolBalance().String())
	assert.Equal(t, []uint64{protectedID}, restored.Store.ProtectedLiquidityIDs(alice))

	assert.Error(t, restored.Restore(ctx, []byte{0x01}))
}
