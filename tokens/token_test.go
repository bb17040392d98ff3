package tokens_test

import (
	"context"
	"testing"

	"code.bbsnetwork.io/lm/broker"
	"code.bbsnetwork.io/lm/events"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/tokens"
	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokenAddr = ethcmn.HexToAddress("0x1000")
	owner     = ethcmn.HexToAddress("0xa1")
	alice     = ethcmn.HexToAddress("0xa2")
	bob       = ethcmn.HexToAddress("0xa3")
)

type testToken struct {
	*tokens.Token
	rec *broker.Recorder
}

func getTestToken() *testToken {
	log := logging.NewTestLogger()
	b := broker.New(log, broker.NewDefaultConfig())
	rec := broker.NewRecorder(events.TransferEvent)
	b.Subscribe(rec)
	return &testToken{
		Token: tokens.New(log, tokens.NewDefaultConfig(), b, tokenAddr, owner),
		rec:   rec,
	}
}

func TestIssue(t *testing.T) {
	ctx := context.Background()
	tok := getTestToken()

	require.NoError(t, tok.Issue(ctx, owner, alice, num.NewUint(100)))
	assert.Equal(t, "100", tok.BalanceOf(alice).String())
	assert.Equal(t, "100", tok.TotalSupply().String())

	assert.ErrorIs(t, tok.Issue(ctx, alice, alice, num.NewUint(1)), tokens.ErrNotOwner)
	assert.ErrorIs(t, tok.Issue(ctx, owner, alice, num.Zero()), tokens.ErrInvalidAmount)
	assert.Equal(t, "100", tok.TotalSupply().String())

	evts := tok.rec.Events()
	require.Len(t, evts, 1)
	transfer := evts[0].(*events.Transfer)
	assert.Equal(t, ethcmn.Address{}, transfer.From)
	assert.Equal(t, alice, transfer.To)
	assert.Equal(t, tokenAddr, transfer.Token)
}

func TestIssueOverflow(t *testing.T) {
	ctx := context.Background()
	tok := getTestToken()

	require.NoError(t, tok.Issue(ctx, owner, alice, num.MaxUint()))
	assert.ErrorIs(t, tok.Issue(ctx, owner, bob, num.NewUint(1)), tokens.ErrSupplyOverflow)
	assert.Equal(t, num.MaxUint().String(), tok.TotalSupply().String())
	assert.True(t, tok.BalanceOf(bob).IsZero())
	assert.Len(t, tok.rec.Events(), 1)

	// a full supply can still move between accounts
	require.NoError(t, tok.Transfer(ctx, alice, bob, num.NewUint(1)))
	require.NoError(t, tok.Transfer(ctx, bob, alice, num.NewUint(1)))
	assert.Equal(t, num.MaxUint().String(), tok.BalanceOf(alice).String())
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	tok := getTestToken()
	require.NoError(t, tok.Issue(ctx, owner, alice, num.NewUint(100)))

	require.NoError(t, tok.Transfer(ctx, alice, bob, num.NewUint(40)))
	assert.Equal(t, "60", tok.BalanceOf(alice).String())
	assert.Equal(t, "40", tok.BalanceOf(bob).String())

	err := tok.Transfer(ctx, bob, alice, num.NewUint(41))
	assert.ErrorIs(t, err, tokens.ErrInsufficientBalance)
	assert.Equal(t, "40", tok.BalanceOf(bob).String())

	assert.ErrorIs(t, tok.Transfer(ctx, bob, alice, num.Zero()), tokens.ErrInvalidAmount)

	require.NoError(t, tok.Transfer(ctx, bob, alice, num.NewUint(40)))
	assert.True(t, tok.BalanceOf(bob).IsZero())
	assert.Equal(t, "100", tok.TotalSupply().String())
}

func TestBalanceIsACopy(t *testing.T) {
	ctx := context.Background()
	tok := getTestToken()
	require.NoError(t, tok.Issue(ctx, owner, alice, num.NewUint(100)))

	bal := tok.BalanceOf(alice)
	bal.AddSum(num.NewUint(1))
	assert.Equal(t, "100", tok.BalanceOf(alice).String())
}

func TestCheckpoint(t *testing.T) {
	ctx := context.Background()
	tok := getTestToken()
	require.NoError(t, tok.Issue(ctx, owner, alice, num.NewUint(100)))
	require.NoError(t, tok.Issue(ctx, owner, bob, num.MustUintFromString("1000000000000000000000", 10)))

	data, err := tok.Checkpoint()
	require.NoError(t, err)

	restored := getTestToken()
	require.NoError(t, restored.Load(ctx, data))
	assert.Equal(t, tok.TotalSupply(), restored.TotalSupply())
	assert.Equal(t, "100", restored.BalanceOf(alice).String())
	assert.Equal(t, "1000000000000000000000", restored.BalanceOf(bob).String())

	again, err := restored.Checkpoint()
	require.NoError(t, err)
	assert.Equal(t, data, again)

	assert.Error(t, restored.Load(ctx, []byte{0xff, 0x01}))
}
