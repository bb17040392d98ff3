package registry_test

import (
	"testing"

	"code.bbsnetwork.io/lm/registry"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	n := registry.Name("LiquidityMining")
	assert.Equal(t,
		"4c69717569646974794d696e696e670000000000000000000000000000000000",
		ethcmn.Bytes2Hex(n[:]),
	)
	assert.Equal(t, "LiquidityMining", registry.NameString(n))
}

func TestRegisterAddress(t *testing.T) {
	r := registry.New()
	addr := ethcmn.HexToAddress("0xabc")

	_, err := r.AddressOf(registry.Name(registry.LiquidityProtection))
	assert.ErrorIs(t, err, registry.ErrUnknownContract)
	assert.Panics(t, func() { r.MustAddressOf(registry.LiquidityProtection) })

	r.RegisterAddress(registry.Name(registry.LiquidityProtection), addr)
	got, err := r.AddressOf(registry.Name(registry.LiquidityProtection))
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	other := ethcmn.HexToAddress("0xdef")
	r.RegisterAddress(registry.Name(registry.LiquidityProtection), other)
	assert.Equal(t, other, r.MustAddressOf(registry.LiquidityProtection))
}
