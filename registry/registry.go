// Package registry maps contract names to the addresses they were deployed at.
package registry

import (
	"bytes"
	"errors"
	"fmt"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

var ErrUnknownContract = errors.New("contract is not registered")

const (
	LiquidityProtectionStore = "LiquidityProtectionStore"
	LiquidityProtection      = "LiquidityProtection"
	LiquidityMining          = "LiquidityMining"
	RewardToken              = "BBSToken"
)

// Name returns the ASCII bytes of name, right padded with zeros to 32 bytes.
// Longer names are truncated.
func Name(name string) [32]byte {
	var n [32]byte
	copy(n[:], name)
	return n
}

// NameString is the inverse of Name.
func NameString(n [32]byte) string {
	return string(bytes.TrimRight(n[:], "\x00"))
}

type Registry struct {
	addresses map[[32]byte]ethcmn.Address
}

func New() *Registry {
	return &Registry{
		addresses: map[[32]byte]ethcmn.Address{},
	}
}

// RegisterAddress registers addr under name, replacing any previous entry.
func (r *Registry) RegisterAddress(name [32]byte, addr ethcmn.Address) {
	r.addresses[name] = addr
}

func (r *Registry) AddressOf(name [32]byte) (ethcmn.Address, error) {
	addr, ok := r.addresses[name]
	if !ok {
		return ethcmn.Address{}, fmt.Errorf("%w: %s", ErrUnknownContract, NameString(name))
	}
	return addr, nil
}

// MustAddressOf is AddressOf for names registered at wiring time.
func (r *Registry) MustAddressOf(name string) ethcmn.Address {
	addr, err := r.AddressOf(Name(name))
	if err != nil {
		panic(err)
	}
	return addr
}
