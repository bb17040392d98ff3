package steps

import (
	"context"
	"fmt"
	"strconv"

	"code.bbsnetwork.io/lm/broker"
	"code.bbsnetwork.io/lm/events"
	"code.bbsnetwork.io/lm/protocol"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// State is what the steps of one scenario share.
type State struct {
	Ctx      context.Context
	Services *protocol.Services
	Recorder *broker.Recorder

	accounts  map[string]ethcmn.Address
	protected map[string][]uint64
	labels    map[string]uint64
}

func NewState(ctx context.Context, svcs *protocol.Services) *State {
	s := &State{
		Ctx:       ctx,
		Recorder:  broker.NewRecorder(events.All),
		accounts:  map[string]ethcmn.Address{},
		protected: map[string][]uint64{},
		labels:    map[string]uint64{},
	}
	s.Use(svcs)
	return s
}

// Use switches to svcs, keeping the recorded events.
func (s *State) Use(svcs *protocol.Services) {
	s.Services = svcs
	svcs.Broker.Subscribe(s.Recorder)
}

func (s *State) Account(name string) (ethcmn.Address, error) {
	addr, ok := s.accounts[name]
	if !ok {
		return ethcmn.Address{}, fmt.Errorf("unknown account %q", name)
	}
	return addr, nil
}

func (s *State) addAccount(name string) ethcmn.Address {
	addr := ethcmn.BytesToAddress(crypto.Keccak256([]byte(name))[12:])
	s.accounts[name] = addr
	return addr
}

func (s *State) label(name string, id uint64) {
	if name != "" {
		s.labels[name] = id
	}
}

// Position resolves a position label, or a literal id.
func (s *State) Position(label string) (uint64, error) {
	if id, ok := s.labels[label]; ok {
		return id, nil
	}
	id, err := strconv.ParseUint(label, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unknown position %q", label)
	}
	return id, nil
}
