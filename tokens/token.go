package tokens

import (
	"context"
	"errors"
	"fmt"

	"code.bbsnetwork.io/lm/events"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/types/num"

	ethcmn "github.com/ethereum/go-ethereum/common"
)

var (
	ErrNotOwner            = errors.New("caller is not the token owner")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrSupplyOverflow      = errors.New("total supply overflow")
)

// Broker sends events.
type Broker interface {
	Send(e events.Event)
}

// Token is an in-memory ERC20-like ledger. Only the owner may issue.
type Token struct {
	log    *logging.Logger
	config Config
	broker Broker

	address     ethcmn.Address
	owner       ethcmn.Address
	totalSupply *num.Uint
	balances    map[ethcmn.Address]*num.Uint
}

func New(log *logging.Logger, conf Config, broker Broker, address, owner ethcmn.Address) *Token {
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())

	return &Token{
		log:         log,
		config:      conf,
		broker:      broker,
		address:     address,
		owner:       owner,
		totalSupply: num.Zero(),
		balances:    map[ethcmn.Address]*num.Uint{},
	}
}

// ReloadConf updates the internal configuration.
func (t *Token) ReloadConf(cfg Config) {
	t.log.Info("reloading configuration")
	if t.log.GetLevel() != cfg.Level.Get() {
		t.log.Info("updating log level",
			logging.String("old", t.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		t.log.SetLevel(cfg.Level.Get())
	}
	t.config = cfg
}

func (t *Token) Address() ethcmn.Address {
	return t.address
}

func (t *Token) Owner() ethcmn.Address {
	return t.owner
}

func (t *Token) Symbol() string {
	return t.config.Symbol
}

// Issue mints amount to the account to. Only the owner may call it.
func (t *Token) Issue(ctx context.Context, caller, to ethcmn.Address, amount *num.Uint) error {
	if caller != t.owner {
		return ErrNotOwner
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	supply, overflow := num.Zero().AddOverflow(t.totalSupply, amount)
	if overflow {
		return ErrSupplyOverflow
	}
	t.totalSupply = supply
	t.credit(to, amount)

	t.log.Debug("tokens issued",
		logging.Address("to", to),
		logging.BigUint("amount", amount),
	)
	t.broker.Send(events.NewTransfer(ctx, t.address, ethcmn.Address{}, to, amount))
	return nil
}

// Transfer moves amount from one account to another. A zero amount is
// rejected, a failed transfer changes nothing.
func (t *Token) Transfer(ctx context.Context, from, to ethcmn.Address, amount *num.Uint) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	bal := t.BalanceOf(from)
	if bal.LT(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from.Hex(), bal, amount)
	}
	t.debit(from, amount)
	t.credit(to, amount)

	t.log.Debug("tokens transferred",
		logging.Address("from", from),
		logging.Address("to", to),
		logging.BigUint("amount", amount),
	)
	t.broker.Send(events.NewTransfer(ctx, t.address, from, to, amount))
	return nil
}

// BalanceOf returns a copy of the balance of addr.
func (t *Token) BalanceOf(addr ethcmn.Address) *num.Uint {
	if b, ok := t.balances[addr]; ok {
		return b.Clone()
	}
	return num.Zero()
}

func (t *Token) TotalSupply() *num.Uint {
	return t.totalSupply.Clone()
}

// credit cannot overflow: no balance exceeds the total supply, and Issue
// rejects any amount that would overflow it.
func (t *Token) credit(addr ethcmn.Address, amount *num.Uint) {
	b, ok := t.balances[addr]
	if !ok {
		t.balances[addr] = amount.Clone()
		return
	}
	b.Add(b, amount)
}

func (t *Token) debit(addr ethcmn.Address, amount *num.Uint) {
	b := t.balances[addr]
	b.Sub(b, amount)
	if b.IsZero() {
		delete(t.balances, addr)
	}
}
