// Package scenario runs liquidity mining scenarios described in TOML files.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"code.bbsnetwork.io/lm/types/num"

	"github.com/BurntSushi/toml"
	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	ActionLock            = "lock"
	ActionTransfer        = "transfer"
	ActionDeposit         = "deposit"
	ActionAdvance         = "advance"
	ActionUnlock          = "unlock"
	ActionCheckpoint      = "checkpoint"
	ActionExpectBalance   = "expect-balance"
	ActionExpectPositions = "expect-positions"
	ActionExpectError     = "expect-error"
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrUnknownAccount  = errors.New("unknown account")
	ErrUnknownLabel    = errors.New("unknown position label")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMisplacedExpect = errors.New("expect-error must follow a step")
)

// Scenario is a set of accounts and the steps run against them.
type Scenario struct {
	Name        string    `toml:"name"`
	Description string    `toml:"description"`
	Accounts    []Account `toml:"accounts"`
	Steps       []Step    `toml:"steps"`
}

// Account is a named address. Protected lists the reserve amounts of the
// protected positions it holds before the first step.
type Account struct {
	Name      string   `toml:"name"`
	Address   string   `toml:"address"`
	Protected []string `toml:"protected"`
}

// Step is one action. Which fields are used depends on Action.
type Step struct {
	Action    string `toml:"action"`
	Account   string `toml:"account"`
	Owner     string `toml:"owner"`
	Amount    string `toml:"amount"`
	Days      uint16 `toml:"days"`
	Protected int    `toml:"protected"`
	Position  string `toml:"position"`
	As        string `toml:"as"`
	Expect    string `toml:"expect"`
	Count     int    `toml:"count"`
	Error     string `toml:"error"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(buf)
}

// Parse decodes and validates a scenario.
func Parse(buf []byte) (*Scenario, error) {
	sc := &Scenario{}
	md, err := toml.Decode(string(buf), sc)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in scenario: %v", undecoded)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks the scenario can be run, without running it.
func (s *Scenario) Validate() error {
	accounts := map[string]struct{}{}
	for _, a := range s.Accounts {
		if a.Name == "" {
			return errors.New("account without a name")
		}
		if _, ok := accounts[a.Name]; ok {
			return fmt.Errorf("duplicate account %q", a.Name)
		}
		if a.Address != "" && !ethcmn.IsHexAddress(a.Address) {
			return fmt.Errorf("account %q: invalid address %q", a.Name, a.Address)
		}
		for _, p := range a.Protected {
			if _, err := parseAmount(p); err != nil {
				return fmt.Errorf("account %q: %w", a.Name, err)
			}
		}
		accounts[a.Name] = struct{}{}
	}
	for i, st := range s.Steps {
		if err := st.validate(accounts); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
		if st.Action == ActionExpectError && i == 0 {
			return ErrMisplacedExpect
		}
	}
	return nil
}

func (st Step) validate(accounts map[string]struct{}) error {
	needAccount := func(name string) error {
		if _, ok := accounts[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAccount, name)
		}
		return nil
	}
	switch st.Action {
	case ActionLock:
		if err := needAccount(st.Account); err != nil {
			return err
		}
		_, err := parseAmount(st.Amount)
		return err
	case ActionTransfer:
		if err := needAccount(st.Account); err != nil {
			return err
		}
		if st.Owner != "" {
			return needAccount(st.Owner)
		}
		return nil
	case ActionDeposit:
		_, err := parseAmount(st.Amount)
		return err
	case ActionExpectBalance, ActionExpectPositions:
		return needAccount(st.Account)
	case ActionAdvance, ActionUnlock, ActionCheckpoint, ActionExpectError:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, st.Action)
	}
}

// address resolves an account, deriving an address from its name when none
// is given.
func (a Account) address() ethcmn.Address {
	if a.Address != "" {
		return ethcmn.HexToAddress(a.Address)
	}
	return ethcmn.BytesToAddress(crypto.Keccak256([]byte(a.Name))[12:])
}

func parseAmount(s string) (*num.Uint, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	u, bad := num.UintFromString(s, 10)
	if bad {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return u, nil
}
