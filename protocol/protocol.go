// Package protocol deploys the simulated contracts and wires them together.
package protocol

import (
	"context"
	"fmt"

	"code.bbsnetwork.io/lm/broker"
	"code.bbsnetwork.io/lm/config"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/mining"
	"code.bbsnetwork.io/lm/protection"
	"code.bbsnetwork.io/lm/registry"
	"code.bbsnetwork.io/lm/tokens"
	"code.bbsnetwork.io/lm/types/num"
	"code.bbsnetwork.io/lm/vegatime"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Deployment nonces of the contracts, in deployment order.
const (
	tokenNonce uint64 = iota
	registryNonce
	storeNonce
	protectionNonce
	miningNonce
)

// Services holds every simulated contract.
type Services struct {
	log  *logging.Logger
	conf config.Config

	Deployer   ethcmn.Address
	Broker     *broker.Broker
	Time       *vegatime.Svc
	Registry   *registry.Registry
	Token      *tokens.Token
	Store      *protection.Store
	Protection *protection.Engine
	Mining     *mining.Engine
}

// New deploys the contracts from deployer. Contract addresses are derived
// from the deployer and a fixed nonce, so they are the same on every run.
func New(ctx context.Context, log *logging.Logger, conf config.Config, deployer ethcmn.Address) (*Services, error) {
	genesis, err := conf.Time.GenesisTime()
	if err != nil {
		return nil, fmt.Errorf("invalid genesis time: %w", err)
	}

	svcs := &Services{
		log:      log,
		conf:     conf,
		Deployer: deployer,
	}
	svcs.Broker = broker.New(log, conf.Broker)
	svcs.Time = vegatime.New(log, conf.Time, svcs.Broker)
	svcs.Token = tokens.New(log, conf.Tokens, svcs.Broker, ContractAddress(deployer, tokenNonce), deployer)
	svcs.Registry = registry.New()
	svcs.Store = protection.NewStore(ContractAddress(deployer, storeNonce))
	svcs.Protection = protection.New(log, conf.Protection, svcs.Broker, ContractAddress(deployer, protectionNonce), svcs.Store)
	svcs.Mining = mining.New(log, conf.Mining, svcs.Broker, svcs.Time, svcs.Token, svcs.Store, svcs.Registry, ContractAddress(deployer, miningNonce))

	svcs.Registry.RegisterAddress(registry.Name(registry.RewardToken), svcs.Token.Address())
	svcs.Registry.RegisterAddress(registry.Name(registry.LiquidityProtectionStore), svcs.Store.Address())
	svcs.Registry.RegisterAddress(registry.Name(registry.LiquidityProtection), svcs.Protection.Address())
	svcs.Registry.RegisterAddress(registry.Name(registry.LiquidityMining), svcs.Mining.Address())

	if err := svcs.Time.SetTimeNow(ctx, genesis); err != nil {
		return nil, err
	}

	log.Debug("contracts deployed",
		logging.Address("registry", ContractAddress(deployer, registryNonce)),
		logging.Address("token", svcs.Token.Address()),
		logging.Address("protection-store", svcs.Store.Address()),
		logging.Address("protection", svcs.Protection.Address()),
		logging.Address("mining", svcs.Mining.Address()),
	)
	return svcs, nil
}

// ContractAddress is the address of the contract deployed by deployer with
// the given nonce.
func ContractAddress(deployer ethcmn.Address, nonce uint64) ethcmn.Address {
	return crypto.CreateAddress(deployer, nonce)
}

// ReloadConf forwards a new configuration to every service.
func (s *Services) ReloadConf(cfg config.Config) {
	s.Broker.ReloadConf(cfg.Broker)
	s.Time.ReloadConf(cfg.Time)
	s.Token.ReloadConf(cfg.Tokens)
	s.Protection.ReloadConf(cfg.Protection)
	s.Mining.ReloadConf(cfg.Mining)
	s.conf = cfg
}

// Fund issues reward tokens to an account.
func (s *Services) Fund(ctx context.Context, to ethcmn.Address, amount *num.Uint) error {
	return s.Token.Issue(ctx, s.Deployer, to, amount)
}

// Deposit moves reward tokens from an account into the reward pool.
func (s *Services) Deposit(ctx context.Context, from ethcmn.Address, amount *num.Uint) error {
	return s.Token.Transfer(ctx, from, s.Mining.Address(), amount)
}

// AddProtectedLiquidity records a protected position for provider, as the
// liquidity protection contract does when liquidity is added.
func (s *Services) AddProtectedLiquidity(provider ethcmn.Address, reserveAmount *num.Uint) uint64 {
	return s.Store.AddProtectedLiquidity(
		provider, s.Token.Address(), s.Token.Address(),
		num.NewUint(1), reserveAmount, num.NewUint(1), num.NewUint(1),
		s.Time.GetTimeNow(),
	)
}

// TransferPosition hands a protected position of provider over to
// liquidity mining, which locks it for owner.
func (s *Services) TransferPosition(ctx context.Context, provider ethcmn.Address, protectedID uint64, lockDurationDays uint16, owner ethcmn.Address) (uint64, error) {
	data, err := mining.EncodeTransferData(lockDurationDays, owner)
	if err != nil {
		return 0, err
	}
	return s.Protection.TransferPositionAndNotify(ctx, provider, protectedID, s.Mining.Address(), s.Mining, data)
}
