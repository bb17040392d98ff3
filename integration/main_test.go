package integration_test

import (
	"context"
	"flag"
	"os"
	"testing"

	"code.bbsnetwork.io/lm/config"
	"code.bbsnetwork.io/lm/integration/steps"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/protocol"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	ethcmn "github.com/ethereum/go-ethereum/common"
)

var (
	gdOpts = godog.Options{
		Output: colors.Colored(os.Stdout),
		Format: "progress",
		Paths:  []string{"features"},
	}

	deployer = ethcmn.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
)

func init() {
	godog.BindCommandLineFlags("godog.", &gdOpts)
}

func TestMain(m *testing.M) {
	flag.Parse()
	if len(flag.Args()) > 0 {
		gdOpts.Paths = flag.Args()
	}

	status := godog.TestSuite{
		Name:                "liquidity-mining",
		ScenarioInitializer: InitializeScenario,
		Options:             &gdOpts,
	}.Run()

	if st := m.Run(); st > status {
		status = st
	}
	os.Exit(status)
}

func InitializeScenario(s *godog.ScenarioContext) {
	var (
		state *steps.State
		log   = logging.NewTestLogger()
		cfg   = config.NewDefaultConfig()
	)

	s.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		svcs, err := protocol.New(ctx, log, cfg, deployer)
		if err != nil {
			return ctx, err
		}
		state = steps.NewState(ctx, svcs)
		return ctx, nil
	})

	// setup
	s.Step(`^the following accounts:$`, func(table *godog.Table) error {
		return steps.TheFollowingAccounts(state, table)
	})

	// actions
	s.Step(`^the accounts lock the following positions:$`, func(table *godog.Table) error {
		return steps.AccountsLockTheFollowingPositions(state, table)
	})
	s.Step(`^the accounts transfer the following protected positions:$`, func(table *godog.Table) error {
		return steps.AccountsTransferTheFollowingPositions(state, table)
	})
	s.Step(`^"([^"]*)" reward tokens are deposited$`, func(amount string) error {
		return steps.RewardsAreDeposited(state, amount)
	})
	s.Step(`^time moves ahead "([^"]*)" days$`, func(days string) error {
		return steps.TimeMovesAheadDays(state, days)
	})
	s.Step(`^the following positions are unlocked:$`, func(table *godog.Table) error {
		return steps.TheFollowingPositionsAreUnlocked(state, table)
	})
	s.Step(`^a checkpoint is taken and restored$`, func() error {
		return steps.ACheckpointIsRestored(state, log, cfg)
	})

	// expectations
	s.Step(`^the accounts should have the following balances:$`, func(table *godog.Table) error {
		return steps.AccountsShouldHaveTheFollowingBalances(state, table)
	})
	s.Step(`^the reward pool should hold "([^"]*)"$`, func(amount string) error {
		return steps.TheRewardPoolShouldHold(state, amount)
	})
	s.Step(`^the accounts should have the following positions:$`, func(table *godog.Table) error {
		return steps.AccountsShouldHaveTheFollowingPositions(state, table)
	})
	s.Step(`^the following rewards should be paid:$`, func(table *godog.Table) error {
		return steps.TheFollowingRewardsShouldBePaid(state, table)
	})
	s.Step(`^the following events should be sent:$`, func(table *godog.Table) error {
		return steps.TheFollowingEventsShouldBeSent(state, table)
	})
}
