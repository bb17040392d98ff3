package steps

import (
	"fmt"

	"github.com/cucumber/godog"
)

func AccountsShouldHaveTheFollowingBalances(state *State, table *godog.Table) error {
	for _, row := range parseTable(table) {
		addr, err := state.Account(row.Str("account"))
		if err != nil {
			return err
		}
		expected, err := row.Uint("balance")
		if err != nil {
			return err
		}
		if got := state.Services.Token.BalanceOf(addr); !expected.EQ(got) {
			return fmt.Errorf("%s holds %s, expected %s", row.Str("account"), got, expected)
		}
	}
	return nil
}

func TheRewardPoolShouldHold(state *State, rawAmount string) error {
	expected, err := parseUint(rawAmount)
	if err != nil {
		return err
	}
	if got := state.Services.Mining.RewardPoolBalance(); !expected.EQ(got) {
		return fmt.Errorf("reward pool holds %s, expected %s", got, expected)
	}
	return nil
}
