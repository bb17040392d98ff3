package steps

import (
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

func AccountsShouldHaveTheFollowingPositions(state *State, table *godog.Table) error {
	for _, row := range parseTable(table) {
		addr, err := state.Account(row.Str("account"))
		if err != nil {
			return err
		}
		expected, err := strconv.Atoi(row.Str("count"))
		if err != nil {
			return err
		}
		ids := state.Services.Mining.GetPositions(addr)
		if len(ids) != expected {
			return fmt.Errorf("%s has %d positions, expected %d", row.Str("account"), len(ids), expected)
		}
		if row.Has("first") && len(ids) > 0 {
			first, err := row.U64("first")
			if err != nil {
				return err
			}
			if ids[0] != first {
				return fmt.Errorf("first position of %s is %d, expected %d", row.Str("account"), ids[0], first)
			}
		}
	}
	return nil
}
