package steps

import (
	"fmt"

	"github.com/cucumber/godog"
)

// AccountsLockTheFollowingPositions locks positions directly on the mining
// contract.
func AccountsLockTheFollowingPositions(state *State, table *godog.Table) error {
	for _, row := range parseTable(table) {
		owner, err := state.Account(row.Str("owner"))
		if err != nil {
			return err
		}
		amount, err := row.Uint("amount")
		if err != nil {
			return err
		}
		days, err := row.U16("days")
		if err != nil {
			return err
		}
		id, err := state.Services.Mining.LockPosition(state.Ctx, amount, days, owner)
		if err := checkExpectedError(row, err); err != nil {
			return fmt.Errorf("lock for %s: %w", row.Str("owner"), err)
		}
		if err == nil {
			state.label(row.Str("label"), id)
		}
	}
	return nil
}
