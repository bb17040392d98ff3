package steps

import (
	"fmt"

	"github.com/cucumber/godog"
)

// TheFollowingPositionsAreUnlocked unlocks positions in table order. The
// payout column is optional.
func TheFollowingPositionsAreUnlocked(state *State, table *godog.Table) error {
	for _, row := range parseTable(table) {
		id, err := state.Position(row.Str("position"))
		if err != nil {
			return err
		}
		paid, err := state.Services.Mining.UnlockPosition(state.Ctx, id)
		if err := checkExpectedError(row, err); err != nil {
			return fmt.Errorf("unlock %s: %w", row.Str("position"), err)
		}
		if err != nil || row.Str("payout") == "" {
			continue
		}
		expected, err := row.Uint("payout")
		if err != nil {
			return err
		}
		if !expected.EQ(paid) {
			return fmt.Errorf("position %s paid %s, expected %s", row.Str("position"), paid, expected)
		}
	}
	return nil
}
