package steps

import (
	"fmt"

	"github.com/cucumber/godog"
)

// AccountsTransferTheFollowingPositions moves protected positions to
// liquidity mining through the transfer notification. The protected column
// is the index of the position among the ones the provider was created with.
func AccountsTransferTheFollowingPositions(state *State, table *godog.Table) error {
	for _, row := range parseTable(table) {
		provider, err := state.Account(row.Str("provider"))
		if err != nil {
			return err
		}
		ownerName := row.Str("owner")
		if ownerName == "" {
			ownerName = row.Str("provider")
		}
		owner, err := state.Account(ownerName)
		if err != nil {
			return err
		}
		idx, err := row.U64("protected")
		if err != nil {
			return err
		}
		ids := state.protected[row.Str("provider")]
		if idx >= uint64(len(ids)) {
			return fmt.Errorf("%s has no protected position %d", row.Str("provider"), idx)
		}
		days, err := row.U16("days")
		if err != nil {
			return err
		}

		_, err = state.Services.TransferPosition(state.Ctx, provider, ids[idx], days, owner)
		if err := checkExpectedError(row, err); err != nil {
			return fmt.Errorf("transfer from %s: %w", row.Str("provider"), err)
		}
		if err == nil {
			positions := state.Services.Mining.GetPositions(owner)
			state.label(row.Str("label"), positions[len(positions)-1])
		}
	}
	return nil
}
