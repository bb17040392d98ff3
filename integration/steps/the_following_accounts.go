package steps

import (
	"github.com/cucumber/godog"
)

// TheFollowingAccounts creates the accounts of the table. The protected
// column lists, comma separated, the reserve amounts of the protected
// positions each account holds.
func TheFollowingAccounts(state *State, table *godog.Table) error {
	for _, row := range parseTable(table) {
		addr := state.addAccount(row.Str("name"))
		for _, raw := range row.StrSlice("protected", ",") {
			amount, err := parseUint(raw)
			if err != nil {
				return err
			}
			id := state.Services.AddProtectedLiquidity(addr, amount)
			state.protected[row.Str("name")] = append(state.protected[row.Str("name")], id)
		}
	}
	return nil
}
