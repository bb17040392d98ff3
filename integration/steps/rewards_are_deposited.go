package steps

// RewardsAreDeposited issues amount reward tokens to the deployer and moves
// them to the mining contract.
func RewardsAreDeposited(state *State, rawAmount string) error {
	amount, err := parseUint(rawAmount)
	if err != nil {
		return err
	}
	if err := state.Services.Fund(state.Ctx, state.Services.Deployer, amount); err != nil {
		return err
	}
	return state.Services.Deposit(state.Ctx, state.Services.Deployer, amount)
}
