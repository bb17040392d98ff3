package steps

import (
	"fmt"

	"code.bbsnetwork.io/lm/events"

	"github.com/cucumber/godog"
)

// TheFollowingRewardsShouldBePaid checks the reward payout events, in the
// order they were sent.
func TheFollowingRewardsShouldBePaid(state *State, table *godog.Table) error {
	rows := parseTable(table)
	payouts := state.Recorder.OfType(events.RewardPayoutEvent)
	if len(payouts) != len(rows) {
		return fmt.Errorf("%d rewards paid, expected %d", len(payouts), len(rows))
	}
	for i, row := range rows {
		evt, ok := payouts[i].(*events.RewardPayout)
		if !ok {
			return fmt.Errorf("unexpected event %T", payouts[i])
		}
		owner, err := state.Account(row.Str("owner"))
		if err != nil {
			return err
		}
		amount, err := row.Uint("amount")
		if err != nil {
			return err
		}
		if !evt.IsParty(owner) || !amount.EQ(evt.Amount) {
			return fmt.Errorf("reward %d paid %s to %s, expected %s to %s",
				i, evt.Amount, evt.Owner.Hex(), amount, row.Str("owner"))
		}
		if row.Str("percentage") != "" && evt.PercentageOfPool.String() != row.Str("percentage") {
			return fmt.Errorf("reward %d is %s%% of the pool, expected %s%%",
				i, evt.PercentageOfPool.String(), row.Str("percentage"))
		}
	}
	return nil
}

// TheFollowingEventsShouldBeSent counts the events sent per type.
func TheFollowingEventsShouldBeSent(state *State, table *godog.Table) error {
	counts := map[string]int{}
	for _, e := range state.Recorder.Events() {
		counts[e.Type().String()]++
	}
	for _, row := range parseTable(table) {
		expected, err := row.U64("count")
		if err != nil {
			return err
		}
		if got := counts[row.Str("type")]; uint64(got) != expected {
			return fmt.Errorf("%d %s events sent, expected %d", got, row.Str("type"), expected)
		}
	}
	return nil
}
