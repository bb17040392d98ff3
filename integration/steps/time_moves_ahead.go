package steps

import "strconv"

func TimeMovesAheadDays(state *State, rawDays string) error {
	days, err := strconv.ParseUint(rawDays, 10, 0)
	if err != nil {
		return err
	}
	return state.Services.Time.IncreaseDays(state.Ctx, uint(days))
}
