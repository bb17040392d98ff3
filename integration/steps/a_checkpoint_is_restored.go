package steps

import (
	"code.bbsnetwork.io/lm/config"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/protocol"
)

// ACheckpointIsRestored snapshots the running contracts and carries on with
// a new deployment restored from the snapshot.
func ACheckpointIsRestored(state *State, log *logging.Logger, cfg config.Config) error {
	snap, err := state.Services.Snapshot()
	if err != nil {
		return err
	}
	now := state.Services.Time.GetTimeNow()

	fresh, err := protocol.New(state.Ctx, log, cfg, state.Services.Deployer)
	if err != nil {
		return err
	}
	if err := fresh.Restore(state.Ctx, snap); err != nil {
		return err
	}
	if err := fresh.Time.SetTimeNow(state.Ctx, now); err != nil {
		return err
	}
	state.Use(fresh)
	return nil
}
