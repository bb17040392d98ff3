package types

type CheckpointName string

const (
	MiningCheckpoint     CheckpointName = "mining"
	TokensCheckpoint     CheckpointName = "tokens"
	ProtectionCheckpoint CheckpointName = "protection"
)
