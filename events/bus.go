package events

import (
	"context"
)

type Type int

type traceIDKey struct{}

// Base common denominator all event-bus events share.
type Base struct {
	ctx     context.Context
	traceID string
	seq     uint64
	et      Type
}

// Event is the interface every event published on the broker implements.
// The sequence number is set once, by the broker, when the event is sent.
type Event interface {
	Type() Type
	Context() context.Context
	TraceID() string
	Sequence() uint64
	SetSequenceID(s uint64)
}

const (
	// All is used by subscribers to receive every event, it has no payload.
	All Type = iota
	TimeUpdate
	TransferEvent
	PositionLockedEvent
	PositionUnlockedEvent
	RewardPayoutEvent
	ProtectedLiquidityTransferredEvent
)

var eventStrings = map[Type]string{
	All:                                "ALL",
	TimeUpdate:                         "TimeUpdate",
	TransferEvent:                      "Transfer",
	PositionLockedEvent:                "PositionLocked",
	PositionUnlockedEvent:              "PositionUnlocked",
	RewardPayoutEvent:                  "RewardPayout",
	ProtectedLiquidityTransferredEvent: "ProtectedLiquidityTransferred",
}

// ContextWithTraceID attaches a trace id to ctx; every event created with
// that context carries it.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

func newBase(ctx context.Context, t Type) *Base {
	return &Base{
		ctx:     ctx,
		traceID: TraceIDFromContext(ctx),
		et:      t,
	}
}

func (b Base) TraceID() string {
	return b.traceID
}

func (b Base) Sequence() uint64 {
	return b.seq
}

func (b *Base) SetSequenceID(s uint64) {
	if b.seq != 0 {
		return
	}
	b.seq = s
}

func (b Base) Context() context.Context {
	return b.ctx
}

func (b Base) Type() Type {
	return b.et
}

// String get string representation of event type.
func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}
