package events

import (
	"context"
	"time"
)

// Time event indicating the simulated clock moved.
type Time struct {
	*Base
	now time.Time
}

func NewTime(ctx context.Context, t time.Time) *Time {
	return &Time{
		Base: newBase(ctx, TimeUpdate),
		now:  t,
	}
}

func (t Time) Time() time.Time {
	return t.now
}
