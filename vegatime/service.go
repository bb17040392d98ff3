package vegatime

import (
	"context"
	"errors"
	"time"

	"code.bbsnetwork.io/lm/events"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/types"
)

var ErrTimeGoingBackward = errors.New("time cannot go backward")

// Broker sends events.
type Broker interface {
	Send(e events.Event)
}

// Svc is the simulated clock. It only ever moves forward, and tells every
// listener each time it does.
type Svc struct {
	log    *logging.Logger
	config Config
	broker Broker

	previous time.Time
	current  time.Time

	listeners []func(context.Context, time.Time)
}

func New(log *logging.Logger, conf Config, broker Broker) *Svc {
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())

	return &Svc{
		log:    log,
		config: conf,
		broker: broker,
	}
}

// ReloadConf updates the internal configuration of the service.
func (s *Svc) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}
	s.config = cfg
}

// SetTimeNow moves the clock to t and notifies the listeners.
func (s *Svc) SetTimeNow(ctx context.Context, t time.Time) error {
	t = t.UTC()
	if t.Before(s.current) {
		s.log.Error("refusing to move the clock backward",
			logging.Time("current", s.current),
			logging.Time("requested", t),
		)
		return ErrTimeGoingBackward
	}
	if s.current.IsZero() {
		s.previous = t
	} else {
		s.previous = s.current
	}
	s.current = t

	s.log.Debug("time updated", logging.Time("now", t))
	s.broker.Send(events.NewTime(ctx, t))
	s.notify(ctx, t)
	return nil
}

// IncreaseTime moves the clock forward by d.
func (s *Svc) IncreaseTime(ctx context.Context, d time.Duration) error {
	if d < 0 {
		return ErrTimeGoingBackward
	}
	return s.SetTimeNow(ctx, s.current.Add(d))
}

// IncreaseDays moves the clock forward by whole days.
func (s *Svc) IncreaseDays(ctx context.Context, days uint) error {
	return s.IncreaseTime(ctx, time.Duration(days)*types.Day)
}

func (s *Svc) GetTimeNow() time.Time {
	return s.current
}

// GetTimeLastUpdate is the time before the last update.
func (s *Svc) GetTimeLastUpdate() time.Time {
	return s.previous
}

// NotifyOnTick registers a callback run every time the clock moves.
func (s *Svc) NotifyOnTick(f func(context.Context, time.Time)) {
	s.listeners = append(s.listeners, f)
}

func (s *Svc) notify(ctx context.Context, t time.Time) {
	for _, f := range s.listeners {
		f(ctx, t)
	}
}
