package broker

import (
	"sync"

	"code.bbsnetwork.io/lm/events"
)

// Recorder is a subscriber keeping every event it receives, in order.
type Recorder struct {
	mu    sync.Mutex
	id    int
	types []events.Type
	evts  []events.Event
}

func NewRecorder(types ...events.Type) *Recorder {
	return &Recorder{types: types}
}

func (r *Recorder) Push(evts ...events.Event) {
	r.mu.Lock()
	r.evts = append(r.evts, evts...)
	r.mu.Unlock()
}

func (r *Recorder) Types() []events.Type {
	return r.types
}

func (r *Recorder) SetID(id int) {
	r.id = id
}

func (r *Recorder) ID() int {
	return r.id
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	cpy := make([]events.Event, len(r.evts))
	copy(cpy, r.evts)
	return cpy
}

// OfType returns the recorded events of type t.
func (r *Recorder) OfType(t events.Type) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := []events.Event{}
	for _, e := range r.evts {
		if e.Type() == t {
			ret = append(ret, e)
		}
	}
	return ret
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.evts = nil
	r.mu.Unlock()
}
