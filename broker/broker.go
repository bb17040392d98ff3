package broker

import (
	"sort"
	"sync"

	"code.bbsnetwork.io/lm/events"
	"code.bbsnetwork.io/lm/logging"
)

// Subscriber receives the events of the types it asks for. An empty or
// events.All type list means every event.
//go:generate go run github.com/golang/mock/mockgen -destination mocks/subscriber_mock.go -package mocks code.bbsnetwork.io/lm/broker Subscriber
type Subscriber interface {
	Push(val ...events.Event)
	Types() []events.Type
	SetID(id int)
	ID() int
}

// BrokerI is the interface engines depend on, so they can be given a mock.
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks code.bbsnetwork.io/lm/broker BrokerI
type BrokerI interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
	Subscribe(s Subscriber) int
	Unsubscribe(k int)
}

// Broker delivers events synchronously, in the order they are sent, to
// every matching subscriber.
type Broker struct {
	log *logging.Logger
	cfg Config

	mu    sync.Mutex
	seq   uint64
	subs  map[int]Subscriber
	tSubs map[events.Type]map[int]Subscriber
	keys  []int
}

// New creates a new base broker.
func New(log *logging.Logger, config Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &Broker{
		log:   log,
		cfg:   config,
		subs:  map[int]Subscriber{},
		tSubs: map[events.Type]map[int]Subscriber{},
	}
}

// ReloadConf is called when the config file changes.
func (b *Broker) ReloadConf(cfg Config) {
	b.log.Info("reloading configuration")
	if b.log.GetLevel() != cfg.Level.Get() {
		b.log.Info("updating log level",
			logging.String("old", b.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		b.log.SetLevel(cfg.Level.Get())
	}
	b.mu.Lock()
	b.cfg = cfg
	b.mu.Unlock()
}

func (b *Broker) Send(event events.Event) {
	b.SendBatch([]events.Event{event})
}

// SendBatch sequences the events and pushes them to subscribers. Events of a
// batch reach a subscriber in one Push call per type.
func (b *Broker) SendBatch(evts []events.Event) {
	if len(evts) == 0 {
		return
	}
	b.mu.Lock()
	byType := map[events.Type][]events.Event{}
	order := []events.Type{}
	for _, e := range evts {
		b.seq++
		e.SetSequenceID(b.seq)
		if bool(b.cfg.LogEvents) {
			b.log.Debug("event sent",
				logging.String("type", e.Type().String()),
				logging.Uint64("seq", e.Sequence()),
				logging.String("trace-id", e.TraceID()),
			)
		}
		if _, ok := byType[e.Type()]; !ok {
			order = append(order, e.Type())
		}
		byType[e.Type()] = append(byType[e.Type()], e)
	}
	all := b.getSubsByType(events.All)
	typed := make(map[events.Type]map[int]Subscriber, len(order))
	for _, t := range order {
		typed[t] = b.getSubsByType(t)
	}
	b.mu.Unlock()

	for _, k := range sortedKeys(all) {
		all[k].Push(evts...)
	}
	for _, t := range order {
		subs := typed[t]
		for _, k := range sortedKeys(subs) {
			subs[k].Push(byType[t]...)
		}
	}
}

// Subscribe registers a subscriber and returns its id.
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := b.getKey()
	s.SetID(k)
	b.subs[k] = s
	types := s.Types()
	if len(types) == 0 {
		types = []events.Type{events.All}
	}
	for _, t := range types {
		if _, ok := b.tSubs[t]; !ok {
			b.tSubs[t] = map[int]Subscriber{}
		}
		b.tSubs[t][k] = s
	}
	return k
}

func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[k]; !ok {
		return
	}
	delete(b.subs, k)
	for t, subs := range b.tSubs {
		delete(subs, k)
		if len(subs) == 0 {
			delete(b.tSubs, t)
		}
	}
	b.keys = append(b.keys, k)
}

func (b *Broker) getSubsByType(t events.Type) map[int]Subscriber {
	ret := map[int]Subscriber{}
	for k, s := range b.tSubs[t] {
		ret[k] = s
	}
	return ret
}

// getKey reuses the ids of unsubscribed subscribers first.
func (b *Broker) getKey() int {
	if len(b.keys) > 0 {
		k := b.keys[0]
		b.keys = b.keys[1:]
		return k
	}
	return len(b.subs) + 1
}

func sortedKeys(m map[int]Subscriber) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
