package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"code.bbsnetwork.io/lm/logging"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Gauge instrument = iota
	Counter
	Histogram
)

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	engineTime         *prometheus.CounterVec
	positionsLocked    *prometheus.CounterVec
	positionsUnlocked  prometheus.Counter
	rewardsPaid        prometheus.Counter
	activePositions    prometheus.Gauge
	checkpointSizeHist prometheus.Histogram

	setupOnce sync.Once
	setupErr  error
)

type instrument int

type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

// mi holds whichever collector AddInstrument built.
type mi struct {
	gauge     prometheus.Gauge
	counterV  *prometheus.CounterVec
	counter   prometheus.Counter
	histogram prometheus.Histogram
}

type InstrumentOption func(o *instrumentOpts)

// Vectors makes the instrument a vector over the given label names.
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Buckets is only used by histograms.
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// AddInstrument builds an instrument and registers it with the default
// registry.
func AddInstrument(t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		if len(opt.vectors) != 0 {
			return nil, ErrInstrumentNotSupported
		}
		ret.gauge = prometheus.NewGauge(prometheus.GaugeOpts(opt.opts))
		col = ret.gauge
	case Counter:
		o := prometheus.CounterOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.counter = prometheus.NewCounter(o)
			col = ret.counter
		} else {
			ret.counterV = prometheus.NewCounterVec(o, opt.vectors)
			col = ret.counterV
		}
	case Histogram:
		if len(opt.vectors) != 0 {
			return nil, ErrInstrumentNotSupported
		}
		ret.histogram = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: opt.opts.Namespace,
			Name:      opt.opts.Name,
			Help:      opt.opts.Help,
			Buckets:   opt.buckets,
		})
		col = ret.histogram
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := prometheus.Register(col); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (m mi) Gauge() (prometheus.Gauge, error) {
	if m.gauge == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gauge, nil
}

func (m mi) Counter() (prometheus.Counter, error) {
	if m.counter == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counter, nil
}

func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func (m mi) Histogram() (prometheus.Histogram, error) {
	if m.histogram == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogram, nil
}

// Setup registers the instruments with the default prometheus registry.
// Calling it more than once is a no-op.
func Setup() error {
	setupOnce.Do(func() {
		setupErr = setupMetrics()
	})
	return setupErr
}

// Start enable metrics (given config). The returned server is nil when
// metrics are disabled.
func Start(log *logging.Logger, conf Config) (*http.Server, error) {
	if !conf.Enabled {
		return nil, nil
	}
	if err := Setup(); err != nil {
		return nil, errors.Wrap(err, "could not set up metrics")
	}
	mux := http.NewServeMux()
	mux.Handle(conf.Path, promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server stopped", logging.Error(err))
		}
	}()
	return srv, nil
}

func setupMetrics() error {
	h, err := AddInstrument(
		Counter,
		"engine_seconds_total",
		Namespace("lm"),
		Vectors("engine", "fn"),
		Help("Total time spent in engine calls"),
	)
	if err != nil {
		return err
	}
	est, err := h.CounterVec()
	if err != nil {
		return err
	}
	engineTime = est

	h, err = AddInstrument(
		Counter,
		"positions_locked_total",
		Namespace("lm"),
		Vectors("path"),
		Help("Number of positions locked, by entry point"),
	)
	if err != nil {
		return err
	}
	pl, err := h.CounterVec()
	if err != nil {
		return err
	}
	positionsLocked = pl

	h, err = AddInstrument(
		Counter,
		"positions_unlocked_total",
		Namespace("lm"),
		Help("Number of positions unlocked"),
	)
	if err != nil {
		return err
	}
	pu, err := h.Counter()
	if err != nil {
		return err
	}
	positionsUnlocked = pu

	h, err = AddInstrument(
		Counter,
		"rewards_paid_total",
		Namespace("lm"),
		Help("Reward tokens paid out on unlock"),
	)
	if err != nil {
		return err
	}
	rp, err := h.Counter()
	if err != nil {
		return err
	}
	rewardsPaid = rp

	h, err = AddInstrument(
		Gauge,
		"active_positions",
		Namespace("lm"),
		Help("Number of positions currently locked"),
	)
	if err != nil {
		return err
	}
	ap, err := h.Gauge()
	if err != nil {
		return err
	}
	activePositions = ap

	h, err = AddInstrument(
		Histogram,
		"checkpoint_bytes",
		Namespace("lm"),
		Buckets(prometheus.ExponentialBuckets(64, 4, 8)),
		Help("Size of the checkpoints taken"),
	)
	if err != nil {
		return err
	}
	cs, err := h.Histogram()
	if err != nil {
		return err
	}
	checkpointSizeHist = cs

	return nil
}

// EngineTimeCounterAdd adds the time since start to the engine time counter.
func EngineTimeCounterAdd(start time.Time, labelValues ...string) {
	if engineTime == nil {
		return
	}
	engineTime.WithLabelValues(labelValues...).Add(time.Since(start).Seconds())
}

// PositionLockedInc counts a lock made through the given entry point.
func PositionLockedInc(path string) {
	if positionsLocked == nil {
		return
	}
	positionsLocked.WithLabelValues(path).Inc()
}

func PositionUnlockedInc() {
	if positionsUnlocked == nil {
		return
	}
	positionsUnlocked.Inc()
}

// RewardsPaidAdd adds a payout, converted to float64, to the rewards counter.
func RewardsPaidAdd(amount float64) {
	if rewardsPaid == nil {
		return
	}
	rewardsPaid.Add(amount)
}

func ActivePositionsSet(n int) {
	if activePositions == nil {
		return
	}
	activePositions.Set(float64(n))
}

func CheckpointSizeObserve(n int) {
	if checkpointSizeHist == nil {
		return
	}
	checkpointSizeHist.Observe(float64(n))
}
