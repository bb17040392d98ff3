package config

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"code.bbsnetwork.io/lm/logging"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
)

const namedLogger = "cfgwatcher"

// Watcher reloads the config file when it changes on disk. Listeners are
// only called from OnTimeUpdate, so engines see new configuration between
// two operations, never during one.
type Watcher struct {
	log  *logging.Logger
	cfg  Config
	path string

	hasChanged         atomic.Bool
	cfgUpdateListeners []func(Config)
	mu                 sync.Mutex
}

// NewFromFile loads the config file in home and starts watching it until
// ctx is cancelled.
func NewFromFile(ctx context.Context, log *logging.Logger, home string) (*Watcher, error) {
	watcherlog := log.Named(namedLogger)
	// always log configuration changes
	watcherlog.SetLevel(logging.DebugLevel)
	w := &Watcher{
		log:  watcherlog,
		cfg:  NewDefaultConfig(),
		path: Path(home),
	}

	if err := w.load(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(w.path); err != nil {
		watcher.Close()
		return nil, err
	}

	w.log.Info("config watcher started successfully",
		logging.String("config", w.path))

	go w.watch(ctx, watcher)

	return w, nil
}

// OnTimeUpdate hands the last loaded configuration to the listeners if the
// file changed since the previous call.
func (w *Watcher) OnTimeUpdate(_ context.Context, _ time.Time) {
	if !w.hasChanged.CompareAndSwap(true, false) {
		return
	}
	cfg := w.Get()
	w.mu.Lock()
	listeners := append([]func(Config){}, w.cfgUpdateListeners...)
	w.mu.Unlock()
	for _, f := range listeners {
		f(cfg)
	}
}

// Get return the last update of the configuration.
func (w *Watcher) Get() Config {
	w.mu.Lock()
	conf := w.cfg
	w.mu.Unlock()
	return conf
}

// OnConfigUpdate register functions to be called when the configuration is
// updated.
func (w *Watcher) OnConfigUpdate(fns ...func(Config)) {
	w.mu.Lock()
	w.cfgUpdateListeners = append(w.cfgUpdateListeners, fns...)
	w.mu.Unlock()
}

func (w *Watcher) load() error {
	buf, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}
	cfg := NewDefaultConfig()
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return err
	}
	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()
	return nil
}

func (w *Watcher) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Create) {
				continue
			}
			if event.Has(fsnotify.Rename) {
				// editors replace the file, give them time to write the new one
				time.Sleep(50 * time.Millisecond)
				_ = watcher.Add(w.path)
			}
			w.log.Info("configuration updated", logging.String("event", event.Name))
			if err := w.load(); err != nil {
				w.log.Error("unable to load configuration", logging.Error(err))
				continue
			}
			w.hasChanged.Store(true)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("config watcher received error event", logging.Error(err))
		case <-ctx.Done():
			w.log.Debug("config watcher stopped")
			return
		}
	}
}
