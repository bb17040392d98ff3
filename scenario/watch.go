package scenario

import (
	"context"
	"time"

	"code.bbsnetwork.io/lm/logging"

	"github.com/fsnotify/fsnotify"
)

// debounce absorbs the burst of events an editor produces on save.
const debounce = 100 * time.Millisecond

// Watch calls onChange with the reloaded scenario, or the load error, every
// time the file at path changes. It blocks until ctx is cancelled.
func Watch(ctx context.Context, log *logging.Logger, path string, onChange func(*Scenario, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return err
	}
	log = log.Named(namedLogger)

	var (
		timer  *time.Timer
		reload = make(chan struct{}, 1)
	)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				// the file was replaced, follow the new one
				time.Sleep(debounce / 2)
				_ = watcher.Add(path)
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			log.Info("scenario changed, running again", logging.String("path", path))
			onChange(Load(path))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("scenario watcher received error event", logging.Error(err))
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		}
	}
}
