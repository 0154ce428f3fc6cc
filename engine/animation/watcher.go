package animation

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/core"
)

/**
 * @brief Watches a keyframe file and calls OnChange whenever it is created
 * or written. The parent directory is watched rather than the file itself,
 * so replacing the file through a rename is noticed too.
 */
type Watcher struct {
	path     string
	onChange func(path string)

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once
}

func NewWatcher(path string, onChange func(path string)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, errors.Wrapf(err, "watching %s", filepath.Dir(abs))
	}

	w := &Watcher{
		path:     abs,
		onChange: onChange,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.start()
	return w, nil
}

func (w *Watcher) start() {
	defer close(w.stopped)
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				core.LogDebug("Keyframe file %s changed (%s)", e.Name, e.Op)
				w.onChange(w.path)
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("Keyframe watcher: %s", err)

		case <-w.done:
			return
		}
	}
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		<-w.stopped
		err = w.fsnotify.Close()
	})
	return err
}
