package catalog

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileWatcher polls file modification times and calls onChange when a file changes.
type FileWatcher struct {
	paths    []string
	interval time.Duration
	onChange func(string)

	lastMTime map[string]time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewFileWatcher creates a watcher for paths polled every interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		paths:     paths,
		interval:  interval,
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start primes the modification times and polls in a goroutine until Stop.
func (w *FileWatcher) Start() {
	w.scan(true)
	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scan(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates polling and waits for the goroutine to exit or ctx to end.
func (w *FileWatcher) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stopCh) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *FileWatcher) scan(prime bool) {
	for _, p := range w.paths {
		fi, err := os.Stat(p)
		if err != nil {
			// missing file: keep the last known state
			continue
		}
		mt := fi.ModTime()
		last, seen := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || !seen {
			if !prime && w.onChange != nil {
				// file appeared after startup
				w.onChange(p)
			}
			continue
		}
		if mt.After(last) && w.onChange != nil {
			w.onChange(p)
		}
	}
}

// Reloader keeps a Live catalog in sync with the loader's override file.
type Reloader struct {
	loader  *Loader
	live    *Live
	logger  *zap.Logger
	watcher *FileWatcher
}

// NewReloader builds a reloader. With an empty file or zero interval it never polls.
func NewReloader(loader *Loader, live *Live, interval time.Duration, logger *zap.Logger) *Reloader {
	r := &Reloader{loader: loader, live: live, logger: logger}
	if loader.Path() != "" && interval > 0 {
		r.watcher = NewFileWatcher([]string{loader.Path()}, interval, func(string) { r.Reload() })
	}
	return r
}

// Reload re-reads the file and swaps the live catalog. On failure the previous
// catalog stays active.
func (r *Reloader) Reload() bool {
	r.loader.Invalidate()
	c, err := r.loader.Load()
	if err != nil {
		r.logger.Error("catalog reload failed, keeping previous catalog",
			zap.String("file", r.loader.Path()), zap.Error(err))
		return false
	}
	r.live.Swap(c)
	r.logger.Info("catalog reloaded",
		zap.String("file", r.loader.Path()), zap.Int("products", len(c.Products())))
	return true
}

func (r *Reloader) Start(context.Context) error {
	if r.watcher != nil {
		r.watcher.Start()
	}
	return nil
}

func (r *Reloader) Stop(ctx context.Context) error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Stop(ctx)
}
