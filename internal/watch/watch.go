// Package watch recompiles source files when they change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// Op is a bitmask of the filesystem changes reported by a Watcher.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is a change to one watched source file.
type Event struct {
	Path string
	Op   Op
}

// DefaultDebounce coalesces the burst of events most editors produce for a
// single save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to a fixed set of files. The containing
// directories are watched so that files replaced by rename still report.
type Watcher struct {
	w       *fsnotify.Watcher
	targets map[string]struct{}
	evC     chan Event
	erC     chan error
	done    chan struct{}
	once    sync.Once
}

// New starts watching paths.
func New(paths []string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: no files given")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	fw := &Watcher{
		w:       w,
		targets: make(map[string]struct{}, len(paths)),
		evC:     make(chan Event, 128),
		erC:     make(chan error, 1),
		done:    make(chan struct{}),
	}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		fw.targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.evC)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := fw.targets[abs]; !ok {
				continue
			}
			select {
			case fw.evC <- Event{Path: abs, Op: convert(ev.Op)}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		case <-fw.done:
			return
		}
	}
}

func convert(in fsnotify.Op) Op {
	var op Op
	if in&fsnotify.Create != 0 {
		op |= OpCreate
	}
	if in&fsnotify.Write != 0 {
		op |= OpWrite
	}
	if in&fsnotify.Remove != 0 {
		op |= OpRemove
	}
	if in&fsnotify.Rename != 0 {
		op |= OpRename
	}
	if in&fsnotify.Chmod != 0 {
		op |= OpChmod
	}
	return op
}

// Events delivers changes to watched files. It is closed after Close.
func (fw *Watcher) Events() <-chan Event { return fw.evC }

// Errors delivers errors from the underlying notifier.
func (fw *Watcher) Errors() <-chan error { return fw.erC }

// Close stops the watcher.
func (fw *Watcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.w.Close()
	})
	return err
}

// Changed reports whether op alters file content. Chmod-only and Remove
// events are ignored; a removed file is picked up again when recreated.
func Changed(op Op) bool {
	return op&(OpCreate|OpWrite|OpRename) != 0
}

// Run calls onChange for every content change to paths until ctx is
// cancelled. Changes to the same file within debounce are delivered once.
// An error returned by onChange stops the loop.
func Run(ctx context.Context, paths []string, debounce time.Duration, onChange func(path string) error) error {
	fw, err := New(paths)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return fw.Close()
	})
	g.Go(func() error {
		pending := make(map[string]struct{})
		timer := time.NewTimer(debounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case ev, ok := <-fw.Events():
				if !ok {
					return nil
				}
				if !Changed(ev.Op) {
					continue
				}
				if len(pending) == 0 {
					timer.Reset(debounce)
				}
				pending[ev.Path] = struct{}{}
			case <-timer.C:
				for path := range pending {
					delete(pending, path)
					if err := onChange(path); err != nil {
						return err
					}
				}
			case err := <-fw.Errors():
				return fmt.Errorf("watch: %w", err)
			case <-ctx.Done():
				return nil
			}
		}
	})
	return g.Wait()
}
