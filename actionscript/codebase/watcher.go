package codebase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/asfmt/project"
)

var watchLog = commonlog.GetLogger("asfmt.watch")

// FileWatcher keeps a Codebase in sync with the files under its root
// directory. OnChange, when set, runs after a file has been rescanned.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	OnChange func(path string)
	OnRemove func(path string)

	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
	started bool
}

var errWatcherStarted = errors.New("watcher already started")

func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &FileWatcher{
		codebase: c,
		watcher:  w,
		done:     make(chan struct{}),
	}, nil
}

// Start registers every non-hidden directory under the root and processes
// events until ctx is cancelled or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return errWatcherStarted
	}
	w.started = true
	w.mu.Unlock()

	if err := w.addTree(w.codebase.RootDir()); err != nil {
		w.once.Do(func() { w.watcher.Close() })
		close(w.done)
		return err
	}
	go w.run(ctx)
	return nil
}

// Stop closes the watcher and waits for the event loop to exit. It may be
// called without Start.
func (w *FileWatcher) Stop() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
	})
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.done
	}
	return err
}

func (w *FileWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && project.IsHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *FileWatcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.once.Do(func() { w.watcher.Close() })
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			watchLog.Errorf("watch error: %s", err.Error())
		}
	}
}

func (w *FileWatcher) handle(event fsnotify.Event) {
	path := event.Name
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if w.codebase.GetFile(path) != nil {
			w.codebase.RemoveFile(path)
			watchLog.Debugf("removed %s", path)
			if w.OnRemove != nil {
				w.OnRemove(path)
			}
		}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if event.Has(fsnotify.Create) && !project.IsHidden(filepath.Base(path)) {
				if err := w.addTree(path); err != nil {
					watchLog.Warningf("%s", err.Error())
				}
			}
			return
		}
		if !strings.HasSuffix(path, project.Extension) {
			return
		}
		if err := w.codebase.ScanFile(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				watchLog.Warningf("scan %s: %s", path, err.Error())
			}
			return
		}
		watchLog.Debugf("scanned %s", path)
		if w.OnChange != nil {
			w.OnChange(path)
		}
	}
}
