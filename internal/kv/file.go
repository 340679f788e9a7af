package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// File is a Store backed by a single JSON object on disk. Every running
// process that opens the same path is a separate context; an fsnotify watch
// on the parent directory turns their writes into remote changes. Writers
// hold an advisory lock on "<path>.lock" across read-modify-write, so a
// write only ever replaces its own key.
type File struct {
	path string
	log  *zap.Logger
	lock *flock.Flock

	mu    sync.Mutex
	known map[string]string
	hub   hub

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	closed  bool
}

var _ Store = (*File)(nil)

// OpenFile opens (without creating) the store at path and starts watching
// it for writes from other processes.
func OpenFile(path string, logger *zap.Logger) (*File, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	f := &File{
		path:    abs,
		log:     logger.With(zap.String("store", abs)),
		lock:    flock.New(abs + ".lock"),
		watcher: watcher,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	f.known = f.readLocked()
	go f.run()
	return f, nil
}

// Get implements Store. It always reads the file so writes from other
// contexts are visible even before their notification arrives.
func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data := f.readLocked()
	v, ok := data[key]
	return v, ok, nil
}

// Set implements Store.
func (f *File) Set(_ context.Context, key, value string) error {
	return f.write(Change{Key: key, Value: value})
}

// Delete implements Store.
func (f *File) Delete(_ context.Context, key string) error {
	return f.write(Change{Key: key, Deleted: true})
}

func (f *File) write(c Change) error {
	f.mu.Lock()
	if err := f.lock.Lock(); err != nil {
		f.mu.Unlock()
		return fmt.Errorf("lock store: %w", err)
	}
	data := f.readLocked()
	if c.Deleted {
		delete(data, c.Key)
	} else {
		data[c.Key] = c.Value
	}
	err := f.writeLocked(data)
	if unlockErr := f.lock.Unlock(); unlockErr != nil {
		f.log.Warn("unlock store", zap.Error(unlockErr))
	}
	if err != nil {
		f.mu.Unlock()
		return err
	}
	f.known = data
	f.mu.Unlock()

	f.hub.publish(c)
	return nil
}

// Subscribe implements Store.
func (f *File) Subscribe(key string, fn func(Change)) func() {
	return f.hub.subscribe(key, fn)
}

// Close stops the watcher.
func (f *File) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()

	close(f.stopCh)
	<-f.doneCh
	return errors.Join(f.watcher.Close(), f.lock.Close())
}

func (f *File) run() {
	defer close(f.doneCh)
	for {
		select {
		case <-f.stopCh:
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			f.reload()
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.log.Warn("store watcher error", zap.Error(err))
		}
	}
}

// reload diffs the file against the last known content and publishes the
// keys another context changed.
func (f *File) reload() {
	f.mu.Lock()
	current := f.readLocked()
	changes := diff(f.known, current)
	f.known = current
	f.mu.Unlock()

	for _, c := range changes {
		f.log.Debug("remote store change", zap.String("key", c.Key), zap.Bool("deleted", c.Deleted))
		f.hub.publish(c)
	}
}

func (f *File) readLocked() map[string]string {
	data := make(map[string]string)
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.log.Warn("read store", zap.Error(err))
		}
		return data
	}
	if len(raw) == 0 {
		return data
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		f.log.Warn("store file is not a JSON object; treating as empty", zap.Error(err))
		return make(map[string]string)
	}
	return data
}

func (f *File) writeLocked(data map[string]string) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".store-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func diff(before, after map[string]string) []Change {
	var changes []Change
	for key, value := range after {
		if old, ok := before[key]; !ok || old != value {
			changes = append(changes, Change{Key: key, Value: value, Remote: true})
		}
	}
	for key := range before {
		if _, ok := after[key]; !ok {
			changes = append(changes, Change{Key: key, Deleted: true, Remote: true})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })
	return changes
}
