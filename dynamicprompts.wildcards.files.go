package dynamicprompts

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FilesystemWildcards loads wildcard collections from a directory
// tree. Plain text files hold one value per line, with blank lines
// and "#" comments skipped; the collection name is the slash-separated
// relative path without extension. YAML files hold nested mappings of
// string lists, flattened to slash-joined names under the file's
// directory. Watch keeps the collections in sync with the tree.
type FilesystemWildcards struct {
	root   string
	logger *zap.Logger

	mu     sync.RWMutex
	values map[string][]string
	closed bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFilesystemWildcards loads all collections under root
func NewFilesystemWildcards(root string, logger *zap.Logger) (*FilesystemWildcards, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, NewWildcardRootError(root, err)
	}

	f := &FilesystemWildcards{
		root:   root,
		logger: logger,
		values: make(map[string][]string),
	}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Get returns a copy of the collection values
func (f *FilesystemWildcards) Get(name string) ([]string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	values, ok := f.values[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), values...), true
}

// Names returns all collection names in sorted order
func (f *FilesystemWildcards) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.values))
	for name := range f.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload rescans the directory tree and replaces all collections
func (f *FilesystemWildcards) Reload() error {
	loaded := make(map[string][]string)

	err := filepath.WalkDir(f.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch strings.ToLower(filepath.Ext(path)) {
		case WildcardExtText:
			return loadTextFile(path, rel, loaded)
		case WildcardExtYAML, WildcardExtYML:
			return loadYAMLFile(path, rel, loaded)
		default:
			return nil
		}
	})
	if err != nil {
		return NewWildcardSourceError(ErrMsgWildcardLoadFailed, err)
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return NewWildcardSourceError(ErrMsgSourceClosed, nil)
	}
	f.values = loaded
	f.mu.Unlock()

	f.logger.Debug(LogMsgWildcardsLoaded,
		zap.String(LogFieldRoot, f.root),
		zap.Int(LogFieldCollections, len(loaded)))
	return nil
}

// loadTextFile reads a one-value-per-line collection
func loadTextFile(path, rel string, loaded map[string][]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(rel, filepath.Ext(rel))
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, WildcardCommentPrefix) {
			continue
		}
		loaded[name] = append(loaded[name], line)
	}
	return nil
}

// loadYAMLFile reads nested mappings of value lists. Collection names
// are the mapping keys joined with slashes, prefixed by the file's
// directory within the tree.
func loadYAMLFile(path, rel string, loaded map[string][]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}

	prefix := ""
	if dir := filepath.ToSlash(filepath.Dir(rel)); dir != "." {
		prefix = dir + WildcardNameSep
	}
	flattenYAML(prefix, doc, loaded)
	return nil
}

// flattenYAML walks nested mappings, collecting string leaves
func flattenYAML(prefix string, node map[string]any, loaded map[string][]string) {
	for key, value := range node {
		name := prefix + key
		switch v := value.(type) {
		case string:
			loaded[name] = append(loaded[name], v)
		case []any:
			for _, item := range v {
				loaded[name] = append(loaded[name], fmt.Sprintf("%v", item))
			}
		case map[string]any:
			flattenYAML(name+WildcardNameSep, v, loaded)
		}
	}
}

// Watch starts a directory watcher that reloads the collections when
// files under the root change. Close stops it.
func (f *FilesystemWildcards) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return NewWildcardSourceError(ErrMsgWatcherFailed, err)
	}

	// Watch every directory in the tree; fsnotify is not recursive
	err = filepath.WalkDir(f.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = watcher.Close()
		return NewWildcardSourceError(ErrMsgWatcherFailed, err)
	}

	f.mu.Lock()
	f.watcher = watcher
	f.done = make(chan struct{})
	f.mu.Unlock()

	go f.watchLoop(watcher, f.done)

	f.logger.Debug(LogMsgWatcherStarted, zap.String(LogFieldRoot, f.root))
	return nil
}

func (f *FilesystemWildcards) watchLoop(watcher *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case <-done:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			f.logger.Debug(LogMsgWatcherEvent, zap.String(LogFieldEvent, event.String()))

			// New subdirectories need their own watch
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if err := f.Reload(); err != nil {
				f.logger.Warn(LogMsgReloadFailed, zap.String(LogFieldError, err.Error()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn(LogMsgReloadFailed, zap.String(LogFieldError, err.Error()))
		}
	}
}

// Close stops the watcher, if any, and marks the source closed
func (f *FilesystemWildcards) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	if f.done != nil {
		close(f.done)
		f.done = nil
	}
	if f.watcher != nil {
		err := f.watcher.Close()
		f.watcher = nil
		if err != nil {
			return NewWildcardSourceError(ErrMsgWatcherFailed, err)
		}
	}
	return nil
}
