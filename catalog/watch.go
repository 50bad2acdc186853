/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/blake3"

	"dirpx.dev/vroute/apis"
)

// ErrEmptyFile is returned by Reload when a watched catalog file is empty.
var ErrEmptyFile = errors.New("vroute(catalog): empty catalog file")

// Watched is a Catalog backed by a file or a directory that is reloaded when
// it changes. Every read sees one complete snapshot; a reload becomes visible
// to the next Namespaces or Members call. Content that fails to parse leaves
// the previous snapshot in place.
type Watched struct {
	path    string
	dir     bool
	pattern string
	logger  *log.Logger
	notify  func(*Static)

	cur     atomic.Pointer[snapshot]
	reloads atomic.Uint64

	// mu serializes reloads so digests and snapshots move together.
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
	stop    sync.Once
}

// snapshot is an immutable (catalog, digest) pair published atomically.
type snapshot struct {
	cat    *Static
	digest [32]byte
}

// Ensure Watched implements apis.Catalog.
var _ apis.Catalog = (*Watched)(nil)

// WatchOption configures Watch.
type WatchOption func(*Watched)

// WithLogger sets the logger used for reload events.
func WithLogger(l *log.Logger) WatchOption {
	return func(w *Watched) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithNotify registers fn to be called after every successful reload.
func WithNotify(fn func(*Static)) WatchOption {
	return func(w *Watched) { w.notify = fn }
}

// WithPattern selects the files of a watched directory (doublestar syntax).
// It has no effect when a single file is watched. Empty means
// DefaultPattern.
func WithPattern(pattern string) WatchOption {
	return func(w *Watched) {
		if pattern != "" {
			w.pattern = pattern
		}
	}
}

// Watch loads path and starts watching it until ctx is done or Close is called.
//
// For a file, the containing directory is watched so editors that replace
// files are handled. For a directory, every subdirectory is watched and the
// catalog is rebuilt from the files matching the pattern, as LoadDir does.
func Watch(ctx context.Context, path string, opts ...WatchOption) (*Watched, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("vroute(catalog): %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vroute(catalog): %w", err)
	}
	w := &Watched{
		path:    abs,
		dir:     info.IsDir(),
		pattern: DefaultPattern,
		logger:  log.New(io.Discard),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if !doublestar.ValidatePattern(w.pattern) {
		return nil, fmt.Errorf("vroute(catalog): invalid pattern %q", w.pattern)
	}
	if _, err := w.Reload(); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("vroute(catalog): watcher: %w", err)
	}
	w.watcher = fw
	if w.dir {
		err = w.addTree(abs)
	} else {
		err = fw.Add(filepath.Dir(abs))
	}
	if err != nil {
		_ = fw.Close()
		return nil, err
	}

	go w.loop(ctx)
	return w, nil
}

// addTree watches root and every directory below it.
func (w *Watched) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("vroute(catalog): watch %s: %w", p, err)
		}
		return nil
	})
}

// Namespaces delegates to the current snapshot.
func (w *Watched) Namespaces(ctx context.Context, v apis.Version) ([]string, error) {
	return w.cur.Load().cat.Namespaces(ctx, v)
}

// Members delegates to the current snapshot.
func (w *Watched) Members(ctx context.Context, path apis.NamespacePath) ([]string, error) {
	return w.cur.Load().cat.Members(ctx, path)
}

// Current returns the catalog currently served.
func (w *Watched) Current() *Static {
	return w.cur.Load().cat
}

// Reloads returns the number of snapshots published, including the initial load.
func (w *Watched) Reloads() uint64 {
	return w.reloads.Load()
}

// Reload re-reads the file or directory now. It reports whether a new
// snapshot was published; unchanged content is skipped.
func (w *Watched) Reload() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var (
		digest [32]byte
		parse  func() (*Static, error)
	)
	if w.dir {
		files, err := readDir(w.path, w.pattern)
		if err != nil {
			return false, err
		}
		h := blake3.New()
		for _, f := range files {
			if len(f.data) == 0 {
				return false, fmt.Errorf("%w: %s", ErrEmptyFile, f.rel)
			}
			// Path and length framing keep renames and splits distinct.
			_, _ = fmt.Fprintf(h, "%s\x00%d\x00", f.rel, len(f.data))
			_, _ = h.Write(f.data)
		}
		copy(digest[:], h.Sum(nil))
		parse = func() (*Static, error) { return parseDir(w.path, files) }
	} else {
		data, err := os.ReadFile(w.path)
		if err != nil {
			return false, fmt.Errorf("vroute(catalog): %w", err)
		}
		if len(data) == 0 {
			// Writers truncate before writing; an empty file is never a catalog.
			return false, ErrEmptyFile
		}
		digest = blake3.Sum256(data)
		parse = func() (*Static, error) { return Parse(w.path, data) }
	}

	if old := w.cur.Load(); old != nil && old.digest == digest {
		return false, nil
	}
	cat, err := parse()
	if err != nil {
		return false, err
	}
	w.cur.Store(&snapshot{cat: cat, digest: digest})
	w.reloads.Add(1)
	if w.notify != nil {
		w.notify(cat)
	}
	return true, nil
}

// Close stops watching. The last snapshot stays readable.
func (w *Watched) Close() error {
	var err error
	w.stop.Do(func() {
		close(w.done)
		if w.watcher != nil {
			err = w.watcher.Close()
		}
	})
	return err
}

// relevant reports whether ev may change the catalog. New directories below
// a watched directory are added to the watcher.
func (w *Watched) relevant(ev fsnotify.Event) bool {
	name := filepath.Clean(ev.Name)
	if !w.dir {
		if name != w.path {
			return false
		}
		return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
	}

	rel, err := filepath.Rel(w.path, name)
	if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if err := w.addTree(name); err != nil {
				w.logger.Warn("catalog watcher cannot follow directory", "path", name, "err", err)
			}
			// Files may have landed before the watch was in place.
			return true
		}
	}
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		// A removed directory takes its files with it.
		return true
	}
	ok, _ := doublestar.Match(w.pattern, filepath.ToSlash(rel))
	return ok && (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create))
}

func (w *Watched) loop(ctx context.Context) {
	defer func() { _ = w.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			changed, err := w.Reload()
			switch {
			case errors.Is(err, os.ErrNotExist), errors.Is(err, ErrEmptyFile):
				// Mid-replace or mid-write; a later event carries the content.
				w.logger.Debug("catalog not ready", "path", w.path, "err", err)
			case err != nil:
				w.logger.Warn("catalog reload failed, keeping previous snapshot", "path", w.path, "err", err)
			case changed:
				w.logger.Info("catalog reloaded", "path", w.path, "reloads", w.reloads.Load())
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", "path", w.path, "err", err)
		}
	}
}
