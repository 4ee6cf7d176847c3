// Package watcher re-runs type-check passes when sources under the script
// input folder change.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar"
	"github.com/fsnotify/fsnotify"

	"github.com/morler/frontpack/constants/lipgloss"
	storecontracts "github.com/morler/frontpack/source_store/contracts"
	"github.com/morler/frontpack/source_store/models"
	checkercontracts "github.com/morler/frontpack/type_checker/contracts"
	"github.com/morler/frontpack/utils"
)

const DefaultDebounce = 300 * time.Millisecond

// DefaultPatterns are the sources a session reacts to, relative to Root.
var DefaultPatterns = []string{"**/*.ts", "**/*.tsx", "**/*.vue"}

type Options struct {
	// Root is the script input folder.
	Root     string
	Patterns []string
	Debounce time.Duration
	Output   io.Writer
}

// Watcher drives a watch session: file events update the store, and a pass
// runs once events have been quiet for the debounce delay.
type Watcher struct {
	store   storecontracts.ISourceStore
	checker checkercontracts.ITypeChecker
	options Options

	ignorePatterns []string

	mutex  sync.Mutex
	state  State
	passes int
}

func NewWatcher(store storecontracts.ISourceStore, checker checkercontracts.ITypeChecker, options Options) *Watcher {
	if len(options.Patterns) == 0 {
		options.Patterns = DefaultPatterns
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	if options.Output == nil {
		options.Output = os.Stdout
	}

	ignorePatterns, err := utils.GetIgnorePatterns(options.Root)
	if err != nil {
		fmt.Fprintln(options.Output, lipgloss.Yellow.Render(fmt.Sprintf("Warning: %v", err)))
	}

	return &Watcher{
		store:          store,
		checker:        checker,
		options:        options,
		ignorePatterns: ignorePatterns,
	}
}

// State returns the current phase of the session.
func (w *Watcher) State() State {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.state
}

// Passes returns how many type-check passes have run.
func (w *Watcher) Passes() int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.passes
}

func (w *Watcher) setState(state State) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.state = state
	if state == TypeChecking {
		w.passes++
	}
}

// Run performs an initial pass, then watches Root until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.typeCheck(ctx)
	if ctx.Err() != nil {
		return nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := w.addDirectories(fsWatcher, w.options.Root); err != nil {
		return err
	}

	fmt.Fprintln(w.options.Output, lipgloss.Info.Render(fmt.Sprintf("Watching for file changes in %s", w.options.Root)))

	return w.loop(ctx, fsWatcher.Events, fsWatcher.Errors, fsWatcher)
}

// directoryAdder is the part of fsnotify.Watcher used to follow new folders.
type directoryAdder interface {
	Add(name string) error
}

// loop handles events, errors and the debounce timer on a single goroutine,
// so a pass always runs to completion before the next event is seen.
func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, dirs directoryAdder) error {
	var timer *time.Timer
	var fire <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !w.handleEvent(ctx, event, dirs) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.options.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.options.Debounce)
			}
			fire = timer.C
			w.setState(Debouncing)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			fmt.Fprintln(w.options.Output, lipgloss.Red.Render(fmt.Sprintf("Watch error: %v", err)))

		case <-fire:
			fire = nil
			w.typeCheck(ctx)
		}
	}
}

// handleEvent applies event to the store and reports whether the program's
// view of the sources changed.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event, dirs directoryAdder) bool {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return w.handleNewDirectory(ctx, path, dirs)
		}
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		// a moved or deleted folder only reports itself
		removedBelow := w.store.RemoveUnder(path)
		if !w.matches(path) {
			return removedBelow
		}
		removed := w.store.Remove(path)
		return removed || removedBelow
	}

	if !w.matches(path) {
		return false
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		changed, err := w.store.Upsert(path, nil)
		if errors.Is(err, fs.ErrNotExist) {
			// deleted again before it could be read
			return w.store.Remove(path)
		}
		if err != nil {
			fmt.Fprintln(w.options.Output, lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return false
		}
		return changed
	}

	return false
}

// handleNewDirectory watches a created folder and loads the sources it
// already holds, such as after a checkout or a move.
func (w *Watcher) handleNewDirectory(ctx context.Context, path string, dirs directoryAdder) bool {
	if err := w.addDirectories(dirs, path); err != nil {
		fmt.Fprintln(w.options.Output, lipgloss.Red.Render(fmt.Sprintf("%v", err)))
	}

	var pending []<-chan models.UpsertResult
	_ = filepath.WalkDir(path, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if file != path && w.skipDirectory(file) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.matches(file) {
			pending = append(pending, w.store.UpsertAsync(ctx, file))
		}
		return nil
	})

	changed := false
	for _, results := range pending {
		result := <-results
		if result.Err != nil && !errors.Is(result.Err, fs.ErrNotExist) && ctx.Err() == nil {
			fmt.Fprintln(w.options.Output, lipgloss.Red.Render(fmt.Sprintf("%v", result.Err)))
			continue
		}
		changed = changed || result.Changed
	}
	return changed
}

// addDirectories registers root and every folder below it that is not
// ignored. fsnotify does not watch recursively.
func (w *Watcher) addDirectories(dirs directoryAdder, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDirectory(path) {
			return filepath.SkipDir
		}
		if err := dirs.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) skipDirectory(path string) bool {
	relativePath := w.relative(path)
	return utils.IsDefaultIgnored(relativePath) || utils.IsIgnored(relativePath+"/", w.ignorePatterns)
}

// matches reports whether path is a watched source that is not ignored.
func (w *Watcher) matches(path string) bool {
	relativePath := w.relative(path)
	if utils.IsDefaultIgnored(relativePath) || utils.IsIgnored(relativePath, w.ignorePatterns) {
		return false
	}
	for _, pattern := range w.options.Patterns {
		if match, _ := doublestar.Match(pattern, relativePath); match {
			return true
		}
	}
	return false
}

func (w *Watcher) relative(path string) string {
	relativePath, err := filepath.Rel(w.options.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(relativePath)
}

// typeCheck runs one pass. Failures are reported and the session goes on.
func (w *Watcher) typeCheck(ctx context.Context) {
	w.setState(TypeChecking)
	defer w.setState(Idle)

	if _, err := w.checker.TypeCheck(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(w.options.Output, lipgloss.Red.Render(fmt.Sprintf("Type check failed: %v", err)))
	}
}
