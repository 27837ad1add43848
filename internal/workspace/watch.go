package workspace

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"codedom/internal/trace"
)

// DefaultDebounce is used when neither WatchOptions nor the manifest set one.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions tune Watch. Zero values fall back to the manifest's [watch]
// section.
type WatchOptions struct {
	Debounce time.Duration
	// Exclude holds base-name globs of inputs whose changes are ignored.
	Exclude []string
}

// Watch rebuilds the workspace whenever one of its inputs changes and hands
// each outcome to onReload. It blocks until ctx is done.
func (w *Workspace) Watch(ctx context.Context, opts WatchOptions, onReload func(*Snapshot, error)) error {
	if onReload == nil {
		return errors.New("workspace.Watch: nil callback")
	}
	snap := w.Snapshot()
	if snap == nil {
		return errors.New("workspace.Watch: workspace not loaded")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = time.Duration(snap.Manifest.Config.Watch.DebounceMS) * time.Millisecond
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if len(opts.Exclude) == 0 {
		opts.Exclude = snap.Manifest.Config.Watch.Exclude
	}
	excludes, err := compileGlobs(opts.Exclude)
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	inputs := newInputSet(excludes)
	if err := inputs.sync(fsw, snap.Inputs); err != nil {
		return err
	}

	d := newDebouncer(opts.Debounce)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !inputs.relevant(ev) {
				continue
			}
			trace.Point(trace.FromContext(ctx), trace.ScopePhase, "watch:event", ev.String(), trace.ParentID(ctx))
			d.schedule(ev.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			onReload(nil, err)
		case changed := <-d.fired:
			_, span := trace.Start(ctx, trace.ScopePhase, "watch:rebuild")
			next, err := w.Rebuild(ctx)
			if err == nil {
				// inputs may have changed with the manifest
				err = inputs.sync(fsw, next.Inputs)
			}
			span.Attr("changed", filepath.Base(changed[0])).Attr("files", strconv.Itoa(len(changed))).Fail(err)
			onReload(next, err)
		}
	}
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// inputSet tracks the files a snapshot was built from. Their directories are
// watched rather than the files, so editors that replace files by rename
// are still noticed.
type inputSet struct {
	excludes []glob.Glob
	files    map[string]bool
	dirs     map[string]bool
}

func newInputSet(excludes []glob.Glob) *inputSet {
	return &inputSet{excludes: excludes, files: map[string]bool{}, dirs: map[string]bool{}}
}

func (s *inputSet) sync(fsw *fsnotify.Watcher, paths []string) error {
	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		files[p] = true
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if s.dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			return err
		}
	}
	for dir := range s.dirs {
		if !dirs[dir] {
			_ = fsw.Remove(dir)
		}
	}
	s.files, s.dirs = files, dirs
	return nil
}

func (s *inputSet) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if !s.files[name] {
		return false
	}
	base := filepath.Base(name)
	for _, g := range s.excludes {
		if g.Match(base) {
			return false
		}
	}
	return true
}

// debouncer collects paths and fires once no new path arrived for delay.
type debouncer struct {
	delay time.Duration
	fired chan []string

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, fired: make(chan []string, 1), pending: make(map[string]struct{})}
}

func (d *debouncer) schedule(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	clear(d.pending)
	d.mu.Unlock()
	if len(paths) == 0 {
		return
	}
	select {
	case d.fired <- paths:
	default:
		// a rebuild is already queued and will see these changes too
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
