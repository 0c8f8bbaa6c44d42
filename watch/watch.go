package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/rasi/lang"
	"github.com/ardnew/rasi/theme"
)

// ErrWatch reports a failure to observe the theme files.
var ErrWatch = lang.NewError("watch theme")

// Event announces that a new snapshot was published.
type Event struct {
	Generation uint64
}

// Watcher keeps a [theme.Tree] in sync with the files it was built from.
//
// The published snapshot is replaced atomically; readers call [Watcher.Snapshot]
// and query the returned Tree without locking.
type Watcher struct {
	paths []string
	cfg   config

	tree      atomic.Pointer[theme.Tree]
	gen       atomic.Uint64
	requested atomic.Uint64

	mu   sync.Mutex // serializes rebuilds; guards hash
	hash uint64

	trigger chan struct{}

	subMu  sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// New loads the theme files at paths, in increasing precedence, and returns
// a Watcher publishing the result. It fails if the initial load fails.
// Call [Watcher.Run] to begin following changes.
func New(ctx context.Context, paths []string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		paths:   make([]string, len(paths)),
		cfg:     makeConfig(opts...),
		trigger: make(chan struct{}, 1),
		subs:    make(map[int]chan Event),
	}

	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, ErrWatch.Wrap(err).With(slog.String("file", p))
		}

		w.paths[i] = abs
	}

	err := w.Reload(ctx)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// Snapshot returns the most recently published Tree.
func (w *Watcher) Snapshot() *theme.Tree { return w.tree.Load() }

// Generation returns the number of snapshots published so far.
func (w *Watcher) Generation() uint64 { return w.gen.Load() }

// Paths returns the absolute paths of the watched files.
func (w *Watcher) Paths() []string { return slices.Clone(w.paths) }

// Reload rebuilds the theme now, serialized with any rebuild started by
// [Watcher.Run]. On failure the current snapshot stays published and the
// error is returned as well as reported to the error handler.
func (w *Watcher) Reload(ctx context.Context) error {
	return w.rebuild(ctx, w.requested.Add(1))
}

// Subscribe registers for change notifications. Each subscriber has a
// one-slot buffer holding the latest undelivered event; a slow subscriber
// sees only the newest generation. The returned function unsubscribes and
// closes the channel.
func (w *Watcher) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 1)

	w.subMu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = ch
	w.subMu.Unlock()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			w.subMu.Lock()
			delete(w.subs, id)
			close(ch)
			w.subMu.Unlock()
		})
	}
}

// Run follows changes to the theme files until ctx is done. File events are
// debounced, and a single worker rebuilds the theme; a rebuild overtaken by
// a newer change discards its result.
//
// The parent directory of each file is watched, so files replaced by rename
// are followed too.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer fsw.Close()

	dirs := make([]string, len(w.paths))
	for i, p := range w.paths {
		dirs[i] = filepath.Dir(p)
	}

	slices.Sort(dirs)

	for _, dir := range slices.Compact(dirs) {
		err = fsw.Add(dir)
		if err != nil {
			return ErrWatch.Wrap(err).With(slog.String("dir", dir))
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	defer wg.Wait()

	wg.Go(func() { w.work(ctx) })

	w.cfg.logger.InfoContext(ctx, "watching theme",
		slog.Any("files", w.paths),
		slog.Duration("debounce", w.cfg.debounce),
	)

	debounce := time.NewTimer(w.cfg.debounce)
	debounce.Stop()

	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			if !w.relevant(ev) {
				continue
			}

			w.cfg.logger.TraceContext(ctx, "file event",
				slog.String("file", ev.Name),
				slog.String("op", ev.Op.String()),
			)

			debounce.Reset(w.cfg.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}

			w.fail(ctx, ErrWatch.Wrap(err))

		case <-debounce.C:
			w.requested.Add(1)

			select {
			case w.trigger <- struct{}{}:
			default: // a rebuild is already pending
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}

	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}

	return slices.Contains(w.paths, name)
}

// work runs rebuilds requested through the trigger channel.
func (w *Watcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case <-w.trigger:
			_ = w.rebuild(ctx, w.requested.Load())
		}
	}
}

// rebuild loads and publishes the theme on behalf of request seq. The result
// is discarded if a newer request arrived in the meantime.
func (w *Watcher) rebuild(ctx context.Context, seq uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()

	sources, err := theme.ReadSources(ctx, w.paths)
	if err != nil {
		w.failed(ctx, seq, err)

		return err
	}

	sum := hashSources(sources)
	if w.tree.Load() != nil && sum == w.hash {
		w.cfg.logger.DebugContext(ctx, "theme unchanged")

		return nil
	}

	// Every saved revision is parsed once, so caching them would only grow.
	opts := append([]theme.Option{
		theme.WithLogger(w.cfg.logger),
		theme.WithCache(false),
	}, w.cfg.theme...)

	tree, err := theme.Compile(ctx, sources, opts...)
	if err != nil {
		w.failed(ctx, seq, err)

		return err
	}

	if w.superseded(ctx, seq) {
		return nil
	}

	w.hash = sum
	w.tree.Store(tree)
	gen := w.gen.Add(1)

	w.cfg.logger.InfoContext(ctx, "theme loaded",
		slog.Uint64("generation", gen),
		slog.Duration("elapsed", time.Since(start)),
	)

	w.notify(Event{Generation: gen})

	return nil
}

func (w *Watcher) notify(ev Event) {
	w.subMu.Lock()
	defer w.subMu.Unlock()

	for _, ch := range w.subs {
		// Replace an undelivered event with the newer one.
		select {
		case <-ch:
		default:
		}

		select {
		case ch <- ev:
		default:
		}
	}
}

// superseded reports whether a newer request than seq has arrived.
func (w *Watcher) superseded(ctx context.Context, seq uint64) bool {
	latest := w.requested.Load()
	if seq == latest {
		return false
	}

	w.cfg.logger.DebugContext(ctx, "rebuild superseded",
		slog.Uint64("request", seq),
		slog.Uint64("latest", latest),
	)

	return true
}

// failed reports err unless the rebuild for seq was already superseded, in
// which case the newer rebuild decides what is reported.
func (w *Watcher) failed(ctx context.Context, seq uint64, err error) {
	if !w.superseded(ctx, seq) {
		w.fail(ctx, err)
	}
}

func (w *Watcher) fail(ctx context.Context, err error) {
	w.cfg.logger.WarnContext(ctx, "theme reload failed", slog.Any("error", err))

	if w.cfg.onError != nil {
		w.cfg.onError(err)
	}
}

func hashSources(sources []theme.Source) uint64 {
	h := xxh3.New()

	for _, src := range sources {
		_, _ = h.WriteString(src.Name)
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(src.Data)
		_, _ = h.Write([]byte{0})
	}

	return h.Sum64()
}
