// Package watcher ingests documents dropped into a directory.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/core/ports/driving"
	"github.com/custodia-labs/bizrag/internal/logger"
)

const defaultDebounce = 500 * time.Millisecond

var watchLog = logger.Scoped("watcher")

// ErrClosed is returned when starting a watcher that has been closed.
var ErrClosed = errors.New("watcher closed")

// Filter reports whether a file can be ingested.
// extractors.Registry satisfies it.
type Filter interface {
	Supports(path string) bool
}

// ReportHandler receives the outcome of every ingestion the watcher runs.
type ReportHandler func(report *domain.IngestReport, err error)

// Watcher ingests supported files created or written under a root directory.
// Events are debounced per path so an editor save or a slow copy is
// ingested once.
type Watcher struct {
	rag      driving.RAGService
	tenant   domain.TenantID
	root     string
	filter   Filter
	debounce time.Duration
	onReport ReportHandler

	mu      sync.Mutex
	timers  map[string]*time.Timer
	fsw     *fsnotify.Watcher
	started bool
	closed  bool

	ready     chan string
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithReportHandler registers a callback for ingestion results.
func WithReportHandler(h ReportHandler) Option {
	return func(w *Watcher) {
		w.onReport = h
	}
}

// New creates a watcher that ingests files under root into tenant.
func New(rag driving.RAGService, tenant domain.TenantID, root string, filter Filter, opts ...Option) *Watcher {
	w := &Watcher{
		rag:      rag,
		tenant:   tenant,
		root:     filepath.Clean(root),
		filter:   filter,
		debounce: defaultDebounce,
		timers:   make(map[string]*time.Timer),
		ready:    make(chan string, 64),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Scan ingests every supported file already present under the root.
func (w *Watcher) Scan(ctx context.Context) (*domain.IngestReport, error) {
	paths, err := w.collect(w.root)
	if err != nil {
		return nil, err
	}

	watchLog.Info("initial scan of %s: %d files", w.root, len(paths))
	report, err := w.rag.ProcessDocuments(ctx, w.tenant, paths)
	w.report(report, err)
	return report, err
}

// Start begins watching. Events are processed on a background goroutine
// until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.started {
		return errors.New("watcher already started")
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.addTree(fsw, w.root); err != nil {
		_ = fsw.Close()
		return err
	}

	w.fsw = fsw
	w.started = true
	w.wg.Add(1)
	go w.loop(ctx)

	watchLog.Info("watching %s for tenant %s", w.root, w.tenant)
	return nil
}

// Run starts the watcher and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Close()
}

// Close stops the watcher and releases the underlying notify handle.
// Pending debounced files are dropped.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		for path, t := range w.timers {
			t.Stop()
			delete(w.timers, path)
		}
		fsw := w.fsw
		w.mu.Unlock()

		close(w.stop)
		w.wg.Wait()

		if fsw != nil {
			err = fsw.Close()
		}
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			watchLog.Warn("notify error: %v", err)
		case path := <-w.ready:
			w.ingest(ctx, path)
		}
	}
}

// handleEvent watches new directories and schedules accepted files.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) && !w.isHidden(event.Name) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(w.fsw, event.Name); err != nil {
				watchLog.Warn("watching %s: %v", event.Name, err)
			}
			paths, err := w.collect(event.Name)
			if err != nil {
				watchLog.Warn("scanning %s: %v", event.Name, err)
			}
			for _, p := range paths {
				w.schedule(p)
			}
			return
		}
	}

	if path, ok := w.acceptEvent(event); ok {
		w.schedule(path)
	}
}

// acceptEvent reports whether the event names a supported, visible regular
// file that was created or written.
func (w *Watcher) acceptEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if w.isHidden(event.Name) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	if !w.filter.Supports(event.Name) {
		watchLog.Debug("skipping unsupported file %s", event.Name)
		return "", false
	}
	return event.Name, true
}

// schedule (re)arms the debounce timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-w.stop:
		}
	})
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	watchLog.Debug("ingesting %s", path)
	report, err := w.rag.ProcessDocuments(ctx, w.tenant, []string{path})
	if err != nil {
		watchLog.Warn("ingesting %s: %v", path, err)
	} else {
		for _, f := range report.Failures {
			watchLog.Warn("%s: %s: %s", f.Path, f.Kind, f.Message)
		}
	}
	w.report(report, err)
}

func (w *Watcher) report(report *domain.IngestReport, err error) {
	if w.onReport != nil {
		w.onReport(report, err)
	}
}

// addTree watches dir and every visible subdirectory.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.isHidden(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// collect returns the supported visible files under dir in lexical order.
func (w *Watcher) collect(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != w.root && w.isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && w.filter.Supports(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return paths, nil
}

// isHidden checks the part of path below the root, so a root that itself
// lives in a dot directory still works.
func (w *Watcher) isHidden(path string) bool {
	if rel, err := filepath.Rel(w.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		path = rel
	}
	return isHidden(path)
}

// isHidden reports whether any segment of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
