// Package poll keeps an in-memory snapshot of a task directory fresh. Each
// cycle lists the directory, re-parses files whose modification time moved,
// drops files that disappeared and diffs task statuses against the previous
// cycle.
package poll

import (
	"cmp"
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/twiced-technology-gmbh/taskwatch/internal/filelock"
	"github.com/twiced-technology-gmbh/taskwatch/internal/task"
)

// DefaultInterval is the polling interval used when none is configured.
const DefaultInterval = 30 * time.Second

const defaultReadConcurrency = 8

// Options configures an Engine. Only Directory and Interval carry meaning
// for callers; the rest exist for wiring and tests.
type Options struct {
	// Directory is the task directory. Empty leaves the engine idle.
	Directory string
	// Interval between cycles. Zero means DefaultInterval.
	Interval time.Duration

	// Fs is the filesystem to read from. Nil means the OS filesystem.
	Fs      afero.Fs
	Logger  *slog.Logger
	Metrics *Metrics
	// Now is the clock used for change and poll timestamps.
	Now func() time.Time
	// ReadConcurrency bounds parallel file reads within a cycle.
	ReadConcurrency int
	// OnCycle, if set, is called after every committed cycle. It runs on the
	// polling goroutine and must not call Stop or Reset.
	OnCycle func(Result)
}

// Result summarizes one committed cycle.
type Result struct {
	Cycle    uint64
	Files    int
	Tasks    int
	Parsed   int
	Changes  int
	Errors   int
	Duration time.Duration
}

// Status is the engine's health as served to clients.
type Status struct {
	LastPollTime *time.Time `json:"lastPollTime" yaml:"lastPollTime"`
	FileCount    int        `json:"fileCount" yaml:"fileCount"`
	ErrorCount   int        `json:"errorCount" yaml:"errorCount"`
	Errors       []string   `json:"errors" yaml:"errors"`
	IsPolling    bool       `json:"isPolling" yaml:"isPolling"`
}

// Snapshot is a consistent view of the latest completed cycle.
type Snapshot struct {
	Directory string
	Cycle     uint64
	Tasks     []task.Task
	Sequences []task.Sequence
	Changes   []task.Change
	Status    Status
}

// Engine owns the parsed state of one task directory.
type Engine struct {
	fs              afero.Fs
	logger          *slog.Logger
	metrics         *Metrics
	now             func() time.Time
	readConcurrency int
	onCycle         func(Result)

	// cycleMu serializes PollOnce and Reset.
	cycleMu sync.Mutex
	trigger chan struct{}

	// mu guards the fields below.
	mu        sync.RWMutex
	directory string
	interval  time.Duration
	store     map[string]task.ParseResult
	mtimes    map[string]time.Time
	cycle     uint64
	errors    []string
	changes   []task.Change
	lastPoll  time.Time
	polling   bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates an idle engine. Call Start to begin polling.
func New(opts Options) *Engine {
	e := &Engine{
		fs:              opts.Fs,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		now:             opts.Now,
		readConcurrency: opts.ReadConcurrency,
		onCycle:         opts.OnCycle,
		trigger:         make(chan struct{}, 1),
		directory:       opts.Directory,
		interval:        opts.Interval,
		store:           map[string]task.ParseResult{},
		mtimes:          map[string]time.Time{},
	}
	if e.fs == nil {
		e.fs = afero.NewOsFs()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.readConcurrency <= 0 {
		e.readConcurrency = defaultReadConcurrency
	}
	if e.interval <= 0 {
		e.interval = DefaultInterval
	}
	return e
}

// Start runs a cycle immediately in the background and then one per interval
// until Stop. It does nothing when already polling or when no directory is
// configured.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startLocked()
}

func (e *Engine) startLocked() {
	if e.polling || e.directory == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.polling = true
	e.cancel = cancel
	e.done = make(chan struct{})
	go e.run(ctx, e.interval, e.done)
}

// Stop cancels the schedule and waits for an in-flight cycle to finish, so
// no cycle commits after Stop returns. It is safe to call repeatedly.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.cancel, e.done = nil, nil
	e.polling = false
	e.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Reset stops polling, switches to dir, discards all state and starts again.
// A non-positive interval keeps the current one.
func (e *Engine) Reset(dir string, interval time.Duration) {
	e.Stop()

	e.cycleMu.Lock()
	defer e.cycleMu.Unlock()

	e.mu.Lock()
	e.directory = dir
	if interval > 0 {
		e.interval = interval
	}
	e.store = map[string]task.ParseResult{}
	e.mtimes = map[string]time.Time{}
	e.cycle = 0
	e.lastPoll = time.Time{}
	e.errors = nil
	e.changes = nil
	e.startLocked()
	e.mu.Unlock()

	e.metrics.reset()
	e.logger.Info("poll engine reset", "directory", dir, "interval", e.Interval())
}

// Trigger asks the running schedule for an early cycle. Requests made while
// one is already pending are merged. It is a no-op when not polling.
func (e *Engine) Trigger() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

func (e *Engine) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	e.tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick(ctx)
		case <-e.trigger:
			e.tick(ctx)
		}
	}
}

func (e *Engine) tick(ctx context.Context) {
	if _, err := e.PollOnce(ctx); err != nil {
		e.logger.Debug("poll cycle abandoned", "error", err)
	}
}

// readOutcome is the result of reading and parsing one changed file.
type readOutcome struct {
	file   fileEntry
	result task.ParseResult
	err    error
}

// PollOnce runs a single cycle. Problems with the directory or individual
// files never fail the cycle; they are recorded in Status().Errors. The
// returned error is non-nil only when ctx ends before the cycle commits, in
// which case the snapshot is left as it was.
func (e *Engine) PollOnce(ctx context.Context) (Result, error) {
	e.cycleMu.Lock()
	defer e.cycleMu.Unlock()

	e.mu.RLock()
	dir := e.directory
	store := maps.Clone(e.store)
	mtimes := maps.Clone(e.mtimes)
	e.mu.RUnlock()

	if dir == "" {
		return Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	previous := indexTasks(store)
	errs := []string{}
	parsed := 0

	files, err := discover(e.fs, dir)
	if err != nil {
		errs = append(errs, "Directory error: "+err.Error())
		e.logger.Warn("listing task directory failed", "directory", dir, "error", err)
	} else {
		present := make(map[string]bool, len(files))
		for _, f := range files {
			present[f.name] = true
		}
		for name := range store {
			if !present[name] {
				delete(store, name)
				delete(mtimes, name)
			}
		}

		var stale []fileEntry
		for _, f := range files {
			if cached, ok := mtimes[f.name]; ok && cached.Equal(f.modTime) {
				continue
			}
			stale = append(stale, f)
		}

		outcomes, err := e.readAll(ctx, stale)
		if err != nil {
			return Result{}, err
		}

		for _, o := range outcomes {
			name := o.file.name
			if o.err != nil {
				errs = append(errs, describeReadError(name, o.err))
				continue
			}
			store[name] = o.result
			mtimes[name] = o.file.modTime
			parsed++
			for _, w := range o.result.Warnings {
				errs = append(errs, name+": "+w)
			}
		}
	}

	now := e.now()
	changes := diffStatuses(previous, store, now)

	e.mu.Lock()
	e.store = store
	e.mtimes = mtimes
	e.errors = errs
	e.changes = changes
	e.cycle++
	e.lastPoll = now
	res := Result{
		Cycle:    e.cycle,
		Files:    len(store),
		Tasks:    countTasks(store),
		Parsed:   parsed,
		Changes:  len(changes),
		Errors:   len(errs),
		Duration: time.Since(start),
	}
	e.mu.Unlock()

	e.metrics.observeCycle(res)
	e.logger.Debug("poll cycle complete",
		"cycle", res.Cycle,
		"files", res.Files,
		"tasks", res.Tasks,
		"parsed", res.Parsed,
		"changes", res.Changes,
		"errors", res.Errors,
		"duration", res.Duration,
	)
	if e.onCycle != nil {
		e.onCycle(res)
	}
	return res, nil
}

// readAll reads and parses files concurrently and returns one outcome per
// file in input order. Only context cancellation is returned as an error.
func (e *Engine) readAll(ctx context.Context, files []fileEntry) ([]readOutcome, error) {
	outcomes := make([]readOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.readConcurrency)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i].file = f
			content, err := afero.ReadFile(e.fs, f.path)
			if err != nil {
				outcomes[i].err = err
				return nil
			}
			outcomes[i].result = task.ParseAt(string(content), f.name, f.modTime)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func describeReadError(name string, err error) string {
	if filelock.IsContended(err) {
		return name + ": file locked, will retry next cycle"
	}
	return name + ": " + err.Error()
}

// indexTasks keys every stored task by task.Task.Key.
func indexTasks(store map[string]task.ParseResult) map[string]task.Task {
	index := make(map[string]task.Task)
	for _, res := range store {
		for _, t := range res.Tasks {
			index[t.Key()] = t
		}
	}
	return index
}

// diffStatuses reports tasks present in both previous and store whose status
// moved. Added and removed tasks are not changes.
func diffStatuses(previous map[string]task.Task, store map[string]task.ParseResult, now time.Time) []task.Change {
	changes := []task.Change{}
	for _, name := range sortedNames(store) {
		for _, t := range store[name].Tasks {
			prev, ok := previous[t.Key()]
			if !ok || prev.Status == t.Status {
				continue
			}
			changes = append(changes, task.Change{
				TaskID:         t.TaskID,
				PreviousStatus: prev.Status,
				NewStatus:      t.Status,
				ChangedAt:      now,
			})
		}
	}
	return changes
}

func countTasks(store map[string]task.ParseResult) int {
	n := 0
	for _, res := range store {
		n += len(res.Tasks)
	}
	return n
}

func sortedNames(store map[string]task.ParseResult) []string {
	return slices.Sorted(maps.Keys(store))
}

// Directory returns the watched directory, or "" when idle.
func (e *Engine) Directory() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.directory
}

// Interval returns the polling interval.
func (e *Engine) Interval() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.interval
}

// Cycle returns the number of committed cycles since the last reset.
func (e *Engine) Cycle() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cycle
}

// IsPolling reports whether the schedule is running.
func (e *Engine) IsPolling() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.polling
}

// Tasks returns every known task, files in name order and tasks in table
// order.
func (e *Engine) Tasks() []task.Task {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tasksLocked()
}

// Sequences returns one summary per file that has at least one task, sorted
// by sequence ID and then source file.
func (e *Engine) Sequences() []task.Sequence {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sequencesLocked()
}

// Changes returns the status transitions detected by the last cycle.
func (e *Engine) Changes() []task.Change {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.changesLocked()
}

// Status reports the engine's health.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.statusLocked()
}

// Snapshot returns all query results taken under a single read lock.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		Directory: e.directory,
		Cycle:     e.cycle,
		Tasks:     e.tasksLocked(),
		Sequences: e.sequencesLocked(),
		Changes:   e.changesLocked(),
		Status:    e.statusLocked(),
	}
}

func (e *Engine) tasksLocked() []task.Task {
	tasks := make([]task.Task, 0, countTasks(e.store))
	for _, name := range sortedNames(e.store) {
		tasks = append(tasks, e.store[name].Tasks...)
	}
	return tasks
}

func (e *Engine) sequencesLocked() []task.Sequence {
	seqs := make([]task.Sequence, 0, len(e.store))
	for _, res := range e.store {
		if len(res.Tasks) > 0 {
			seqs = append(seqs, res.Sequence)
		}
	}
	slices.SortFunc(seqs, func(a, b task.Sequence) int {
		return cmp.Or(
			cmp.Compare(a.SequenceID, b.SequenceID),
			cmp.Compare(a.SourceFile, b.SourceFile),
		)
	})
	return seqs
}

func (e *Engine) changesLocked() []task.Change {
	return append([]task.Change{}, e.changes...)
}

func (e *Engine) statusLocked() Status {
	st := Status{
		FileCount:  len(e.store),
		ErrorCount: len(e.errors),
		Errors:     append([]string{}, e.errors...),
		IsPolling:  e.polling,
	}
	if !e.lastPoll.IsZero() {
		t := e.lastPoll
		st.LastPollTime = &t
	}
	return st
}
