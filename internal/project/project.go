// Package project is the orchestrator that owns one domain model, its
// undo/redo history, and the derived allocation cache. Every public
// operation runs strictly in sequence: interpret, rebuild the cache,
// persist. The GUI collaborator only ever issues commands and reads the
// cache through the accessor methods.
package project

import (
	"fmt"
	"time"

	"github.com/nhle/planboard/internal/command"
	"github.com/nhle/planboard/internal/history"
	"github.com/nhle/planboard/internal/metrics"
	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/internal/schedule"
)

// LogWriter is the persistence collaborator. It receives the committed
// command log after every successful mutation; a failed command is
// never persisted.
type LogWriter interface {
	WriteLog(applied int, entries []history.Entry) error
}

// Project owns the live model, history, and cache of one plan.
type Project struct {
	model   *model.Model
	history *history.History
	cache   *schedule.Cache
	writer  LogWriter
	metrics *metrics.Metrics
	offset  int
	now     func() time.Time
}

// Option configures a Project.
type Option func(*Project)

// WithLogWriter sets the persistence collaborator.
func WithLogWriter(w LogWriter) Option {
	return func(p *Project) { p.writer = w }
}

// WithDateOffset shifts the allocation start by n days from today.
func WithDateOffset(n int) Option {
	return func(p *Project) { p.offset = n }
}

// WithMetrics records engine metrics on the given collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Project) { p.metrics = m }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Project) { p.now = now }
}

// New returns an empty project with a freshly built (empty) cache.
func New(opts ...Option) *Project {
	p := &Project{
		model:   model.New(),
		history: history.New(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	p.model.SetNowFunc(p.now)
	p.rebuild()
	return p
}

// Invoke applies a new command, records it in the history, rebuilds the
// cache, and notifies the persistence collaborator.
func (p *Project) Invoke(details command.Details) error {
	err := p.history.Invoke(p.model, command.New(p.now(), details))
	if p.metrics != nil {
		p.metrics.Observe(metrics.OpInvoke, err)
	}
	if err != nil {
		return err
	}
	return p.commit()
}

// Undo reverts the most recent applied command.
func (p *Project) Undo() error {
	err := p.history.Undo(p.model)
	if p.metrics != nil {
		p.metrics.Observe(metrics.OpUndo, err)
	}
	if err != nil {
		return err
	}
	return p.commit()
}

// Redo re-applies the most recently undone command.
func (p *Project) Redo() error {
	err := p.history.Redo(p.model)
	if p.metrics != nil {
		p.metrics.Observe(metrics.OpRedo, err)
	}
	if err != nil {
		return err
	}
	return p.commit()
}

// CanUndo reports whether an undo is currently possible.
func (p *Project) CanUndo() bool {
	return p.history.CanUndo()
}

// CanRedo reports whether a redo is currently possible.
func (p *Project) CanRedo() bool {
	return p.history.CanRedo()
}

// Load rebuilds live state from a persisted log by replaying the first
// applied redo commands, then moves the id counters past every entity
// the replay created.
func (p *Project) Load(entries []history.Entry, applied int) error {
	m := model.New()
	m.SetNowFunc(p.now)
	h := history.New()
	if err := h.Restore(m, entries, applied); err != nil {
		return fmt.Errorf("loading command log: %w", err)
	}
	m.ResetCounters()
	p.model = m
	p.history = h
	p.rebuild()
	return nil
}

// commit rebuilds the cache and hands the committed log to the writer.
// The model is already consistent by the time either happens.
func (p *Project) commit() error {
	p.rebuild()
	if p.writer == nil {
		return nil
	}
	if err := p.writer.WriteLog(p.history.Applied(), p.history.Entries()); err != nil {
		return fmt.Errorf("persisting command log: %w", err)
	}
	return nil
}

func (p *Project) rebuild() {
	started := time.Now()
	p.cache = schedule.Build(p.model, model.DateOf(p.now()), p.offset)
	if p.metrics != nil {
		p.metrics.RebuildDuration.Observe(time.Since(started).Seconds())
	}
}

// Model exposes the live domain model for read-only rendering (entity
// names, priority lists, durations). Mutation goes through Invoke only.
func (p *Project) Model() *model.Model {
	return p.model
}

// --- Rendering read API ---

// NumDays returns the width of the visible window.
func (p *Project) NumDays() int {
	return p.cache.NumDays()
}

// Day maps a window index to its date.
func (p *Project) Day(index int) model.Date {
	return p.cache.Day(index)
}

// UnassignedTasks lists tasks without an assignee, in id order.
func (p *Project) UnassignedTasks() []model.TaskID {
	return p.cache.Unassigned
}

// Allocation returns the simulated fraction for a task on a date,
// whether the task is assigned or not.
func (p *Project) Allocation(task model.TaskID, date model.Date) int {
	if frac, ok := p.cache.Alloc[task][date]; ok {
		return frac
	}
	return p.cache.UnassignedAlloc[task][date]
}

// AbsenceFraction returns the absence occupancy for a resource on a date.
func (p *Project) AbsenceFraction(res model.ResourceID, date model.Date) int {
	return p.cache.Absences[res][date]
}

// ForeignWorklog returns the fraction a resource logged on a date
// against tasks assigned to someone else.
func (p *Project) ForeignWorklog(res model.ResourceID, date model.Date) int {
	return p.cache.ForeignWork[res][date]
}

// MilestonesOn returns the milestone titles on a date.
func (p *Project) MilestonesOn(date model.Date) []string {
	return p.cache.Milestones[date]
}
