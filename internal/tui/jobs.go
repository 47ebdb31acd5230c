package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type jobKind string

const (
	jobKindSubmit  jobKind = "submit"
	jobKindImport  jobKind = "import"
	jobKindHistory jobKind = "history"
)

type jobStatus string

const (
	jobRunning   jobStatus = "running"
	jobSucceeded jobStatus = "succeeded"
	jobFailed    jobStatus = "failed"
	jobCanceled  jobStatus = "canceled"
)

type jobInfo struct {
	ID      string
	Kind    jobKind
	Status  jobStatus
	Started time.Time
	Elapsed time.Duration
	Err     string
}

// jobStartedMsg is delivered before the runner is scheduled.
type jobStartedMsg struct {
	job jobInfo
}

// jobFinishedMsg carries the runner's payload once it returns.
type jobFinishedMsg struct {
	job     jobInfo
	payload tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus runs blocking work outside the update loop. Every job gets its own
// context derived from the bus so quitting can abandon in-flight work.
type jobBus struct {
	base   context.Context
	logger *zap.Logger

	mu      sync.Mutex
	seq     int
	cancels map[string]context.CancelFunc
}

func newJobBus(ctx context.Context, logger *zap.Logger) *jobBus {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jobBus{
		base:    ctx,
		logger:  logger.Named("jobs"),
		cancels: map[string]context.CancelFunc{},
	}
}

func (b *jobBus) register(kind jobKind) (string, context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	id := fmt.Sprintf("%s-%d", kind, b.seq)
	ctx, cancel := context.WithCancel(b.base)
	b.cancels[id] = cancel
	return id, ctx
}

func (b *jobBus) release(id string) {
	b.mu.Lock()
	cancel, ok := b.cancels[id]
	delete(b.cancels, id)
	b.mu.Unlock()
	if ok {
		cancel()
	}
}

// Active reports how many jobs have been started and not yet returned.
func (b *jobBus) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cancels)
}

// CancelAll cancels every in-flight job. Runners still deliver their result.
func (b *jobBus) CancelAll() {
	b.mu.Lock()
	cancels := b.cancels
	b.cancels = map[string]context.CancelFunc{}
	b.mu.Unlock()
	for id, cancel := range cancels {
		b.logger.Debug("job canceled", zap.String("id", id))
		cancel()
	}
}

func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	announce, run := b.prepare(kind, runner)
	return tea.Sequence(announce, run)
}

// prepare registers the job and returns the command announcing it and the
// command running it.
func (b *jobBus) prepare(kind jobKind, runner jobRunner) (tea.Cmd, tea.Cmd) {
	id, ctx := b.register(kind)
	started := time.Now()
	info := jobInfo{ID: id, Kind: kind, Status: jobRunning, Started: started}

	announce := func() tea.Msg { return jobStartedMsg{job: info} }
	run := func() tea.Msg {
		payload, err := runner(ctx)
		done := info
		done.Elapsed = time.Since(started)
		switch {
		case err == nil:
			done.Status = jobSucceeded
		case errors.Is(err, context.Canceled) || ctx.Err() != nil:
			done.Status = jobCanceled
			done.Err = err.Error()
		default:
			done.Status = jobFailed
			done.Err = err.Error()
		}
		b.release(id)

		fields := []zap.Field{
			zap.String("id", id),
			zap.String("kind", string(kind)),
			zap.String("status", string(done.Status)),
			zap.Duration("elapsed", done.Elapsed),
		}
		if err != nil {
			b.logger.Warn("job finished", append(fields, zap.Error(err))...)
		} else {
			b.logger.Debug("job finished", fields...)
		}
		return jobFinishedMsg{job: done, payload: payload}
	}
	return announce, run
}
