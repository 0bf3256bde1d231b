package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"voip-metrics-service/internal/jobs/core/domain"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	ErrInvalidHours = errors.New("hours must be between 1 and 168")
	ErrJobNotFound  = errors.New("job not found")
	ErrQueueClosed  = errors.New("job queue is closed")
)

const (
	DefaultHours = 24
	MaxHours     = 168
)

// Runner produces the result of one report job.
type Runner func(ctx context.Context, p domain.ReportParams, from, to time.Time) (any, error)

// JobStore keeps job snapshots until they expire.
type JobStore interface {
	Get(id string) (*domain.Job, bool)
	Set(id string, j *domain.Job)
}

type QueueConfig struct {
	Clock  clockwork.Clock
	Logger *slog.Logger
	// OnStatus is told about every status a job enters.
	OnStatus func(status domain.Status)
}

type ReportQueue struct {
	pool  pond.Pool
	store JobStore
	run   Runner
	cfg   QueueConfig
	ctx   context.Context

	submitted atomic.Int64
	started   atomic.Int64
	finished  atomic.Int64
	failed    atomic.Int64
}

// NewReportQueue runs jobs on pool. ctx is the parent of every job run.
func NewReportQueue(ctx context.Context, pool pond.Pool, store JobStore, run Runner, cfg QueueConfig) *ReportQueue {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ReportQueue{pool: pool, store: store, run: run, cfg: cfg, ctx: ctx}
}

// Enqueue validates p and schedules the job. It returns the task id.
func (q *ReportQueue) Enqueue(p domain.ReportParams) (string, error) {
	if p.Hours == 0 {
		p.Hours = DefaultHours
	}
	if p.Hours < 1 || p.Hours > MaxHours {
		return "", ErrInvalidHours
	}
	job := &domain.Job{
		ID:        uuid.NewString(),
		Status:    domain.StatusQueued,
		Params:    p,
		CreatedAt: q.cfg.Clock.Now().UTC(),
	}
	q.save(job)
	q.submitted.Add(1)

	task := q.pool.Submit(func() { q.execute(job) })
	if rejected(task) {
		q.submitted.Add(-1)
		closed := *job
		closed.Status = domain.StatusFailed
		closed.Error = ErrQueueClosed.Error()
		q.save(&closed)
		return "", ErrQueueClosed
	}

	q.cfg.Logger.Info("report job queued", "task_id", job.ID, "hours", p.Hours)
	return job.ID, nil
}

// rejected reports whether the pool refused the task. A stopped pool
// resolves the task immediately, so an unresolved task was accepted.
func rejected(task pond.Task) bool {
	select {
	case <-task.Done():
		return errors.Is(task.Wait(), pond.ErrPoolStopped)
	default:
		return false
	}
}

func (q *ReportQueue) Get(id string) (*domain.Job, error) {
	j, ok := q.store.Get(id)
	if !ok {
		return nil, ErrJobNotFound
	}
	return j, nil
}

func (q *ReportQueue) Stats() domain.Stats {
	started := q.started.Load()
	return domain.Stats{
		Queued:   q.submitted.Load() - started,
		Started:  started,
		Finished: q.finished.Load(),
		Failed:   q.failed.Load(),
	}
}

func (q *ReportQueue) execute(queued *domain.Job) {
	q.started.Add(1)

	startedAt := q.cfg.Clock.Now().UTC()
	running := *queued
	running.Status = domain.StatusInProgress
	running.StartedAt = &startedAt
	q.save(&running)

	to := startedAt
	from := to.Add(-time.Duration(queued.Params.Hours) * time.Hour)
	result, err := q.safeRun(queued.Params, from, to)

	finishedAt := q.cfg.Clock.Now().UTC()
	done := running
	done.FinishedAt = &finishedAt
	if err != nil {
		done.Status = domain.StatusFailed
		done.Error = err.Error()
		q.failed.Add(1)
		q.cfg.Logger.Error("report job failed", "task_id", done.ID, "error", err)
	} else {
		done.Status = domain.StatusComplete
		done.Result = result
		q.finished.Add(1)
		q.cfg.Logger.Info("report job complete", "task_id", done.ID, "took", finishedAt.Sub(startedAt))
	}
	q.save(&done)
}

// safeRun turns a panicking runner into a failed job.
func (q *ReportQueue) safeRun(p domain.ReportParams, from, to time.Time) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("report job panicked: %v", r)
		}
	}()
	return q.run(q.ctx, p, from, to)
}

// save notifies OnStatus before the snapshot becomes visible to readers.
func (q *ReportQueue) save(j *domain.Job) {
	if q.cfg.OnStatus != nil {
		q.cfg.OnStatus(j.Status)
	}
	q.store.Set(j.ID, j)
}
