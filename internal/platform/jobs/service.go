package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"leavetrack/internal/domain/leave"
	"leavetrack/internal/platform/metrics"
)

const JobCarryForward = "leave_carry_forward"

// CarryForwardRunner is the single periodic job the engine carries: the
// yearly balance roll.
type CarryForwardRunner interface {
	RunCarryForward(ctx context.Context, now time.Time) (leave.CarryForwardSummary, error)
}

type Service struct {
	DB      *pgxpool.Pool
	Runner  CarryForwardRunner
	Metrics *metrics.Collector
	queue   chan job
}

type result struct {
	details any
	err     error
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
	done chan result
}

func New(db *pgxpool.Pool, runner CarryForwardRunner) *Service {
	return &Service{
		DB:     db,
		Runner: runner,
		queue:  make(chan job, 16),
	}
}

// Start launches the single worker and the carry-forward schedule. One
// worker drains the queue, so at most one job instance runs system-wide
// at a time; the job's own skip-on-exists logic keeps even overlapping
// invocations safe.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	go s.worker(ctx)
	if interval > 0 {
		go s.scheduleCarryForward(ctx, interval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

// RunNow submits a job and waits for its result. It goes through the same
// queue as scheduled runs, so an admin trigger can never overlap one.
func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	j := job{Type: jobType, Run: run, done: make(chan result, 1)}
	select {
	case s.queue <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-j.done:
		return res.details, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			details, err := s.runJob(ctx, j)
			if j.done != nil {
				j.done <- result{details: details, err: err}
				continue
			}
			if err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if s.DB != nil {
		if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, $2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
			slog.Warn("job run insert failed", "err", err)
		}
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	if j.Type == JobCarryForward {
		s.Metrics.RecordCarryForwardRun()
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleCarryForward(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobCarryForward, func(ctx context.Context) (any, error) {
				return s.Runner.RunCarryForward(ctx, time.Now())
			})
		}
	}
}
