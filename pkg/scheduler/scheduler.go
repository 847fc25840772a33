package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"photo-triage/pkg/logger"
)

// Task is one unit of scheduled work. It gets a context that is
// cancelled when the scheduler stops.
type Task func(ctx context.Context) error

type EventScheduler interface {
	Start()
	Stop()
	AddJob(id, cronExpr string, task Task) error
	RemoveJob(id string) error
	RunNow(id string) error
	ListJobs() []JobInfo
	IsRunning() bool
}

type JobInfo struct {
	ID        string     `json:"id"`
	CronExpr  string     `json:"cron"`
	Runs      int        `json:"runs"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	LastError string     `json:"lastError,omitempty"`
	NextRun   *time.Time `json:"nextRun,omitempty"`
}

type job struct {
	info JobInfo
	task Task
	ref  *gocron.Job
}

type GocronScheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*job
	mu        sync.RWMutex
	running   bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewEventScheduler() EventScheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	ctx, cancel := context.WithCancel(context.Background())
	return &GocronScheduler{
		scheduler: s,
		jobs:      make(map[string]*job),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *GocronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		logger.SchedulerWarn("start", "Scheduler is already running", nil)
		return
	}
	s.scheduler.StartAsync()
	s.running = true
	logger.Scheduler("started", "Event scheduler started", map[string]interface{}{"jobs": len(s.jobs)})
}

func (s *GocronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cancel()
	s.scheduler.Stop()
	s.running = false
	logger.Scheduler("stopped", "Event scheduler stopped", nil)
}

func (s *GocronScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *GocronScheduler) AddJob(id, cronExpr string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job with ID %s already exists", id)
	}

	j := &job{info: JobInfo{ID: id, CronExpr: cronExpr}, task: task}
	ref, err := s.scheduler.Cron(cronExpr).Do(func() { s.run(j) })
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}
	j.ref = ref
	s.jobs[id] = j

	logger.Scheduler("job_added", "Job added", map[string]interface{}{"job_id": id, "cron_expr": cronExpr})
	return nil
}

func (s *GocronScheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job with ID %s not found", id)
	}
	s.scheduler.RemoveByReference(j.ref)
	delete(s.jobs, id)
	logger.Scheduler("job_removed", "Job removed", map[string]interface{}{"job_id": id})
	return nil
}

// RunNow executes a job synchronously outside its schedule.
func (s *GocronScheduler) RunNow(id string) error {
	s.mu.RLock()
	j, exists := s.jobs[id]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job with ID %s not found", id)
	}
	return s.run(j)
}

func (s *GocronScheduler) run(j *job) error {
	start := time.Now()
	err := j.task(s.ctx)

	s.mu.Lock()
	j.info.Runs++
	j.info.LastRun = &start
	j.info.LastError = ""
	if err != nil {
		j.info.LastError = err.Error()
	}
	s.mu.Unlock()

	data := map[string]interface{}{"job_id": j.info.ID, "duration": time.Since(start).String()}
	if err != nil {
		logger.SchedulerError("job_failed", "Job failed", err, data)
	} else {
		logger.Scheduler("job_done", "Job finished", data)
	}
	return err
}

func (s *GocronScheduler) ListJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		info := j.info
		if info.LastRun != nil {
			last := *info.LastRun
			info.LastRun = &last
		}
		if j.ref != nil {
			next := j.ref.NextRun()
			if !next.IsZero() {
				info.NextRun = &next
			}
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

// ValidateCronExpression reports whether gocron accepts cronExpr.
func ValidateCronExpression(cronExpr string) error {
	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Cron(cronExpr).Do(func() {}); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
