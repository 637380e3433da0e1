package scheduler

import (
	"context"
	"time"

	"calligraphy-cms/internal/infra/logger"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
)

// Job is one periodic sweep.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
}

// Manager runs every registered Job on a fixed interval, one run at a time
// per job.
type Manager struct {
	scheduler gocron.Scheduler
	interval  time.Duration
	log       *logger.Logger
}

func NewManager(interval time.Duration, log *logger.Logger) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, "create scheduler")
	}
	if log == nil {
		log = logger.Default()
	}
	return &Manager{scheduler: s, interval: interval, log: log}, nil
}

func (m *Manager) Register(jobs ...Job) error {
	for _, job := range jobs {
		job := job
		_, err := m.scheduler.NewJob(
			gocron.DurationJob(m.interval),
			gocron.NewTask(func() { m.run(job) }),
			gocron.WithName(job.Name()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return errors.Wrapf(err, "register job %s", job.Name())
		}
	}
	return nil
}

func (m *Manager) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	start := time.Now()
	if err := job.Execute(ctx); err != nil {
		m.log.Error("job %s failed: %v", job.Name(), err)
		return
	}
	m.log.Debug("job %s done in %s", job.Name(), time.Since(start))
}

// JobNames lists the registered jobs.
func (m *Manager) JobNames() []string {
	var out []string
	for _, j := range m.scheduler.Jobs() {
		out = append(out, j.Name())
	}
	return out
}

func (m *Manager) Start() {
	m.scheduler.Start()
	m.log.Info("scheduler started, interval %s", m.interval)
}

func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		m.log.Error("scheduler shutdown: %v", err)
	}
	m.log.Info("scheduler stopped")
}
