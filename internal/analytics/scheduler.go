package analytics

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Pipeline states. A pipeline moves Idle → Running → Idle on success and
// Idle → Running → Failed on error; Failed does not block the next tick,
// a single missed window is an accepted data gap.
const (
	stateIdle int32 = iota
	stateRunning
	stateFailed
)

// pipeline is one independently ticking aggregation job with an overlap
// guard: a tick that arrives while the previous run is still in flight is
// skipped with a warning instead of racing over the same window.
type pipeline struct {
	name  string
	run   func() error
	state atomic.Int32
}

func newPipeline(name string, run func() error) *pipeline {
	return &pipeline{name: name, run: run}
}

func (p *pipeline) tick() {
	if !p.state.CompareAndSwap(stateIdle, stateRunning) &&
		!p.state.CompareAndSwap(stateFailed, stateRunning) {
		log.Printf("⚠️ %s pipeline still running, skipping tick", p.name)
		return
	}

	if err := p.run(); err != nil {
		if IsTransient(err) {
			log.Printf("❌ %s pipeline failed (will retry on next tick): %v", p.name, err)
		} else {
			log.Printf("❌ %s pipeline failed: %v", p.name, err)
		}
		p.state.Store(stateFailed)
		return
	}

	p.state.Store(stateIdle)
}

// Scheduler owns the three periodic pipelines. The three tick independently
// and may run concurrently with each other; each one individually is
// non-reentrant. Constructed once at startup with its dependencies injected,
// never a process-wide global.
type Scheduler struct {
	cron     *cron.Cron
	realtime *pipeline
	hourly   *pipeline
	daily    *pipeline

	dailyRunHour int
}

func NewScheduler(service *Service, dailyRunHour int) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		realtime:     newPipeline("realtime", service.RunRealtime),
		hourly:       newPipeline("hourly", service.RunHourly),
		daily:        newPipeline("daily", service.RunDaily),
		dailyRunHour: dailyRunHour,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("*/5 * * * *", s.realtime.tick); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("0 * * * *", s.hourly.tick); err != nil {
		return err
	}

	// The daily pipeline aggregates the just-completed calendar day well
	// after midnight, so late-arriving completions are already settled.
	dailySpec := fmt.Sprintf("0 %d * * *", s.dailyRunHour)
	if _, err := s.cron.AddFunc(dailySpec, s.daily.tick); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Analytics scheduler started (realtime every 5m, hourly on the hour, daily at", fmt.Sprintf("%02d:00 UTC)", s.dailyRunHour))

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Analytics scheduler stopped")
}

// RunNow ticks all three pipelines synchronously; used at development
// startup and for manual backfills.
func (s *Scheduler) RunNow() {
	s.realtime.tick()
	s.hourly.tick()
	s.daily.tick()
}
