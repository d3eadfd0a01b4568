package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Scheduler struct {
	jobs     []job
	now      func() time.Time
	stopOnce sync.Once
}

type job struct {
	name string
	h, m int
	f    func(context.Context) error
	stop chan struct{}
}

func New() *Scheduler { return &Scheduler{now: time.Now} }

// AddDaily runs f every day at atHHMM local time once Start is called.
func (s *Scheduler) AddDaily(name, atHHMM string, f func(context.Context) error) error {
	h, m, err := parseHHMM(atHHMM)
	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}
	s.jobs = append(s.jobs, job{name: name, h: h, m: m, f: f, stop: make(chan struct{})})
	return nil
}

func (s *Scheduler) Start() {
	for i := range s.jobs {
		j := s.jobs[i]
		go func() {
			for {
				d := nextAt(s.now(), j.h, j.m).Sub(s.now())
				t := time.NewTimer(d)
				select {
				case <-t.C:
					start := time.Now()
					if err := j.f(context.Background()); err != nil {
						log.Error().Err(err).Str("job", j.name).Msg("job failed")
						continue
					}
					log.Info().Str("job", j.name).Dur("dur", time.Since(start)).Msg("job done")
				case <-j.stop:
					t.Stop()
					return
				}
			}
		}()
	}
}

// Stop ends all job loops. Calling it more than once is a no-op.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		for _, j := range s.jobs {
			close(j.stop)
		}
	})
}

func parseHHMM(hhmm string) (int, int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q, want HH:MM", hhmm)
	}
	return t.Hour(), t.Minute(), nil
}

func nextAt(now time.Time, h, m int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
