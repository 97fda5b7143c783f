// Package workers runs supervised background goroutines. Workers are small
// and unprotected; the supervisor recovers panics and restarts them.
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

var errWorkerPanic = fmt.Errorf("worker panic")

// Worker is a long-running task. It returns nil when finished for good and
// an error when it should be restarted.
type Worker interface {
	Run(ctx context.Context) error
}

// workerName uses reflection so workers do not carry naming boilerplate.
func workerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Supervisor runs each worker in its own goroutine, recovers panics and
// restarts crashed workers after a delay. A failure in one worker never stops
// the supervisor itself.
type Supervisor struct {
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	log             *slog.Logger
	restartInterval time.Duration
	workers         []Worker
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	return &Supervisor{log: log, restartInterval: restartInterval}
}

func (s *Supervisor) Add(worker ...Worker) *Supervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Start launches every registered worker under supervision. It returns
// immediately; Stop cancels the workers and waits for them to drain.
func (s *Supervisor) Start(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for _, worker := range s.workers {
		s.supervise(supervisedCtx, worker)
	}
}

func (s *Supervisor) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Supervisor) supervise(ctx context.Context, worker Worker) {
	s.wg.Add(1)
	name := workerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info("Worker stopped", "name", name)
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%w: %v", errWorkerPanic, r)
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				s.log.Info("Worker finished", "name", name)
				return
			}
			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", name)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", name, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.restartInterval):
			}
		}
	}()
}
