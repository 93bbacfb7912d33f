// Package utils holds small pieces of infrastructure shared across the
// wire-protocol transports: a generic tomb-supervised worker pool used
// by the OE session manager.
package utils

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 100

// WorkerFunction processes a single task; t is the owning tomb, used to
// notice shutdown mid-task.
type WorkerFunction = func(t *tomb.Tomb, task any) error

// WorkerPool runs up to n instances of a WorkerFunction concurrently,
// each picking up tasks from a shared channel. Grounded on the
// teacher's internal/worker.go, pulled out of package server so the OE
// and MD transports can both depend on it without depending on each
// other.
type WorkerPool struct {
	n     int
	tasks chan any
	work  WorkerFunction
}

// NewWorkerPool creates a pool sized for n concurrent workers.
func NewWorkerPool(size int) WorkerPool {
	return WorkerPool{
		tasks: make(chan any, taskChanSize),
		n:     size,
	}
}

// AddTask enqueues a task for the next free worker to pick up.
func (pool *WorkerPool) AddTask(task any) {
	pool.tasks <- task
}

// Setup spawns and maintains up to pool.n concurrent workers under t
// until t starts dying.
func (pool *WorkerPool) Setup(t *tomb.Tomb, work WorkerFunction) {
	pool.work = work
	log.Info().Int("activeWorkers", pool.n).Msg("adding workers")
	activeWorkers := 0
	for {
		select {
		case <-t.Dying():
			return
		default:
			if activeWorkers < pool.n {
				t.Go(func() error {
					err := pool.worker(t)
					activeWorkers--
					return err
				})
				activeWorkers++
			}
		}
	}
}

// worker waits for one task, runs it, then returns so Setup can replace
// it — this keeps activeWorkers an honest count of in-flight work
// rather than long-lived goroutines that block forever on the channel.
func (pool *WorkerPool) worker(t *tomb.Tomb) error {
	select {
	case <-t.Dying():
		return nil
	case task := <-pool.tasks:
		if err := pool.work(t, task); err != nil {
			log.Error().Err(err).Msg("worker exiting")
			return err
		}
	}
	return nil
}
