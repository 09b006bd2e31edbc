package tracer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Execution statistics for a scheduler worker.
type WorkerStat struct {
	// The number of tasks executed by the worker.
	Tasks int

	// Time spent executing tasks.
	BusyTime time.Duration
}

// The task scheduler executes a list of submitted tasks using a bounded pool
// of workers. Workers pull the next unclaimed task from the shared list so
// that uneven task costs are balanced automatically.
//
// Tasks must not be submitted while a run is in progress.
type TaskScheduler struct {
	threads int
	tasks   []func()

	// Worker statistics for the last run.
	stats []WorkerStat
}

// Create a new scheduler that uses up to threads workers. Values below 1
// are treated as 1.
func NewTaskScheduler(threads int) *TaskScheduler {
	return &TaskScheduler{
		threads: max(threads, 1),
		tasks:   make([]func(), 0),
	}
}

// Append a task to the pending task list.
func (sch *TaskScheduler) Submit(task func()) {
	sch.tasks = append(sch.tasks, task)
}

// Get the number of pending tasks.
func (sch *TaskScheduler) Pending() int {
	return len(sch.tasks)
}

// Execute all pending tasks and block until every task has completed.
func (sch *TaskScheduler) RunToCompletion() {
	sch.RunContext(context.Background())
}

// Execute pending tasks and block until all workers have exited. Once ctx
// is done workers stop claiming new tasks; tasks already in flight run to
// completion. It returns ctx.Err() if the run was interrupted before every
// task was claimed.
//
// Task panics are not recovered.
func (sch *TaskScheduler) RunContext(ctx context.Context) error {
	tasks := sch.tasks
	sch.tasks = make([]func(), 0)

	numWorkers := min(sch.threads, len(tasks))
	sch.stats = make([]WorkerStat, numWorkers)
	if numWorkers == 0 {
		return nil
	}

	var (
		wg      sync.WaitGroup
		next    int64 = -1
		claimed int64
	)

	wg.Add(numWorkers)
	for workerIndex := 0; workerIndex < numWorkers; workerIndex++ {
		go func(stat *WorkerStat) {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}

				taskIndex := atomic.AddInt64(&next, 1)
				if taskIndex >= int64(len(tasks)) {
					return
				}
				atomic.AddInt64(&claimed, 1)

				start := time.Now()
				tasks[taskIndex]()
				stat.BusyTime += time.Since(start)
				stat.Tasks++
			}
		}(&sch.stats[workerIndex])
	}
	wg.Wait()

	if claimed < int64(len(tasks)) {
		return ctx.Err()
	}
	return nil
}

// Get the worker statistics for the last run.
func (sch *TaskScheduler) Stats() []WorkerStat {
	return sch.stats
}
