package systems

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/core"
)

var (
	ErrNoWorkers           = errors.New("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = errors.New("attempting to create worker pool with a negative channel size")
	ErrJobSystemStopped    = errors.New("job system is shut down")
)

/**
 * @brief A unit of background work. Run executes on a worker; exactly one
 * of OnComplete or OnFailure follows, on the same worker.
 */
type JobTask struct {
	Name       string
	Run        func() error
	OnComplete func()
	OnFailure  func(err error)
}

/**
 * @brief A fixed pool of workers draining a job queue. With a single worker
 * jobs run in submission order, which is what file writes rely on.
 */
type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job JobTask) {
	err := job.Run()
	if err != nil {
		core.LogError("job %q failed: %s", job.Name, err)
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
		return
	}
	core.LogDebug("job %q done", job.Name)
	if job.OnComplete != nil {
		job.OnComplete()
	}
}

/**
 * @brief Queues the job, blocking while the queue is full.
 * @return ErrJobSystemStopped once Shutdown has been called.
 */
func (js *JobSystem) Submit(job JobTask) error {
	js.mu.RLock()
	defer js.mu.RUnlock()

	if js.stopped {
		return errors.Wrapf(ErrJobSystemStopped, "job %q", job.Name)
	}
	js.jobQueue <- job
	return nil
}

/**
 * @brief Shuts the job system down. Queued jobs still run; Shutdown returns
 * once all of them are done.
 */
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	if js.stopped {
		js.mu.Unlock()
		return nil
	}
	js.stopped = true
	close(js.jobQueue)
	js.mu.Unlock()

	js.wg.Wait()
	return nil
}
