package renderer

import (
	"context"
	"sync"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/stats"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   Tile
	TaskID int
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Worker int
	Error  error
}

// tileFunc renders one tile with a worker's private sampler and recorder
type tileFunc func(tile Tile, sampler *core.RandomSampler, rec *stats.Recorder)

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	collector   *stats.Collector
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID      int
	sampler *core.RandomSampler
	rec     *stats.Recorder
	render  tileFunc
}

// NewWorkerPool creates a pool of numWorkers workers sized for numTasks
// tiles. Every worker gets a sampler derived from seed; the streams are
// reseeded per pixel sample, so which worker renders a tile is irrelevant.
func NewWorkerPool(render tileFunc, numWorkers, numTasks int, seed uint64, collector *stats.Collector) *WorkerPool {
	numWorkers = max(1, numWorkers)
	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, numTasks),
		resultQueue: make(chan TileResult, numTasks),
		collector:   collector,
	}
	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:      i,
			sampler: core.NewRandomSampler(seed),
			rec:     collector.Recorder(),
			render:  render,
		})
	}
	return wp
}

// Start begins all workers. Tasks dequeued after ctx is done are skipped
// and reported with the context error.
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, wp.taskQueue, wp.resultQueue, wp.collector, &wp.wg)
	}
}

// Stop gracefully shuts down all workers and waits for their recorders
// to be joined
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// Results returns the channel of completed tiles; it is closed by Stop
func (wp *WorkerPool) Results() <-chan TileResult {
	return wp.resultQueue
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return len(wp.workers)
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, tasks <-chan TileTask, results chan<- TileResult, collector *stats.Collector, wg *sync.WaitGroup) {
	defer wg.Done()
	defer collector.Join(w.rec)

	for task := range tasks {
		if err := ctx.Err(); err != nil {
			results <- TileResult{TaskID: task.TaskID, Worker: w.ID, Error: err}
			continue
		}
		stop := w.rec.Time("render tiles")
		w.render(task.Tile, w.sampler, w.rec)
		stop()
		results <- TileResult{TaskID: task.TaskID, Worker: w.ID}
	}
}
