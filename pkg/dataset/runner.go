package dataset

import (
	"sync"

	"github.com/sirupsen/logrus"

	"lesionprep/internal/models"
	"lesionprep/pkg/preprocess"
)

// Result is the outcome of preprocessing one dataset entry. Exactly one of
// Sample and Err is meaningful.
type Result struct {
	// Index is the dataset position this result belongs to.
	Index int

	// Sample is the fully preprocessed sample when Err is nil.
	Sample models.Sample

	// Err is the load or stage error that rejected this entry.
	Err error
}

// Runner fans a dataset out over a fixed number of workers, pushing every
// entry through one shared pipeline. Samples are independent, so the only
// coordination is distributing indices and collecting results; the pipeline
// itself is read-only after construction and shared by all workers.
//
// A per-sample failure is reported in its Result and does not stop the run.
// Deciding whether a failure is fatal belongs to the caller.
type Runner struct {
	dataset  *Dataset
	pipeline *preprocess.Pipeline
	workers  int
	log      *logrus.Logger
}

// NewRunner creates a runner over the given dataset and pipeline. A worker
// count below 1 is treated as 1.
func NewRunner(ds *Dataset, pipeline *preprocess.Pipeline, workers int, log *logrus.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logrus.New()
	}
	return &Runner{
		dataset:  ds,
		pipeline: pipeline,
		workers:  workers,
		log:      log,
	}
}

// Run processes every dataset entry and returns the results ordered by
// dataset index.
func (r *Runner) Run() []Result {
	indices := make(chan int)
	results := make([]Result, r.dataset.Count())

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range indices {
				results[idx] = r.processOne(idx)
			}
		}(w)
	}

	for idx := 0; idx < r.dataset.Count(); idx++ {
		indices <- idx
	}
	close(indices)
	wg.Wait()

	return results
}

func (r *Runner) processOne(idx int) Result {
	sample, err := r.dataset.Sample(idx)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"index": idx,
			"image": r.dataset.ImageName(idx),
		}).WithError(err).Warn("failed to load sample")
		return Result{Index: idx, Err: err}
	}

	processed, err := r.pipeline.Apply(sample)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"index": idx,
			"image": sample.Name,
		}).WithError(err).Warn("failed to preprocess sample")
		return Result{Index: idx, Err: err}
	}

	return Result{Index: idx, Sample: processed}
}
