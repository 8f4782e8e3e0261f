package convert

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultWorkers is the pool size used when Dispatcher.Workers is not set.
const DefaultWorkers = 6

// Converter turns the document at src into a PDF at dst.
type Converter interface {
	Convert(src, dst string) error
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(src, dst string) error

// Convert calls f(src, dst).
func (f ConverterFunc) Convert(src, dst string) error { return f(src, dst) }

// Dispatcher runs jobs on a fixed pool of workers.
type Dispatcher struct {
	Workers   int
	Converter Converter
	Logger    logrus.FieldLogger
}

// Partition splits jobs into at most n contiguous batches whose sizes
// differ by at most one, earlier batches being the larger. Order is kept
// within and across batches.
func Partition(jobs []Job, n int) [][]Job {
	if n < 1 {
		n = 1
	}
	if n > len(jobs) {
		n = len(jobs)
	}
	batches := make([][]Job, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		size := len(jobs) / n
		if i < len(jobs)%n {
			size++
		}
		batches = append(batches, jobs[start:start+size])
		start += size
	}
	return batches
}

// Run converts jobs and blocks until every worker has finished. Each
// worker receives one batch and processes it in order; after its first
// failure it abandons the rest of the batch. The result slice is parallel
// to jobs.
func (d *Dispatcher) Run(jobs []Job) []Result {
	workers := d.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	log := d.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	results := make([]Result, len(jobs))
	batches := Partition(jobs, workers)
	log.WithFields(logrus.Fields{
		"jobs":    len(jobs),
		"workers": len(batches),
	}).Debug("dispatching conversions")

	var wg sync.WaitGroup
	offset := 0
	for id, batch := range batches {
		inbox := make(chan []Job, 1)
		inbox <- batch
		close(inbox)

		wg.Add(1)
		go func(id int, out []Result) {
			defer wg.Done()
			d.work(id, <-inbox, out, log.WithField("worker", id))
		}(id, results[offset:offset+len(batch)])
		offset += len(batch)
	}
	wg.Wait()
	return results
}

// work fills out, which is parallel to batch and owned by this worker.
func (d *Dispatcher) work(id int, batch []Job, out []Result, log logrus.FieldLogger) {
	failed := false
	for i, job := range batch {
		out[i] = Result{Job: job, Worker: id}
		if failed {
			continue
		}
		start := time.Now()
		if err := d.Converter.Convert(job.Source, job.Destination); err != nil {
			out[i].Status = Failed
			out[i].Err = &ConversionError{Job: job, Err: err}
			log.WithField("job", job.Source).WithError(err).Error("conversion failed, abandoning batch")
			failed = true
			continue
		}
		out[i].Status = Converted
		log.WithFields(logrus.Fields{
			"job":     job.Source,
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Debug("converted")
	}
}

// Failures returns the errors of the failed results.
func Failures(results []Result) []error {
	var errs []error
	for _, r := range results {
		if r.Status == Failed {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
