package convert

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeJobs(n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{Source: fmt.Sprintf("j%02d.rtf", i), Destination: fmt.Sprintf("j%02d.pdf", i)}
	}
	return jobs
}

func TestPartition(t *testing.T) {
	for _, tt := range []struct{ jobs, workers int }{
		{0, 6}, {1, 6}, {5, 6}, {6, 6}, {7, 6}, {13, 6}, {100, 7}, {10, 1}, {4, 0},
	} {
		t.Run(fmt.Sprintf("%d jobs %d workers", tt.jobs, tt.workers), func(t *testing.T) {
			jobs := makeJobs(tt.jobs)
			batches := Partition(jobs, tt.workers)

			var flat []Job
			lo, hi := tt.jobs, 0
			for _, b := range batches {
				flat = append(flat, b...)
				if len(b) < lo {
					lo = len(b)
				}
				if len(b) > hi {
					hi = len(b)
				}
			}
			assert.Len(t, flat, tt.jobs)
			if tt.jobs > 0 {
				assert.Equal(t, jobs, flat, "batches keep job order")
				assert.LessOrEqual(t, hi-lo, 1)
			}
			assert.LessOrEqual(t, len(batches), max(tt.workers, 1))
		})
	}
}

func TestDispatcherRun(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]bool)
	conv := ConverterFunc(func(src, dst string) error {
		mu.Lock()
		seen[src] = true
		mu.Unlock()
		if src == "j01.rtf" {
			return errors.New("boom")
		}
		return nil
	})

	logger, hook := test.NewNullLogger()
	d := &Dispatcher{Workers: 3, Converter: conv, Logger: logger}
	// batches: [j00 j01 j02] [j03 j04] [j05 j06]
	results := d.Run(makeJobs(7))
	require.Len(t, results, 7)

	want := []Status{Converted, Failed, Skipped, Converted, Converted, Converted, Converted}
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("j%02d.rtf", i), r.Job.Source)
		assert.Equal(t, want[i], r.Status, "job %d", i)
	}
	assert.False(t, seen["j02.rtf"], "abandoned job must not run")
	assert.Equal(t, 0, results[0].Worker)
	assert.Equal(t, 2, results[6].Worker)

	var ce *ConversionError
	require.True(t, errors.As(results[1].Err, &ce))
	assert.Equal(t, "j01.rtf", ce.Job.Source)
	assert.Len(t, Failures(results), 1)

	var errorsLogged int
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, "conversion failed") {
			errorsLogged++
		}
	}
	assert.Equal(t, 1, errorsLogged)
}

func TestDispatcherBoundsConcurrency(t *testing.T) {
	var running, peak int32
	conv := ConverterFunc(func(src, dst string) error {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil
	})

	logger, _ := test.NewNullLogger()
	results := (&Dispatcher{Workers: 4, Converter: conv, Logger: logger}).Run(makeJobs(20))
	for _, r := range results {
		assert.Equal(t, Converted, r.Status)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(4))
}

func TestDispatcherNoJobs(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := &Dispatcher{Converter: ConverterFunc(func(string, string) error { return nil }), Logger: logger}
	assert.Empty(t, d.Run(nil))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "converted", Converted.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
