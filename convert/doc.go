// Package convert runs document conversions on a bounded pool of workers.
//
// Jobs are split by [Partition] into one contiguous batch per worker. Each
// worker owns its batch and converts the jobs in order; when a conversion
// fails the worker records a [*ConversionError] and marks the rest of its
// batch [Skipped]. [Dispatcher.Run] returns once all workers are done, with
// one [Result] per job.
//
//	conv, err := convert.NewCommandConverter("")
//	if err != nil {
//	    return err
//	}
//	jobs, err := convert.JobsInDir(dir)
//	if err != nil {
//	    return err
//	}
//	d := &convert.Dispatcher{Workers: 6, Converter: conv}
//	for _, r := range d.Run(jobs) {
//	    fmt.Println(r.Job.Source, r.Status)
//	}
package convert
