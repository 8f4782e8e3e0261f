package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/akbstat/void-probe/format"
)

// Job converts one source document into Destination.
type Job struct {
	Source      string
	Destination string
}

// Status is the outcome of one job.
type Status int

const (
	// Skipped jobs were abandoned after an earlier job of the same batch
	// failed.
	Skipped Status = iota
	Converted
	Failed
)

func (s Status) String() string {
	switch s {
	case Converted:
		return "converted"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result records what happened to a job and which worker ran it.
type Result struct {
	Job    Job
	Status Status
	Err    error
	Worker int
}

// ConversionError reports a failed conversion.
type ConversionError struct {
	Job Job
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.Job.Source, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// JobsInDir returns one job per .rtf file in dir, sorted by file name. The
// destination is the same name with a .pdf extension. When dir names a
// single .rtf file, that file is the only job.
func JobsInDir(dir string) ([]Job, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !isRTF(dir) {
			return nil, fmt.Errorf("%s is not an RTF file", dir)
		}
		return []Job{jobFor(dir)}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var jobs []Job
	for _, e := range entries {
		if e.IsDir() || !isRTF(e.Name()) {
			continue
		}
		jobs = append(jobs, jobFor(filepath.Join(dir, e.Name())))
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Source < jobs[j].Source })
	return jobs, nil
}

func isRTF(name string) bool {
	return format.Detect(name) == format.RTF
}

func jobFor(src string) Job {
	return Job{Source: src, Destination: strings.TrimSuffix(src, filepath.Ext(src)) + ".pdf"}
}
