package probe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/akbstat/void-probe/convert"
	"github.com/akbstat/void-probe/format"
	"github.com/akbstat/void-probe/internal/config"
	"github.com/akbstat/void-probe/merge"
)

// WorkDirName is the directory, next to the first source, that holds the
// intermediate files of a run.
const WorkDirName = ".temp"

// Divider splits an RTF document into fragments of at most pageSize pages,
// written to outDir as <name>_part_<nnnn>.rtf. It returns the fragment
// paths.
type Divider interface {
	Divide(src string, pageSize int, outDir string) ([]string, error)
}

// Outcome is the result of a pipeline run.
type Outcome struct {
	Reports     []*Report
	Conversions []convert.Result
	// MergeErr joins the errors of groups that could not be merged.
	MergeErr error
}

// Pipeline checks RTF outputs end to end: divide large sources, convert
// to PDF, merge fragments, then check every resulting PDF.
type Pipeline struct {
	Config    *config.Config
	Converter convert.Converter
	Divider   Divider
	Logger    logrus.FieldLogger
}

func (p *Pipeline) logger() logrus.FieldLogger {
	if p.Logger == nil {
		return logrus.StandardLogger()
	}
	return p.Logger
}

func (p *Pipeline) config() *config.Config {
	if p.Config == nil {
		return config.Default()
	}
	return p.Config
}

// Rule returns the letterhead rule of the configuration.
func (p *Pipeline) Rule() Rule {
	cfg := p.config()
	return Rule{Contains: cfg.Contains, Prefixes: cfg.Prefixes}
}

// Run processes sources, which must be RTF files. Conversion and merge
// failures do not stop the run; they are reported in the Outcome.
func (p *Pipeline) Run(sources []string) (*Outcome, error) {
	out := &Outcome{}
	if len(sources) == 0 {
		return out, nil
	}
	cfg := p.config()
	log := p.logger()

	conv := p.Converter
	if conv == nil {
		c, err := convert.NewCommandConverter(cfg.Converter)
		if err != nil {
			return nil, err
		}
		conv = c
	}

	work := filepath.Join(filepath.Dir(sources[0]), WorkDirName)
	if err := os.MkdirAll(work, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	if !cfg.KeepTemp {
		defer func() {
			if err := os.RemoveAll(work); err != nil {
				log.WithField("dir", work).WithError(err).Warn("failed to remove work directory")
			}
		}()
	}
	log = log.WithField("dir", work)

	if err := p.stage(sources, work, log); err != nil {
		return nil, err
	}

	jobs, err := convert.JobsInDir(work)
	if err != nil {
		return nil, err
	}
	d := &convert.Dispatcher{Workers: cfg.Workers, Converter: conv, Logger: log}
	out.Conversions = d.Run(jobs)
	if n := len(convert.Failures(out.Conversions)); n > 0 {
		log.Warnf("%d of %d conversions failed", n, len(jobs))
	}

	m := &merge.Merger{Logger: log}
	if _, err := m.CombineDir(work, work); err != nil {
		out.MergeErr = err
	}

	pdfs, err := filepath.Glob(filepath.Join(work, "*.pdf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(pdfs)
	rule := p.Rule()
	for _, path := range pdfs {
		rep, err := Check(path, rule)
		if err != nil {
			log.WithField("file", filepath.Base(path)).WithError(err).Error("check failed")
			rep = NewReport(path)
			rep.Error = err.Error()
		}
		rep.File = filepath.Base(path)
		out.Reports = append(out.Reports, rep)
	}
	return out, nil
}

// stage puts the sources into the work directory, divided when they are
// larger than the split size.
func (p *Pipeline) stage(sources []string, work string, log logrus.FieldLogger) error {
	cfg := p.config()
	split := cfg.SplitBytes()
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return err
		}
		if info.IsDir() || format.Detect(src) != format.RTF {
			return fmt.Errorf("%s is not an RTF file", src)
		}

		if p.Divider != nil && split > 0 && info.Size() > split {
			parts, err := p.Divider.Divide(src, cfg.PageSize, work)
			if err != nil {
				return fmt.Errorf("divide %s: %w", src, err)
			}
			log.WithFields(logrus.Fields{"file": filepath.Base(src), "parts": len(parts)}).Info("divided source")
			continue
		}
		if err := copyFile(src, filepath.Join(work, filepath.Base(src))); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}

// Sources returns the RTF files named by args: files are taken as they
// are and directories contribute the .rtf files they contain.
func Sources(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		jobs, err := convert.JobsInDir(arg)
		if err != nil {
			return nil, err
		}
		for _, j := range jobs {
			out = append(out, j.Source)
		}
	}
	return out, nil
}
