package voidprobe

import (
	"github.com/sirupsen/logrus"

	"github.com/akbstat/void-probe/convert"
	"github.com/akbstat/void-probe/internal/config"
	"github.com/akbstat/void-probe/probe"
)

// Auditor configures a full audit run: divide, convert, merge and check.
// Like Extractor, each configuration method returns a new instance.
type Auditor struct {
	cfg       config.Config
	converter convert.Converter
	divider   probe.Divider
	logger    logrus.FieldLogger
}

// New returns an Auditor with the default configuration.
//
// Example:
//
//	out, err := voidprobe.New().
//	    Workers(4).
//	    Converter(myConverter).
//	    Run(sources...)
func New() *Auditor {
	return &Auditor{cfg: *config.Default()}
}

// FromConfig returns an Auditor using cfg.
func FromConfig(cfg *config.Config) *Auditor {
	return &Auditor{cfg: *cfg}
}

func (a *Auditor) clone() *Auditor {
	c := *a
	c.cfg.Contains = append([]string(nil), a.cfg.Contains...)
	c.cfg.Prefixes = append([]string(nil), a.cfg.Prefixes...)
	return &c
}

// Workers sets the number of concurrent conversions.
func (a *Auditor) Workers(n int) *Auditor {
	c := a.clone()
	c.cfg.Workers = n
	return c
}

// PageSize sets the number of pages per fragment when dividing.
func (a *Auditor) PageSize(n int) *Auditor {
	c := a.clone()
	c.cfg.PageSize = n
	return c
}

// SplitSize sets the source size above which a source is divided, e.g. "10MB".
func (a *Auditor) SplitSize(size string) *Auditor {
	c := a.clone()
	c.cfg.SplitSize = size
	return c
}

// Letterhead replaces the markers a title row may contain.
func (a *Auditor) Letterhead(contains ...string) *Auditor {
	c := a.clone()
	c.cfg.Contains = append([]string(nil), contains...)
	return c
}

// LetterheadPrefix replaces the markers a title row may start with.
func (a *Auditor) LetterheadPrefix(prefixes ...string) *Auditor {
	c := a.clone()
	c.cfg.Prefixes = append([]string(nil), prefixes...)
	return c
}

// KeepTemp leaves the work directory in place after the run.
func (a *Auditor) KeepTemp() *Auditor {
	c := a.clone()
	c.cfg.KeepTemp = true
	return c
}

// Converter sets the RTF to PDF converter. Without one, the configured
// command line is run.
func (a *Auditor) Converter(conv convert.Converter) *Auditor {
	c := a.clone()
	c.converter = conv
	return c
}

// Divider sets the collaborator that splits large sources.
func (a *Auditor) Divider(d probe.Divider) *Auditor {
	c := a.clone()
	c.divider = d
	return c
}

// Logger sets the logger; the default is logrus.StandardLogger().
func (a *Auditor) Logger(l logrus.FieldLogger) *Auditor {
	c := a.clone()
	c.logger = l
	return c
}

// Run validates the configuration and audits sources, which may be RTF
// files or directories holding them.
func (a *Auditor) Run(sources ...string) (*probe.Outcome, error) {
	cfg := a.cfg
	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}
	files, err := probe.Sources(sources)
	if err != nil {
		return nil, err
	}
	p := &probe.Pipeline{
		Config:    &cfg,
		Converter: a.converter,
		Divider:   a.divider,
		Logger:    a.logger,
	}
	return p.Run(files)
}
