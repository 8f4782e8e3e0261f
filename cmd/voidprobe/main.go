// Command voidprobe audits report PDFs for pages that lost their
// letterhead.
//
// Usage:
//
//	voidprobe run [-format text|json] <dir|file.rtf>...
//	voidprobe check [-format text|json] <file.pdf>...
//	voidprobe merge [-o dir] <dir>
//	voidprobe lines <file.pdf>
//	voidprobe dump [-raw] <file.pdf> <page>
//
// Settings are read from the environment, see internal/config.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/midbel/hexdump"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	voidprobe "github.com/akbstat/void-probe"
	"github.com/akbstat/void-probe/format"
	"github.com/akbstat/void-probe/internal/config"
	"github.com/akbstat/void-probe/merge"
	"github.com/akbstat/void-probe/probe"
	"github.com/akbstat/void-probe/reader"
)

// errFlagged makes the process exit with status 1 without another message.
var errFlagged = errors.New("pages without letterhead found")

type command struct {
	usage string
	run   func(cfg *config.Config, log *logrus.Logger, args []string) error
}

var commands = map[string]command{
	"run":   {"run [-format text|json] <dir|file.rtf>...", runAudit},
	"check": {"check [-format text|json] <file.pdf>...", runCheck},
	"merge": {"merge [-o dir] <dir>", runMerge},
	"lines": {"lines <file.pdf>", runLines},
	"dump":  {"dump [-raw] <file.pdf> <page>", runDump},
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	for _, name := range []string{"run", "check", "merge", "lines", "dump"} {
		fmt.Fprintln(os.Stderr, "  voidprobe", commands[name].usage)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := newLogger(cfg)

	if err := cmd.run(cfg, log, os.Args[2:]); err != nil {
		if !errors.Is(err, errFlagged) {
			log.Error(err)
		}
		os.Exit(1)
	}
}

// newLogger logs to stderr: colored text on a terminal, JSON otherwise.
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.Level())
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func runAudit(cfg *config.Config, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	output := fs.String("format", "text", "report format: text or json")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("run: no sources given")
	}
	exp, err := probe.NewExporter(*output)
	if err != nil {
		return err
	}

	out, err := voidprobe.FromConfig(cfg).Logger(log).Run(fs.Args()...)
	if err != nil {
		return err
	}
	if err := exp.Export(os.Stdout, out.Reports); err != nil {
		return err
	}
	if out.MergeErr != nil {
		return out.MergeErr
	}
	return flagged(out.Reports)
}

func runCheck(cfg *config.Config, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	output := fs.String("format", "text", "report format: text or json")
	fs.Parse(args)
	exp, err := probe.NewExporter(*output)
	if err != nil {
		return err
	}

	rule := probe.Rule{Contains: cfg.Contains, Prefixes: cfg.Prefixes}
	var reports []*probe.Report
	for _, path := range fs.Args() {
		rep, err := checkFile(path, rule)
		if err != nil {
			log.WithField("file", path).WithError(err).Error("check failed")
			rep = probe.NewReport(path)
			rep.Error = err.Error()
		}
		for _, w := range rep.Warnings {
			log.WithField("file", path).Warn(w)
		}
		reports = append(reports, rep)
	}
	if err := exp.Export(os.Stdout, reports); err != nil {
		return err
	}
	return flagged(reports)
}

func checkFile(path string, rule probe.Rule) (*probe.Report, error) {
	f, err := format.DetectFile(path)
	if err != nil {
		return nil, err
	}
	if f != format.PDF {
		return nil, fmt.Errorf("%s is not a PDF file", path)
	}
	return probe.Check(path, rule)
}

func flagged(reports []*probe.Report) error {
	for _, r := range reports {
		if !r.OK() {
			return errFlagged
		}
	}
	return nil
}

func runMerge(cfg *config.Config, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	dest := fs.String("o", "", "output directory (default: the fragment directory)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("merge: want one directory")
	}
	dir := fs.Arg(0)
	if *dest == "" {
		*dest = dir
	}
	groups, err := (&merge.Merger{Logger: log}).CombineDir(dir, *dest)
	for _, g := range groups {
		fmt.Println(g.Output(*dest))
	}
	return err
}

func runLines(cfg *config.Config, log *logrus.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("lines: want one PDF file")
	}
	pages, warnings, err := voidprobe.Open(args[0]).Lines()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Warn(w)
	}
	for i, rows := range pages {
		fmt.Printf("--- page %d ---\n", i+1)
		for _, row := range rows {
			fmt.Println(row)
		}
	}
	return nil
}

func runDump(cfg *config.Config, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	raw := fs.Bool("raw", false, "dump the stored bytes instead of the decoded content")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("dump: want a PDF file and a page number")
	}
	page, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("dump: invalid page %q", fs.Arg(1))
	}

	r, err := reader.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	var body []byte
	if *raw {
		body, err = r.RawContent(page)
	} else {
		body, err = r.Content(page)
	}
	if err != nil {
		return err
	}
	fmt.Println(hexdump.Dump(body))
	return nil
}
