package probe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akbstat/void-probe/convert"
	"github.com/akbstat/void-probe/internal/config"
	"github.com/akbstat/void-probe/internal/pdftest"
)

// chunkDivider writes n fragments per source.
type chunkDivider struct{ n int }

func (d chunkDivider) Divide(src string, pageSize int, outDir string) ([]string, error) {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	var parts []string
	for i := 1; i <= d.n; i++ {
		part := filepath.Join(outDir, fmt.Sprintf("%s_part_%04d.rtf", name, i))
		if err := os.WriteFile(part, []byte(fmt.Sprintf("chunk %d", i)), 0o644); err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// fakeConverter renders a one-page PDF per source. The second chunk of a
// divided source loses its letterhead.
func fakeConverter(t *testing.T) convert.Converter {
	return convert.ConverterFunc(func(src, dst string) error {
		base := filepath.Base(src)
		if strings.HasPrefix(base, "f-broken") {
			return errors.New("renderer crashed")
		}
		page := pdftest.TextPage("AKESO BIOPHARMA", base)
		if strings.HasSuffix(base, "_part_0002.rtf") {
			page = pdftest.TextPage(base)
		}
		pdftest.Write(t, filepath.Dir(dst), filepath.Base(dst), page)
		return nil
	})
}

func writeSource(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
	return path
}

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	sources := []string{
		writeSource(t, dir, "l-x.rtf", 2048),
		writeSource(t, dir, "t-y.rtf", 10),
	}

	cfg := config.Default()
	cfg.SplitSize = "1KB"
	cfg.Workers = 2
	logger, _ := test.NewNullLogger()
	p := &Pipeline{Config: cfg, Converter: fakeConverter(t), Divider: chunkDivider{n: 3}, Logger: logger}

	out, err := p.Run(sources)
	require.NoError(t, err)
	require.NoError(t, out.MergeErr)

	assert.Len(t, out.Conversions, 4)
	for _, r := range out.Conversions {
		assert.Equal(t, convert.Converted, r.Status, r.Job.Source)
	}

	require.Len(t, out.Reports, 2)
	assert.Equal(t, &Report{File: "l-x.pdf", Pages: 3, Void: []int{2}}, out.Reports[0])
	assert.Equal(t, &Report{File: "t-y.pdf", Pages: 1, Void: []int{}}, out.Reports[1])

	assert.NoDirExists(t, filepath.Join(dir, WorkDirName))
}

func TestPipelineKeepTempAndFailures(t *testing.T) {
	dir := t.TempDir()
	sources := []string{
		writeSource(t, dir, "f-broken.rtf", 10),
		writeSource(t, dir, "t-ok.rtf", 10),
	}

	cfg := config.Default()
	cfg.KeepTemp = true
	cfg.Workers = 1
	logger, _ := test.NewNullLogger()
	p := &Pipeline{Config: cfg, Converter: fakeConverter(t), Logger: logger}

	out, err := p.Run(sources)
	require.NoError(t, err)

	// one worker: the failure abandons the rest of its batch
	require.Len(t, out.Conversions, 2)
	assert.Equal(t, convert.Failed, out.Conversions[0].Status)
	assert.Equal(t, convert.Skipped, out.Conversions[1].Status)
	assert.Empty(t, out.Reports)

	assert.DirExists(t, filepath.Join(dir, WorkDirName))
	assert.FileExists(t, filepath.Join(dir, WorkDirName, "t-ok.rtf"))
}

func TestPipelineRejectsNonRTF(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "notes.txt", 1)
	logger, _ := test.NewNullLogger()
	_, err := (&Pipeline{Converter: fakeConverter(t), Logger: logger}).Run([]string{src})
	assert.Error(t, err)

	out, err := (&Pipeline{Logger: logger}).Run(nil)
	require.NoError(t, err)
	assert.Empty(t, out.Reports)
}

func TestSources(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.rtf", 1)
	b := writeSource(t, dir, "b.rtf", 1)
	writeSource(t, dir, "c.pdf", 1)

	got, err := Sources([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, got)

	got, err = Sources([]string{b})
	require.NoError(t, err)
	assert.Equal(t, []string{b}, got)
}
