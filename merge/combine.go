package merge

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/akbstat/void-probe/core"
)

// Merger merges fragment groups into output documents.
type Merger struct {
	// Logger receives progress; nil means logrus.StandardLogger().
	Logger logrus.FieldLogger
	// KeepParts leaves the fragment files in place after a merge.
	KeepParts bool
}

func (m *Merger) logger() logrus.FieldLogger {
	if m.Logger == nil {
		return logrus.StandardLogger()
	}
	return m.Logger
}

// Combine merges the fragments of g into <destDir>/<g.Name>.pdf and then
// deletes the fragments. The output is replaced atomically, so running
// Combine again after an interrupted run rewrites the same file.
func (m *Merger) Combine(g Group, destDir string) error {
	log := m.logger().WithFields(logrus.Fields{
		"group": g.Name,
		"parts": len(g.Parts),
	})
	if len(g.Parts) == 0 {
		return &MergeError{Group: g.Name, Reason: "no fragments"}
	}

	docs := make([]*core.Document, 0, len(g.Parts))
	for _, path := range g.Parts {
		doc, err := core.Load(path)
		if err != nil {
			return &MergeError{Group: g.Name, Reason: "load " + filepath.Base(path), Err: err}
		}
		log.WithField("file", filepath.Base(path)).Debugf("loaded fragment with %d objects", len(doc.Objects))
		docs = append(docs, doc)
	}

	merged, err := Merge(docs...)
	if err != nil {
		var me *MergeError
		if errors.As(err, &me) {
			me.Group = g.Name
			return me
		}
		return &MergeError{Group: g.Name, Reason: "merge", Err: err}
	}
	if err := merged.Compress(); err != nil {
		return &MergeError{Group: g.Name, Reason: "compress", Err: err}
	}

	dest := g.Output(destDir)
	if err := merged.Save(dest); err != nil {
		return &MergeError{Group: g.Name, Reason: "write " + filepath.Base(dest), Err: err}
	}
	log.WithField("file", dest).Info("merged fragments")

	if m.KeepParts {
		return nil
	}
	for _, path := range g.Parts {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithField("file", path).WithError(err).Warn("failed to remove fragment")
		}
	}
	return nil
}

// CombineAll merges every group. A failed group does not stop the others;
// the failures are joined in the returned error.
func (m *Merger) CombineAll(groups []Group, destDir string) error {
	var errs []error
	for _, g := range groups {
		if err := m.Combine(g, destDir); err != nil {
			m.logger().WithField("group", g.Name).WithError(err).Error("merge failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Combine merges one group with a default Merger.
func Combine(g Group, destDir string) error {
	return (&Merger{}).Combine(g, destDir)
}

// CombineAll merges groups with a default Merger.
func CombineAll(groups []Group, destDir string) error {
	return (&Merger{}).CombineAll(groups, destDir)
}

// CombineDir finds the groups in dir and merges them into destDir.
func (m *Merger) CombineDir(dir, destDir string) ([]Group, error) {
	groups, err := FindGroups(dir)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		m.logger().WithField("dir", dir).Debug("no fragment groups")
		return nil, nil
	}
	return groups, m.CombineAll(groups, destDir)
}

