package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// partPattern matches fragment file names such as l-16-02-ae_part_0003.pdf.
var partPattern = regexp.MustCompile(`^([ltf]-.+?)_part_(\d{4})\.pdf$`)

// Group is the set of fragments that make up one output document.
type Group struct {
	// Name is the output name without extension, e.g. "t-14-01-01".
	Name string
	Dir  string
	// Parts are the fragment paths in ascending chunk order.
	Parts []string
}

// Output returns the path of the merged document inside destDir.
func (g Group) Output(destDir string) string {
	return filepath.Join(destDir, g.Name+".pdf")
}

// ParsePart splits a fragment file name into its group name and chunk
// number.
func ParsePart(filename string) (name string, chunk int, ok bool) {
	m := partPattern.FindStringSubmatch(filename)
	if m == nil {
		return "", 0, false
	}
	chunk, _ = strconv.Atoi(m[2])
	return m[1], chunk, true
}

// FindGroups lists the fragment groups in dir, sorted by name.
func FindGroups(dir string) ([]Group, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list fragments: %w", err)
	}

	type part struct {
		path  string
		chunk int
	}
	parts := make(map[string][]part)
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name, chunk, ok := ParsePart(e.Name())
		if !ok {
			continue
		}
		parts[name] = append(parts[name], part{filepath.Join(dir, e.Name()), chunk})
	}

	groups := make([]Group, 0, len(parts))
	for name, ps := range parts {
		sort.Slice(ps, func(i, j int) bool { return ps[i].chunk < ps[j].chunk })
		g := Group{Name: name, Dir: dir, Parts: make([]string, len(ps))}
		for i, p := range ps {
			g.Parts[i] = p.path
		}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}
