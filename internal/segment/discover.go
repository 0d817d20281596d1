package segment

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Discover enumerates every segment in the exemplar's directory that shares
// its naming template, ordered by numeric index ascending.
//
// The exemplar must name an existing file whose basename matches
// <prefix>_<digits><ext>. Sibling files may use a different digit width
// (some producers omit leading zeros), but two files parsing to the same
// index are rejected with ErrAmbiguousIndex rather than silently resolved.
func Discover(exemplarPath string) ([]Segment, error) {
	if _, err := os.Stat(exemplarPath); err != nil {
		return nil, fmt.Errorf("stat exemplar: %w", err)
	}

	tmpl, err := InferTemplate(filepath.Base(exemplarPath))
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(exemplarPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	matcher := tmpl.Matcher()
	byIndex := make(map[int]Segment)
	var segments []Segment

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := matcher.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			// Digit run too long to fit an int. Not a segment of ours.
			continue
		}
		if prev, ok := byIndex[index]; ok {
			return nil, fmt.Errorf("%w: %s and %s both parse to index %d in %s",
				ErrAmbiguousIndex, filepath.Base(prev.Path), entry.Name(), index, dir)
		}
		seg := Segment{
			Dir:    dir,
			Prefix: tmpl.Prefix,
			Index:  index,
			Ext:    tmpl.Ext,
			Path:   filepath.Join(dir, entry.Name()),
		}
		byIndex[index] = seg
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: pattern %s_*%s in %s", ErrNoSegmentsFound, tmpl.Prefix, tmpl.Ext, dir)
	}

	Order(segments)
	return segments, nil
}

// ExistingNames returns the basenames of all regular entries in dir. It is
// the directory snapshot consumed by NextSequenceName, kept separate so the
// numbering logic itself never touches the filesystem.
func ExistingNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}
