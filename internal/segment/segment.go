// Package segment discovers and orders batches of sequentially numbered
// media files produced by an upstream generation step. A batch shares a
// naming template of the form <prefix>_<digits><ext>; the template is
// inferred from a single exemplar file and used to enumerate siblings.
package segment

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Static errors for segment discovery.
var (
	// ErrPatternInference is returned when a filename does not match the
	// expected <prefix>_<digits><ext> shape.
	ErrPatternInference = errors.New("filename does not match <prefix>_<digits><ext>")
	// ErrNoSegmentsFound is returned when a directory listing yields no
	// segments for an inferred template. The exemplar always matches its
	// own template, so this indicates the directory changed underneath us.
	ErrNoSegmentsFound = errors.New("no segments found")
	// ErrAmbiguousIndex is returned when two files parse to the same
	// numeric index (for example a_1.mp4 and a_01.mp4).
	ErrAmbiguousIndex = errors.New("ambiguous segment index")
)

// Template is the naming template shared by every segment of a batch.
type Template struct {
	// Prefix is everything before the final underscore.
	Prefix string
	// DigitWidth is the number of digits in the exemplar's index.
	DigitWidth int
	// Ext is the file extension, including the leading dot.
	Ext string
}

// stemPattern splits a basename (extension removed) into prefix and index.
// The greedy group pins the split to the last underscore, so an index may
// not contain underscores but a prefix may.
var stemPattern = regexp.MustCompile(`^(.+)_([0-9]+)$`)

// InferTemplate derives the naming template from an exemplar basename.
// The basename must end in an all-digit token separated from the prefix by
// an underscore, immediately before the extension (e.g. "video_00005.mp4").
func InferTemplate(basename string) (Template, error) {
	ext := filepath.Ext(basename)
	stem := strings.TrimSuffix(basename, ext)

	m := stemPattern.FindStringSubmatch(stem)
	if m == nil {
		return Template{}, fmt.Errorf("%w: %q", ErrPatternInference, basename)
	}

	return Template{
		Prefix:     m[1],
		DigitWidth: len(m[2]),
		Ext:        ext,
	}, nil
}

// Matcher returns a compiled expression matching any sibling of the
// template, regardless of digit width. Producers are not consistent about
// leading zeros, so the width is not enforced across files.
func (t Template) Matcher() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(t.Prefix) + `_([0-9]+)` + regexp.QuoteMeta(t.Ext) + `$`)
}

// Segment is one numbered file belonging to a batch.
type Segment struct {
	// Dir is the directory containing the segment.
	Dir string
	// Prefix is the shared naming prefix.
	Prefix string
	// Index is the numeric index parsed from the filename.
	Index int
	// Ext is the file extension, including the leading dot.
	Ext string
	// Path is the full path to the segment file.
	Path string
}

// Order sorts segments by index ascending, in place. Indices are numeric,
// so "2" sorts before "10". Discovery rejects duplicate indices, which
// makes the order total and independent of directory-listing order.
func Order(segments []Segment) {
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Index < segments[j].Index
	})
}
