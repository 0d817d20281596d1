package segment

import "fmt"

// NextSequenceName returns the first name of the form prefix_NNNNN<ext>
// (5-digit, zero-padded, starting at 00001) that does not appear in
// existing. The caller passes a snapshot of the target directory's entries;
// concurrent writers against the same directory and prefix must be
// serialized externally.
func NextSequenceName(existing []string, prefix, ext string) string {
	used := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		used[name] = struct{}{}
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s_%05d%s", prefix, n, ext)
		if _, ok := used[name]; !ok {
			return name
		}
	}
}
