package pathutils

import "strings"

// Separator divides the segments of a dotted field path.
const Separator = "."

// Join appends name to the dotted parent path.
func Join(parent, name string) string {
	switch {
	case parent == "":
		return name
	case name == "":
		return parent
	default:
		return parent + Separator + name
	}
}

// Split breaks a dotted field path into its segments.
// Empty segments (leading, trailing or doubled dots) are kept so that
// Join(Split(p)...) reproduces p.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}
