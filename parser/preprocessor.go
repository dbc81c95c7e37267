package parser

import (
	"strings"

	"github.com/ardanlabs/bindgen/srcml"
)

// HeaderGuardSuffixes identify an #ifndef as a header inclusion guard.
var HeaderGuardSuffixes = []string{"_H", "HPP", "HXX"}

// PreprocessorFilter drops everything inside #if, #ifdef and #ifndef
// regions, except the region of a header inclusion guard. Both branches of
// an #else are treated alike: this is not a preprocessor.
//
// The depth reaches -1 after the #endif of an inclusion guard, since the
// guard's #ifndef did not increment it.
type PreprocessorFilter struct {
	depth int
}

// Process consumes n if it is a conditional directive and reports whether
// it did.
func (f *PreprocessorFilter) Process(n *srcml.Node) bool {
	switch n.Tag() {
	case "if", "ifdef":
		f.depth++
	case "ifndef":
		if !isInclusionGuard(n) {
			f.depth++
		}
	case "endif":
		f.depth--
	case "else", "elif":
	default:
		return false
	}
	return true
}

// Suppressed reports whether the current position is inside an ignored
// region.
func (f *PreprocessorFilter) Suppressed() bool {
	return f.depth > 0
}

// Depth returns the current conditional depth.
func (f *PreprocessorFilter) Depth() int {
	return f.depth
}

// Unbalanced reports whether more #endif than conditionals were seen, not
// counting the single inclusion guard.
func (f *PreprocessorFilter) Unbalanced() bool {
	return f.depth < -1
}

func isInclusionGuard(n *srcml.Node) bool {
	var name string
	for _, c := range n.Children {
		if c.Tag() == "name" {
			name = c.Text
			break
		}
	}

	name = strings.ToUpper(name)
	for _, suffix := range HeaderGuardSuffixes {
		if strings.HasSuffix(name, strings.ToUpper(suffix)) {
			return true
		}
	}
	return false
}
