package idioms

import (
	"regexp"

	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// CWE-467: sizeof on a pointer type. Both sizeof(array) and sizeof(*ptr)
// are correct uses that analyzers still flag.

var (
	reSizeofIdent = regexp.MustCompile(`\bsizeof\s*\(\s*([A-Za-z_]\w*)\s*\)`)
	reSizeofDeref = regexp.MustCompile(`\bsizeof\s*\(\s*\*\s*[A-Za-z_]\w*\s*\)`)
)

var SizeofFixedBuffer = Rule{
	Name:  "sizeof_fixed_buffer",
	CWEs:  []string{"CWE-467"},
	Match: matchSizeofFixedBuffer,
}

func matchSizeofFixedBuffer(f types.Finding, src window.Lines) (bool, string, float64) {
	m := reSizeofIdent.FindStringSubmatch(f.Snippet)
	if m == nil {
		return false, "", 0
	}
	name := m[1]
	decl := identRef(name, `\s*\[`)
	if decl == nil {
		return false, "", 0
	}
	for _, l := range src.Prev(f.Line, 10) {
		if decl.MatchString(l) {
			return true, "sizeof applied to the fixed-size array " + name, 0.90
		}
	}
	return false, "", 0
}

var SizeofDerefPointer = Rule{
	Name:  "sizeof_deref_pointer",
	CWEs:  []string{"CWE-467"},
	Match: matchSizeofDerefPointer,
}

func matchSizeofDerefPointer(f types.Finding, _ window.Lines) (bool, string, float64) {
	if !reSizeofDeref.MatchString(f.Snippet) {
		return false, "", 0
	}
	return true, "sizeof applied to the pointed-to object", 0.90
}
