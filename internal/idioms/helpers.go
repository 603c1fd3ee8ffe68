package idioms

import (
	"regexp"
	"strings"
)

var reIdent = regexp.MustCompile(`[A-Za-z_]\w*`)

// containsCall reports whether s contains a call to the named C function,
// requiring a word boundary before the name and an opening paren after it
// (whitespace allowed). Avoids matching "strcpy" inside "my_strcpy_safe".
func containsCall(s, name string) bool {
	for i := 0; i+len(name) <= len(s); {
		j := strings.Index(s[i:], name)
		if j < 0 {
			return false
		}
		j += i
		if j > 0 && isIdentByte(s[j-1]) {
			i = j + len(name)
			continue
		}
		k := j + len(name)
		if k < len(s) && isIdentByte(s[k]) {
			i = j + len(name)
			continue
		}
		for k < len(s) && (s[k] == ' ' || s[k] == '\t') {
			k++
		}
		if k < len(s) && s[k] == '(' {
			return true
		}
		i = j + len(name)
	}
	return false
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// stringLiterals extracts the contents of double-quoted C string literals
// from a line, handling backslash escapes. Unterminated literals are
// dropped.
func stringLiterals(s string) []string {
	var out []string
	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}
		var b strings.Builder
		j := i + 1
		closed := false
		for j < len(s) {
			c := s[j]
			if c == '\\' && j+1 < len(s) {
				b.WriteByte(c)
				b.WriteByte(s[j+1])
				j += 2
				continue
			}
			if c == '"' {
				closed = true
				break
			}
			b.WriteByte(c)
			j++
		}
		if !closed {
			break
		}
		out = append(out, b.String())
		i = j
	}
	return out
}

// joinLines concatenates line slices into a fresh slice. Window slices
// alias the shared Lines storage, so callers must never append to them
// directly.
func joinLines(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	out = append(out, extra...)
	return out
}

// anyLine reports whether re matches any of the given lines.
func anyLine(lines []string, re *regexp.Regexp) bool {
	for _, l := range lines {
		if re.MatchString(l) {
			return true
		}
	}
	return false
}

// identRef compiles a regexp matching a whole-word reference to name.
// Returns nil when name is not a plain identifier.
func identRef(name, suffix string) *regexp.Regexp {
	if !reIdent.MatchString(name) || reIdent.FindString(name) != name {
		return nil
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + suffix)
	if err != nil {
		return nil
	}
	return re
}
