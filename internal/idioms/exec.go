package idioms

import (
	"regexp"
	"strings"

	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// CWE-78: OS command injection. exec-family calls are only dangerous when
// attacker-controlled data reaches the program path or argv; these rules
// recognize the fully static and pre-validated invocations.

var (
	reExecLiteralPath = regexp.MustCompile(`\bexec(?:l|le|lp|v|ve|vp)\s*\(\s*"[^"]+"`)
	reArgvTerminator  = regexp.MustCompile(`(?:NULL|\(char\s*\*\)\s*0)\s*\)`)
	reAllowlistCheck  = regexp.MustCompile(`(?i)\b(?:allowlist|whitelist|allowed|is_valid\w*|validate\w*|strn?cmp|strspn)\s*\(`)
	reArgvAssign      = regexp.MustCompile(`\bargv?\w*\s*\[\s*\d+\s*\]\s*=\s*(.+?);`)
	reArgvInit        = regexp.MustCompile(`\bchar\s*\*(?:\s*const)?\s*\w+\s*\[[^\]]*\]\s*=\s*\{([^}]*)\}`)
	reLiteralOrNull   = regexp.MustCompile(`^\s*(?:"(?:[^"\\]|\\.)*"|NULL|\(char\s*\*\)\s*0)\s*$`)
)

var ExeclNoShell = Rule{
	Name:  "execl_no_shell",
	CWEs:  []string{"CWE-78", "CWE-88"},
	Match: matchExeclNoShell,
}

func matchExeclNoShell(f types.Finding, _ window.Lines) (bool, string, float64) {
	if !reExecLiteralPath.MatchString(f.Snippet) || !reArgvTerminator.MatchString(f.Snippet) {
		return false, "", 0
	}
	return true, "exec called with a literal program path and explicit argv terminator", 0.95
}

var ExecArgAllowlist = Rule{
	Name:  "exec_arg_allowlist",
	CWEs:  []string{"CWE-78", "CWE-88"},
	Match: matchExecArgAllowlist,
}

func matchExecArgAllowlist(f types.Finding, src window.Lines) (bool, string, float64) {
	if f.Line < 1 {
		return false, "", 0
	}
	if !anyLine(src.Prev(f.Line, 5), reAllowlistCheck) {
		return false, "", 0
	}
	return true, "argument validated against an allowlist before exec", 0.90
}

var ExecConstArgv = Rule{
	Name:  "exec_const_argv",
	CWEs:  []string{"CWE-78", "CWE-88"},
	Match: matchExecConstArgv,
}

func matchExecConstArgv(f types.Finding, src window.Lines) (bool, string, float64) {
	lines := joinLines(src.Prev(f.Line, 5), f.Snippet)
	sawLiteral := false
	for _, l := range lines {
		if m := reArgvInit.FindStringSubmatch(l); m != nil {
			if argvElementsLiteral(m[1]) {
				sawLiteral = true
				continue
			}
			return false, "", 0
		}
		for _, m := range reArgvAssign.FindAllStringSubmatch(l, -1) {
			if !reLiteralOrNull.MatchString(m[1]) {
				return false, "", 0
			}
			sawLiteral = true
		}
	}
	if !sawLiteral {
		return false, "", 0
	}
	return true, "argv constructed from string literals only", 0.90
}

func argvElementsLiteral(list string) bool {
	parts := strings.Split(list, ",")
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if !reLiteralOrNull.MatchString(p) {
			return false
		}
	}
	return true
}
