package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/olekukonko/tablewriter"

	"github.com/quellsec/quell/internal/types"
)

type PrintOptions struct {
	NoColor        bool
	ShowSuppressed bool
	Snippets       bool
	Duration       time.Duration
	FilesScanned   int
}

// PrintTable renders findings as a terminal table, followed by optional
// highlighted snippets and a summary footer.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].File == findings[j].File {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].File < findings[j].File
	})

	shown := findings
	if !opts.ShowSuppressed {
		shown = nil
		for _, f := range findings {
			if f.Status == types.StatusActive {
				shown = append(shown, f)
			}
		}
	}

	if len(shown) == 0 {
		fmt.Fprintln(w, "No active findings ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("SEVERITY", "CWE", "LOCATION", "STATUS", "CONF", "REASON")
		for _, f := range shown {
			sev := string(f.Severity)
			if !opts.NoColor {
				sev = colorSeverity(f.Severity)
			}
			_ = table.Append(
				sev,
				f.CWE,
				fmt.Sprintf("%s:%d", f.File, f.Line),
				string(f.Status),
				fmt.Sprintf("%.2f", f.Confidence),
				f.SuppressionReason,
			)
		}
		_ = table.Render()

		if opts.Snippets {
			for _, f := range shown {
				if f.Snippet == "" {
					continue
				}
				fmt.Fprintf(w, "\n%s:%d (%s)\n", f.File, f.Line, f.CWE)
				snippet := f.Snippet
				if !opts.NoColor {
					snippet = highlightCode(snippet, f.File)
				}
				fmt.Fprintln(w, snippet)
			}
		}
	}

	summary := Summarize(findings)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (active: %d, suppressed: %d)\n",
		summary.Total, summary.Active, summary.Suppressed)
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
}

func colorSeverity(s types.Severity) string {
	switch s {
	case types.SevCritical:
		return "\x1b[35mCRITICAL\x1b[0m" // magenta
	case types.SevHigh:
		return "\x1b[31mHIGH\x1b[0m" // red
	case types.SevMedium:
		return "\x1b[33mMEDIUM\x1b[0m" // yellow
	default:
		return "\x1b[36mLOW\x1b[0m" // cyan
	}
}

func highlightCode(code, filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Get("c")
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
