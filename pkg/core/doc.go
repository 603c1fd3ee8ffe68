// Package core provides a small, stable facade over Quell's internal
// engine for external integrations. It deliberately re-exports a narrow API
// surface so other tools can depend on a stable import path without
// reaching into internal implementation packages.
//
// Example:
//
//	findings := []core.Finding{ /* from your analyzer */ }
//	n := core.Suppress(context.Background(), findings, sourceCode)
//	fmt.Printf("suppressed %d findings\n", n)
package core
