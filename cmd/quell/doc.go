// Package quell provides the command-line interface for the Quell tool.
// It configures subcommands (scan, rules, baseline, telemetry), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/quellsec/quell/cmd/quell"
//	func main() { quell.Execute() }
package quell
