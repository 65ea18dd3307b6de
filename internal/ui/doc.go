// Package ui holds the lipgloss palette used for human-readable CLI output.
//
// [Styles] is the shared [Palette]. Rendering degrades to plain text when the
// output is not a terminal, so styled strings are safe to write to files.
package ui
