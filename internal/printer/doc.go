// Package printer renders a doc.Document into text.
//
// The algorithm is the Wadler/prettier one run on an explicit stack of
// (element, indentation, mode) frames: a group prints flat when its
// contents plus the rest of the line fit the remaining width, otherwise
// broken. Fills decide every separator on its own, best fitting elements
// pick the first variant that fits, line suffixes wait for the next
// newline. Resolved group modes live in a side table keyed by GroupID.
//
// Width is measured in display columns (go-runewidth), a tab counts as
// IndentWidth columns. Content that cannot be broken is printed even when it
// exceeds LineWidth.
package printer
