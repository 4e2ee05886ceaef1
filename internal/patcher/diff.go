package patcher

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffLine is one line of a line-oriented diff
type DiffLine struct {
	Op   diffpatch.Operation
	Text string
	Gap  bool // Stands in for omitted unchanged lines
}

// Prefix returns the conventional marker for the line: "-", "+" or " "
func (l DiffLine) Prefix() string {
	switch l.Op {
	case diffpatch.DiffDelete:
		return "-"
	case diffpatch.DiffInsert:
		return "+"
	default:
		return " "
	}
}

// DiffLines computes a line diff between two versions of a document
func DiffLines(before, after string) []DiffLine {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			out = append(out, DiffLine{Op: d.Type, Text: line})
		}
	}
	return out
}

// Hunks keeps the changed lines plus up to context unchanged lines around each of them.
// A Gap line marks where unchanged lines were dropped. A negative context keeps every line.
func Hunks(lines []DiffLine, context int) []DiffLine {
	if context < 0 {
		return lines
	}

	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == diffpatch.DiffEqual {
			continue
		}
		for j := max(i-context, 0); j <= i+context && j < len(lines); j++ {
			keep[j] = true
		}
	}

	var out []DiffLine
	skipped := false
	for i, l := range lines {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped && len(out) > 0 {
			out = append(out, DiffLine{Op: diffpatch.DiffEqual, Gap: true})
		}
		skipped = false
		out = append(out, l)
	}
	return out
}

// Diff renders a plain-text line diff with the given amount of context
func Diff(before, after string, context int) string {
	var b strings.Builder
	for _, l := range Hunks(DiffLines(before, after), context) {
		if l.Gap {
			b.WriteString("...\n")
			continue
		}
		b.WriteString(l.Prefix())
		b.WriteString(l.Text)
		b.WriteString("\n")
	}
	return b.String()
}
