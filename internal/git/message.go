// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"strings"
)

const (
	maxSubjectLength = 72
	movedByTrailer   = "Moved-By: pysplit"
)

// MoveMessage builds the commit message for moving names out of origin into
// dest:
//
//	refactor: move a, b from pkg.origin to pkg.dest
//
//	Modified files:
//	- pkg/dest.py
//
//	Moved-By: pysplit
func MoveMessage(names []string, origin, dest string, modifiedFiles []string) string {
	sections := []string{
		subject("refactor", fmt.Sprintf("move %s from %s to %s", strings.Join(names, ", "), origin, dest)),
	}
	if len(modifiedFiles) > 0 {
		sections = append(sections, fileList(modifiedFiles))
	}
	sections = append(sections, movedByTrailer)
	return strings.Join(sections, "\n\n")
}

// subject formats "type: summary", cut to maxSubjectLength runes.
func subject(commitType, summary string) string {
	line := commitType + ": " + strings.TrimRight(strings.TrimSpace(summary), ".")
	if runes := []rune(line); len(runes) > maxSubjectLength {
		line = string(runes[:maxSubjectLength-3]) + "..."
	}
	return line
}

func fileList(files []string) string {
	var b strings.Builder
	b.WriteString("Modified files:")
	for _, f := range files {
		fmt.Fprintf(&b, "\n- %s", f)
	}
	return b.String()
}

// hasMovedBy reports whether msg carries the Moved-By trailer on a line of
// its own.
func hasMovedBy(msg string) bool {
	for _, line := range strings.Split(msg, "\n") {
		if strings.TrimSpace(line) == movedByTrailer {
			return true
		}
	}
	return false
}
