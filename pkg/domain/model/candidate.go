package model

import "strings"

// Candidate is a located marker comment awaiting analysis. It only lives
// within a single workflow invocation.
type Candidate struct {
	Path         string
	LineContent  string
	LineIndex    int // 0-based
	MarkerSyntax string
}

// LocateCandidate finds the first line of content that contains the marker
// keyword inside a single-line comment ("#" or "//"). It returns nil when no
// line qualifies.
func LocateCandidate(path, content, keyword string) *Candidate {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !strings.Contains(line, keyword) {
			continue
		}

		trimmed := strings.TrimSpace(line)
		var syntax string
		switch {
		case strings.Contains(trimmed, "//"):
			syntax = "//"
		case strings.Contains(trimmed, "#"):
			syntax = "#"
		default:
			continue
		}

		return &Candidate{
			Path:         path,
			LineContent:  line,
			LineIndex:    i,
			MarkerSyntax: syntax,
		}
	}

	return nil
}

// SurroundingCode extracts a bounded window of lines around the candidate.
func (x *Candidate) SurroundingCode(content string, radius int) string {
	lines := strings.Split(content, "\n")
	begin := x.LineIndex - radius
	if begin < 0 {
		begin = 0
	}
	end := x.LineIndex + radius + 1
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[begin:end], "\n")
}
