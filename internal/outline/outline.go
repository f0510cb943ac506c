package outline

import (
	"regexp"
	"strings"
)

// Section is a detected heading, not yet persisted.
type Section struct {
	HeadingText  string
	HeadingLevel string
	PageStart    int
	PageEnd      int
	OrderIndex   int // 1-based detection order within the document
}

// Figure is a detected caption line, not yet persisted.
type Figure struct {
	// SectionIndex points into Result.Sections at the most recently
	// detected section when this figure was found; -1 if none existed yet.
	SectionIndex int
	PageNumber   int
	CaptionText  string
	OrderIndex   int // 1-based, independent of section numbering
}

// Result is the full detected outline of one document.
type Result struct {
	Sections  []Section
	Figures   []Figure
	PageCount int
}

// The detector classifies every heading into a single coarse tier; numeric
// depth ("2.3.1" vs "2") does not vary the level.
const HeadingLevel = "H1"

// FallbackHeading titles the synthesized section for documents where no
// numbered heading was found.
const FallbackHeading = "Document Overview"

var (
	// A numeric outline label ("1", "2.3", "4.10.1") followed by a title.
	headingPattern = regexp.MustCompile(`^\d+(?:\.\d+)*\s+.+$`)
	figurePattern  = regexp.MustCompile(`(?i)\b(?:Figure|Fig\.)\b`)
)

// Detect scans per-page extracted text (pages[0] is page 1) and returns the
// document outline. It is pure and deterministic: the same input always
// yields the same result, and it never fails on malformed text.
func Detect(pages []string) Result {
	res := Result{PageCount: len(pages)}

	for i, pageText := range pages {
		pageNum := i + 1
		lines := nonBlankLines(pageText)

		// Headings for the whole page are registered before its figure
		// lines are scanned, so a caption associates with the last
		// heading of its own page even when the caption sits above it.
		for _, line := range lines {
			if headingPattern.MatchString(line) {
				res.Sections = append(res.Sections, Section{
					HeadingText:  line,
					HeadingLevel: HeadingLevel,
					PageStart:    pageNum,
					PageEnd:      pageNum,
					OrderIndex:   len(res.Sections) + 1,
				})
			}
		}

		// Every non-blank line is a caption candidate, including lines
		// already classified as headings.
		for _, line := range lines {
			if figurePattern.MatchString(line) {
				res.Figures = append(res.Figures, Figure{
					SectionIndex: len(res.Sections) - 1,
					PageNumber:   pageNum,
					CaptionText:  line,
					OrderIndex:   len(res.Figures) + 1,
				})
			}
		}
	}

	if len(res.Sections) == 0 {
		// Figures found before this point keep SectionIndex -1; the
		// fallback section is not retroactively attached to them.
		res.Sections = append(res.Sections, Section{
			HeadingText:  FallbackHeading,
			HeadingLevel: HeadingLevel,
			PageStart:    1,
			PageEnd:      len(pages),
			OrderIndex:   1,
		})
	}

	return res
}

func nonBlankLines(pageText string) []string {
	var lines []string
	for _, raw := range strings.Split(pageText, "\n") {
		line := strings.TrimSpace(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
