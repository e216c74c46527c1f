// Package markdown provides small line-scanning helpers for variant documents.
package markdown

import "strings"

// HasFrontMatter reports whether text opens with a YAML front-matter
// delimiter at position zero.
func HasFrontMatter(text string) bool {
	return text == "---" ||
		strings.HasPrefix(text, "---\n") ||
		strings.HasPrefix(text, "---\r\n")
}

// CodeBlock is one fenced code block with its position in the source text.
type CodeBlock struct {
	Info      string // fence info string, e.g. "go" or "python"
	Text      string // literal block content, fences excluded
	StartLine int    // first content line, 1-based
	EndLine   int    // closing fence line
}

// CodeBlocks extracts fenced code blocks (``` or ~~~) in document order.
// An unclosed fence is dropped rather than swallowing the rest of the file.
func CodeBlocks(text string) []CodeBlock {
	lines := strings.Split(text, "\n")

	var blocks []CodeBlock
	var current []string
	inFence := false
	fence := ""
	info := ""
	start := 0

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !inFence {
			if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
				inFence = true
				fence = trimmed[:3]
				info = strings.TrimSpace(trimmed[3:])
				start = i + 2
				current = nil
			}
			continue
		}

		if strings.HasPrefix(trimmed, fence) && strings.TrimSpace(strings.TrimPrefix(trimmed, fence)) == "" {
			blocks = append(blocks, CodeBlock{
				Info:      info,
				Text:      strings.Join(current, "\n"),
				StartLine: start,
				EndLine:   i + 1,
			})
			inFence = false
			continue
		}
		current = append(current, line)
	}

	return blocks
}
