package parser

import (
	"regexp"
	"strings"
)

// MaxChoices is the number of action choices a reply should end with.
const MaxChoices = 4

var (
	choiceLineRe = regexp.MustCompile(`^[1-4A-Da-d][\.、．]\s*(.+)$`)
	leadInRe     = regexp.MustCompile(`选择|选项|你可以|接下来|你的行动`)
)

// ExtractChoices scans backward for a trailing run of numbered or
// lettered choice lines. It returns the content with those lines (and a
// matching lead-in line, if present) removed, plus the choice texts in
// original order. Fewer than two trailing matches means no extraction:
// the content comes back unchanged with an empty list and the caller
// supplies a fallback choice set.
func ExtractChoices(content string) (string, []string) {
	lines := strings.Split(content, "\n")
	var choices []string
	choiceStart := len(lines)

	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		m := choiceLineRe.FindStringSubmatch(trimmed)
		if m == nil {
			break
		}
		choices = append([]string{m[1]}, choices...)
		choiceStart = i
	}

	if len(choices) < 2 {
		return content, nil
	}

	cut := choiceStart
	if cut > 0 && leadInRe.MatchString(strings.TrimSpace(lines[cut-1])) {
		cut--
	}
	if cut > 0 && strings.TrimSpace(lines[cut-1]) == "" {
		cut--
	}

	return strings.TrimSpace(strings.Join(lines[:cut], "\n")), choices
}
