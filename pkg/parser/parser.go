// Package parser turns raw model output into display-ready narrative
// markup, stat-change blocks and choice lists. Model text is untrusted:
// nothing in this package panics or errors on malformed input, and all
// literal text is HTML-escaped before markup is added.
package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/xingmeng/stardream/pkg/gamedata"
)

// Parsed is the result of splitting one assistant reply.
type Parsed struct {
	NarrativeHTML string // dialogue/action/plain spans, per line
	StatHTML      string // stat-change block, empty when none found
	CharColor     string // theme color of the detected speaker, or ""
}

var (
	statLineRe  = regexp.MustCompile(`^[【\[][^】\]]*[+-]\d+[^】\]]*[】\]]$`)
	charTagRe   = regexp.MustCompile(`^[【\[]([^\]】]+)[】\]]`)
	statUpRe    = regexp.MustCompile(`(\+\d+[万%]?)`)
	statDownRe  = regexp.MustCompile(`(-\d+[万%]?)`)
	inlineRe    = regexp.MustCompile(`（[^（）]*）|\([^()]*\)|\*[^*\n]+\*|"[^"\n]*"|“[^“”\n]*”`)
	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// statColors maps stat and resource display labels (plus the 度/值
// suffix forms the model tends to emit) to their theme colors.
var statColors = buildStatColors()

// charColors maps character display names to theme colors.
var charColors = buildCharColors()

// Longest-first alternations keep matching deterministic when labels
// overlap (信任 vs 信任度).
var (
	statLabelRe = labelPattern(statColors)
	charNameRe  = labelPattern(charColors)
)

func labelPattern(labels map[string]string) *regexp.Regexp {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for i, k := range keys {
		keys[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(strings.Join(keys, "|"))
}

func buildStatColors() map[string]string {
	colors := map[string]string{
		"金钱": "#ffd700", "资金": "#ffd700", "经费": "#ffd700",
		"名声": "#e91e8c", "声望": "#e91e8c", "名气": "#e91e8c",
	}
	for _, id := range gamedata.CharacterOrder {
		c, ok := gamedata.GetCharacter(id)
		if !ok {
			continue
		}
		for _, m := range c.StatMetas {
			colors[m.Label] = m.Color
			colors[m.Label+"度"] = m.Color
			colors[m.Label+"值"] = m.Color
		}
	}
	return colors
}

func buildCharColors() map[string]string {
	colors := make(map[string]string)
	for _, id := range gamedata.CharacterOrder {
		if c, ok := gamedata.GetCharacter(id); ok {
			colors[c.Name] = c.ThemeColor
		}
	}
	return colors
}

// Escape HTML-escapes literal text from the model.
func Escape(text string) string {
	return htmlEscaper.Replace(text)
}

// inlineStatRe matches a stat tag embedded anywhere in a line.
var inlineStatRe = regexp.MustCompile(`[【\[][^】\]]*[+-]\d+[^】\]]*[】\]]`)

// StripInlineStatTags removes stat tags that the model embedded inside
// narrative lines. Tags on their own line are left alone; those feed
// the stat-change block.
func StripInlineStatTags(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || statLineRe.MatchString(trimmed) {
			continue
		}
		if inlineStatRe.MatchString(line) {
			lines[i] = strings.TrimSpace(inlineStatRe.ReplaceAllString(line, ""))
		}
	}
	return strings.Join(lines, "\n")
}

// ParseStoryParagraph splits one reply into narrative markup, a
// stat-change block, and the best-guess speaker color.
func ParseStoryParagraph(content string) Parsed {
	lines := strings.Split(content, "\n")
	var narrative []string
	var statParts []string
	charColor := ""

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if line == "" {
			narrative = append(narrative, "")
			continue
		}

		// Pure stat-change line, e.g. 【金敏秀 信任+5】
		if statLineRe.MatchString(line) {
			statParts = append(statParts, colorizeStats(line))
			continue
		}

		// Item gain line
		if strings.HasPrefix(line, "【获得") || strings.HasPrefix(line, "[获得") {
			statParts = append(statParts, `<div class="item-gain">`+Escape(line)+`</div>`)
			continue
		}

		// A leading 【角色名】 tag fixes the speaker
		if charColor == "" {
			if m := charTagRe.FindStringSubmatch(line); m != nil {
				charColor = charColors[m[1]]
			}
		}

		narrative = append(narrative, renderNarrativeLine(line))
	}

	// Fall back to a whole-text name scan, table order
	if charColor == "" {
		for _, id := range gamedata.CharacterOrder {
			c, ok := gamedata.GetCharacter(id)
			if !ok {
				continue
			}
			if strings.Contains(content, c.Name) {
				charColor = c.ThemeColor
				break
			}
		}
	}

	statHTML := ""
	if len(statParts) > 0 {
		statHTML = `<div class="stat-changes">` + strings.Join(statParts, "") + `</div>`
	}

	return Parsed{
		NarrativeHTML: strings.TrimSpace(strings.Join(narrative, "\n")),
		StatHTML:      statHTML,
		CharColor:     charColor,
	}
}

// renderNarrativeLine wraps one line in a paragraph, attributing a
// leading bracket-wrapped character name and splitting the remainder
// into dialogue/action/plain spans.
func renderNarrativeLine(line string) string {
	var sb strings.Builder
	sb.WriteString("<p>")

	rest := line
	if m := charTagRe.FindStringSubmatch(line); m != nil {
		if color, ok := charColors[m[1]]; ok {
			sb.WriteString(`<span class="char-name" style="color:` + color + `">` + Escape(m[1]) + `</span>`)
			rest = strings.TrimSpace(line[len(m[0]):])
		}
	}

	sb.WriteString(renderSpans(rest))
	sb.WriteString("</p>")
	return sb.String()
}

// renderSpans splits text at inline markers. Parenthesized and
// asterisk-wrapped segments are actions, double-quoted segments
// (straight or curly) are dialogue, everything else is plain. Text with
// no markers passes through as plain narration.
func renderSpans(text string) string {
	var sb strings.Builder
	last := 0
	for _, loc := range inlineRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			sb.WriteString(colorizeCharNames(Escape(text[last:loc[0]])))
		}
		seg := text[loc[0]:loc[1]]
		switch seg[0] {
		case '"':
			sb.WriteString(`<span class="dialogue">` + Escape(seg) + `</span>`)
		case '*':
			sb.WriteString(`<span class="action">` + Escape(strings.Trim(seg, "*")) + `</span>`)
		default:
			if strings.HasPrefix(seg, "“") {
				sb.WriteString(`<span class="dialogue">` + Escape(seg) + `</span>`)
			} else {
				sb.WriteString(`<span class="action">` + Escape(seg) + `</span>`)
			}
		}
		last = loc[1]
	}
	if last < len(text) {
		sb.WriteString(colorizeCharNames(Escape(text[last:])))
	}
	return sb.String()
}

// colorizeStats renders a pure stat-change line: known labels get their
// theme color, +N/-N segments get direction classes. Unknown labels
// stay neutral.
func colorizeStats(line string) string {
	html := statLabelRe.ReplaceAllStringFunc(Escape(line), func(label string) string {
		return `<span class="stat-change" style="color:` + statColors[label] + `;font-weight:600">` + label + `</span>`
	})
	html = colorizeCharNames(html)
	html = statUpRe.ReplaceAllString(html, `<span class="stat-up">$1</span>`)
	html = statDownRe.ReplaceAllString(html, `<span class="stat-down">$1</span>`)
	return html
}

func colorizeCharNames(html string) string {
	return charNameRe.ReplaceAllStringFunc(html, func(name string) string {
		return `<span class="char-name" style="color:` + charColors[name] + `">` + name + `</span>`
	})
}
