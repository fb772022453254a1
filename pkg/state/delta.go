package state

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xingmeng/stardream/pkg/gamedata"
)

// CharChange is one parsed adjustment to a character stat.
type CharChange struct {
	CharID string
	Stat   string // StatMeta key
	Delta  int
}

// GlobalChange is one parsed adjustment to an agency resource.
type GlobalChange struct {
	Resource string // "money" or "fame"
	Delta    int
}

// globalAliases maps resource surface forms to canonical keys.
var globalAliases = map[string]string{
	"金钱": "money", "资金": "money", "经费": "money",
	"名声": "fame", "声望": "fame", "名气": "fame",
}

var (
	// 【角色名 数值名+N】, square brackets accepted
	statChangeRe = regexp.MustCompile(`[【\[]([^\]】]+?)\s*(\S+?)([+-])(\d+)[】\]]`)
	// 【金钱+20】, optional 万 unit
	simpleChangeRe = regexp.MustCompile(`[【\[]([^\s\]】+-]+?)([+-])(\d+)万?[】\]]`)
)

// ParseStatChanges scans model output for bracketed stat tags and
// returns the adjustments in order of appearance. Two passes run over
// the text: the prefixed pattern handles character stats and prefixed
// resources, then a simple pattern catches bare resource tags the first
// pass split incorrectly. A simple-pattern hit is dropped when the
// first pass already produced the same resource and delta.
//
// Resolution rules, per tag: a resource alias in prefix or label wins
// unless the prefix is a character name; a character-name prefix
// resolves the label against that character's stat metas (label, 度 and
// 值 suffix forms); an unknown prefix falls back to a label lookup
// across all characters, first match in order. Unresolvable tags are
// ignored.
func ParseStatChanges(content string, chars map[string]gamedata.Character, order []string) ([]CharChange, []GlobalChange) {
	var charChanges []CharChange
	var globalChanges []GlobalChange

	nameToID := make(map[string]string, len(chars))
	for id, c := range chars {
		nameToID[c.Name] = id
	}

	type labelInfo struct {
		charID string
		key    string
	}
	labelToKey := make(map[string]labelInfo)
	for _, id := range order {
		c, ok := chars[id]
		if !ok {
			continue
		}
		for _, m := range c.StatMetas {
			for _, form := range []string{m.Label, m.Label + "度", m.Label + "值"} {
				if _, exists := labelToKey[form]; !exists {
					labelToKey[form] = labelInfo{charID: id, key: m.Key}
				}
			}
		}
	}

	for _, m := range statChangeRe.FindAllStringSubmatch(content, -1) {
		prefix := strings.TrimSpace(m[1])
		label := m[2]
		delta, _ := strconv.Atoi(m[4])
		if m[3] == "-" {
			delta = -delta
		}

		globalKey := globalAliases[prefix]
		if globalKey == "" {
			globalKey = globalAliases[label]
		}
		if globalKey != "" && nameToID[prefix] == "" {
			globalChanges = append(globalChanges, GlobalChange{Resource: globalKey, Delta: delta})
			continue
		}

		if charID := nameToID[prefix]; charID != "" {
			for _, meta := range chars[charID].StatMetas {
				if label == meta.Label || label == meta.Label+"度" || label == meta.Label+"值" {
					charChanges = append(charChanges, CharChange{CharID: charID, Stat: meta.Key, Delta: delta})
					break
				}
			}
			continue
		}

		info, ok := labelToKey[prefix]
		if !ok {
			info, ok = labelToKey[label]
		}
		if ok {
			charChanges = append(charChanges, CharChange{CharID: info.charID, Stat: info.key, Delta: delta})
		}
	}

	for _, m := range simpleChangeRe.FindAllStringSubmatch(content, -1) {
		label := strings.TrimSpace(m[1])
		delta, _ := strconv.Atoi(m[3])
		if m[2] == "-" {
			delta = -delta
		}
		globalKey := globalAliases[label]
		if globalKey == "" {
			continue
		}
		dup := false
		for _, g := range globalChanges {
			if g.Resource == globalKey && g.Delta == delta {
				dup = true
				break
			}
		}
		if !dup {
			globalChanges = append(globalChanges, GlobalChange{Resource: globalKey, Delta: delta})
		}
	}

	return charChanges, globalChanges
}
