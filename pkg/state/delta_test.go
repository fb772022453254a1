package state

import (
	"testing"

	"github.com/xingmeng/stardream/pkg/gamedata"
)

func TestParseStatChanges(t *testing.T) {
	chars := gamedata.BuildCharacters("unspecified")

	tests := []struct {
		name        string
		content     string
		wantChars   []CharChange
		wantGlobals []GlobalChange
	}{
		{
			name:      "character stat with name prefix",
			content:   "金敏秀低下头。【金敏秀 信任+5】",
			wantChars: []CharChange{{CharID: "minsu", Stat: "trust", Delta: 5}},
		},
		{
			name:      "negative delta",
			content:   "【朴智妍 心情-10】",
			wantChars: []CharChange{{CharID: "jiyeon", Stat: "mood", Delta: -10}},
		},
		{
			name:      "label suffix forms resolve to the same stat",
			content:   "【金敏秀 信任度+3】【金敏秀 信任值+2】",
			wantChars: []CharChange{{CharID: "minsu", Stat: "trust", Delta: 3}, {CharID: "minsu", Stat: "trust", Delta: 2}},
		},
		{
			name:        "bare money tag via simple pattern",
			content:     "演出很成功。【金钱+20】",
			wantGlobals: []GlobalChange{{Resource: "money", Delta: 20}},
		},
		{
			name:        "money with unit suffix",
			content:     "【金钱+20万】",
			wantGlobals: []GlobalChange{{Resource: "money", Delta: 20}},
		},
		{
			name:        "resource alias with separated prefix",
			content:     "【名声 声望+5】",
			wantGlobals: []GlobalChange{{Resource: "fame", Delta: 5}},
		},
		{
			name:      "unknown prefix falls back to label lookup",
			content:   "【练习生 舞蹈+5】",
			wantChars: []CharChange{{CharID: "minsu", Stat: "dance", Delta: 5}},
		},
		{
			name:      "attitude label resolves to the rival",
			content:   "【某人 态度+5】",
			wantChars: []CharChange{{CharID: "arin", Stat: "attitude", Delta: 5}},
		},
		{
			name:    "unresolvable tag is ignored",
			content: "【神秘人 魅力+5】",
		},
		{
			name:    "bare stat label without prefix is ignored",
			content: "【信任+5】",
		},
		{
			name:    "square bracket form",
			content: "[崔成勋 综艺感+8]",
			wantChars: []CharChange{
				{CharID: "seonghoon", Stat: "variety", Delta: 8},
			},
		},
		{
			name:    "mixed tags keep order",
			content: "【金敏秀 歌唱+10】表演结束。【金钱+30】【朴智妍 压力-5】",
			wantChars: []CharChange{
				{CharID: "minsu", Stat: "singing", Delta: 10},
				{CharID: "jiyeon", Stat: "stress", Delta: -5},
			},
			wantGlobals: []GlobalChange{{Resource: "money", Delta: 30}},
		},
		{
			name:    "no tags",
			content: "只是普通的一段叙述，没有任何数值。",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotChars, gotGlobals := ParseStatChanges(tt.content, chars, gamedata.CharacterOrder)
			if len(gotChars) != len(tt.wantChars) {
				t.Fatalf("char changes = %v, want %v", gotChars, tt.wantChars)
			}
			for i, want := range tt.wantChars {
				if gotChars[i] != want {
					t.Errorf("char change %d = %v, want %v", i, gotChars[i], want)
				}
			}
			if len(gotGlobals) != len(tt.wantGlobals) {
				t.Fatalf("global changes = %v, want %v", gotGlobals, tt.wantGlobals)
			}
			for i, want := range tt.wantGlobals {
				if gotGlobals[i] != want {
					t.Errorf("global change %d = %v, want %v", i, gotGlobals[i], want)
				}
			}
		})
	}
}

func TestParseStatChangesDuplicateSuppression(t *testing.T) {
	chars := gamedata.BuildCharacters("unspecified")

	// Repeating an identical bare tag must not double-apply.
	_, globals := ParseStatChanges("【名声+5】中场休息。【名声+5】", chars, gamedata.CharacterOrder)
	if len(globals) != 1 {
		t.Fatalf("global changes = %v, want exactly one", globals)
	}
	if globals[0] != (GlobalChange{Resource: "fame", Delta: 5}) {
		t.Errorf("global change = %v, want fame +5", globals[0])
	}

	// A different delta for the same resource is not a duplicate.
	_, globals = ParseStatChanges("【金钱+20】【金钱-10】", chars, gamedata.CharacterOrder)
	if len(globals) != 2 {
		t.Fatalf("global changes = %v, want two", globals)
	}
}
