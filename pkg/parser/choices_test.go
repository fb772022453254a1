package parser

import "testing"

func TestExtractChoices(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantClean   string
		wantChoices []string
	}{
		{
			name:        "four numbered choices",
			in:          "故事继续。\n1. 安排训练\n2. 私下谈心\n3. 检查账目\n4. 休息",
			wantClean:   "故事继续。",
			wantChoices: []string{"安排训练", "私下谈心", "检查账目", "休息"},
		},
		{
			name:        "lettered choices",
			in:          "故事继续。\nA. 前进\nB. 后退",
			wantClean:   "故事继续。",
			wantChoices: []string{"前进", "后退"},
		},
		{
			name:        "chinese enumeration separator",
			in:          "故事继续。\n1、跟上去\n2、留在原地",
			wantClean:   "故事继续。",
			wantChoices: []string{"跟上去", "留在原地"},
		},
		{
			name:        "lead-in line stripped",
			in:          "故事继续。\n\n你可以选择：\n1. 答应\n2. 拒绝",
			wantClean:   "故事继续。",
			wantChoices: []string{"答应", "拒绝"},
		},
		{
			name:      "single trailing choice is not enough",
			in:        "故事继续。\n1. 唯一的选项",
			wantClean: "故事继续。\n1. 唯一的选项",
		},
		{
			name:      "no choices",
			in:        "只有叙述，没有选项。",
			wantClean: "只有叙述，没有选项。",
		},
		{
			name:      "choices in the middle are not extracted",
			in:        "1. 不算\n2. 不算\n后面还有叙述。",
			wantClean: "1. 不算\n2. 不算\n后面还有叙述。",
		},
		{
			name:        "blank lines between choices tolerated",
			in:          "故事继续。\n1. 甲\n\n2. 乙\n\n3. 丙\n4. 丁",
			wantClean:   "故事继续。",
			wantChoices: []string{"甲", "乙", "丙", "丁"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, choices := ExtractChoices(tt.in)
			if clean != tt.wantClean {
				t.Errorf("clean = %q, want %q", clean, tt.wantClean)
			}
			if len(choices) != len(tt.wantChoices) {
				t.Fatalf("choices = %v, want %v", choices, tt.wantChoices)
			}
			for i := range choices {
				if choices[i] != tt.wantChoices[i] {
					t.Errorf("choice %d = %q, want %q", i, choices[i], tt.wantChoices[i])
				}
			}
		})
	}
}
