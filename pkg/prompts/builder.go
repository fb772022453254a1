package prompts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xingmeng/stardream/pkg/chat"
	"github.com/xingmeng/stardream/pkg/gamedata"
	"github.com/xingmeng/stardream/pkg/state"
)

// HistoryWindow is how many recent plain messages accompany the system
// prompt.
const HistoryWindow = 10

// Builder assembles the message list for one model turn.
type Builder struct {
	gs     *state.GameState
	script string
}

func New() *Builder {
	return &Builder{script: GameScript}
}

func (b *Builder) WithState(gs *state.GameState) *Builder {
	b.gs = gs
	return b
}

// WithScript overrides the default lore script. Used by tests.
func (b *Builder) WithScript(script string) *Builder {
	b.script = script
	return b
}

// Build returns the system prompt followed by the recent history
// window. Rich transcript entries (scene transitions, month changes,
// event cards) are display artifacts and are excluded from the window.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.gs == nil {
		return nil, errors.New("game state is required")
	}

	messages := []chat.ChatMessage{{Role: chat.ChatRoleSystem, Content: b.systemPrompt()}}

	var recent []chat.ChatMessage
	for _, m := range b.gs.Messages {
		if m.Type != "" {
			continue
		}
		recent = append(recent, chat.ChatMessage{Role: m.Role, Content: m.Content})
	}
	if len(recent) > HistoryWindow {
		recent = recent[len(recent)-HistoryWindow:]
	}

	return append(messages, recent...), nil
}

func (b *Builder) systemPrompt() string {
	gs := b.gs
	chapter := gamedata.CurrentChapter(gs.Month)
	period := gs.Period()

	sceneName := "练习室"
	if scene, ok := gamedata.Scenes[gs.CurrentScene]; ok {
		sceneName = scene.Name
	}

	activeLine := "当前交互角色：无"
	activeProfile := ""
	if c, ok := gs.ActiveCharacter(); ok {
		activeLine = fmt.Sprintf("当前交互角色：%s（%s）", c.Name, c.Title)
		activeProfile = b.characterProfile(c)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "你是《%s》的AI叙述者。\n\n", gamedata.StoryInfo.Title)
	fmt.Fprintf(&sb, "## 游戏剧本\n%s\n\n", b.script)

	fmt.Fprintf(&sb, "## 当前状态\n")
	fmt.Fprintf(&sb, "玩家「%s」%s\n", gs.PlayerName, honorific(gs.PlayerGender))
	fmt.Fprintf(&sb, "第%d/%d月 · %s\n", gs.Month, gamedata.MaxMonths, period.Name)
	fmt.Fprintf(&sb, "第%d章「%s」— %s\n", chapter.ID, chapter.Name, chapter.Description)
	fmt.Fprintf(&sb, "当前场景：%s\n", sceneName)
	fmt.Fprintf(&sb, "%s\n", activeLine)
	fmt.Fprintf(&sb, "行动力：%d/%d\n", gs.ActionPoints, gamedata.MaxActionPoints)
	fmt.Fprintf(&sb, "出道倒计时：%d月\n\n", gs.DebutCountdown)

	if activeProfile != "" {
		sb.WriteString(activeProfile)
	}

	fmt.Fprintf(&sb, "## 当前数值\n")
	fmt.Fprintf(&sb, "💰 金钱：%d万韩元（月支出%d万）\n", gs.Resources.Money, gs.MonthlyExpense)
	fmt.Fprintf(&sb, "⭐ 名声：%d\n\n", gs.Resources.Fame)
	fmt.Fprintf(&sb, "角色数值:\n%s\n\n", b.allStats())

	fmt.Fprintf(&sb, "## 背包\n%s\n\n", b.inventory())
	fmt.Fprintf(&sb, "## 已触发事件\n%s\n\n", orPlaceholder(strings.Join(gs.TriggeredEvents, "、"), "无"))
	fmt.Fprintf(&sb, "## 历史摘要\n%s\n\n", orPlaceholder(gs.HistorySummary, "旅程刚刚开始"))

	sb.WriteString(choiceInstruction)
	return sb.String()
}

// characterProfile renders the full persona block for the selected
// character, including the stat readout.
func (b *Builder) characterProfile(c gamedata.Character) string {
	stats := b.gs.CharacterStats[c.ID]

	var readout []string
	for _, m := range c.StatMetas {
		readout = append(readout, fmt.Sprintf("%s%d", m.Label, stats[m.Key]))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## 当前交互角色档案\n")
	fmt.Fprintf(&sb, "%s（%d岁·%s）\n", c.Name, c.Age, c.Title)
	fmt.Fprintf(&sb, "性格：%s\n", c.Personality)
	fmt.Fprintf(&sb, "介绍：%s\n", c.Description)
	fmt.Fprintf(&sb, "说话方式：%s\n", c.SpeakingStyle)
	fmt.Fprintf(&sb, "行为模式：%s\n", c.BehaviorPatterns)
	fmt.Fprintf(&sb, "雷点：%s\n", strings.Join(c.TriggerPoints, "、"))
	fmt.Fprintf(&sb, "隐藏设定（不可直接透露）：%s\n", c.Secret)
	fmt.Fprintf(&sb, "当前数值：%s\n\n", strings.Join(readout, " "))
	return sb.String()
}

// allStats lists every visible character's stat readout in table order.
func (b *Builder) allStats() string {
	gs := b.gs
	available := gamedata.AvailableCharacters(gs.Month, gs.Characters)

	var lines []string
	for _, id := range gamedata.CharacterOrder {
		c, ok := available[id]
		if !ok {
			continue
		}
		stats := gs.CharacterStats[id]
		var parts []string
		for _, m := range c.StatMetas {
			parts = append(parts, fmt.Sprintf("%s%d", m.Label, stats[m.Key]))
		}
		role := "练习生"
		if !c.IsTrainee {
			role = "对手"
		}
		lines = append(lines, fmt.Sprintf("%s(%s): %s", c.Name, role, strings.Join(parts, " ")))
	}
	return orPlaceholder(strings.Join(lines, "\n"), "无")
}

func (b *Builder) inventory() string {
	var parts []string
	for _, item := range orderedItems() {
		if count := b.gs.Inventory[item.ID]; count > 0 {
			parts = append(parts, fmt.Sprintf("%s %s x%d", item.Icon, item.Name, count))
		}
	}
	return orPlaceholder(strings.Join(parts, "、"), "空")
}

// orderedItems returns the item table in a stable order.
func orderedItems() []gamedata.Item {
	ids := []string{"aunt-note", "training-gear", "debut-invitation", "comfort", "encourage", "strict"}
	items := make([]gamedata.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := gamedata.Items[id]; ok {
			items = append(items, item)
		}
	}
	return items
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
