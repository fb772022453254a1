package engine

import (
	"context"
	"fmt"

	"github.com/xingmeng/stardream/internal/services"
	"github.com/xingmeng/stardream/pkg/chat"
	"github.com/xingmeng/stardream/pkg/gamedata"
	"github.com/xingmeng/stardream/pkg/state"
)

// allLeaveGraceMonths is the early-game window during which the
// mass-departure ending cannot trigger from advancing time.
const allLeaveGraceMonths = 6

// SelectCharacter points the conversation at a character, or at nobody
// with an empty id. Unknown or not-yet-visible ids are ignored.
func (e *Engine) SelectCharacter(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return
	}
	if id != "" {
		c, ok := e.gs.Characters[id]
		if !ok || c.JoinMonth > e.gs.Month {
			return
		}
	}
	e.gs.CurrentCharacter = id
}

// SelectScene moves the story to another location. Selecting the
// current scene is a no-op; otherwise a transition entry is appended
// and a scene event fires (repeat visits refire).
func (e *Engine) SelectScene(id string) {
	e.mu.Lock()
	if e.gs == nil || e.gs.CurrentScene == id {
		e.mu.Unlock()
		return
	}
	scene, ok := gamedata.Scenes[id]
	if !ok {
		e.mu.Unlock()
		return
	}

	e.gs.CurrentScene = id
	m := e.gs.AddMessage(chat.ChatRoleSystem, fmt.Sprintf("你来到了%s。%s", scene.Name, scene.Atmosphere))
	m.Type = state.MessageSceneTransition
	e.mu.Unlock()

	e.tracker.Track(services.EventSceneUnlock, map[string]any{"scene": id})
}

// AdvanceTime moves to the next period, cyclically. A wrap into a new
// month runs the monthly upkeep, posts the month and chapter cards,
// and can trigger forced events and endings.
func (e *Engine) AdvanceTime(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil || e.gs.EndingID != "" {
		return
	}
	gs := e.gs

	gs.PeriodIndex++
	chapterChanged := false

	if gs.PeriodIndex >= len(gamedata.Periods) {
		gs.PeriodIndex = 0
		gs.Month++
		gs.ActionPoints = gamedata.MaxActionPoints

		crisis := state.NewDeltaWorker(gs).MonthlyTick()
		for _, id := range crisis {
			e.tracker.Track(services.EventStressCrisis, map[string]any{
				"charId": id,
				"stress": gs.CharacterStats[id]["stress"],
			})
		}

		m := gs.AddMessage(chat.ChatRoleSystem, fmt.Sprintf("第%d月 · %s", gs.Month, gamedata.Periods[0].Name))
		m.Type = state.MessageMonthChange

		chapter := gamedata.CurrentChapter(gs.Month)
		if chapter.ID != gs.ChapterID {
			chapterChanged = true
			gs.ChapterID = chapter.ID
			gs.AddSystemMessage(fmt.Sprintf("— 第%d章「%s」%s —", chapter.ID, chapter.Name, chapter.Description))
		}

		gs.AddRecord(fmt.Sprintf("进入第%d月", gs.Month), fmt.Sprintf("%s · %s", chapter.Name, gamedata.Periods[0].Name))
	}

	e.tracker.Track(services.EventTimeAdvance, map[string]any{
		"month":  gs.Month,
		"period": gs.Period().Name,
	})
	if chapterChanged {
		e.tracker.Track(services.EventChapterEnter, map[string]any{"chapter": gs.ChapterID})
	}

	// Bankruptcy at the turn of a month ends the game before anything
	// else can happen.
	if gs.Resources.Money <= 0 && gs.PeriodIndex == 0 {
		e.tracker.Track(services.EventBankrupt, nil)
		e.commitEndingLocked("be-bankrupt")
		e.saveLocked(ctx)
		return
	}

	e.fireForcedEventsLocked()

	if gs.Month > allLeaveGraceMonths {
		allLow := true
		for _, id := range gs.TraineeIDs() {
			if gs.CharacterStats[id]["trust"] >= 20 {
				allLow = false
				break
			}
		}
		if allLow {
			e.commitEndingLocked("be-all-leave")
			e.saveLocked(ctx)
			return
		}
	}

	if gs.Month >= gamedata.MaxMonths && gs.PeriodIndex == len(gamedata.Periods)-1 {
		e.checkEndingLocked()
	}

	e.saveLocked(ctx)
}

// UseItem applies one item. Social items need an active character;
// the upgrade item gates on money.
func (e *Engine) UseItem(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return
	}
	gs := e.gs

	item, ok := gamedata.Items[id]
	if !ok {
		return
	}
	if gs.Inventory[id] <= 0 && item.Type != gamedata.ItemUpgrade {
		gs.AddSystemMessage(fmt.Sprintf("你没有 %s 了。", item.Name))
		return
	}

	if item.Type == gamedata.ItemConsumable || item.Type == gamedata.ItemSocial {
		if gs.Inventory[id] > 0 {
			gs.Inventory[id]--
		}
	}

	charStats := func() gamedata.CharacterStats {
		if gs.CurrentCharacter == "" {
			return nil
		}
		return gs.CharacterStats[gs.CurrentCharacter]
	}

	switch id {
	case gamedata.ItemAuntNote:
		gs.AddSystemMessage("📝 你翻开姑姑的笔记，熟悉的字迹映入眼帘——\"不要试图改变他们，要帮他们找到自己...\"")
	case "comfort":
		if stats := charStats(); stats != nil {
			stats["stress"] = clamp(stats["stress"] - 10)
			stats["mood"] = clamp(stats["mood"] + 5)
			gs.AddSystemMessage("🫂 你温暖地安慰了练习生，压力-10 心情+5")
		}
	case "encourage":
		if stats := charStats(); stats != nil {
			stats["mood"] = clamp(stats["mood"] + 10)
			gs.AddSystemMessage("🔥 你发表了一番激励人心的话，心情+10")
		}
	case "strict":
		if stats := charStats(); stats != nil {
			stats["stress"] = clamp(stats["stress"] + 5)
			gs.AddSystemMessage("📏 你严厉地指出了问题，压力+5 但训练会更有效")
		}
	case "training-gear":
		if gs.Inventory[id] > 0 {
			break
		}
		if gs.Resources.Money >= item.Cost {
			gs.Resources.Money -= item.Cost
			gs.Inventory[id] = 1
			gs.AddSystemMessage(fmt.Sprintf("🎧 购入了专业训练设备！训练效果大幅提升。金钱-%d", item.Cost))
		} else {
			gs.AddSystemMessage("💰 资金不足，无法购买训练设备。")
		}
	}
}

// CheckEnding evaluates ending conditions and commits the first match.
// A reached ending is final.
func (e *Engine) CheckEnding() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return
	}
	e.checkEndingLocked()
}

func (e *Engine) checkEndingLocked() {
	if e.gs.EndingID != "" {
		return
	}
	if id := state.EvaluateEnding(e.gs); id != "" {
		e.commitEndingLocked(id)
	}
}

func (e *Engine) commitEndingLocked(id string) {
	if e.gs.EndingID != "" {
		return
	}
	e.tracker.Track(services.EventEndingReached, map[string]any{"ending": id})
	e.gs.EndingID = id
	e.logger.Info("Ending reached", "ending", id, "month", e.gs.Month)
}

// fireForcedEventsLocked appends any scheduled event due at the
// current month and period, at most once each per playthrough.
func (e *Engine) fireForcedEventsLocked() {
	gs := e.gs
	for _, event := range gamedata.MonthEvents(gs.Month, gs.TriggeredEvents) {
		if event.TriggerPeriod != -1 && event.TriggerPeriod != gs.PeriodIndex {
			continue
		}
		gs.TriggeredEvents = append(gs.TriggeredEvents, event.ID)
		gs.AddSystemMessage(fmt.Sprintf("🎬 【%s】%s", event.Name, event.Description))
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
