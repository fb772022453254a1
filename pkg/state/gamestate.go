// Package state holds the mutable session state of one playthrough and
// the pure logic that transforms it: the stat-change interpreter, the
// delta worker, the ending evaluator and the save snapshot.
package state

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/xingmeng/stardream/pkg/chat"
	"github.com/xingmeng/stardream/pkg/gamedata"
)

// Rich message types. Plain chat messages have an empty Type and are
// the only ones fed back into the prompt history.
const (
	MessageSceneTransition = "scene-transition"
	MessageMonthChange     = "month-change"
	MessageEvent           = "event"
)

// Message is one entry of the session transcript.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Character string `json:"character,omitempty"` // speaker id for assistant messages
	Type      string `json:"type,omitempty"`      // rich type, empty for plain chat
	Timestamp int64  `json:"timestamp"`           // unix milliseconds
}

// StoryRecord is one line of the journal shown on the records tab.
type StoryRecord struct {
	ID      string `json:"id"`
	Month   int    `json:"month"`
	Period  string `json:"period"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GlobalResources are agency-wide counters, floored at zero.
type GlobalResources struct {
	Money int `json:"money"`
	Fame  int `json:"fame"`
}

// GameState is the full state of one playthrough. Characters is the
// reference roster and is rebuilt from PlayerGender on load rather
// than persisted.
type GameState struct {
	ID           uuid.UUID `json:"id"`
	PlayerName   string    `json:"player_name"`
	PlayerGender string    `json:"player_gender"`

	Characters map[string]gamedata.Character `json:"-"`

	Month          int `json:"month"`
	PeriodIndex    int `json:"period_index"`
	ActionPoints   int `json:"action_points"`
	DebutCountdown int `json:"debut_countdown"`
	ChapterID      int `json:"chapter_id"`

	CurrentScene     string                               `json:"current_scene"`
	CurrentCharacter string                               `json:"current_character,omitempty"`
	CharacterStats   map[string]gamedata.CharacterStats   `json:"character_stats"`
	UnlockedScenes   []string                             `json:"unlocked_scenes"`
	Resources        GlobalResources                      `json:"global_resources"`
	TriggeredEvents  []string                             `json:"triggered_events"`
	MonthlyExpense   int                                  `json:"monthly_expense"`
	Inventory        map[string]int                       `json:"inventory"`

	Messages       []Message     `json:"messages"`
	HistorySummary string        `json:"history_summary"`
	StoryRecords   []StoryRecord `json:"story_records"`
	Choices        []string      `json:"choices"`
	EndingID       string        `json:"ending_id,omitempty"`

	IsTyping         bool   `json:"-"`
	StreamingContent string `json:"-"`
}

// idSeq disambiguates ids minted within the same millisecond.
var idSeq atomic.Uint64

func makeID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), idSeq.Add(1))
}

// NewGameState builds the month-1 state for a fresh playthrough:
// initial roster and stats, seed inventory, the welcome message, the
// first journal entry and the opening choice set.
func NewGameState(name, gender string) *GameState {
	if name == "" {
		name = "玩家"
	}
	chars := gamedata.BuildCharacters(gender)

	stats := make(map[string]gamedata.CharacterStats, len(chars))
	for id, c := range chars {
		cs := make(gamedata.CharacterStats, len(c.InitialStats))
		for k, v := range c.InitialStats {
			cs[k] = v
		}
		stats[id] = cs
	}

	gs := &GameState{
		ID:             uuid.New(),
		PlayerName:     name,
		PlayerGender:   gender,
		Characters:     chars,
		Month:          1,
		PeriodIndex:    0,
		ActionPoints:   gamedata.MaxActionPoints,
		DebutCountdown: gamedata.MaxMonths,
		ChapterID:      1,
		CurrentScene:   "practice",
		CharacterStats: stats,
		UnlockedScenes: append([]string(nil), gamedata.InitialScenes...),
		Resources:      GlobalResources{Money: gamedata.InitialMoney},
		MonthlyExpense: gamedata.MonthlyExpense,
		Inventory:      map[string]int{gamedata.ItemAuntNote: 1},
	}

	gs.AddSystemMessage(fmt.Sprintf(
		"欢迎来到《%s》！\n\n你是刚接管姑姑事务所的新任社长「%s」。三位怀揣梦想的练习生正等着你的决定：这个事务所，还能继续吗？\n\n%d个月的倒计时已经开始。",
		gamedata.StoryInfo.Title, name, gamedata.MaxMonths))
	gs.AddRecord("接管事务所", fmt.Sprintf("%s正式接管姑姑的练习生事务所，出道倒计时开始。", name))
	gs.Choices = []string{"查看练习生档案", "巡视事务所", "翻看姑姑的笔记", "召开第一次会议"}

	return gs
}

// Period returns the current slot of the daily cycle.
func (gs *GameState) Period() gamedata.TimePeriod {
	if gs.PeriodIndex < 0 || gs.PeriodIndex >= len(gamedata.Periods) {
		return gamedata.Periods[0]
	}
	return gamedata.Periods[gs.PeriodIndex]
}

// ActiveCharacter returns the currently selected character, if any.
func (gs *GameState) ActiveCharacter() (gamedata.Character, bool) {
	if gs.CurrentCharacter == "" {
		return gamedata.Character{}, false
	}
	c, ok := gs.Characters[gs.CurrentCharacter]
	return c, ok
}

// TraineeIDs returns the trainee subset of the roster in table order.
func (gs *GameState) TraineeIDs() []string {
	var ids []string
	for _, id := range gamedata.CharacterOrder {
		if c, ok := gs.Characters[id]; ok && c.IsTrainee {
			ids = append(ids, id)
		}
	}
	return ids
}

// HasTriggered reports whether a forced event has fired.
func (gs *GameState) HasTriggered(eventID string) bool {
	for _, id := range gs.TriggeredEvents {
		if id == eventID {
			return true
		}
	}
	return false
}

// AddMessage appends a transcript entry and returns it.
func (gs *GameState) AddMessage(role, content string) *Message {
	gs.Messages = append(gs.Messages, Message{
		ID:        makeID("msg"),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	})
	return &gs.Messages[len(gs.Messages)-1]
}

// AddSystemMessage appends a plain system message.
func (gs *GameState) AddSystemMessage(content string) {
	gs.AddMessage(chat.ChatRoleSystem, content)
}

// AddRecord appends a journal entry stamped with the current month and
// period.
func (gs *GameState) AddRecord(title, content string) {
	gs.StoryRecords = append(gs.StoryRecords, StoryRecord{
		ID:      makeID("sr"),
		Month:   gs.Month,
		Period:  gs.Period().Name,
		Title:   title,
		Content: content,
	})
}
