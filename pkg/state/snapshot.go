package state

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/xingmeng/stardream/pkg/gamedata"
)

// SnapshotVersion is the save-blob schema version. Blobs with any
// other version are rejected on load and the caller starts fresh.
const SnapshotVersion = 1

// Transcript retention in the save blob.
const (
	saveMessageLimit = 30
	saveRecordLimit  = 50
)

// Snapshot is the persisted form of a GameState: dynamic state only.
// The character roster is rebuilt from the player gender on restore.
type Snapshot struct {
	Version      int       `json:"version"`
	ID           uuid.UUID `json:"id"`
	PlayerName   string    `json:"player_name"`
	PlayerGender string    `json:"player_gender"`

	Month          int `json:"month"`
	PeriodIndex    int `json:"period_index"`
	ActionPoints   int `json:"action_points"`
	DebutCountdown int `json:"debut_countdown"`
	ChapterID      int `json:"chapter_id"`

	CurrentScene     string                             `json:"current_scene"`
	CurrentCharacter string                             `json:"current_character,omitempty"`
	CharacterStats   map[string]gamedata.CharacterStats `json:"character_stats"`
	UnlockedScenes   []string                           `json:"unlocked_scenes"`
	Resources        GlobalResources                    `json:"global_resources"`
	TriggeredEvents  []string                           `json:"triggered_events"`
	MonthlyExpense   int                                `json:"monthly_expense"`
	Inventory        map[string]int                     `json:"inventory"`

	Messages       []Message     `json:"messages"`
	HistorySummary string        `json:"history_summary"`
	StoryRecords   []StoryRecord `json:"story_records"`
	EndingID       string        `json:"ending_id,omitempty"`
}

// NewSnapshot captures a GameState for persistence, truncating the
// transcript to the most recent entries.
func NewSnapshot(gs *GameState) *Snapshot {
	messages := gs.Messages
	if len(messages) > saveMessageLimit {
		messages = messages[len(messages)-saveMessageLimit:]
	}
	records := gs.StoryRecords
	if len(records) > saveRecordLimit {
		records = records[len(records)-saveRecordLimit:]
	}

	return &Snapshot{
		Version:          SnapshotVersion,
		ID:               gs.ID,
		PlayerName:       gs.PlayerName,
		PlayerGender:     gs.PlayerGender,
		Month:            gs.Month,
		PeriodIndex:      gs.PeriodIndex,
		ActionPoints:     gs.ActionPoints,
		DebutCountdown:   gs.DebutCountdown,
		ChapterID:        gs.ChapterID,
		CurrentScene:     gs.CurrentScene,
		CurrentCharacter: gs.CurrentCharacter,
		CharacterStats:   gs.CharacterStats,
		UnlockedScenes:   gs.UnlockedScenes,
		Resources:        gs.Resources,
		TriggeredEvents:  gs.TriggeredEvents,
		MonthlyExpense:   gs.MonthlyExpense,
		Inventory:        gs.Inventory,
		Messages:         append([]Message(nil), messages...),
		HistorySummary:   gs.HistorySummary,
		StoryRecords:     append([]StoryRecord(nil), records...),
		EndingID:         gs.EndingID,
	}
}

// Encode marshals the snapshot for storage.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses a stored blob. Unparseable data or a version
// mismatch is an error; callers treat that as no save.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse save data: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported save version %d", s.Version)
	}
	return &s, nil
}

// Restore rebuilds a live GameState from the snapshot, filling
// defaults for fields absent in older blobs of the same version.
func (s *Snapshot) Restore() *GameState {
	gs := &GameState{
		ID:               s.ID,
		PlayerName:       s.PlayerName,
		PlayerGender:     s.PlayerGender,
		Characters:       gamedata.BuildCharacters(s.PlayerGender),
		Month:            s.Month,
		PeriodIndex:      s.PeriodIndex,
		ActionPoints:     s.ActionPoints,
		DebutCountdown:   s.DebutCountdown,
		ChapterID:        s.ChapterID,
		CurrentScene:     s.CurrentScene,
		CurrentCharacter: s.CurrentCharacter,
		CharacterStats:   s.CharacterStats,
		UnlockedScenes:   s.UnlockedScenes,
		Resources:        s.Resources,
		TriggeredEvents:  s.TriggeredEvents,
		MonthlyExpense:   s.MonthlyExpense,
		Inventory:        s.Inventory,
		Messages:         s.Messages,
		HistorySummary:   s.HistorySummary,
		StoryRecords:     s.StoryRecords,
		EndingID:         s.EndingID,
	}

	if gs.ID == uuid.Nil {
		gs.ID = uuid.New()
	}
	if gs.PlayerName == "" {
		gs.PlayerName = "玩家"
	}
	if gs.ChapterID == 0 {
		gs.ChapterID = 1
	}
	if gs.CurrentScene == "" {
		gs.CurrentScene = "practice"
	}
	if len(gs.UnlockedScenes) == 0 {
		gs.UnlockedScenes = append([]string(nil), gamedata.InitialScenes...)
	}
	if gs.MonthlyExpense == 0 {
		gs.MonthlyExpense = gamedata.MonthlyExpense
	}
	if gs.CharacterStats == nil {
		gs.CharacterStats = make(map[string]gamedata.CharacterStats)
	}
	if gs.Inventory == nil {
		gs.Inventory = make(map[string]int)
	}
	return gs
}
