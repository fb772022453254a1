// Package engine is the game state machine. It owns all mutable
// session state and orchestrates the parser, the stat-change
// interpreter, the prompt builder, the LLM transport, persistence and
// analytics behind a command interface. The UI reads state only
// through View and mutates only through commands.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/xingmeng/stardream/internal/services"
	"github.com/xingmeng/stardream/internal/storage"
	"github.com/xingmeng/stardream/pkg/gamedata"
	"github.com/xingmeng/stardream/pkg/state"
)

// DefaultSaveKey is the single local save slot.
const DefaultSaveKey = "default"

type Engine struct {
	mu sync.Mutex

	gs *state.GameState

	// generation is bumped by Start, Load and Reset. An in-flight
	// reply commits only if the generation it started under is still
	// current; stale replies are discarded.
	generation uint64

	playerName   string
	playerGender string

	llm     services.LLMService
	store   storage.SaveStore
	tracker services.Tracker
	logger  *slog.Logger
	saveKey string
}

func New(llm services.LLMService, store storage.SaveStore, tracker services.Tracker, logger *slog.Logger) *Engine {
	if tracker == nil {
		tracker = services.NopTracker{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		llm:     llm,
		store:   store,
		tracker: tracker,
		logger:  logger,
		saveKey: DefaultSaveKey,
	}
}

// SetPlayerInfo records the player identity used by the next Start.
func (e *Engine) SetPlayerInfo(gender, name string) {
	e.mu.Lock()
	e.playerGender = gender
	e.playerName = name
	e.mu.Unlock()
	e.tracker.Track(services.EventPlayerCreate, map[string]any{"gender": gender, "name": name})
}

// Start begins a fresh playthrough, discarding any current state. Any
// reply still in flight is invalidated.
func (e *Engine) Start() {
	e.mu.Lock()
	e.generation++
	e.gs = state.NewGameState(e.playerName, e.playerGender)
	e.fireForcedEventsLocked()
	e.mu.Unlock()
	e.tracker.Track(services.EventGameStart, nil)
}

// Load restores the saved playthrough. Returns false when no usable
// save exists; state is untouched in that case.
func (e *Engine) Load(ctx context.Context) bool {
	raw, err := e.store.Get(ctx, e.saveKey)
	if err != nil {
		e.logger.Warn("Failed to read save", "error", err)
		return false
	}
	if raw == "" {
		return false
	}
	snap, err := state.DecodeSnapshot([]byte(raw))
	if err != nil {
		e.logger.Warn("Ignoring unusable save", "error", err)
		return false
	}

	e.mu.Lock()
	e.generation++
	e.gs = snap.Restore()
	e.playerName = e.gs.PlayerName
	e.playerGender = e.gs.PlayerGender
	e.mu.Unlock()

	e.tracker.Track(services.EventGameContinue, nil)
	return true
}

// HasSave reports whether a loadable save exists.
func (e *Engine) HasSave(ctx context.Context) bool {
	raw, err := e.store.Get(ctx, e.saveKey)
	if err != nil || raw == "" {
		return false
	}
	_, err = state.DecodeSnapshot([]byte(raw))
	return err == nil
}

// Reset discards the playthrough and deletes the save blob.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	e.generation++
	e.gs = nil
	e.mu.Unlock()

	if err := e.store.Del(ctx, e.saveKey); err != nil {
		e.logger.Warn("Failed to delete save", "error", err)
	}
}

// Save persists a snapshot. Best-effort: failures are logged and
// swallowed, a failed save never interrupts play.
func (e *Engine) Save(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.saveLocked(ctx)
}

func (e *Engine) saveLocked(ctx context.Context) {
	if e.gs == nil {
		return
	}
	data, err := state.NewSnapshot(e.gs).Encode()
	if err != nil {
		e.logger.Warn("Failed to encode save", "error", err)
		return
	}
	if err := e.store.Set(ctx, e.saveKey, string(data)); err != nil {
		e.logger.Warn("Failed to write save", "error", err)
	}
}

// View is a consistent read-only copy of the visible session state.
type View struct {
	Started bool

	PlayerName   string
	PlayerGender string

	Month          int
	PeriodIndex    int
	PeriodName     string
	ActionPoints   int
	DebutCountdown int
	ChapterID      int

	CurrentScene     string
	CurrentCharacter string
	CharacterStats   map[string]gamedata.CharacterStats
	UnlockedScenes   []string
	Resources        state.GlobalResources
	TriggeredEvents  []string
	Inventory        map[string]int

	Messages       []state.Message
	StoryRecords   []state.StoryRecord
	Choices        []string
	HistorySummary string
	EndingID       string

	IsTyping         bool
	StreamingContent string
}

// View snapshots the current state for rendering.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gs == nil {
		return View{PlayerName: e.playerName, PlayerGender: e.playerGender}
	}
	gs := e.gs

	stats := make(map[string]gamedata.CharacterStats, len(gs.CharacterStats))
	for id, cs := range gs.CharacterStats {
		cp := make(gamedata.CharacterStats, len(cs))
		for k, v := range cs {
			cp[k] = v
		}
		stats[id] = cp
	}
	inventory := make(map[string]int, len(gs.Inventory))
	for k, v := range gs.Inventory {
		inventory[k] = v
	}

	return View{
		Started:          true,
		PlayerName:       gs.PlayerName,
		PlayerGender:     gs.PlayerGender,
		Month:            gs.Month,
		PeriodIndex:      gs.PeriodIndex,
		PeriodName:       gs.Period().Name,
		ActionPoints:     gs.ActionPoints,
		DebutCountdown:   gs.DebutCountdown,
		ChapterID:        gs.ChapterID,
		CurrentScene:     gs.CurrentScene,
		CurrentCharacter: gs.CurrentCharacter,
		CharacterStats:   stats,
		UnlockedScenes:   append([]string(nil), gs.UnlockedScenes...),
		Resources:        gs.Resources,
		TriggeredEvents:  append([]string(nil), gs.TriggeredEvents...),
		Inventory:        inventory,
		Messages:         append([]state.Message(nil), gs.Messages...),
		StoryRecords:     append([]state.StoryRecord(nil), gs.StoryRecords...),
		Choices:          append([]string(nil), gs.Choices...),
		HistorySummary:   gs.HistorySummary,
		EndingID:         gs.EndingID,
		IsTyping:         gs.IsTyping,
		StreamingContent: gs.StreamingContent,
	}
}
