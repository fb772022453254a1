package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xingmeng/stardream/internal/services"
	"github.com/xingmeng/stardream/internal/storage"
	"github.com/xingmeng/stardream/pkg/chat"
	"github.com/xingmeng/stardream/pkg/gamedata"
)

type trackedEvent struct {
	name string
	data map[string]any
}

type recordingTracker struct {
	mu     sync.Mutex
	events []trackedEvent
}

func (r *recordingTracker) Track(name string, data map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, trackedEvent{name: name, data: data})
}

func (r *recordingTracker) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.name
	}
	return out
}

func testEngine(t *testing.T) (*Engine, *services.MockLLMService, *recordingTracker) {
	t.Helper()
	mock := services.NewMockLLMService()
	tracker := &recordingTracker{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := New(mock, storage.NewMemoryStore(), tracker, logger)
	e.SetPlayerInfo("female", "小林")
	e.Start()
	return e, mock, tracker
}

func lastMessage(t *testing.T, e *Engine) chatEntry {
	t.Helper()
	v := e.View()
	require.NotEmpty(t, v.Messages)
	m := v.Messages[len(v.Messages)-1]
	return chatEntry{role: m.Role, content: m.Content, character: m.Character, typ: m.Type}
}

type chatEntry struct {
	role, content, character, typ string
}

func TestStartInitializesState(t *testing.T) {
	e, _, tracker := testEngine(t)
	v := e.View()

	assert.True(t, v.Started)
	assert.Equal(t, 1, v.Month)
	assert.Equal(t, 0, v.PeriodIndex)
	assert.Equal(t, gamedata.MaxActionPoints, v.ActionPoints)
	assert.Equal(t, gamedata.InitialMoney, v.Resources.Money)
	assert.Equal(t, gamedata.MaxMonths, v.DebutCountdown)
	assert.Equal(t, 1, v.Inventory[gamedata.ItemAuntNote])
	assert.Len(t, v.Choices, 4)
	assert.Contains(t, v.Messages[0].Content, "欢迎来到")

	// The opening scripted event fires at month 1, period 0.
	assert.Contains(t, v.TriggeredEvents, "recruit")
	assert.Contains(t, tracker.names(), services.EventGameStart)
	assert.Contains(t, tracker.names(), services.EventPlayerCreate)
}

// The end-to-end turn: stat delta applied, choices extracted, one
// assistant message appended with the narrative only.
func TestSendMessageScenario(t *testing.T) {
	e, mock, _ := testEngine(t)
	before := e.View()
	trustBefore := before.CharacterStats["minsu"]["trust"]
	msgCount := len(before.Messages)

	mock.SetChatStreamResponse("【金敏秀 信任+5】很高兴\n1. a\n2. b\n3. c\n4. d")
	require.NoError(t, e.SendMessage(context.Background(), "train"))

	v := e.View()
	assert.Equal(t, trustBefore+5, v.CharacterStats["minsu"]["trust"])
	assert.Equal(t, []string{"a", "b", "c", "d"}, v.Choices)
	assert.Len(t, v.Messages, msgCount+2) // user + assistant

	last := lastMessage(t, e)
	assert.Equal(t, chat.ChatRoleAgent, last.role)
	assert.Equal(t, "很高兴", last.content)
	assert.Equal(t, "minsu", last.character) // named in the reply
	assert.False(t, v.IsTyping)
	assert.Empty(t, v.StreamingContent)

	// The turn landed in the journal and the autosave.
	assert.Equal(t, "train", v.StoryRecords[len(v.StoryRecords)-1].Title)
	assert.True(t, e.HasSave(context.Background()))
}

func TestSendMessageWhileTypingIsNoOp(t *testing.T) {
	e, mock, _ := testEngine(t)
	e.gs.IsTyping = true
	msgCount := len(e.View().Messages)

	require.NoError(t, e.SendMessage(context.Background(), "hello"))

	assert.Len(t, e.View().Messages, msgCount)
	_, streamCalls := mock.GetCalls()
	assert.Empty(t, streamCalls)
}

func TestSendMessageAfterEndingIsNoOp(t *testing.T) {
	e, mock, _ := testEngine(t)
	e.gs.EndingID = "he-debut"
	msgCount := len(e.View().Messages)

	require.NoError(t, e.SendMessage(context.Background(), "hello"))

	assert.Len(t, e.View().Messages, msgCount)
	_, streamCalls := mock.GetCalls()
	assert.Empty(t, streamCalls)
}

func TestSendMessageTransportError(t *testing.T) {
	e, mock, _ := testEngine(t)
	mock.SetChatStreamError(errors.New("connection refused"))

	err := e.SendMessage(context.Background(), "hello")
	require.Error(t, err)

	v := e.View()
	assert.False(t, v.IsTyping)
	assert.Empty(t, v.StreamingContent)

	last := lastMessage(t, e)
	assert.Equal(t, chat.ChatRoleSystem, last.role)
	assert.Contains(t, last.content, "请求失败")
	// The user's message is kept.
	prev := v.Messages[len(v.Messages)-2]
	assert.Equal(t, chat.ChatRoleUser, prev.Role)
	assert.Equal(t, "hello", prev.Content)
}

func TestSendMessageMidStreamError(t *testing.T) {
	e, mock, _ := testEngine(t)
	mock.ChatStreamFunc = func(ctx context.Context, _ []chat.ChatMessage) (<-chan services.StreamChunk, error) {
		return services.ErrorStream("部分内容", errors.New("stream reset")), nil
	}

	err := e.SendMessage(context.Background(), "hello")
	require.Error(t, err)

	v := e.View()
	assert.False(t, v.IsTyping)
	assert.Contains(t, lastMessage(t, e).content, "请求失败")
	// The partial reply was not committed as an assistant turn.
	for _, m := range v.Messages {
		assert.NotEqual(t, chat.ChatRoleAgent, m.Role)
	}
}

func TestSendMessageFallbackChoices(t *testing.T) {
	e, mock, _ := testEngine(t)
	mock.SetChatStreamResponse("没有任何选项的回复。")

	require.NoError(t, e.SendMessage(context.Background(), "hi"))
	assert.Equal(t, gamedata.QuickActions, e.View().Choices)

	e.SelectCharacter("minsu")
	require.NoError(t, e.SendMessage(context.Background(), "hi"))
	v := e.View()
	require.Len(t, v.Choices, 4)
	assert.Contains(t, v.Choices[0], "金敏秀")
}

func TestSendMessageStaleReplyDiscarded(t *testing.T) {
	e, mock, _ := testEngine(t)

	release := make(chan struct{})
	mock.ChatStreamFunc = func(ctx context.Context, _ []chat.ChatMessage) (<-chan services.StreamChunk, error) {
		out := make(chan services.StreamChunk)
		go func() {
			defer close(out)
			<-release
			out <- services.StreamChunk{Content: "迟到的回复\n1. a\n2. b\n3. c\n4. d"}
			out <- services.StreamChunk{Done: true}
		}()
		return out, nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.SendMessage(context.Background(), "hi")
	}()

	// Wait for the turn to be in flight, then invalidate it.
	for i := 0; i < 100 && !e.View().IsTyping; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	require.True(t, e.View().IsTyping)
	e.Reset(context.Background())
	close(release)
	<-done

	v := e.View()
	assert.False(t, v.Started)
	assert.Empty(t, v.Messages)
}

func TestSendMessageMilestoneTag(t *testing.T) {
	e, mock, _ := testEngine(t)
	mock.SetChatStreamResponse("真相大白。\n【事件 aunt-truth】\n1. a\n2. b\n3. c\n4. d")

	require.NoError(t, e.SendMessage(context.Background(), "追问姑姑的下落"))

	v := e.View()
	assert.Contains(t, v.TriggeredEvents, gamedata.EventAuntTruth)
	assert.Equal(t, "真相大白。", lastMessage(t, e).content)
}

func TestHistoryCompression(t *testing.T) {
	e, mock, _ := testEngine(t)
	for i := 0; i < historyCompressThreshold; i++ {
		e.gs.AddMessage(chat.ChatRoleUser, strings.Repeat("很长的旧消息", 20))
	}
	mock.SetChatStreamResponse("新回复\n1. a\n2. b\n3. c\n4. d")

	require.NoError(t, e.SendMessage(context.Background(), "hi"))

	v := e.View()
	// last 10 after compression, plus the assistant reply
	assert.Len(t, v.Messages, historyKeepCount+1)
	assert.NotEmpty(t, v.HistorySummary)
	assert.Contains(t, v.HistorySummary, "[user]")
	assert.LessOrEqual(t, len([]rune(v.HistorySummary)), summaryMaxRunes)
}

func TestAdvanceTimeCycle(t *testing.T) {
	e, _, _ := testEngine(t)
	e.gs.ActionPoints = 1

	for i := 0; i < len(gamedata.Periods); i++ {
		e.AdvanceTime(context.Background())
	}

	v := e.View()
	assert.Equal(t, 2, v.Month)
	assert.Equal(t, 0, v.PeriodIndex)
	assert.Equal(t, gamedata.MaxActionPoints, v.ActionPoints)
	assert.Equal(t, gamedata.MaxMonths-1, v.DebutCountdown)
	assert.Equal(t, gamedata.InitialMoney-gamedata.MonthlyExpense, v.Resources.Money)

	last := v.Messages[len(v.Messages)-1]
	assert.Equal(t, "第2月 · 清晨", last.Content)
	assert.Equal(t, "month-change", last.Type)
}

func TestAdvanceTimeChapterTransition(t *testing.T) {
	e, _, tracker := testEngine(t)
	e.gs.Month = 6
	e.gs.PeriodIndex = len(gamedata.Periods) - 1

	e.AdvanceTime(context.Background())

	v := e.View()
	assert.Equal(t, 7, v.Month)
	assert.Equal(t, 2, v.ChapterID)
	assert.Contains(t, tracker.names(), services.EventChapterEnter)

	var found bool
	for _, m := range v.Messages {
		if strings.Contains(m.Content, "第2章「星光初现」") {
			found = true
		}
	}
	assert.True(t, found, "chapter transition message missing")
}

func TestAdvanceTimeForcedEvent(t *testing.T) {
	e, _, _ := testEngine(t)
	e.gs.Month = 5
	e.gs.PeriodIndex = len(gamedata.Periods) - 1

	e.AdvanceTime(context.Background())

	v := e.View()
	assert.Contains(t, v.TriggeredEvents, "first-show")
	assert.Contains(t, lastMessage(t, e).content, "首次公演")

	// The event fires only once.
	e.AdvanceTime(context.Background())
	count := 0
	for _, id := range e.View().TriggeredEvents {
		if id == "first-show" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAdvanceTimeForcedEventPeriodGate(t *testing.T) {
	e, _, _ := testEngine(t)
	// poach-attempt wants month 10, period 2.
	e.gs.Month = 10
	e.gs.PeriodIndex = 0

	e.AdvanceTime(context.Background())
	assert.NotContains(t, e.View().TriggeredEvents, "poach-attempt")

	e.AdvanceTime(context.Background())
	assert.Contains(t, e.View().TriggeredEvents, "poach-attempt")
}

func TestAdvanceTimeBankruptcy(t *testing.T) {
	e, _, tracker := testEngine(t)
	// Even a perfect roster cannot outrun an empty account.
	for _, id := range e.gs.TraineeIDs() {
		e.gs.CharacterStats[id]["trust"] = 90
		e.gs.CharacterStats[id]["dance"] = 90
		e.gs.CharacterStats[id]["singing"] = 90
		e.gs.CharacterStats[id]["variety"] = 90
	}
	e.gs.Resources.Money = gamedata.MonthlyExpense
	e.gs.PeriodIndex = len(gamedata.Periods) - 1

	e.AdvanceTime(context.Background())

	assert.Equal(t, "be-bankrupt", e.View().EndingID)
	assert.Contains(t, tracker.names(), services.EventBankrupt)
	assert.Contains(t, tracker.names(), services.EventEndingReached)
}

func TestAdvanceTimeAllLeave(t *testing.T) {
	e, _, _ := testEngine(t)
	for _, id := range e.gs.TraineeIDs() {
		e.gs.CharacterStats[id]["trust"] = 5
	}

	// Inside the grace window nothing happens.
	e.gs.Month = 5
	e.AdvanceTime(context.Background())
	assert.Empty(t, e.View().EndingID)

	e.gs.Month = 7
	e.AdvanceTime(context.Background())
	assert.Equal(t, "be-all-leave", e.View().EndingID)
}

func TestAdvanceTimeAfterEndingIsNoOp(t *testing.T) {
	e, _, _ := testEngine(t)
	e.gs.EndingID = "he-debut"
	e.AdvanceTime(context.Background())
	assert.Equal(t, 0, e.View().PeriodIndex)
}

func TestAdvanceTimeStressCrisisEvent(t *testing.T) {
	e, _, tracker := testEngine(t)
	e.gs.CharacterStats["minsu"]["stress"] = 85
	e.gs.PeriodIndex = len(gamedata.Periods) - 1

	e.AdvanceTime(context.Background())

	assert.Contains(t, tracker.names(), services.EventStressCrisis)
}

func TestUseItem(t *testing.T) {
	t.Run("aunt note keeps its count", func(t *testing.T) {
		e, _, _ := testEngine(t)
		e.UseItem(gamedata.ItemAuntNote)
		v := e.View()
		assert.Equal(t, 1, v.Inventory[gamedata.ItemAuntNote])
		assert.Contains(t, lastMessage(t, e).content, "姑姑的笔记")
	})

	t.Run("none left", func(t *testing.T) {
		e, _, _ := testEngine(t)
		e.UseItem("comfort")
		assert.Contains(t, lastMessage(t, e).content, "你没有")
	})

	t.Run("comfort needs an active character", func(t *testing.T) {
		e, _, _ := testEngine(t)
		e.gs.Inventory["comfort"] = 2
		stress := e.gs.CharacterStats["minsu"]["stress"]

		e.UseItem("comfort")
		assert.Equal(t, stress, e.View().CharacterStats["minsu"]["stress"])

		e.SelectCharacter("minsu")
		e.UseItem("comfort")
		v := e.View()
		assert.Equal(t, stress-10, v.CharacterStats["minsu"]["stress"])
		assert.Equal(t, 0, v.Inventory["comfort"])
	})

	t.Run("strict raises stress", func(t *testing.T) {
		e, _, _ := testEngine(t)
		e.gs.Inventory["strict"] = 1
		e.SelectCharacter("jiyeon")
		stress := e.gs.CharacterStats["jiyeon"]["stress"]

		e.UseItem("strict")
		assert.Equal(t, stress+5, e.View().CharacterStats["jiyeon"]["stress"])
	})

	t.Run("training gear purchase", func(t *testing.T) {
		e, _, _ := testEngine(t)
		e.gs.Resources.Money = 40
		e.UseItem("training-gear")
		v := e.View()
		assert.Equal(t, 40, v.Resources.Money)
		assert.Zero(t, v.Inventory["training-gear"])
		assert.Contains(t, lastMessage(t, e).content, "资金不足")

		e.gs.Resources.Money = 60
		e.UseItem("training-gear")
		v = e.View()
		assert.Equal(t, 10, v.Resources.Money)
		assert.Equal(t, 1, v.Inventory["training-gear"])

		// Owning it blocks a second purchase.
		e.UseItem("training-gear")
		assert.Equal(t, 10, e.View().Resources.Money)
	})
}

func TestSelectScene(t *testing.T) {
	e, _, tracker := testEngine(t)
	msgCount := len(e.View().Messages)

	// Same scene: nothing happens.
	e.SelectScene("practice")
	assert.Len(t, e.View().Messages, msgCount)

	e.SelectScene("studio")
	v := e.View()
	assert.Equal(t, "studio", v.CurrentScene)
	last := v.Messages[len(v.Messages)-1]
	assert.Equal(t, "scene-transition", last.Type)
	assert.Contains(t, last.Content, "录音室")
	assert.Contains(t, tracker.names(), services.EventSceneUnlock)
}

func TestSelectCharacterValidation(t *testing.T) {
	e, _, _ := testEngine(t)

	e.SelectCharacter("minsu")
	assert.Equal(t, "minsu", e.View().CurrentCharacter)

	e.SelectCharacter("nobody")
	assert.Equal(t, "minsu", e.View().CurrentCharacter)

	e.SelectCharacter("")
	assert.Empty(t, e.View().CurrentCharacter)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := New(services.NewMockLLMService(), store, nil, logger)
	e.SetPlayerInfo("male", "老板")
	e.Start()
	e.gs.Month = 12
	e.gs.PeriodIndex = 4
	e.gs.Resources.Money = 88
	e.gs.CharacterStats["arin"]["attitude"] = 70
	e.Save(context.Background())

	e2 := New(services.NewMockLLMService(), store, nil, logger)
	require.True(t, e2.Load(context.Background()))

	v := e2.View()
	assert.Equal(t, "老板", v.PlayerName)
	assert.Equal(t, 12, v.Month)
	assert.Equal(t, 4, v.PeriodIndex)
	assert.Equal(t, 88, v.Resources.Money)
	assert.Equal(t, 70, v.CharacterStats["arin"]["attitude"])
}

func TestLoadWithoutSave(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := New(services.NewMockLLMService(), storage.NewMemoryStore(), nil, logger)
	assert.False(t, e.Load(context.Background()))
	assert.False(t, e.HasSave(context.Background()))
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), DefaultSaveKey, `{"version":99}`))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := New(services.NewMockLLMService(), store, nil, logger)
	assert.False(t, e.Load(context.Background()))
	assert.False(t, e.HasSave(context.Background()))
}

func TestResetClearsSave(t *testing.T) {
	e, _, _ := testEngine(t)
	e.Save(context.Background())
	require.True(t, e.HasSave(context.Background()))

	e.Reset(context.Background())
	assert.False(t, e.View().Started)
	assert.False(t, e.HasSave(context.Background()))
}

func TestCheckEndingAbsorbing(t *testing.T) {
	e, _, tracker := testEngine(t)
	e.gs.Resources.Money = 0
	e.CheckEnding()
	require.Equal(t, "be-bankrupt", e.View().EndingID)

	// A later, different condition cannot replace it.
	e.gs.Resources.Money = 100
	for _, id := range e.gs.TraineeIDs() {
		e.gs.CharacterStats[id]["trust"] = 90
		e.gs.CharacterStats[id]["dance"] = 90
		e.gs.CharacterStats[id]["singing"] = 90
		e.gs.CharacterStats[id]["variety"] = 90
	}
	e.CheckEnding()
	assert.Equal(t, "be-bankrupt", e.View().EndingID)

	count := 0
	for _, name := range tracker.names() {
		if name == services.EventEndingReached {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
