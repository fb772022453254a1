package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/xingmeng/stardream/pkg/chat"
	"github.com/xingmeng/stardream/pkg/gamedata"
	"github.com/xingmeng/stardream/pkg/parser"
	"github.com/xingmeng/stardream/pkg/prompts"
	"github.com/xingmeng/stardream/pkg/state"
)

const (
	// historyCompressThreshold is the transcript length past which the
	// oldest entries fold into the rolling summary.
	historyCompressThreshold = 15
	// historyKeepCount entries stay live after compression.
	historyKeepCount = 10
	// summaryMaxRunes bounds the rolling summary.
	summaryMaxRunes = 2000
	// summaryLineRunes bounds each folded message's contribution.
	summaryLineRunes = 80

	recordTitleRunes   = 20
	recordContentRunes = 100
)

// eventTagRe matches narrative milestone tags like 【事件 aunt-truth】
// that the script instructs the model to emit.
var eventTagRe = regexp.MustCompile(`[【\[]事件\s+([a-z0-9-]+)[】\]]`)

// SendMessage runs one player turn: append the user message, compress
// history if needed, build the prompt, stream the model reply, then
// interpret and commit it. A turn already in flight or a reached
// ending makes this a silent no-op. Transport failure keeps the
// user's message and surfaces an in-fiction system error line.
func (e *Engine) SendMessage(ctx context.Context, content string) error {
	e.mu.Lock()
	if e.gs == nil || e.gs.IsTyping || e.gs.EndingID != "" {
		e.mu.Unlock()
		return nil
	}
	gen := e.generation
	gs := e.gs

	gs.AddMessage(chat.ChatRoleUser, content)
	gs.IsTyping = true
	gs.StreamingContent = ""
	e.compressHistoryLocked()

	messages, err := prompts.New().WithState(gs).Build()
	e.mu.Unlock()
	if err != nil {
		e.failTurn(gen, err)
		return err
	}

	stream, err := e.llm.ChatStream(ctx, messages)
	if err != nil {
		e.failTurn(gen, err)
		return err
	}

	var full strings.Builder
	for chunk := range stream {
		if chunk.Err != nil {
			e.failTurn(gen, chunk.Err)
			return chunk.Err
		}
		if chunk.Done {
			break
		}
		full.WriteString(chunk.Content)

		e.mu.Lock()
		if e.generation == gen {
			e.gs.StreamingContent = full.String()
		}
		e.mu.Unlock()
	}

	e.commitReply(ctx, gen, content, full.String())
	return nil
}

// commitReply applies a finished model reply: stat deltas, milestone
// tags, speaker detection, choice extraction, transcript and journal
// entries, ending check and save. Replies from a superseded
// generation are dropped whole.
func (e *Engine) commitReply(ctx context.Context, gen uint64, userContent, reply string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation != gen {
		e.logger.Debug("Discarding stale reply")
		return
	}
	gs := e.gs

	charChanges, globalChanges := state.ParseStatChanges(reply, gs.Characters, gamedata.CharacterOrder)
	state.NewDeltaWorker(gs).Apply(charChanges, globalChanges)

	reply = e.consumeEventTagsLocked(reply)

	// Attribute the reply to the speaker the parser detected, falling
	// back to the selected character.
	speaker := ""
	if parsed := parser.ParseStoryParagraph(reply); parsed.CharColor != "" {
		for _, id := range gamedata.CharacterOrder {
			if c, ok := gs.Characters[id]; ok && c.ThemeColor == parsed.CharColor {
				speaker = id
				break
			}
		}
	}
	if speaker == "" {
		speaker = gs.CurrentCharacter
	}

	clean, choices := parser.ExtractChoices(reply)
	clean = strings.TrimSpace(parser.StripInlineStatTags(clean))
	if len(choices) < 2 {
		choices = e.fallbackChoicesLocked()
	}
	if len(choices) > parser.MaxChoices {
		choices = choices[:parser.MaxChoices]
	}

	m := gs.AddMessage(chat.ChatRoleAgent, clean)
	m.Character = speaker
	gs.Choices = choices
	gs.AddRecord(truncateRunes(userContent, recordTitleRunes), truncateRunes(clean, recordContentRunes))

	gs.IsTyping = false
	gs.StreamingContent = ""

	e.checkEndingLocked()
	e.saveLocked(ctx)
}

// failTurn recovers from a transport failure: flags are cleared and
// the error surfaces as a narrative system line. The user's message
// stays in the transcript.
func (e *Engine) failTurn(gen uint64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation != gen {
		return
	}
	e.gs.IsTyping = false
	e.gs.StreamingContent = ""
	e.gs.AddSystemMessage("请求失败: " + err.Error())
	e.logger.Warn("Chat turn failed", "error", err)
}

// compressHistoryLocked folds the transcript's oldest entries into the
// rolling summary once it grows past the threshold, keeping the most
// recent entries live. Plain system notices are skipped; they carry no
// story.
func (e *Engine) compressHistoryLocked() {
	gs := e.gs
	if len(gs.Messages) <= historyCompressThreshold {
		return
	}

	old := gs.Messages[:len(gs.Messages)-historyKeepCount]
	var lines []string
	for _, m := range old {
		if m.Role == chat.ChatRoleSystem && m.Type == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", m.Role, truncateRunes(m.Content, summaryLineRunes)))
	}

	summary := gs.HistorySummary + "\n" + strings.Join(lines, "\n")
	if runes := []rune(summary); len(runes) > summaryMaxRunes {
		summary = string(runes[len(runes)-summaryMaxRunes:])
	}
	gs.HistorySummary = summary
	gs.Messages = append([]state.Message(nil), gs.Messages[len(gs.Messages)-historyKeepCount:]...)
}

// consumeEventTagsLocked records milestone tags from the reply as
// triggered events and strips the tag lines from the shown text.
func (e *Engine) consumeEventTagsLocked(reply string) string {
	matches := eventTagRe.FindAllStringSubmatch(reply, -1)
	if len(matches) == 0 {
		return reply
	}
	for _, m := range matches {
		id := m[1]
		if !e.gs.HasTriggered(id) {
			e.gs.TriggeredEvents = append(e.gs.TriggeredEvents, id)
			e.logger.Info("Narrative milestone triggered", "event", id)
		}
	}
	cleaned := eventTagRe.ReplaceAllString(reply, "")
	return strings.TrimSpace(cleaned)
}

// fallbackChoicesLocked supplies the deterministic choice set used
// when the model returned fewer than two parseable choices.
func (e *Engine) fallbackChoicesLocked() []string {
	if c, ok := e.gs.ActiveCharacter(); ok {
		return []string{
			fmt.Sprintf("继续和%s交流", c.Name),
			fmt.Sprintf("安排%s训练", c.Name),
			fmt.Sprintf("了解%s的近况", c.Name),
			"换个话题",
		}
	}
	return append([]string(nil), gamedata.QuickActions...)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
