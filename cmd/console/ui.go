package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/xingmeng/stardream/internal/engine"
	"github.com/xingmeng/stardream/pkg/chat"
	"github.com/xingmeng/stardream/pkg/gamedata"
	"github.com/xingmeng/stardream/pkg/state"
)

const (
	PlaceHolderText = "输入你的行动，或按 1-4 选择选项..."

	// streamTickInterval paces streaming-content refreshes.
	streamTickInterval = 120 * time.Millisecond
)

// setupStep walks the pre-game modal: continue-or-new, then name, then
// gender.
type setupStep int

const (
	stepSaveCheck setupStep = iota
	stepChoose
	stepName
	stepGender
	stepDone
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	engine       *engine.Engine
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int

	// Setup modal state
	step       setupStep
	hasSave    bool
	setupName  string
	setupError string

	// Quit confirmation state
	showQuitModal bool

	// Streaming render state
	streaming    bool
	progressTick int
}

type saveCheckedMsg struct{ hasSave bool }

type turnDoneMsg struct{ err error }

type streamTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // grey

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true)

	monthStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // pale yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(eng *engine.Engine) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		engine:       eng,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		step:         stepSaveCheck,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.checkSave(), textarea.Blink)
}

func (m ConsoleUI) checkSave() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return saveCheckedMsg{hasSave: m.engine.HasSave(ctx)}
	}
}

// sendTurn runs one full chat turn off the UI goroutine. The engine
// streams into its own state; streamTick repaints while it does.
func (m ConsoleUI) sendTurn(content string) tea.Cmd {
	send := func() tea.Msg {
		return turnDoneMsg{err: m.engine.SendMessage(context.Background(), content)}
	}
	return tea.Batch(send, m.streamTick())
}

func (m ConsoleUI) streamTick() tea.Cmd {
	return tea.Tick(streamTickInterval, func(time.Time) tea.Msg {
		return streamTickMsg{}
	})
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.step != stepDone {
		return m.updateSetupModal(msg)
	}
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()

	case streamTickMsg:
		if m.streaming {
			m.progressTick++
			m.refresh()
			return m, m.streamTick()
		}

	case turnDoneMsg:
		m.streaming = false
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyCtrlT:
			if !m.streaming {
				m.engine.AdvanceTime(context.Background())
				m.refresh()
			}
			return m, nil

		case tea.KeyCtrlY:
			m.copyLastReply()
			return m, nil

		case tea.KeyEnter:
			if m.streaming {
				return m, nil
			}
			content := strings.TrimSpace(m.textarea.Value())
			if content == "" {
				return m, nil
			}
			m.textarea.Reset()
			if cmd, handled := m.handleSlashCommand(content); handled {
				m.refresh()
				return m, cmd
			}
			m.streaming = true
			m.refresh()
			return m, m.sendTurn(content)

		case tea.KeyRunes:
			// Bare digits pick a choice when the input is empty.
			if !m.streaming && m.textarea.Value() == "" && len(msg.Runes) == 1 {
				if choice, ok := m.choiceAt(msg.Runes[0]); ok {
					m.streaming = true
					m.refresh()
					return m, m.sendTurn(choice)
				}
			}
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// handleSlashCommand dispatches /-prefixed inputs. Returns handled=false
// for plain chat text.
func (m *ConsoleUI) handleSlashCommand(content string) (tea.Cmd, bool) {
	if !strings.HasPrefix(content, "/") {
		return nil, false
	}
	fields := strings.Fields(content)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "/time":
		m.engine.AdvanceTime(context.Background())
	case "/scene":
		m.engine.SelectScene(arg)
	case "/char":
		m.engine.SelectCharacter(arg)
	case "/use":
		m.engine.UseItem(arg)
	case "/save":
		m.engine.Save(context.Background())
	case "/new":
		m.engine.Reset(context.Background())
		m.engine.Start()
	}
	return nil, true
}

func (m *ConsoleUI) choiceAt(r rune) (string, bool) {
	if r < '1' || r > '4' {
		return "", false
	}
	v := m.engine.View()
	i := int(r - '1')
	if i >= len(v.Choices) {
		return "", false
	}
	return v.Choices[i], true
}

func (m *ConsoleUI) copyLastReply() {
	v := m.engine.View()
	for i := len(v.Messages) - 1; i >= 0; i-- {
		if v.Messages[i].Role == chat.ChatRoleAgent {
			_ = clipboard.WriteAll(v.Messages[i].Content)
			return
		}
	}
}

func (m *ConsoleUI) resize(width, height int) {
	m.width = width
	m.height = height

	chatWidth := int(float64(m.width)*0.68) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
	m.ready = true
}

// refresh repaints both panels from a fresh engine view.
func (m *ConsoleUI) refresh() {
	if !m.ready {
		return
	}
	v := m.engine.View()
	m.streaming = v.IsTyping || m.streaming
	m.writeChatContent(v)
	m.metaViewport.SetContent(m.writeMetadata(v))
}

func (m *ConsoleUI) writeChatContent(v engine.View) {
	chatWidth := m.chatViewport.Width - 6
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(gamedata.StoryInfo.Title) + "\n")
	content.WriteString(systemStyle.Render(gamedata.StoryInfo.Subtitle) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth)) + "\n\n")

	for _, msg := range v.Messages {
		content.WriteString(m.formatMessage(v, msg, chatWidth))
	}

	if v.IsTyping {
		partial := v.StreamingContent
		if partial == "" {
			partial = m.typingIndicator()
		}
		content.WriteString(narratorStyle.Render(wordwrap.String(partial, chatWidth)) + "\n\n")
	}

	if v.EndingID != "" {
		content.WriteString(m.renderEnding(v.EndingID, chatWidth))
	} else if len(v.Choices) > 0 && !v.IsTyping {
		content.WriteString(separatorStyle.Render(strings.Repeat("┄", chatWidth)) + "\n")
		for i, c := range v.Choices {
			content.WriteString(choiceStyle.Render(fmt.Sprintf("  %d. %s", i+1, c)) + "\n")
		}
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) formatMessage(v engine.View, msg state.Message, chatWidth int) string {
	switch msg.Type {
	case state.MessageMonthChange:
		line := fmt.Sprintf("── %s ──", msg.Content)
		return monthStyle.Render(line) + "\n\n"
	case state.MessageSceneTransition:
		return systemStyle.Render(wordwrap.String("📍 "+msg.Content, chatWidth)) + "\n\n"
	case state.MessageEvent:
		return eventStyle.Render(wordwrap.String(msg.Content, chatWidth)) + "\n\n"
	}

	switch msg.Role {
	case chat.ChatRoleUser:
		return userStyle.Render(v.PlayerName+": ") + wordwrap.String(msg.Content, chatWidth) + "\n\n"
	case chat.ChatRoleAgent:
		header := ""
		if c, ok := gamedata.GetCharacter(msg.Character); ok {
			header = lipgloss.NewStyle().
				Foreground(lipgloss.Color(c.ThemeColor)).
				Bold(true).
				Render(c.Name) + "\n"
		}
		return header + narratorStyle.Render(wordwrap.String(msg.Content, chatWidth)) + "\n\n"
	default:
		style := systemStyle
		if strings.HasPrefix(msg.Content, "请求失败") {
			style = errorStyle
		}
		return style.Render(wordwrap.String(msg.Content, chatWidth)) + "\n\n"
	}
}

func (m *ConsoleUI) typingIndicator() string {
	dots := strings.Repeat("·", m.progressTick%4)
	return "对方正在输入" + dots
}

func (m *ConsoleUI) renderEnding(id string, chatWidth int) string {
	var ending gamedata.Ending
	for _, e := range gamedata.Endings {
		if e.ID == id {
			ending = e
			break
		}
	}
	meta := gamedata.EndingTypeMeta[ending.Type]

	var b strings.Builder
	b.WriteString(separatorStyle.Render(strings.Repeat("═", chatWidth)) + "\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(meta.Color)).
		Bold(true).
		Render(fmt.Sprintf("%s %s · %s", meta.Icon, ending.Name, meta.Label)) + "\n\n")
	b.WriteString(wordwrap.String(ending.Description, chatWidth) + "\n\n")
	b.WriteString(systemStyle.Render("输入 /new 开始新的一周目，Ctrl+C 退出。") + "\n")
	return b.String()
}

func (m *ConsoleUI) writeMetadata(v engine.View) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("事务所状态") + "\n\n")

	period := gamedata.Periods[v.PeriodIndex]
	chapter := gamedata.CurrentChapter(v.Month)
	b.WriteString(fmt.Sprintf("第%d月 · %s %s\n", v.Month, period.Icon, period.Name))
	b.WriteString(fmt.Sprintf("第%d章「%s」\n", chapter.ID, chapter.Name))
	b.WriteString(fmt.Sprintf("行动力 %d/%d · 出道倒计时 %d\n\n", v.ActionPoints, gamedata.MaxActionPoints, v.DebutCountdown))

	b.WriteString(fmt.Sprintf("💰 %d万  ⭐ %d\n\n", v.Resources.Money, v.Resources.Fame))

	if scene, ok := gamedata.Scenes[v.CurrentScene]; ok {
		b.WriteString(fmt.Sprintf("%s %s\n\n", scene.Icon, scene.Name))
	}

	for _, id := range gamedata.CharacterOrder {
		c, ok := gamedata.GetCharacter(id)
		if !ok || c.JoinMonth > v.Month {
			continue
		}
		name := c.Name
		if id == v.CurrentCharacter {
			name = "▸ " + name
		}
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.ThemeColor)).
			Bold(true).
			Render(name) + "\n")
		stats := v.CharacterStats[id]
		for _, meta := range c.StatMetas {
			value := stats[meta.Key]
			b.WriteString(fmt.Sprintf("%s %s %s %3d\n",
				meta.Icon, padDisplay(meta.Label, 6), statBar(value, meta.Color), value))
		}
		b.WriteString("\n")
	}

	if len(v.Inventory) > 0 {
		b.WriteString("背包:\n")
		ids := make([]string, 0, len(v.Inventory))
		for id, n := range v.Inventory {
			if n > 0 {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			if item, ok := gamedata.Items[id]; ok {
				b.WriteString(fmt.Sprintf("%s %s ×%d\n", item.Icon, item.Name, v.Inventory[id]))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(systemStyle.Render(strings.Join([]string{
		"Enter 发送 · 1-4 选项",
		"Ctrl+T 推进时间",
		"Ctrl+Y 复制回复",
		"/scene /char /use /time",
		"Ctrl+C 退出",
	}, "\n")))
	return b.String()
}

// statBar renders a ten-cell gauge for a 0-100 value.
func statBar(value int, color string) string {
	filled := value / 10
	if filled > 10 {
		filled = 10
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(bar)
}

func (m ConsoleUI) View() string {
	if m.step != stepDone {
		return m.viewSetupModal()
	}
	if m.showQuitModal {
		return m.viewQuitModal()
	}
	if !m.ready {
		return "加载中..."
	}

	chatPane := chatPanelStyle.Render(m.chatViewport.View() + "\n" + m.textarea.View())
	metaPane := metaPanelStyle.Render(m.metaViewport.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, chatPane, metaPane)
}
