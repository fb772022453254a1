package main

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xingmeng/stardream/pkg/gamedata"
)

// updateSetupModal drives the pre-game flow: offer to continue a found
// save, otherwise collect name and gender and start fresh.
func (m ConsoleUI) updateSetupModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case saveCheckedMsg:
		m.hasSave = msg.hasSave
		if m.hasSave {
			m.step = stepChoose
		} else {
			m.step = stepName
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyBackspace:
			if m.step == stepName && m.setupName != "" {
				runes := []rune(m.setupName)
				m.setupName = string(runes[:len(runes)-1])
			}
			return m, nil

		case tea.KeyEnter:
			switch m.step {
			case stepChoose:
				return m.loadSave()
			case stepName:
				if strings.TrimSpace(m.setupName) == "" {
					m.setupError = "请输入名字"
					return m, nil
				}
				m.setupError = ""
				m.step = stepGender
			}
			return m, nil

		case tea.KeyRunes:
			switch m.step {
			case stepChoose:
				switch msg.Runes[0] {
				case 'c', 'C':
					return m.loadSave()
				case 'n', 'N':
					m.step = stepName
				}
			case stepName:
				m.setupName += string(msg.Runes)
			case stepGender:
				var gender string
				switch msg.Runes[0] {
				case '1':
					gender = "female"
				case '2':
					gender = "male"
				case '3':
					gender = "unspecified"
				default:
					return m, nil
				}
				m.engine.SetPlayerInfo(gender, strings.TrimSpace(m.setupName))
				m.engine.Start()
				m.step = stepDone
				m.refresh()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m ConsoleUI) loadSave() (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if m.engine.Load(ctx) {
		m.step = stepDone
		m.refresh()
		return m, nil
	}
	m.setupError = "存档读取失败，开始新游戏"
	m.step = stepName
	return m, nil
}

func (m ConsoleUI) viewSetupModal() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render(gamedata.StoryInfo.Title) + "\n")
	b.WriteString(systemStyle.Render(gamedata.StoryInfo.Subtitle) + "\n\n")

	switch m.step {
	case stepSaveCheck:
		b.WriteString("检查存档中...\n")
	case stepChoose:
		b.WriteString("发现已有存档。\n\n")
		b.WriteString("  C - 继续上次的故事\n")
		b.WriteString("  N - 开始新游戏\n")
	case stepName:
		b.WriteString("你的名字：\n\n")
		b.WriteString("  > " + m.setupName + "▌\n")
	case stepGender:
		b.WriteString(m.setupName + "，请选择称呼：\n\n")
		b.WriteString("  1 - 女性（姐/老师）\n")
		b.WriteString("  2 - 男性（哥/老师）\n")
		b.WriteString("  3 - 保密（老师）\n")
	}

	if m.setupError != "" {
		b.WriteString("\n" + errorStyle.Render(m.setupError) + "\n")
	}
	b.WriteString("\n" + systemStyle.Render("Ctrl+C 退出"))

	return m.centerModal(modalStyle.Render(b.String()))
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			m.showQuitModal = false
			return m, nil
		case tea.KeyRunes:
			switch msg.Runes[0] {
			case 'y', 'Y':
				m.engine.Save(context.Background())
				return m, tea.Quit
			case 'n', 'N':
				m.showQuitModal = false
			}
			return m, nil
		}
	}
	return m, nil
}

func (m ConsoleUI) viewQuitModal() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("离开事务所？") + "\n\n")
	b.WriteString("进度会先保存。\n\n")
	b.WriteString("  Y - 保存并退出\n")
	b.WriteString("  N - 继续游戏\n")
	return m.centerModal(modalStyle.Render(b.String()))
}

func (m ConsoleUI) centerModal(modal string) string {
	if m.width == 0 || m.height == 0 {
		return modal
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
