package ui

import (
	"strings"

	"github.com/Mshel/geocache/internal/game"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Define styles
var (
	focusedColor = lipgloss.Color("78")
	blurredColor = lipgloss.Color("240")
	focusedStyle = lipgloss.NewStyle().Foreground(focusedColor)
	blurredStyle = lipgloss.NewStyle().Foreground(blurredColor)
	helpStyle    = blurredStyle
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	presetStyle         = lipgloss.NewStyle().Padding(0, 1)
	selectedPresetStyle = presetStyle.
				Background(focusedColor).
				Foreground(lipgloss.Color("0"))

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder())

	submitButtonStyle = buttonStyle.
				BorderForeground(focusedColor).
				Padding(0, 1)

	blurredButtonStyle = buttonStyle.
				BorderForeground(blurredColor).
				Padding(0, 1)
)

const (
	focusName = iota
	focusPreset
	focusSubmit
	focusCount
)

type SetupModel struct {
	nameInput   textinput.Model
	presetIndex int
	focusIndex  int // 0: Name, 1: Start location, 2: Submit
	errMsg      string
	width       int
	height      int
}

func NewInitialSetupModel(w, h int) SetupModel {
	ti := textinput.New()
	ti.Placeholder = "Your cacher name"
	ti.Focus()
	ti.CharLimit = 20
	ti.PromptStyle = focusedStyle
	ti.TextStyle = focusedStyle

	return SetupModel{
		nameInput:  ti,
		focusIndex: focusName,
		width:      w,
		height:     h,
	}
}

func (m SetupModel) withError(msg string) SetupModel {
	m.errMsg = msg
	return m.setFocus(focusName)
}

// Init sends a command to start the cursor blinking
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) setFocus(index int) SetupModel {
	m.focusIndex = (index + focusCount) % focusCount
	if m.focusIndex == focusName {
		m.nameInput.Focus()
	} else {
		m.nameInput.Blur()
	}
	return m
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			return m.setFocus(m.focusIndex + 1), nil
		case "shift+tab":
			return m.setFocus(m.focusIndex - 1), nil
		case "enter":
			if m.focusIndex != focusSubmit {
				return m.setFocus(m.focusIndex + 1), nil
			}
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				return m.setFocus(focusName), nil
			}
			m.errMsg = ""
			preset := game.StartPresets[m.presetIndex]
			return m, func() tea.Msg {
				return SetupSubmitMsg{Name: name, Preset: preset}
			}
		}

		if m.focusIndex == focusPreset {
			switch msg.String() {
			case "left", "h":
				m.presetIndex = (m.presetIndex - 1 + len(game.StartPresets)) % len(game.StartPresets)
			case "right", "l":
				m.presetIndex = (m.presetIndex + 1) % len(game.StartPresets)
			}
			return m, nil
		}

		if m.focusIndex == focusName {
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) View() string {
	center := func(s string) string {
		return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(s)
	}

	var b strings.Builder

	b.WriteString(center(m.nameInput.View()))
	b.WriteString("\n\n")

	prompt := "Where do you start? (use arrows)"
	if m.focusIndex == focusPreset {
		b.WriteString(center(focusedStyle.Render(prompt)))
	} else {
		b.WriteString(center(blurredStyle.Render(prompt)))
	}
	b.WriteString("\n")

	presets := make([]string, 0, len(game.StartPresets))
	for i, preset := range game.StartPresets {
		if i == m.presetIndex {
			presets = append(presets, selectedPresetStyle.Render(preset.Name))
		} else {
			presets = append(presets, presetStyle.Render(preset.Name))
		}
	}
	b.WriteString(center(lipgloss.JoinHorizontal(lipgloss.Center, presets...)))
	b.WriteString("\n\n")

	submitText := "Start"
	if m.focusIndex == focusSubmit {
		b.WriteString(center(submitButtonStyle.Render(submitText)))
	} else {
		b.WriteString(center(blurredButtonStyle.Render(submitText)))
	}
	b.WriteString("\n\n")

	if m.errMsg != "" {
		b.WriteString(center(errorStyle.Render(m.errMsg)))
		b.WriteString("\n\n")
	}

	b.WriteString(center(helpStyle.Render("(tab/shift+tab to navigate, enter to confirm, ctrl+c to quit)")))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
