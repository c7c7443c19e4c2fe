package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mshel/geocache/internal/game"
	"github.com/charmbracelet/lipgloss"
)

const (
	winButtonMap = iota
	winButtonLeaderboard
	winButtonExit
	winButtonCount
)

var winButtonLabels = []string{"MAP", "LEADERBOARD", "EXIT"}

// WinState holds the data and local state for the win and leaderboard screens.
type WinState struct {
	FinalValue     int
	Moves          int
	SelectedButton int
	ScreenWidth    int
	ScreenHeight   int
}

// Styles for Win/Leaderboard
var (
	winButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Padding(0, 3).
			Margin(1, 1).
			Bold(true)

	selectedButtonStyle = winButtonStyle.
				Background(lipgloss.Color("78")).
				Foreground(lipgloss.Color("0"))

	leaderboardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("236")).
				Padding(0, 1).
				Align(lipgloss.Center)

	leaderboardRowStyle = lipgloss.NewStyle().
				Padding(0, 1)

	leaderboardBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("8"))
)

// RenderWinScreen draws the win message and buttons.
func (w *WinState) RenderWinScreen() string {
	messageStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("220")).
		Padding(2, 5).
		Align(lipgloss.Center).
		Width(max(0, w.ScreenWidth-4))

	title := messageStyle.Render("★ " + game.WinStatus + " ★")
	stats := fmt.Sprintf("\nYou are carrying a %d token.\nMoves taken: %d\n\n", w.FinalValue, w.Moves)

	buttons := make([]string, 0, winButtonCount)
	for i, label := range winButtonLabels {
		if i == w.SelectedButton {
			buttons = append(buttons, selectedButtonStyle.Render(label))
		} else {
			buttons = append(buttons, winButtonStyle.Render(label))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center, title, stats, lipgloss.JoinHorizontal(lipgloss.Center, buttons...))

	return lipgloss.Place(w.ScreenWidth, w.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(content),
	)
}

// RenderLeaderboardScreen draws the recorded wins, fewest moves first.
func (w *WinState) RenderLeaderboardScreen(scores []game.Score, loadErr error) string {
	var tableContent strings.Builder

	nameWidth := 20
	tokenWidth := 8
	movesWidth := 8
	dateWidth := 12

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		leaderboardHeaderStyle.Width(4).Render("#"),
		leaderboardHeaderStyle.Width(nameWidth).Render("Cacher"),
		leaderboardHeaderStyle.Width(tokenWidth).Render("Token"),
		leaderboardHeaderStyle.Width(movesWidth).Render("Moves"),
		leaderboardHeaderStyle.Width(dateWidth).Render("Date"),
	)
	tableContent.WriteString(header + "\n")

	switch {
	case loadErr != nil:
		tableContent.WriteString(leaderboardRowStyle.Render("Leaderboard unavailable: "+loadErr.Error()) + "\n")
	case len(scores) == 0:
		tableContent.WriteString(leaderboardRowStyle.Render("Nobody has won yet.") + "\n")
	}

	for i, score := range scores {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			leaderboardRowStyle.Width(4).Render(strconv.Itoa(i+1)),
			leaderboardRowStyle.Width(nameWidth).Render(score.PlayerName),
			leaderboardRowStyle.Width(tokenWidth).Render(strconv.Itoa(score.Value)),
			leaderboardRowStyle.Width(movesWidth).Render(strconv.Itoa(score.Moves)),
			leaderboardRowStyle.Width(dateWidth).Render(score.CreatedAt.Format("2006-01-02")),
		)
		tableContent.WriteString(leaderboardBorderStyle.Render(row) + "\n")
	}

	title := lipgloss.NewStyle().Bold(true).Padding(1, 0).Render("🏆 LEADERBOARD 🏆")
	instruction := lipgloss.NewStyle().Faint(true).Margin(1, 0).Render("Press ESC or ENTER to go back.")

	finalContent := lipgloss.JoinVertical(lipgloss.Center,
		title,
		tableContent.String(),
		instruction,
	)

	return lipgloss.Place(w.ScreenWidth, w.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(finalContent),
	)
}
