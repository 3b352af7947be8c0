package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"jello/internal/pet"
)

// StatsModel is a read-only card for a View
type StatsModel struct {
	Snapshot pet.View
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return m, tea.Quit
		}
	}
	return m, nil
}

func makeBar(value int) string {
	filled := value / 20
	return strings.Repeat("█", filled) + strings.Repeat("░", 5-filled)
}

// View implements tea.Model
func (m StatsModel) View() string {
	v := m.Snapshot
	c := v.Creature

	status := pet.StatusLabel(v)
	if a := v.Abandonment; a.Countdown != nil {
		status += fmt.Sprintf(" (%s, %s)", a.Level, humanize.RelTime(v.Now, v.Now.Add(a.Remaining()), "left", "ago"))
	}

	var s strings.Builder
	s.WriteString("╔════════════════════════════════════════╗\n")
	s.WriteString(fmt.Sprintf("║  %s %s %s\n", v.Glyph, c.Name, v.Glyph))
	s.WriteString("╠════════════════════════════════════════╣\n")
	s.WriteString(fmt.Sprintf("║  Species: %-28s ║\n", v.SpeciesName))
	s.WriteString(fmt.Sprintf("║  Form:    %-28s ║\n", fmt.Sprintf("%s (%d/%d)", v.FormName, v.Stage, pet.MaxStage)))
	s.WriteString(fmt.Sprintf("║  Level:   %-28s ║\n", fmt.Sprintf("%d, %s stars", c.Level, humanize.Comma(int64(c.Stars)))))
	s.WriteString(fmt.Sprintf("║  Born:    %-28s ║\n", humanize.RelTime(c.BornAt, v.Now, "ago", "from now")))
	s.WriteString(fmt.Sprintf("║  Status:  %s\n", status))
	s.WriteString("║                                        ║\n")
	for _, st := range pet.AllStats {
		s.WriteString(fmt.Sprintf("║  %-13s [%s] %3d%%              ║\n", st.String()+":", makeBar(c.Stats.Get(st)), c.Stats.Get(st)))
	}
	s.WriteString("║                                        ║\n")
	s.WriteString(fmt.Sprintf("║  Messes: %-3d Pests: %-3d Evolutions: %-2d ║\n", len(v.Poops), len(v.Bugs), c.History.Evolutions))
	s.WriteString("╚════════════════════════════════════════╝\n")
	s.WriteString("\nPress ESC, click, or any key to close...")

	return s.String()
}

// DisplayStats shows the stats card until a key is pressed.
func DisplayStats(v pet.View) error {
	program := tea.NewProgram(StatsModel{Snapshot: v}, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("stats display: %w", err)
	}
	return nil
}
