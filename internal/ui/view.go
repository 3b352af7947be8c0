package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"jello/internal/pet"
)

var gameStyles = struct {
	title   lipgloss.Style
	status  lipgloss.Style
	menu    lipgloss.Style
	menuBox lipgloss.Style
	stats   lipgloss.Style
	room    lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF75B5")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(40),

	stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(30),

	menu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),

	room: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")),
}

// alertStyles colour the abandonment banner by severity.
var alertStyles = map[pet.AbandonLevel]lipgloss.Style{
	pet.AbandonLeaving:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700")),
	pet.AbandonCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF8C00")),
	pet.AbandonDanger:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#D00000")),
}

// alertText maps abandonment message keys to English.
var alertText = map[string]string{
	"abandon.leaving":   "%s is packing a tiny suitcase...",
	"abandon.critical":  "%s is at the door!",
	"abandon.danger":    "%s is about to leave for good!",
	"abandon.abandoned": "%s has left.",
}

// Room size in cells
const (
	roomWidth  = 28
	roomHeight = 6
)

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Thanks for playing!\n"
	}
	if m.view.Dead {
		return m.deadView()
	}
	if m.Animation.Active() {
		return m.renderAnimation()
	}

	sections := []string{
		m.renderTitle(),
		"",
	}
	if alert := m.renderAlert(); alert != "" {
		sections = append(sections, alert, "")
	}
	sections = append(sections,
		m.renderRoom(),
		"",
		m.renderStats(),
		"",
		m.renderStatus(),
	)
	if prompt := m.renderDecision(); prompt != "" {
		sections = append(sections, "", prompt)
	}
	if m.Message != "" && m.view.Now.Before(m.MessageExpires) {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}

	helpText := "arrows move • enter select • x clean • z swat • l land • h house • q quit"
	if m.view.Decision != nil {
		helpText = "[G] graduate • [E] evolve • " + helpText
	}
	sections = append(sections,
		"",
		m.renderMenu(),
		"",
		gameStyles.status.Render(helpText),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitle() string {
	v := m.view
	title := v.Glyph + " " + v.Creature.Name + " " + v.Glyph
	if v.Complete {
		title += " 🎓"
	}
	return gameStyles.title.Render(title)
}

// renderAlert shows the abandonment level and its countdown.
func (m Model) renderAlert() string {
	a := m.view.Abandonment
	style, ok := alertStyles[a.Level]
	if !ok {
		return ""
	}
	text := fmt.Sprintf(alertText[a.Message], m.view.Creature.Name)
	if a.Countdown != nil {
		deadline := m.view.Now.Add(a.Remaining())
		text += " (" + humanize.RelTime(m.view.Now, deadline, "left", "ago") + ")"
	}
	return style.Render("⚠️  " + text)
}

// renderRoom draws messes and pests at their room positions.
func (m Model) renderRoom() string {
	grid := make([][]string, roomHeight)
	for y := range grid {
		grid[y] = make([]string, roomWidth)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}
	place := func(p pet.Position, glyph string) {
		x := min(int(p.X*roomWidth), roomWidth-1)
		y := min(int(p.Y*roomHeight), roomHeight-1)
		grid[y][x] = glyph
	}
	for _, e := range m.view.Poops {
		if e.Clearing() {
			place(e.Position, "✨")
		} else {
			place(e.Position, "💩")
		}
	}
	for _, e := range m.view.Bugs {
		if e.Clearing() {
			place(e.Position, "💨")
		} else {
			place(e.Position, "🪰")
		}
	}
	// the creature sits in the middle
	grid[roomHeight/2][roomWidth/2] = m.view.Glyph

	lines := make([]string, roomHeight)
	for y, row := range grid {
		lines[y] = strings.Join(row, "")
	}
	return gameStyles.room.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStats() string {
	v := m.view
	c := v.Creature

	var traitNames []string
	for _, trait := range c.Traits {
		traitNames = append(traitNames, trait.Name)
	}
	traitDisplay := strings.Join(traitNames, ", ")
	if traitDisplay == "" {
		traitDisplay = "None"
	}

	stats := []struct {
		name, value string
	}{
		{"Form", fmt.Sprintf("%s (stage %d)", v.FormName, v.Stage)},
		{"Traits", traitDisplay},
		{"Level", fmt.Sprintf("%d (%s xp)", c.Level, humanize.Comma(int64(c.Experience)))},
		{"Stars", humanize.Comma(int64(c.Stars))},
		{"Hunger", fmt.Sprintf("%d%%", c.Stats.Get(pet.Hunger))},
		{"Hygiene", fmt.Sprintf("%d%%", c.Stats.Get(pet.Hygiene))},
		{"Happiness", fmt.Sprintf("%d%%", c.Stats.Get(pet.Happiness))},
		{"Health", fmt.Sprintf("%d%%", c.Stats.Get(pet.Health))},
		{"Fatigue", fmt.Sprintf("%d%%", c.Stats.Get(pet.Fatigue))},
		{"Place", v.CurrentLand + " / " + v.CurrentHouseID},
		{"Born", humanize.RelTime(c.BornAt, v.Now, "ago", "from now")},
		{"Sick", map[bool]string{true: "Yes", false: "No"}[v.IsSick]},
	}

	var lines []string
	for _, stat := range stats {
		lines = append(lines, fmt.Sprintf("%-10s %s", stat.name+":", stat.value))
	}

	return gameStyles.stats.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	return gameStyles.status.Render(fmt.Sprintf("Status: %s", pet.StatusLabel(m.view)))
}

func (m Model) renderDecision() string {
	d := m.view.Decision
	if d == nil {
		return ""
	}
	line := fmt.Sprintf("%s is ready! Graduate, or evolve for %d⭐ (you have %d)",
		m.view.Creature.Name, d.RequiredStars, d.CurrentStars)
	if !d.CanEvolve() {
		line += ", not enough stars yet"
	}
	return gameStyles.title.Render(line)
}

func (m Model) renderMenu() string {
	var menuItems []string
	for i := 0; i <= len(menuChoices); i++ {
		label := "Quit"
		if i < len(menuChoices) {
			kind := string(menuChoices[i])
			label = strings.ToUpper(kind[:1]) + kind[1:]
		}
		cursor := " "
		if m.Choice == i {
			cursor = ">"
		}
		menuItems = append(menuItems, fmt.Sprintf("%s %s", cursor, label))
	}
	return gameStyles.menuBox.Render(strings.Join(menuItems, "\n"))
}

func (m Model) renderAnimation() string {
	frame := GetAnimationFrame(m.Animation, m.view.Glyph)

	animStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD700")).
		Bold(true).
		Padding(1, 2)

	sections := []string{
		m.renderTitle(),
		"",
		animStyle.Render(frame),
	}
	if m.Message != "" {
		sections = append(sections, "", gameStyles.status.Render(m.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) deadView() string {
	c := m.view.Creature
	lived := humanize.RelTime(c.BornAt, m.view.Now, "", "")
	sections := []string{
		gameStyles.title.Render("💀 " + c.Name + " 💀"),
		"",
		gameStyles.status.Render(fmt.Sprintf(alertText["abandon.abandoned"], c.Name)),
		gameStyles.status.Render("They stayed for " + strings.TrimSpace(lived)),
		"",
	}
	if m.ShowingAdoptPrompt {
		sections = append(sections,
			gameStyles.menuBox.Render("Would you like to adopt a new pet?"),
			"",
			gameStyles.status.Render("Press 'y' for yes, 'n' for no"),
		)
	} else {
		sections = append(sections,
			gameStyles.status.Render("It will be remembered forever."),
			"",
			gameStyles.status.Render("Press q to exit"),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}
