package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jello/internal/pet"
)

// RefreshInterval is how often the model re-reads the simulation.
const RefreshInterval = 250 * time.Millisecond

// Lands and houses the creature can be moved between.
var (
	Lands  = []string{"meadow", "beach", "forest", "snowfield"}
	Houses = []string{"starter", "cottage", "treehouse", "igloo"}
)

// Model is the game screen. It renders a snapshot of the simulation and
// forwards key presses to it; the simulation owns all game state.
type Model struct {
	sim  *pet.Simulation
	view pet.View

	Choice             int
	Quitting           bool
	ShowingAdoptPrompt bool
	Declined           bool // adoption was turned down; only quitting is left
	Message            string
	MessageExpires     time.Time
	Animation          Animation
}

type tickMsg time.Time
type animTickMsg struct {
	started time.Time
}

// menuChoices is the care menu followed by Quit.
var menuChoices = pet.ActionKinds()

// NewModel creates a model for sim.
func NewModel(sim *pet.Simulation) Model {
	v := sim.View()
	return Model{
		sim:                sim,
		view:               v,
		ShowingAdoptPrompt: v.Dead,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) animTick() tea.Cmd {
	started := m.Animation.StartTime
	d := FrameDuration(m.Animation.Kind, m.sim.Tuning().ActionWindow)
	return tea.Tick(d, func(time.Time) tea.Msg {
		return animTickMsg{started: started}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		}
		// While an animation is playing, ignore everything but quit
		if m.Animation.Active() {
			return m, nil
		}
		if m.view.Dead {
			return m.updateDead(msg)
		}
		return m.updateAlive(msg)

	case tickMsg:
		m.refresh()
		if m.view.Dead && !m.ShowingAdoptPrompt && !m.Declined {
			m.ShowingAdoptPrompt = true
		}
		return m, tick()

	case animTickMsg:
		// Drop ticks that belong to an older animation
		if !m.Animation.Active() || !m.Animation.StartTime.Equal(msg.started) {
			return m, nil
		}
		m.Animation.Frame++
		if IsAnimationComplete(m.Animation) {
			m.Animation = Animation{}
			m.refresh()
			return m, nil
		}
		return m, m.animTick()
	}

	return m, nil
}

func (m Model) updateDead(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.ShowingAdoptPrompt {
		return m, nil
	}
	switch msg.String() {
	case "y":
		m.sim.ResetGame()
		m.refresh()
		m.ShowingAdoptPrompt = false
		m.Choice = 0
		m.setMessage(fmt.Sprintf("🥚 Welcome, %s!", m.view.Creature.Name))
	case "n":
		m.ShowingAdoptPrompt = false
		m.Declined = true
	}
	return m, nil
}

func (m Model) updateAlive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.Choice > 0 {
			m.Choice--
		}
	case "down", "j":
		if m.Choice < len(menuChoices) {
			m.Choice++
		}
	case "enter", " ":
		if m.Choice == len(menuChoices) {
			m.Quitting = true
			return m, tea.Quit
		}
		return m.perform(menuChoices[m.Choice])
	case "x":
		m.clearFirst(pet.EntityMess, m.view.Poops)
	case "z":
		m.clearFirst(pet.EntityPest, m.view.Bugs)
	case "g":
		if m.view.Decision != nil {
			m.sim.OnGraduate()
			m.refresh()
			m.setMessage(fmt.Sprintf("🎓 %s graduated!", m.view.Creature.Name))
		}
	case "e":
		if d := m.view.Decision; d != nil {
			err := m.sim.Evolve()
			m.refresh()
			switch {
			case errors.Is(err, pet.ErrInsufficientStars):
				m.setMessage(fmt.Sprintf("⭐ Need %d stars, have %d", d.RequiredStars, d.CurrentStars))
			case err != nil:
				slog.Debug("evolve ignored", "err", err)
			default:
				m.setMessage(fmt.Sprintf("🌟 %s became %s!", m.view.Creature.Name, m.view.FormName))
			}
		}
	case "l":
		m.sim.SetLand(next(Lands, m.view.CurrentLand))
		m.refresh()
		m.setMessage("🗺️  Off to the " + m.view.CurrentLand)
	case "h":
		m.sim.SetHouse(next(Houses, m.view.CurrentHouseID))
		m.refresh()
		m.setMessage("🏠 Moved into the " + m.view.CurrentHouseID)
	}
	return m, nil
}

func (m Model) perform(kind pet.ActionKind) (tea.Model, tea.Cmd) {
	res := m.sim.PerformAction(kind)
	m.refresh()
	m.setMessage(res.Message)
	if !res.Applied {
		return m, nil
	}
	m.Animation = Animation{Kind: kind, StartTime: time.Now()}
	return m, m.animTick()
}

// clearFirst starts clearing the oldest entity that is not already being
// cleared.
func (m *Model) clearFirst(kind pet.EntityKind, entities []pet.NuisanceEntity) {
	for _, e := range entities {
		if e.Clearing() {
			continue
		}
		if m.sim.BeginClear(kind, e.ID) {
			m.refresh()
			if kind == pet.EntityMess {
				m.setMessage("🧻 Cleaning up...")
			} else {
				m.setMessage("🪰 Shoo!")
			}
		}
		return
	}
	m.setMessage("✨ Nothing to clear")
}

func (m *Model) refresh() {
	m.view = m.sim.View()
}

func (m *Model) setMessage(msg string) {
	m.Message = msg
	m.MessageExpires = m.view.Now.Add(3 * time.Second)
}

// next returns the entry after cur, wrapping around.
func next(list []string, cur string) string {
	for i, s := range list {
		if s == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}
