// Package chase is a short animation of the creature chasing a target
// across the terminal. Catching the target pays a fixed reward through a
// caller-supplied hook.
package chase

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jello/internal/pet"
)

const (
	tickInterval   = 70 * time.Millisecond
	minVisibleRows = 6

	// Creature speed in columns (and rows) per second
	petSpeed      = 10.0
	tiredPetSpeed = 6.0
	tiredStamina  = 30

	emojiExcited   = "🤩"
	emojiEnergetic = "😆"
)

// ErrCannotChase is returned when the creature is in no state to play.
var ErrCannotChase = errors.New("creature cannot chase right now")

// getChaseEmoji returns the creature's face during the chase
func getChaseEmoji(v pet.View, distX, distY int) string {
	// About to catch
	if absInt(distX) <= 3 && absInt(distY) <= 1 {
		return emojiExcited
	}

	s := v.Creature.Stats
	if s.Get(pet.Hunger) < 30 {
		return pet.StatusEmojiHungry
	}
	if stamina := s.Get(pet.Stamina); stamina < tiredStamina {
		return pet.StatusEmojiSleeping
	} else if stamina > 80 {
		return emojiEnergetic
	}
	if happiness := s.Get(pet.Happiness); happiness < 30 {
		return pet.StatusEmojiSad
	} else if happiness > 80 {
		return pet.StatusEmojiHappy
	}
	return pet.StatusEmojiNeutral
}

// Target defines what the creature can chase and what catching it pays
type Target struct {
	Emoji string
	Name  string
	Speed float64 // columns per second
	XP    int
	Stars int
}

// Available targets
var Targets = map[string]Target{
	"butterfly": {Emoji: "🦋", Name: "butterfly", Speed: 8.0, XP: 20, Stars: 1},
	"ball":      {Emoji: "⚽", Name: "ball", Speed: 6.0, XP: 10},
	"mouse":     {Emoji: "🐁", Name: "mouse", Speed: 12.0, XP: 35, Stars: 2},
}

// Model is the Bubble Tea model for the chase
type Model struct {
	Pet        pet.View
	Target     Target
	OnCatch    func(Target)
	Caught     bool
	TermWidth  int
	TermHeight int

	PetPosX    float64
	PetPosY    float64
	TargetPosX float64
	TargetPosY float64

	LastUpdateTime time.Time
	ElapsedTime    float64 // seconds
}

type animTickMsg time.Time

// New prepares a chase of target by the creature in v.
func New(v pet.View, target Target, onCatch func(Target)) Model {
	return Model{
		Pet:        v,
		Target:     target,
		OnCatch:    onCatch,
		TargetPosX: 5,
	}
}

// Run plays a chase after the named target. onCatch runs once if the
// creature catches it. It reports whether the target was caught.
func Run(v pet.View, targetName string, onCatch func(Target)) (bool, error) {
	target, ok := Targets[targetName]
	if !ok {
		return false, fmt.Errorf("unknown chase target %q", targetName)
	}
	if v.Dead || v.IsSleeping {
		return false, ErrCannotChase
	}

	program := tea.NewProgram(New(v, target, onCatch), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("chase animation: %w", err)
	}
	return final.(Model).Caught, nil
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tick(),
		tea.EnterAltScreen,
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.TermWidth = msg.Width
		m.TermHeight = msg.Height
		m.clampPositions()
		return m, nil

	case animTickMsg:
		now := time.Time(msg)
		if m.LastUpdateTime.IsZero() {
			m.LastUpdateTime = now
			return m, tick()
		}
		dt := now.Sub(m.LastUpdateTime).Seconds()
		m.LastUpdateTime = now
		m.ElapsedTime += dt

		if m.TermWidth == 0 || m.TermHeight == 0 {
			return m, tick()
		}

		// Target drifts right with a vertical flutter
		m.TargetPosX += m.Target.Speed * dt
		if m.TargetPosX >= float64(m.maxX()) {
			return m, tea.Quit
		}
		height := float64(m.visibleRows())
		amplitude := height / 3.0
		centerY := height / 2.0
		frequency := 0.2
		m.TargetPosY = centerY + amplitude*math.Sin(m.TargetPosX*frequency)
		m.clampPositions()

		// Creature follows in 2D
		step := m.petSpeed() * dt
		distX := m.TargetPosX - m.PetPosX
		distY := m.TargetPosY - m.PetPosY
		if distX > 3 {
			m.PetPosX += step
		}
		if distY > 1 {
			m.PetPosY += step
		} else if distY < -1 {
			m.PetPosY -= step
		}
		m.clampPositions()

		if m.caught() {
			m.Caught = true
			if m.OnCatch != nil {
				m.OnCatch(m.Target)
			}
			return m, tea.Quit
		}

		return m, tick()
	}

	return m, nil
}

// petSpeed slows a low-stamina creature down.
func (m Model) petSpeed() float64 {
	if m.Pet.Creature.Stats.Get(pet.Stamina) < tiredStamina {
		return tiredPetSpeed
	}
	return petSpeed
}

// caught: overlapping X and on the same row
func (m Model) caught() bool {
	return math.Abs(m.TargetPosX-m.PetPosX) <= 1 && int(math.Round(m.TargetPosY)) == int(math.Round(m.PetPosY))
}

// View implements tea.Model
func (m Model) View() string {
	if m.TermWidth == 0 || m.TermHeight == 0 {
		return "Initializing..."
	}

	rows := m.visibleRows()
	petX, petY := int(m.PetPosX), int(math.Round(m.PetPosY))
	targetX, targetY := int(m.TargetPosX), int(math.Round(m.TargetPosY))
	petEmoji := getChaseEmoji(m.Pet, targetX-petX, targetY-petY)

	grid := make([][]rune, rows-1)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", m.TermWidth))
	}

	put := func(x, y int, s string) {
		if y < 0 || y >= rows-1 || x < 0 || x >= m.TermWidth-2 {
			return
		}
		for i, r := range []rune(s) {
			if x+i < m.TermWidth {
				grid[y][x+i] = r
			}
		}
	}
	put(targetX, targetY, m.Target.Emoji)
	put(petX, petY, petEmoji)

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}
	result.WriteString("\nPress any key to exit")

	return result.String()
}

func (m *Model) clampPositions() {
	rows := m.visibleRows()
	if rows < 1 {
		return
	}
	maxX := float64(m.maxX())
	maxY := float64(rows - 1)

	m.PetPosX = min(max(m.PetPosX, 0), maxX)
	m.TargetPosX = min(max(m.TargetPosX, 0), maxX)
	m.PetPosY = min(max(m.PetPosY, 0), maxY)
	m.TargetPosY = min(max(m.TargetPosY, 0), maxY)
}

func (m Model) visibleRows() int {
	if m.TermHeight <= 0 {
		return 0
	}
	return max(m.TermHeight-2, minVisibleRows) // leave space for instruction
}

func (m Model) maxX() int {
	if m.TermWidth <= 2 {
		return 0
	}
	return m.TermWidth - 2
}
