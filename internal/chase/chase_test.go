package chase

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jello/internal/pet"
)

// creature builds a view with the stats the chase looks at.
func creature(stamina, happiness, hunger int) pet.View {
	var v pet.View
	v.Creature.Stats.Set(pet.Stamina, stamina)
	v.Creature.Stats.Set(pet.Happiness, happiness)
	v.Creature.Stats.Set(pet.Hunger, hunger)
	return v
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestTargets(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantName  string
		wantEmoji string
	}{
		{"butterfly exists", "butterfly", "butterfly", "🦋"},
		{"ball exists", "ball", "ball", "⚽"},
		{"mouse exists", "mouse", "mouse", "🐁"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, exists := Targets[tt.target]
			if !exists {
				t.Fatalf("Target %q does not exist", tt.target)
			}
			if target.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", target.Name, tt.wantName)
			}
			if target.Emoji != tt.wantEmoji {
				t.Errorf("Emoji = %q, want %q", target.Emoji, tt.wantEmoji)
			}
			if target.Speed <= 0 {
				t.Errorf("Speed = %f, want > 0", target.Speed)
			}
			if target.XP <= 0 || target.Stars < 0 {
				t.Errorf("Reward = %d xp %d stars, want positive xp", target.XP, target.Stars)
			}
		})
	}
}

func TestRunRejects(t *testing.T) {
	if _, err := Run(creature(50, 50, 50), "dragon", nil); err == nil {
		t.Error("Expected unknown target to be rejected")
	}

	asleep := creature(50, 50, 50)
	asleep.IsSleeping = true
	if _, err := Run(asleep, "ball", nil); !errors.Is(err, ErrCannotChase) {
		t.Errorf("Expected ErrCannotChase for a sleeping creature, got %v", err)
	}

	gone := creature(50, 50, 50)
	gone.Dead = true
	if _, err := Run(gone, "ball", nil); !errors.Is(err, ErrCannotChase) {
		t.Errorf("Expected ErrCannotChase for an abandoned creature, got %v", err)
	}
}

func TestModel_Init(t *testing.T) {
	m := New(pet.View{}, Targets["butterfly"], nil)
	if m.Init() == nil {
		t.Error("Init() returned nil command, expected batch command")
	}
}

func TestModel_Update_KeyMsg(t *testing.T) {
	m := Model{
		Target:      Targets["butterfly"],
		TermWidth:   80,
		TermHeight:  24,
		ElapsedTime: 1.5,
	}

	updatedModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if updatedModel.(Model).ElapsedTime != 1.5 {
		t.Error("KeyMsg should not modify model state")
	}
	if !isQuit(cmd) {
		t.Error("KeyMsg should return tea.Quit command")
	}
}

func TestModel_Update_WindowSizeMsg(t *testing.T) {
	m := Model{Target: Targets["butterfly"], TermWidth: 80, TermHeight: 24}

	updatedModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	updated := updatedModel.(Model)

	if updated.TermWidth != 100 {
		t.Errorf("TermWidth = %d, want 100", updated.TermWidth)
	}
	if updated.TermHeight != 30 {
		t.Errorf("TermHeight = %d, want 30", updated.TermHeight)
	}
}

func TestModel_Update_FirstTickStartsClock(t *testing.T) {
	m := Model{Target: Targets["butterfly"], TermWidth: 80, TermHeight: 24, TargetPosX: 5}
	now := time.Now()
	updatedModel, cmd := m.Update(animTickMsg(now))
	updated := updatedModel.(Model)
	if !updated.LastUpdateTime.Equal(now) || updated.TargetPosX != 5 || cmd == nil {
		t.Errorf("Expected the first tick to only start the clock, got %+v", updated)
	}
}

func TestModel_Update_AnimTick_ElapsedTimeIncrement(t *testing.T) {
	baseTime := time.Now()
	m := Model{
		Target:         Targets["butterfly"],
		TermWidth:      80,
		TermHeight:     24,
		LastUpdateTime: baseTime,
		PetPosY:        12,
		TargetPosX:     5,
		TargetPosY:     12,
	}

	updatedModel, _ := m.Update(animTickMsg(baseTime.Add(70 * time.Millisecond)))
	updated := updatedModel.(Model)

	if math.Abs(updated.ElapsedTime-0.07) > 0.001 {
		t.Errorf("ElapsedTime = %f, want ~0.07", updated.ElapsedTime)
	}
}

func TestModel_Update_AnimTick_TargetMovement(t *testing.T) {
	target := Targets["butterfly"]
	baseTime := time.Now()
	m := Model{
		Target:         target,
		TermWidth:      80,
		TermHeight:     24,
		LastUpdateTime: baseTime,
		TargetPosX:     5,
		TargetPosY:     12,
	}

	updatedModel, cmd := m.Update(animTickMsg(baseTime.Add(70 * time.Millisecond)))
	updated := updatedModel.(Model)

	if cmd == nil {
		t.Error("animTickMsg should return tick command")
	}
	expectedPos := 5.0 + target.Speed*0.07
	if math.Abs(updated.TargetPosX-expectedPos) > 0.1 {
		t.Errorf("TargetPosX = %f, want ~%f", updated.TargetPosX, expectedPos)
	}
}

func TestModel_Update_AnimTick_TargetEscapes(t *testing.T) {
	baseTime := time.Now()
	caught := 0
	m := Model{
		Target:         Targets["butterfly"],
		OnCatch:        func(Target) { caught++ },
		TermWidth:      80,
		TermHeight:     24,
		LastUpdateTime: baseTime,
		TargetPosX:     77.5, // maxX is 78
		TargetPosY:     12,
	}

	updatedModel, cmd := m.Update(animTickMsg(baseTime.Add(70 * time.Millisecond)))
	if !isQuit(cmd) {
		t.Error("Target reaching the edge should quit")
	}
	if updatedModel.(Model).Caught || caught != 0 {
		t.Error("An escaped target pays nothing")
	}
}

func TestModel_Update_AnimTick_PetMovement(t *testing.T) {
	tests := []struct {
		name    string
		stamina int
		want    float64
	}{
		{"Rested creature runs", 80, petSpeed * 0.07},
		{"Tired creature is slower", 10, tiredPetSpeed * 0.07},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseTime := time.Now()
			m := Model{
				Pet:            creature(tt.stamina, 50, 50),
				Target:         Targets["butterfly"],
				TermWidth:      80,
				TermHeight:     24,
				LastUpdateTime: baseTime,
				PetPosY:        12,
				TargetPosX:     20,
				TargetPosY:     12,
			}

			updatedModel, _ := m.Update(animTickMsg(baseTime.Add(70 * time.Millisecond)))
			updated := updatedModel.(Model)
			if math.Abs(updated.PetPosX-tt.want) > 0.001 {
				t.Errorf("PetPosX = %f, want %f", updated.PetPosX, tt.want)
			}
		})
	}
}

func TestModel_Update_AnimTick_PetVerticalMovement(t *testing.T) {
	tests := []struct {
		name       string
		petPosY    float64
		wantChange string // "up" or "down"
	}{
		{"Creature moves down when target is below", 2, "down"},
		{"Creature moves up when target is above", 20, "up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseTime := time.Now()
			// Target lands on the flutter's centre line
			m := Model{
				Target:         Targets["butterfly"],
				TermWidth:      200,
				TermHeight:     24,
				LastUpdateTime: baseTime,
				PetPosY:        tt.petPosY,
				TargetPosX:     5*math.Pi - Targets["butterfly"].Speed*0.07,
			}

			updatedModel, _ := m.Update(animTickMsg(baseTime.Add(70 * time.Millisecond)))
			updated := updatedModel.(Model)

			switch tt.wantChange {
			case "down":
				if updated.PetPosY <= tt.petPosY {
					t.Errorf("Creature should move down from Y=%f, got Y=%f", tt.petPosY, updated.PetPosY)
				}
			case "up":
				if updated.PetPosY >= tt.petPosY {
					t.Errorf("Creature should move up from Y=%f, got Y=%f", tt.petPosY, updated.PetPosY)
				}
			}
		})
	}
}

func TestModel_Update_AnimTick_CatchPaysReward(t *testing.T) {
	baseTime := time.Now()
	var paid []Target
	target := Targets["butterfly"]
	m := Model{
		Target:         target,
		OnCatch:        func(t Target) { paid = append(paid, t) },
		TermWidth:      40,
		TermHeight:     10,
		LastUpdateTime: baseTime,
		PetPosX:        15,
		PetPosY:        4,
		// after one tick the target sits at x=5π, on the centre row
		TargetPosX: 5*math.Pi - target.Speed*0.07,
		TargetPosY: 4,
	}

	updatedModel, cmd := m.Update(animTickMsg(baseTime.Add(70 * time.Millisecond)))
	if !isQuit(cmd) {
		t.Fatal("expected quit command when the creature catches the target")
	}
	if !updatedModel.(Model).Caught {
		t.Error("Expected Caught to be set")
	}
	if len(paid) != 1 || paid[0].Name != target.Name {
		t.Errorf("Expected exactly one reward for %s, got %+v", target.Name, paid)
	}
}

func TestModel_Update_AnimTick_BoundaryConstraints(t *testing.T) {
	t.Run("Target stays within vertical boundaries", func(t *testing.T) {
		baseTime := time.Now()
		m := Model{
			Target:         Targets["butterfly"],
			TermWidth:      80,
			TermHeight:     24,
			LastUpdateTime: baseTime,
			TargetPosX:     5,
			TargetPosY:     12,
			PetPosY:        12,
		}

		maxY := float64(m.visibleRows() - 1)
		currentTime := baseTime
		for i := 0; i < 50; i++ {
			currentTime = currentTime.Add(70 * time.Millisecond)
			model, _ := m.Update(animTickMsg(currentTime))
			m = model.(Model)

			if m.TargetPosY < 0 || m.TargetPosY > maxY {
				t.Errorf("Tick %d: TargetPosY = %f, want within [0, %f]", i, m.TargetPosY, maxY)
			}
		}
	})

	t.Run("Creature stays within vertical boundaries", func(t *testing.T) {
		baseTime := time.Now()
		m := Model{
			Target:         Targets["butterfly"],
			TermWidth:      80,
			TermHeight:     24,
			LastUpdateTime: baseTime,
			TargetPosX:     20,
			TargetPosY:     3,
			PetPosY:        12,
		}

		maxY := float64(m.visibleRows() - 1)
		currentTime := baseTime
		for i := 0; i < 20; i++ {
			currentTime = currentTime.Add(70 * time.Millisecond)
			model, _ := m.Update(animTickMsg(currentTime))
			m = model.(Model)

			if m.PetPosY < 0 || m.PetPosY > maxY {
				t.Errorf("Tick %d: PetPosY = %f, want within [0, %f]", i, m.PetPosY, maxY)
			}
		}
	})
}

func TestModel_View_Initialization(t *testing.T) {
	m := Model{Target: Targets["butterfly"]}
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("View should show 'Initializing...' when dimensions are zero")
	}
}

func TestModel_View_ContainsPetAndTarget(t *testing.T) {
	m := Model{
		Pet:        creature(50, 50, 50),
		Target:     Targets["butterfly"],
		TermWidth:  80,
		TermHeight: 24,
		PetPosX:    5,
		PetPosY:    10,
		TargetPosX: 15,
		TargetPosY: 10,
	}

	view := m.View()
	if !strings.Contains(view, m.Target.Emoji) {
		t.Errorf("View should contain target emoji %q", m.Target.Emoji)
	}
	if !strings.Contains(view, pet.StatusEmojiNeutral) {
		t.Error("View should contain the creature")
	}
	if !strings.Contains(view, "Press any key to exit") {
		t.Error("View should contain exit instruction")
	}
}

func TestModel_View_GridDimensions(t *testing.T) {
	m := Model{
		Target:     Targets["butterfly"],
		TermWidth:  40,
		TermHeight: 20,
		PetPosX:    5,
		PetPosY:    5,
		TargetPosX: 10,
		TargetPosY: 5,
	}

	lines := strings.Split(m.View(), "\n")
	// rows-1 grid lines, then a blank, then the instruction line
	if expected := m.visibleRows() + 1; len(lines) != expected {
		t.Errorf("View has %d lines, want %d", len(lines), expected)
	}
}

func TestVisibleRowsMinimum(t *testing.T) {
	m := Model{TermHeight: 3}
	if got := m.visibleRows(); got != minVisibleRows {
		t.Fatalf("visibleRows min should be %d, got %d", minVisibleRows, got)
	}
}

func TestClampOnResize(t *testing.T) {
	m := Model{
		TermWidth:  10,
		TermHeight: 10,
		PetPosY:    20,
		TargetPosY: -5,
	}

	m.clampPositions()
	expectedMaxY := float64(m.visibleRows() - 1)
	if m.PetPosY != expectedMaxY {
		t.Fatalf("pet Y should clamp to %f, got %f", expectedMaxY, m.PetPosY)
	}
	if m.TargetPosY != 0 {
		t.Fatalf("target Y should clamp to 0, got %f", m.TargetPosY)
	}
}

func TestModel_View_OutOfBoundsPositions(t *testing.T) {
	m := Model{
		Target:     Targets["butterfly"],
		TermWidth:  80,
		TermHeight: 24,
		PetPosX:    -5,
		PetPosY:    100,
		TargetPosX: 200,
		TargetPosY: -10,
	}

	// Should not panic with out of bounds positions
	if m.View() == "" {
		t.Error("View should still render with out of bounds positions")
	}
}

func TestModel_PetHorizontalMovementThreshold(t *testing.T) {
	// The target moves first (8.0 * 0.07 = 0.56 columns per tick), then the
	// creature measures the distance to its new position.
	tests := []struct {
		name     string
		distX    float64
		wantMove bool
	}{
		{"Moves when distX > 3", 5, true},
		{"Stays when distX ends just under 3", 2.4, false},
		{"Stays when distX < 3", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseTime := time.Now()
			m := Model{
				Target:         Targets["butterfly"],
				TermWidth:      80,
				TermHeight:     24,
				LastUpdateTime: baseTime,
				PetPosX:        10,
				PetPosY:        12,
				TargetPosX:     10 + tt.distX,
				TargetPosY:     12,
			}

			updatedModel, _ := m.Update(animTickMsg(baseTime.Add(70 * time.Millisecond)))
			moved := updatedModel.(Model).PetPosX > m.PetPosX
			if moved != tt.wantMove {
				t.Errorf("moved = %v, want %v (initial distX = %f)", moved, tt.wantMove, tt.distX)
			}
		})
	}
}

func TestGetChaseEmoji(t *testing.T) {
	tests := []struct {
		name     string
		view     pet.View
		distX    int
		distY    int
		expected string
	}{
		{"About to catch", creature(50, 50, 50), 1, 0, emojiExcited},
		{"Close but not touching still excites", creature(50, 50, 50), 3, 1, emojiExcited},
		{"Tired creature", creature(20, 50, 50), 10, 5, pet.StatusEmojiSleeping},
		{"Energetic creature", creature(90, 50, 50), 10, 5, emojiEnergetic},
		{"Sad creature", creature(50, 20, 50), 10, 5, pet.StatusEmojiSad},
		{"Happy creature", creature(50, 90, 50), 10, 5, pet.StatusEmojiHappy},
		{"Hungry creature", creature(50, 50, 20), 10, 5, pet.StatusEmojiHungry},
		{"Hungry takes priority over energetic", creature(90, 90, 20), 10, 5, pet.StatusEmojiHungry},
		{"Default neutral creature", creature(50, 50, 50), 10, 5, pet.StatusEmojiNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := getChaseEmoji(tt.view, tt.distX, tt.distY); result != tt.expected {
				t.Errorf("getChaseEmoji() = %v, want %v", result, tt.expected)
			}
		})
	}
}
