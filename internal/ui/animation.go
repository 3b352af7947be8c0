package ui

import (
	"strings"
	"time"

	"jello/internal/pet"
)

// Animation holds the current care-action animation
type Animation struct {
	Kind      pet.ActionKind
	Frame     int
	StartTime time.Time
}

// Active reports whether an animation is playing.
func (a Animation) Active() bool {
	return a.Kind != ""
}

// creatureMark is replaced by the species glyph when a frame is drawn.
const creatureMark = "@"

// AnimationFrames contains the frames for each care action
var AnimationFrames = map[pet.ActionKind][]string{
	pet.ActionFeed: {
		`
   🍖
     \
      @
`,
		`

   🍖→@

`,
		`

     @
   *nom*
`,
		`

     @
   *munch*
`,
	},
	pet.ActionPlay: {
		`
  🎾        @
`,
		`
     🎾     @
`,
		`
        🎾  @
`,
		`
     🎾     @
              *boing*
`,
		`
  🎾        @
              *catch!*
`,
	},
	pet.ActionSleep: {
		`
     @
`,
		`
     @
      z
`,
		`
     @
     z
      z
`,
		`
     @
    z
     z
      z
`,
	},
	pet.ActionWake: {
		`
     @
    z
`,
		`
     @  !
`,
		`
    \@/
`,
	},
	pet.ActionMedicate: {
		`
  💊       @
`,
		`
     💊    @
`,
		`
       💊→ @
`,
		`
           @
        ✨ +♥ ✨
`,
	},
	pet.ActionBathe: {
		`
    🚿
     @
`,
		`
    🚿
   ' @ '
`,
		`
    🚿
  ' '@' '
   *splash*
`,
	},
	pet.ActionBrush: {
		`
  🪥     @
`,
		`
     🪥  @
`,
		`
      🪥 @ ~
   *purr*
`,
	},
	pet.ActionClean: {
		`
  🧹  💩   @
`,
		`
    🧹💨   @
`,
		`
      ✨   @
`,
	},
}

// FrameDuration spreads an action's frames over the simulation's action
// window so the animation ends when the action lock is released.
func FrameDuration(kind pet.ActionKind, window time.Duration) time.Duration {
	n := len(AnimationFrames[kind])
	if n == 0 || window <= 0 {
		return 0
	}
	return window / time.Duration(n)
}

// GetAnimationFrame returns the current frame with glyph drawn in.
func GetAnimationFrame(anim Animation, glyph string) string {
	frames := AnimationFrames[anim.Kind]
	if len(frames) == 0 {
		return ""
	}
	frame := frames[min(anim.Frame, len(frames)-1)]
	return strings.ReplaceAll(frame, creatureMark, glyph)
}

// IsAnimationComplete returns true if the animation has finished
func IsAnimationComplete(anim Animation) bool {
	return anim.Frame >= len(AnimationFrames[anim.Kind])
}

// AnimationTotalFrames returns the number of frames for an action
func AnimationTotalFrames(kind pet.ActionKind) int {
	return len(AnimationFrames[kind])
}
