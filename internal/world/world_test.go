package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nullsector/internal/shared/input"
)

// bareWorld returns a world with the generated content stripped, so tests
// place exactly the entities they need.
func bareWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld(7)
	w.Structures = w.Structures[:0]
	w.Fragments = w.Fragments[:0]
	w.Enemies = w.Enemies[:0]
	w.Projectiles = w.Projectiles[:0]
	return w
}

func lastLine(lines []Line) Line {
	if len(lines) == 0 {
		return Line{}
	}
	return lines[len(lines)-1]
}

func TestWorldTickDeterministicSmoke(t *testing.T) {
	w1 := NewWorld(2024)
	w2 := NewWorld(2024)

	script := func(w *World, i int) {
		switch i {
		case 0:
			w.Player.Data = 500
			w.Enqueue(MsgExecute{Line: "sys.compile"})
		case 100:
			w.Enqueue(MsgToggleMode{})
		}
		w.Enqueue(MsgInput{Input: input.State{Right: i%3 != 0, Down: i%5 == 0}})
		if i > 100 && i%20 == 0 {
			w.Enqueue(MsgFire{Angle: float64(i) / 10})
		}
	}

	for i := range 400 {
		script(w1, i)
		script(w2, i)
		w1.Tick()
		w2.Tick()
	}

	s1, s2 := w1.BuildSnapshot(), w2.BuildSnapshot()
	s1.Session, s2.Session = "", ""
	require.Equal(t, s1, s2)

	assert.Positive(t, s1.Frame)
	assert.True(t, s1.Player.CombatUnlocked)
	assert.NotEmpty(t, s1.Structures, "combat event should have retrofitted walls")
}

func TestNewWorldGeneratesAroundOrigin(t *testing.T) {
	w := NewWorld(1)

	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			assert.True(t, w.Visited(x, y), "chunk %d,%d", x, y)
		}
	}
	assert.Equal(t, 9, w.VisitedCount())
	assert.NotEmpty(t, w.Fragments)
	assert.Empty(t, w.Structures, "walls only appear once combat is unlocked")
	assert.Empty(t, w.Enemies)
	assert.NotEmpty(t, w.SessionID)
}

func TestTickStopsWhilePausedButTimelineRuns(t *testing.T) {
	w := bareWorld(t)
	w.Enqueue(MsgTogglePause{})
	w.Player.Vel = Vec2{X: 2}

	for range 40 {
		w.Tick()
	}

	assert.True(t, w.Paused)
	assert.Zero(t, w.Frame)
	assert.Equal(t, Vec2{}, w.Player.Pos)
	// the movement hint is scheduled 30 ticks after boot
	require.NotEmpty(t, w.SysLog)
	assert.Contains(t, w.SysLog[0].Text, "WASD")

	w.Enqueue(MsgTogglePause{})
	w.Tick()
	assert.False(t, w.Paused)
	assert.EqualValues(t, 1, w.Frame)
	assert.Greater(t, w.Player.Pos.X, 0.0)
}

func TestTerminalSlowsTime(t *testing.T) {
	w := bareWorld(t)
	w.Enqueue(MsgToggleTerminal{})
	w.Player.Vel = Vec2{X: 1}

	w.Tick()

	require.True(t, w.TerminalOpen)
	assert.InDelta(t, 0.1, w.TimeScale(), 1e-12)
	assert.InDelta(t, 0.96*0.1, w.Player.Pos.X, 1e-9)
	assert.Contains(t, w.DrainCues(), CueTerminalOpen)
}

func TestTerminalOpenDropsMovementInput(t *testing.T) {
	w := bareWorld(t)
	w.Enqueue(MsgToggleTerminal{})
	w.Enqueue(MsgInput{Input: input.State{Right: true}})
	w.Tick()

	assert.Zero(t, w.Player.Vel.X)
}

func TestHandleToggleMode(t *testing.T) {
	w := bareWorld(t)

	w.Enqueue(MsgToggleMode{})
	w.Tick()
	assert.Equal(t, ModeRoam, w.Player.Mode)
	assert.Equal(t, "> ERR: COMBAT MODULE MISSING", lastLine(w.SysLog).Text)

	w.Player.CombatUnlocked = true
	w.Enqueue(MsgToggleMode{})
	w.Tick()
	assert.Equal(t, ModeCombat, w.Player.Mode)

	w.Enqueue(MsgToggleMode{})
	w.Tick()
	assert.Equal(t, ModeRoam, w.Player.Mode)
}

func TestObjectivePanelCollapsesOnMovement(t *testing.T) {
	w := bareWorld(t)
	w.Enqueue(MsgToggleObjectives{})
	w.Tick()
	require.True(t, w.ObjectivesExpanded)

	w.Enqueue(MsgInput{Input: input.State{Up: true}})
	w.Tick()
	assert.False(t, w.ObjectivesExpanded)
}

func TestResetKeepsSeedAndConfig(t *testing.T) {
	w := NewWorld(99)
	w.Cfg.BulletCost = 7
	first := append([]Fragment(nil), w.Fragments...)

	w.Player.Data = 300
	w.Kills = 4
	for range 10 {
		w.Tick()
	}
	w.Reset()

	assert.Equal(t, 7, w.Cfg.BulletCost)
	assert.Zero(t, w.Player.Data)
	assert.Zero(t, w.Kills)
	assert.Equal(t, first, w.Fragments)
	assert.Equal(t, []string{"hint.move", "hint.terminal", "hint.objective"}, w.Pending())
}

func TestSystemLogIsCapped(t *testing.T) {
	w := bareWorld(t)
	for i := range 10 {
		w.logf(LineNew, string(rune('a'+i)))
	}
	require.Len(t, w.SysLog, w.Cfg.SystemLogSize)
	assert.Equal(t, "> e", w.SysLog[0].Text)
	assert.Equal(t, "> j", lastLine(w.SysLog).Text)
}

func TestRestartMessageStartsFreshRun(t *testing.T) {
	w := NewWorld(12)
	w.Player.Health = 0
	w.Player.Dead = true
	w.Kills = 9
	session := w.SessionID

	w.Enqueue(MsgRestart{})
	w.Enqueue(MsgTogglePause{})
	w.Tick()

	assert.False(t, w.Player.Dead)
	assert.Equal(t, 100, w.Player.Health)
	assert.Zero(t, w.Kills)
	assert.False(t, w.Paused, "messages queued behind a restart are dropped")
	assert.NotEqual(t, session, w.SessionID)
}
