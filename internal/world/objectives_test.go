package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPhaseObjectives() Objectives {
	return Objectives{Phases: []Phase{
		{Name: "FIRST", Tasks: []Task{
			{ID: "a", Text: "data", Check: func(w *World) bool { return w.Player.Data >= 10 }},
			{ID: "b", Text: "kill", Check: killsAtLeast(1)},
		}},
		{Name: "SECOND", Tasks: []Task{
			{ID: "c", Text: "more data", Check: func(w *World) bool { return w.Player.Data >= 20 }},
		}},
	}}
}

func countLabel(labels []string, want string) int {
	n := 0
	for _, l := range labels {
		if l == want {
			n++
		}
	}
	return n
}

func TestTasksAreSticky(t *testing.T) {
	w := bareWorld(t)
	w.Objectives = twoPhaseObjectives()

	w.Player.Data = 10
	w.updateObjectives()
	require.True(t, w.Objectives.Phases[0].Tasks[0].Done)

	w.Player.Data = 0
	w.updateObjectives()
	assert.True(t, w.Objectives.Phases[0].Tasks[0].Done, "a done task is never re-evaluated")
	assert.False(t, w.Objectives.Phases[0].Complete)
	assert.Contains(t, w.DrainCues(), CueObjectiveUpdate)
}

func TestLaterPhaseIsNotEvaluatedEarly(t *testing.T) {
	w := bareWorld(t)
	w.Objectives = twoPhaseObjectives()
	w.Player.Data = 50 // satisfies both a and c

	for range 200 {
		w.updateObjectives()
		w.clock.Advance()
	}

	assert.Equal(t, 0, w.Objectives.Cursor)
	assert.False(t, w.Objectives.Phases[1].Tasks[0].Done)
}

func TestPhaseAdvancesOnceAfterDelay(t *testing.T) {
	w := bareWorld(t)
	w.Objectives = twoPhaseObjectives()
	w.Player.Data = 10
	w.Kills = 1

	w.updateObjectives()
	require.True(t, w.Objectives.Phases[0].Complete)
	assert.Equal(t, 0, w.Objectives.Cursor, "advance waits for the delay")
	assert.Equal(t, "> PHASE COMPLETE: FIRST", lastLine(w.SysLog).Text)

	// further evaluations of a complete phase schedule nothing new
	w.updateObjectives()
	w.updateObjectives()
	assert.Equal(t, 1, countLabel(w.Pending(), "phase.advance"))

	for range w.Cfg.PhaseAdvanceDelay - 1 {
		w.clock.Advance()
	}
	assert.Equal(t, 0, w.Objectives.Cursor)

	w.clock.Advance()
	assert.Equal(t, 1, w.Objectives.Cursor)
	assert.Equal(t, "> NEW OBJECTIVE: SECOND", lastLine(w.SysLog).Text)
	assert.Zero(t, countLabel(w.Pending(), "phase.advance"))
}

func TestMissionComplete(t *testing.T) {
	w := bareWorld(t)
	w.Objectives = twoPhaseObjectives()
	w.Player.Data = 20
	w.Kills = 1

	for range 2*w.Cfg.PhaseAdvanceDelay + 5 {
		w.updateObjectives()
		w.clock.Advance()
	}

	assert.True(t, w.Objectives.Finished())
	assert.Nil(t, w.Objectives.Current())
	assert.Equal(t, "OBJ: MISSION COMPLETE", w.Objectives.Summary())
	assert.Equal(t, 2, w.Objectives.Cursor)

	v := w.BuildSnapshot().Phase
	assert.Equal(t, "ALL SYSTEMS GO", v.Name)
	assert.True(t, v.Complete)
}

func TestCursorNeverMovesBackward(t *testing.T) {
	w := bareWorld(t)
	w.Objectives = twoPhaseObjectives()
	w.Player.Data = 20
	w.Kills = 1

	last := 0
	for range 300 {
		w.updateObjectives()
		w.clock.Advance()
		require.GreaterOrEqual(t, w.Objectives.Cursor, last)
		require.LessOrEqual(t, w.Objectives.Cursor-last, 1, "never skips a phase")
		last = w.Objectives.Cursor
	}
}

func TestReferenceObjectives(t *testing.T) {
	w := bareWorld(t)
	o := w.Objectives
	require.Len(t, o.Phases, 3)
	assert.Equal(t, "INITIALIZATION", o.Phases[0].Name)
	assert.Equal(t, "EXTERMINATION", o.Phases[1].Name)
	assert.Equal(t, "SURVIVAL", o.Phases[2].Name)
	assert.True(t, o.Phases[2].TracksSurvival)

	setup := o.Phases[0].Tasks
	w.Player.Data = 100
	w.Player.CombatUnlocked = true
	w.Player.LightLevel = 1.2
	w.Player.Cloaked = true
	for _, task := range setup {
		assert.True(t, task.Check(w), task.ID)
	}

	w.Kills = 10
	kills := o.Phases[1].Tasks
	assert.True(t, kills[0].Check(w))
	assert.True(t, kills[1].Check(w))
	assert.False(t, kills[2].Check(w))
}

func TestSurvivalTimerCountsSafeProximity(t *testing.T) {
	w := bareWorld(t)
	w.Objectives.restore(2)

	w.addEnemy(Vec2{X: 400})
	w.updateSurvival()
	assert.Equal(t, 1, w.SurvivalTimer, "hostile near but not too near")

	w.addEnemy(Vec2{X: -200})
	w.updateSurvival()
	assert.Equal(t, 1, w.SurvivalTimer, "one hostile too close stops the count")

	w.Enemies = w.Enemies[:0]
	w.addEnemy(Vec2{X: 700})
	w.updateSurvival()
	assert.Equal(t, 1, w.SurvivalTimer, "nobody near")
}

func TestSurvivalTimerOnlyInSurvivalPhase(t *testing.T) {
	w := bareWorld(t)
	w.addEnemy(Vec2{X: 400})
	w.updateSurvival()
	assert.Zero(t, w.SurvivalTimer)
}

func TestSurvivalTimerSpawnsHaven(t *testing.T) {
	w := bareWorld(t)
	w.Objectives.restore(2)
	w.addEnemy(Vec2{X: 400})
	w.SurvivalTimer = w.Cfg.SurvivalThreshold

	w.updateSurvival()

	require.NotNil(t, w.Haven)
	assert.Equal(t, w.Cfg.SurvivalThreshold+1, w.SurvivalTimer)

	// the timer stops once the haven exists
	w.updateSurvival()
	assert.Equal(t, w.Cfg.SurvivalThreshold+1, w.SurvivalTimer)
}

func TestSafeTimerResetsOnExit(t *testing.T) {
	w := bareWorld(t)
	w.Haven = &SafeHaven{Pos: Vec2{}, R: 80, Active: true}

	for range 10 {
		w.updateHaven()
	}
	assert.Equal(t, 10, w.SafeTimer)

	w.Player.Pos = Vec2{X: 100}
	w.updateHaven()
	assert.Zero(t, w.SafeTimer)
	assert.False(t, w.Won)
}

func TestWinAndEvacuation(t *testing.T) {
	w := bareWorld(t)
	w.Haven = &SafeHaven{Pos: Vec2{}, R: 80, Active: true}
	w.SafeTimer = w.Cfg.SafeThreshold

	w.updateHaven()
	require.True(t, w.Won)
	assert.Contains(t, w.DrainCues(), CueWin)
	assert.Equal(t, ">> SIGNAL LOCK. TRANSPORTING...", lastLine(w.Terminal).Text)
	assert.False(t, w.Evacuated)

	frame := w.Frame
	for range w.Cfg.EvacuateDelay {
		w.Tick()
	}
	assert.True(t, w.Evacuated)
	assert.Equal(t, frame, w.Frame, "a won run stops simulating")
}
