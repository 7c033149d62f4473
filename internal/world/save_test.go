package world

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progressedWorld(t *testing.T) *World {
	t.Helper()
	w := bareWorld(t)
	w.Player.Pos = Vec2{X: 4200, Y: -900}
	w.Player.Vel = Vec2{X: 3, Y: 1}
	w.Player.Data = 340
	w.Player.Health = 70
	w.Player.Shield = 30
	w.Player.LightLevel = 1.4
	w.Player.CombatUnlocked = true
	w.Player.Mode = ModeCombat
	w.Player.Stats = UpgradeStats{SpeedLevel: 1, FireRateLevel: 2}
	w.Player.FireCooldown = 5
	w.Hotbar[0] = "sys.cloak"
	w.Hotbar[4] = "exe.repair"
	w.Kills = 12
	w.Objectives.restore(1)
	w.addEnemy(Vec2{X: 5000})
	return w
}

func TestSaveRoundTrip(t *testing.T) {
	src := progressedWorld(t)
	blob, err := json.Marshal(src.SaveData())
	require.NoError(t, err)

	w := NewWorld(8)
	w.TerminalOpen = true
	w.Paused = true
	w.Haven = &SafeHaven{R: 80, Active: true}
	w.SurvivalTimer = 42
	w.ApplySave(w.Cfg.DecodeSave(blob))

	p := w.Player
	assert.Equal(t, Vec2{X: 4200, Y: -900}, p.Pos)
	assert.Equal(t, Vec2{}, p.Vel, "velocity is transient")
	assert.Zero(t, p.FireCooldown)
	assert.Equal(t, 340, p.Data)
	assert.Equal(t, 70, p.Health)
	assert.Equal(t, 30, p.Shield)
	assert.InDelta(t, 1.4, p.LightLevel, 1e-12)
	assert.True(t, p.CombatUnlocked)
	assert.Equal(t, ModeCombat, p.Mode)
	assert.Equal(t, UpgradeStats{SpeedLevel: 1, FireRateLevel: 2}, p.Stats)

	assert.Equal(t, src.Hotbar, w.Hotbar)
	assert.Equal(t, 12, w.Kills)
	assert.Equal(t, 1, w.Objectives.Cursor)
	assert.True(t, w.Objectives.Phases[0].Complete)
	assert.Equal(t, src.SessionID, w.SessionID)

	assert.False(t, w.TerminalOpen)
	assert.False(t, w.Paused)
	assert.Nil(t, w.Haven)
	assert.Zero(t, w.SurvivalTimer)
	assert.Empty(t, w.Enemies)
	assert.Empty(t, w.Fragments)
	assert.Zero(t, w.VisitedCount())
	assert.Equal(t, "> REBOOTING FROM LAST SAVE...", lastLine(w.SysLog).Text)

	// content regenerates around the restored position
	w.Tick()
	assert.True(t, w.Visited(2, -1))
	assert.Equal(t, 9, w.VisitedCount())
}

func TestDecodeSaveCorruptFallsBackToDefaults(t *testing.T) {
	cfg := DefaultConfig()

	for _, blob := range []string{"", "{not json", "[1,2,3]", "null"} {
		s := cfg.DecodeSave([]byte(blob))
		assert.Equal(t, SaveVersion, s.Version, "%q", blob)
		assert.Equal(t, 100, s.Player.Health, "%q", blob)
		assert.InDelta(t, 1.0, s.Player.LightLevel, 1e-12, "%q", blob)
		assert.Equal(t, ModeRoam, s.Player.Mode, "%q", blob)
		assert.Zero(t, s.Kills, "%q", blob)
		assert.Equal(t, Hotbar{}, s.Hotbar, "%q", blob)
	}
}

func TestDecodeSaveClampsMalformedFields(t *testing.T) {
	blob := `{
		"kills":  "many",
		"phase":  -3,
		"hotbar": ["sys.scan", 7, "sys.bogus", "sys.fire"],
		"player": {
			"pos":            {"x": "a"},
			"health":         -20,
			"shield":         999,
			"data":           -5,
			"lightLevel":     9,
			"mode":           "combat",
			"combatUnlocked": false,
			"cloaked":        true,
			"cloakTimer":     0,
			"scanActive":     true,
			"scanTimer":      40,
			"stats":          {"speedLevel": 9, "fireRateLevel": -1}
		}
	}`

	s := DefaultConfig().DecodeSave([]byte(blob))

	assert.Zero(t, s.Kills)
	assert.Zero(t, s.Phase)
	assert.Equal(t, Hotbar{"sys.scan", "", "", "sys.fire", ""}, s.Hotbar)

	p := s.Player
	assert.Equal(t, Vec2{}, p.Pos)
	assert.Equal(t, 1, p.Health)
	assert.Equal(t, 50, p.Shield)
	assert.Zero(t, p.Data)
	assert.InDelta(t, 2.0, p.LightLevel, 1e-12)
	assert.Equal(t, ModeRoam, p.Mode, "combat mode needs the module")
	assert.False(t, p.Cloaked, "cloak without a timer is dropped")
	assert.True(t, p.ScanActive)
	assert.Equal(t, 2, p.Stats.SpeedLevel)
	assert.Zero(t, p.Stats.FireRateLevel)
}

func TestApplySaveCancelsPendingPhaseAdvance(t *testing.T) {
	w := bareWorld(t)
	w.Player.Data = 100
	w.Player.CombatUnlocked = true
	w.Player.LightLevel = 1.2
	w.Player.Cloaked = true
	w.updateObjectives()
	require.True(t, w.Objectives.Phases[0].Complete)
	require.Contains(t, w.Pending(), "phase.advance")

	w.ApplySave(w.Cfg.DecodeSave([]byte(`{}`)))
	for range w.Cfg.PhaseAdvanceDelay {
		w.clock.Advance()
	}

	assert.Zero(t, w.Objectives.Cursor)
	assert.False(t, w.Objectives.Phases[0].Complete)
}

func TestApplySaveDropsPendingCombatEvent(t *testing.T) {
	w := bareWorld(t)
	w.Player.Data = 120
	before := w.SaveData()

	require.NoError(t, w.Execute("sys.compile"))
	require.Contains(t, w.Pending(), "combat.event")

	w.ApplySave(before)
	for range w.Cfg.CombatEventDelay + 20 {
		w.Tick()
	}

	assert.False(t, w.Player.CombatUnlocked)
	assert.Empty(t, w.Enemies)
	assert.Empty(t, w.Structures)
	assert.NotContains(t, w.Pending(), "combat.event")
}

func TestApplySaveDropsPendingEvacuation(t *testing.T) {
	w := bareWorld(t)
	before := w.SaveData()
	w.Haven = &SafeHaven{Pos: Vec2{}, R: 80, Active: true}
	w.SafeTimer = w.Cfg.SafeThreshold
	w.updateHaven()
	require.True(t, w.Won)

	w.ApplySave(before)
	for range w.Cfg.EvacuateDelay {
		w.clock.Advance()
	}

	assert.False(t, w.Won)
	assert.False(t, w.Evacuated)
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves", "slot.json")
	src := progressedWorld(t)

	require.NoError(t, src.SaveFile(path))
	assert.Equal(t, "> SYSTEM SAVED. STATE PRESERVED.", lastLine(src.SysLog).Text)
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")

	w := NewWorld(1)
	require.NoError(t, w.LoadFile(path))
	assert.Equal(t, 340, w.Player.Data)
	assert.Equal(t, 12, w.Kills)
	assert.Equal(t, src.Hotbar, w.Hotbar)
}

func TestLoadFileErrors(t *testing.T) {
	w := NewWorld(1)
	assert.Error(t, w.LoadFile(""))
	assert.Error(t, w.LoadFile(filepath.Join(t.TempDir(), "missing.json")))
	assert.Zero(t, w.Player.Data, "a failed load changes nothing")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))
	require.NoError(t, w.LoadFile(bad), "bad contents decode to defaults")
	assert.Equal(t, 100, w.Player.Health)
}

func TestSaveFileNeedsPath(t *testing.T) {
	w := bareWorld(t)
	before := len(w.SysLog)

	assert.Error(t, w.SaveFile(""))
	assert.Len(t, w.SysLog, before, "nothing is reported as saved")
}

func TestNotify(t *testing.T) {
	w := bareWorld(t)
	w.Notify(LineError, "LOAD FAILED")
	assert.Equal(t, Line{Text: "> LOAD FAILED", Kind: LineError}, lastLine(w.SysLog))
}
