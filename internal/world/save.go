package world

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"nullsector/internal/shared/input"
)

const SaveVersion = 2

// SaveData is the persisted slice of a run: player stats, hotbar bindings,
// kill count and phase cursor. World content is not saved; it regenerates.
type SaveData struct {
	Version   int       `json:"version"`
	SessionID string    `json:"session_id"`
	SavedAt   time.Time `json:"saved_at"`

	Player Player `json:"player"`
	Hotbar Hotbar `json:"hotbar"`
	Kills  int    `json:"kills"`
	Phase  int    `json:"phase"`
}

func (w *World) SaveData() SaveData {
	return SaveData{
		Version:   SaveVersion,
		SessionID: w.SessionID,
		SavedAt:   time.Now().UTC(),
		Player:    w.Player,
		Hotbar:    w.Hotbar,
		Kills:     w.Kills,
		Phase:     w.Objectives.Cursor,
	}
}

// DecodeSave never fails. Each field is decoded on its own; a missing or
// malformed field falls back to its default, and every value is clamped to
// its valid range.
func (c Config) DecodeSave(blob []byte) SaveData {
	def := Player{
		Size:       c.PlayerSize,
		Health:     c.PlayerMaxHealth,
		LightLevel: 1.0,
		Mode:       ModeRoam,
	}
	out := SaveData{Version: SaveVersion, Player: def}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(blob, &top); err != nil {
		return out
	}

	out.SessionID = field(top, "session_id", "")
	out.SavedAt = field(top, "saved_at", time.Time{})
	out.Kills = max(0, field(top, "kills", 0))
	out.Phase = max(0, field(top, "phase", 0))
	out.Hotbar = decodeHotbar(top["hotbar"])

	var pm map[string]json.RawMessage
	if raw, ok := top["player"]; ok && json.Unmarshal(raw, &pm) == nil {
		out.Player = c.decodePlayer(pm, def)
	}
	return out
}

func (c Config) decodePlayer(m map[string]json.RawMessage, def Player) Player {
	p := def

	p.Pos = finiteVec(field(m, "pos", def.Pos))
	p.Health = clampInt(field(m, "health", def.Health), 1, c.PlayerMaxHealth)
	p.Shield = clampInt(field(m, "shield", 0), 0, c.PlayerMaxShield)
	p.Data = max(0, field(m, "data", 0))
	p.LightLevel = clampf(field(m, "lightLevel", def.LightLevel), 1.0, c.MaxLightLevel)
	if math.IsNaN(p.LightLevel) {
		p.LightLevel = def.LightLevel
	}

	p.CombatUnlocked = field(m, "combatUnlocked", false)
	if field(m, "mode", ModeRoam) == ModeCombat && p.CombatUnlocked {
		p.Mode = ModeCombat
	}

	p.CloakTimer = max(0, field(m, "cloakTimer", 0))
	p.Cloaked = field(m, "cloaked", false) && p.CloakTimer > 0
	p.ScanTimer = max(0, field(m, "scanTimer", 0))
	p.ScanActive = field(m, "scanActive", false) && p.ScanTimer > 0

	var sm map[string]json.RawMessage
	if raw, ok := m["stats"]; ok && json.Unmarshal(raw, &sm) == nil {
		p.Stats.SpeedLevel = clampInt(field(sm, "speedLevel", 0), 0, commandLimit(ActSpeed))
		p.Stats.FireRateLevel = clampInt(field(sm, "fireRateLevel", 0), 0, commandLimit(ActFireRate))
	}
	return p
}

func decodeHotbar(raw json.RawMessage) Hotbar {
	var hb Hotbar
	var names []json.RawMessage
	if raw == nil || json.Unmarshal(raw, &names) != nil {
		return hb
	}
	for i := 0; i < len(hb) && i < len(names); i++ {
		var name string
		if json.Unmarshal(names[i], &name) != nil {
			continue
		}
		if _, ok := LookupCommand(name); ok {
			hb[i] = name
		}
	}
	return hb
}

func field[T any](m map[string]json.RawMessage, key string, def T) T {
	raw, ok := m[key]
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

func finiteVec(v Vec2) Vec2 {
	if math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		return Vec2{}
	}
	return v
}

func commandLimit(a Action) int {
	for _, c := range commandBank {
		if c.Action == a {
			return c.Limit
		}
	}
	return 0
}

// ApplySave restores a saved run. Transient state is reset and all world
// content is dropped so chunks regenerate around the restored position.
func (w *World) ApplySave(s SaveData) {
	p := s.Player
	p.Size = w.Cfg.PlayerSize
	p.Vel = Vec2{}
	p.Dead = false
	p.FireCooldown = 0
	p.Health = clampInt(p.Health, 1, w.Cfg.PlayerMaxHealth)
	p.Shield = clampInt(p.Shield, 0, w.Cfg.PlayerMaxShield)
	w.Player = p

	w.Hotbar = s.Hotbar
	w.Kills = max(0, s.Kills)
	w.Objectives.restore(s.Phase)
	w.loads++
	if s.SessionID != "" {
		w.SessionID = s.SessionID
	}

	w.TerminalOpen = false
	w.Paused = false
	w.ObjectivesExpanded = false
	w.Won = false
	w.Evacuated = false
	w.input = input.State{}

	w.Structures = w.Structures[:0]
	w.Fragments = w.Fragments[:0]
	w.Enemies = w.Enemies[:0]
	w.Projectiles = w.Projectiles[:0]
	clear(w.visited)
	w.Haven = nil
	w.SurvivalTimer = 0
	w.SafeTimer = 0

	w.logf(LineSafe, "REBOOTING FROM LAST SAVE...")
	w.log.WithField("session", w.SessionID).Info("save applied")
}

// EncodeSave renders s the way SaveFile writes it.
func EncodeSave(s SaveData) ([]byte, error) {
	blob, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal save: %w", err)
	}
	return blob, nil
}

// WriteFileAtomic writes blob to a temp file next to path and renames it into
// place, creating parent directories as needed. It touches no world state and
// is safe to call from any goroutine.
func WriteFileAtomic(path string, blob []byte) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure parent dir: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, blob, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// SaveFile writes the current run to path.
func (w *World) SaveFile(path string) error {
	blob, err := EncodeSave(w.SaveData())
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(path, blob); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	w.NoteSaved()
	return nil
}

// NoteSaved reports a finished save on the system log.
func (w *World) NoteSaved() {
	w.logf(LineSafe, "SYSTEM SAVED. STATE PRESERVED.")
}

// Notify appends a line to the system log on behalf of an outer layer.
func (w *World) Notify(kind LineKind, text string) {
	w.logf(kind, text)
}

// LoadFile reads and applies a save. Only a missing or unreadable file is an
// error; bad contents decode to defaults.
func (w *World) LoadFile(path string) error {
	if path == "" {
		return fmt.Errorf("save path is empty")
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read save file: %w", err)
	}
	w.ApplySave(w.Cfg.DecodeSave(blob))
	return nil
}
