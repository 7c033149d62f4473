package world

import (
	"github.com/google/uuid"

	"nullsector/internal/commons/logger_config"
	"nullsector/internal/shared/input"
	"nullsector/internal/timeline"
)

func NewWorld(seed int64) *World {
	return NewWorldWithConfig(DefaultConfig(), seed)
}

func NewWorldWithConfig(cfg Config, seed int64) *World {
	w := &World{}
	w.init(cfg, seed)
	return w
}

// init fills a zero World in place; timeline closures hold on to w.
func (w *World) init(cfg Config, seed int64) {
	w.Cfg = cfg
	w.Player = Player{
		Size:       cfg.PlayerSize,
		Health:     cfg.PlayerMaxHealth,
		LightLevel: 1.0,
		Mode:       ModeRoam,
	}
	w.Enemies = make([]Enemy, 0, 64)
	w.Structures = make([]Rect, 0, 256)
	w.Fragments = make([]Fragment, 0, 64)
	w.Projectiles = make([]Projectile, 0, 128)
	w.Objectives = ReferenceObjectives()
	w.SessionID = uuid.NewString()

	w.visited = make(map[ChunkKey]struct{})
	w.log = logger_config.With("world")
	w.Seed(seed)

	w.print(LineMsg, "SYSTEM: NULL SECTOR")
	w.print(LineMsg, "Type /help for commands.")
	w.bootHints()

	w.ensureChunks()
}

// schedule queues fn on the clock. It does not run if a save is loaded in
// the meantime.
func (w *World) schedule(delay int, label string, fn func()) {
	loads := w.loads
	w.clock.After(delay, label, func() {
		if w.loads == loads {
			fn()
		}
	})
}

// Reset rebuilds the run from scratch, keeping config and seed.
func (w *World) Reset() {
	cfg, seed := w.Cfg, w.rngSeed
	*w = World{}
	w.init(cfg, seed)
}

func (w *World) Enqueue(m Msg) {
	w.inbox = append(w.inbox, m)
}

// Now reports how many ticks the world clock has advanced.
func (w *World) Now() uint64 { return uint64(w.clock.Now()) }

// TimeScale is 0.1 while the terminal overlay is open and 1 otherwise.
func (w *World) TimeScale() float64 {
	if w.TerminalOpen {
		return 0.1
	}
	return 1.0
}

// Tick advances the simulation by one frame.
func (w *World) Tick() {
	// messages are handled even when the run is over (pause toggles, terminal)
	for _, m := range w.inbox {
		if _, ok := m.(MsgRestart); ok {
			// a fresh run drops whatever else was queued
			w.Reset()
			return
		}
		w.handle(m)
	}
	w.inbox = w.inbox[:0]

	// scripted sequences keep running while paused or dead
	w.clock.Advance()

	if w.Player.Dead || w.Won || w.Paused {
		return
	}

	w.Frame++
	dt := w.TimeScale()

	w.updatePlayer(dt)
	w.ensureChunks()

	if w.Player.CombatUnlocked {
		w.updateEnemies(dt)
		w.updateProjectiles(dt)
	}

	w.updateEscalation()
	w.updateSurvival()
	w.updateHaven()
	w.updateObjectives()
	w.updateFragments()
}

func (w *World) handle(m Msg) {
	switch msg := m.(type) {
	case MsgInput:
		if w.TerminalOpen {
			w.input = input.State{}
			return
		}
		if msg.Input.Moving() && w.ObjectivesExpanded {
			w.ObjectivesExpanded = false
		}
		w.input = msg.Input
	case MsgFire:
		if !w.Paused {
			w.fire(msg.Angle)
		}
	case MsgToggleMode:
		w.toggleMode()
	case MsgToggleTerminal:
		w.TerminalOpen = !w.TerminalOpen
		if w.TerminalOpen {
			w.input = input.State{}
			w.ObjectivesExpanded = false
			w.cue(CueTerminalOpen)
		} else {
			w.cue(CueTerminalClose)
		}
	case MsgExecute:
		w.Submit(msg.Line)
	case MsgHotbar:
		if !w.TerminalOpen {
			_ = w.RunHotbar(msg.Slot)
		}
	case MsgToggleObjectives:
		if !w.TerminalOpen {
			w.ObjectivesExpanded = !w.ObjectivesExpanded
			w.cue(CueObjectiveToggle)
		}
	case MsgTogglePause:
		if !w.Player.Dead && !w.Won {
			w.Paused = !w.Paused
		}
	}
}

func (w *World) toggleMode() {
	if w.TerminalOpen {
		return
	}
	if !w.Player.CombatUnlocked {
		w.logf(LineError, "ERR: COMBAT MODULE MISSING")
		return
	}
	if w.Player.Mode == ModeRoam {
		w.Player.Mode = ModeCombat
		w.logf(LineNew, "COMBAT PROFILE ENGAGED")
	} else {
		w.Player.Mode = ModeRoam
		w.logf(LineNew, "ROAMING PROFILE")
	}
}

func (w *World) bootHints() {
	hint := func(text string) func() {
		return func() { w.logf(LineNew, text) }
	}
	w.clock.Sequence(
		timeline.Step{Delay: 30, Label: "hint.move", Do: hint(`Use "WASD" Keys for movement`)},
		timeline.Step{Delay: 60, Label: "hint.terminal", Do: hint(`Press "Tab" key to open Terminal`)},
		timeline.Step{Delay: 60, Label: "hint.objective", Do: hint(`Press "Q" to view Objective`)},
	)
}

// Pending lists labels of scripted actions still waiting on the clock.
func (w *World) Pending() []string { return w.clock.Labels() }
