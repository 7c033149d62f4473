package world

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Task is one objective line. Done is sticky: once Check passes the task
// is never evaluated again.
type Task struct {
	ID   string            `json:"id"`
	Text string            `json:"text"`
	Check func(*World) bool `json:"-"`
	Done bool              `json:"done"`
}

type Phase struct {
	Name     string `json:"name"`
	Tasks    []Task `json:"tasks"`
	Complete bool   `json:"complete"`

	// TracksSurvival enables the survival timer and haven spawn while this
	// phase is current.
	TracksSurvival bool `json:"tracksSurvival"`
}

// Objectives is an ordered phase list with a cursor that only moves forward.
type Objectives struct {
	Phases []Phase `json:"phases"`
	Cursor int     `json:"cursor"`

	epoch int // bumped by restore; stale advances are dropped
}

// ReferenceObjectives returns the stock three-phase campaign.
func ReferenceObjectives() Objectives {
	return Objectives{Phases: []Phase{
		{
			Name: "INITIALIZATION",
			Tasks: []Task{
				{ID: "data", Text: "Gather 100 Data", Check: func(w *World) bool { return w.Player.Data >= 100 }},
				{ID: "compile", Text: "Unlock Profiles (sys.compile)", Check: func(w *World) bool { return w.Player.CombatUnlocked }},
				{ID: "light", Text: "Boost Light (sys.lumos)", Check: func(w *World) bool { return w.Player.LightLevel > 1.0 }},
				{ID: "def", Text: "Add Protection (Shield/Cloak)", Check: func(w *World) bool { return w.Player.Shield > 0 || w.Player.Cloaked }},
			},
		},
		{
			Name: "EXTERMINATION",
			Tasks: []Task{
				{ID: "k5", Text: "Eliminate 5 Anomalies", Check: killsAtLeast(5)},
				{ID: "k10", Text: "Eliminate 10 Anomalies", Check: killsAtLeast(10)},
				{ID: "k20", Text: "Eliminate 20 Anomalies", Check: killsAtLeast(20)},
			},
		},
		{
			Name:           "SURVIVAL",
			TracksSurvival: true,
			Tasks: []Task{
				{ID: "dist", Text: "Maintain Distance from Hostiles", Check: func(w *World) bool { return w.SurvivalTimer > w.Cfg.SurvivalThreshold }},
				{ID: "find", Text: "Locate Safe Haven Signal", Check: func(w *World) bool { return w.Haven != nil }},
				{ID: "esc", Text: "Enter Beacon & Evacuate", Check: func(w *World) bool { return w.SafeTimer > 0 }},
			},
		},
	}}
}

func killsAtLeast(n int) func(*World) bool {
	return func(w *World) bool { return w.Kills >= n }
}

// Current returns the active phase, or nil once every phase is done.
func (o *Objectives) Current() *Phase {
	if o.Cursor < 0 || o.Cursor >= len(o.Phases) {
		return nil
	}
	return &o.Phases[o.Cursor]
}

// Finished reports whether the cursor has passed the last phase.
func (o *Objectives) Finished() bool { return o.Cursor >= len(o.Phases) }

// Summary is the one-line header for the objective panel.
func (o *Objectives) Summary() string {
	if ph := o.Current(); ph != nil {
		return "OBJ: " + ph.Name
	}
	return "OBJ: MISSION COMPLETE"
}

// restore moves the cursor to phase idx with every earlier phase marked
// complete and the current and later tasks reset.
func (o *Objectives) restore(idx int) {
	idx = clampInt(idx, 0, len(o.Phases))
	for i := range o.Phases {
		done := i < idx
		o.Phases[i].Complete = done
		for j := range o.Phases[i].Tasks {
			o.Phases[i].Tasks[j].Done = done
		}
	}
	o.Cursor = idx
	o.epoch++
}

// updateObjectives evaluates the pending tasks of the current phase. A
// completed phase schedules its own advance after PhaseAdvanceDelay ticks.
func (w *World) updateObjectives() {
	ph := w.Objectives.Current()
	if ph == nil || ph.Complete {
		return
	}

	allDone := true
	for i := range ph.Tasks {
		t := &ph.Tasks[i]
		if t.Done {
			continue
		}
		if t.Check != nil && t.Check(w) {
			t.Done = true
			w.cue(CueObjectiveUpdate)
			continue
		}
		allDone = false
	}
	if !allDone {
		return
	}

	ph.Complete = true
	w.logf(LineSafe, "PHASE COMPLETE: "+ph.Name)
	w.cue(CuePhaseComplete)
	w.log.WithField("phase", ph.Name).Info("phase complete")

	idx, epoch := w.Objectives.Cursor, w.Objectives.epoch
	w.clock.After(w.Cfg.PhaseAdvanceDelay, "phase.advance", func() { w.advancePhase(idx, epoch) })
}

// advancePhase moves the cursor past phase idx. It is a no-op if the cursor
// already moved or a save was loaded since, so each phase advances once.
func (w *World) advancePhase(idx, epoch int) {
	if w.Objectives.Cursor != idx || w.Objectives.epoch != epoch {
		return
	}
	w.Objectives.Cursor++
	if ph := w.Objectives.Current(); ph != nil {
		w.logf(LineNew, "NEW OBJECTIVE: "+ph.Name)
		return
	}
	w.logf(LineSafe, "MISSION COMPLETE")
}

// updateSurvival counts ticks spent with hostiles near but not too near,
// and places the haven once the count passes SurvivalThreshold.
func (w *World) updateSurvival() {
	ph := w.Objectives.Current()
	if ph == nil || !ph.TracksSurvival || w.Haven != nil {
		return
	}

	near, tooClose := false, false
	for i := range w.Enemies {
		d := Dist(w.Player.Pos, w.Enemies[i].Pos)
		if d < w.Cfg.SurvivalNear {
			near = true
		}
		if d < w.Cfg.SurvivalTooClose {
			tooClose = true
		}
	}
	if near && !tooClose {
		w.SurvivalTimer++
	}

	if w.SurvivalTimer > w.Cfg.SurvivalThreshold {
		w.SpawnSafeHaven()
	}
}

// updateHaven counts consecutive ticks inside the haven and wins the run
// once the count passes SafeThreshold.
func (w *World) updateHaven() {
	if w.Haven == nil {
		return
	}
	if !w.Haven.Contains(w.Player.Pos) {
		w.SafeTimer = 0
		return
	}
	w.SafeTimer++
	if w.SafeTimer > w.Cfg.SafeThreshold && !w.Won {
		w.win()
	}
}

func (w *World) win() {
	w.Won = true
	w.print(LineOK, ">> SIGNAL LOCK. TRANSPORTING...")
	w.cue(CueWin)
	w.log.WithFields(logrus.Fields{"kills": w.Kills, "frame": w.Frame}).Info("evacuation started")

	w.schedule(w.Cfg.EvacuateDelay, "evacuate", func() {
		w.Evacuated = true
		w.logf(LineSafe, fmt.Sprintf("EVACUATED AFTER %d TICKS", w.Frame))
	})
}
