package world

// Cue is a fire-and-forget notification for the audio/notification layer.
type Cue string

const (
	CueObjectiveUpdate Cue = "objective_update"
	CueObjectiveToggle Cue = "objective_toggle"
	CuePhaseComplete   Cue = "phase_complete"
	CueCommandOK       Cue = "command_ok"
	CueCommandFail     Cue = "command_fail"
	CueTerminalOpen    Cue = "terminal_open"
	CueTerminalClose   Cue = "terminal_close"
	CueHit             Cue = "hit"
	CueShieldAbsorb    Cue = "shield_absorb"
	CueKill            Cue = "kill"
	CueLog             Cue = "log"
	CueDeath           Cue = "death"
	CueWin             Cue = "win"
)

type LineKind string

const (
	LineMsg   LineKind = "msg"
	LineCmd   LineKind = "cmd"
	LineOK    LineKind = "ok"
	LineError LineKind = "error"
	LineSafe  LineKind = "safe"
	LineNew   LineKind = "new"
)

type Line struct {
	Text  string   `json:"text" msgpack:"text"`
	Kind  LineKind `json:"kind" msgpack:"kind"`
	Frame uint64   `json:"frame" msgpack:"frame"`
}

func (w *World) cue(c Cue) {
	w.cues = append(w.cues, c)
}

// DrainCues returns the cues raised since the last call.
func (w *World) DrainCues() []Cue {
	if len(w.cues) == 0 {
		return nil
	}
	out := w.cues
	w.cues = nil
	return out
}

// print appends to the terminal output.
func (w *World) print(kind LineKind, text string) {
	w.Terminal = appendCapped(w.Terminal, Line{Text: text, Kind: kind, Frame: w.Frame}, w.Cfg.TerminalLogSize)
}

// logf appends to the short system log shown over the play field.
func (w *World) logf(kind LineKind, text string) {
	w.SysLog = appendCapped(w.SysLog, Line{Text: "> " + text, Kind: kind, Frame: w.Frame}, w.Cfg.SystemLogSize)
	w.cue(CueLog)
}

func appendCapped(lines []Line, l Line, max int) []Line {
	lines = append(lines, l)
	if max > 0 && len(lines) > max {
		n := copy(lines, lines[len(lines)-max:])
		lines = lines[:n]
	}
	return lines
}
