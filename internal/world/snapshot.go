package world

// EnemyView is an enemy as the renderer sees it, with its derived mode.
type EnemyView struct {
	ID    int     `json:"id" msgpack:"id"`
	Pos   Vec2    `json:"pos" msgpack:"pos"`
	Angle float64 `json:"angle" msgpack:"angle"`
	HP    int     `json:"hp" msgpack:"hp"`
	Mode  string  `json:"mode" msgpack:"mode"`
}

type TaskView struct {
	Text string `json:"text" msgpack:"text"`
	Done bool   `json:"done" msgpack:"done"`
}

type PhaseView struct {
	Index    int        `json:"index" msgpack:"index"`
	Name     string     `json:"name" msgpack:"name"`
	Summary  string     `json:"summary" msgpack:"summary"`
	Complete bool       `json:"complete" msgpack:"complete"`
	Tasks    []TaskView `json:"tasks" msgpack:"tasks"`
}

// Snapshot is a read-only copy of everything a renderer needs for one frame.
// It shares no memory with the world.
type Snapshot struct {
	Frame   uint64 `json:"frame" msgpack:"frame"`
	Session string `json:"session" msgpack:"session"`

	Player      Player       `json:"player" msgpack:"player"`
	LightRadius float64      `json:"light_radius" msgpack:"light_radius"`
	Enemies     []EnemyView  `json:"enemies" msgpack:"enemies"`
	Structures  []Rect       `json:"structures" msgpack:"structures"`
	Fragments   []Fragment   `json:"fragments" msgpack:"fragments"`
	Projectiles []Projectile `json:"projectiles" msgpack:"projectiles"`
	Haven       *SafeHaven   `json:"haven,omitempty" msgpack:"haven,omitempty"`

	Kills         int       `json:"kills" msgpack:"kills"`
	SurvivalTimer int       `json:"survival_timer" msgpack:"survival_timer"`
	SafeTimer     int       `json:"safe_timer" msgpack:"safe_timer"`
	Phase         PhaseView `json:"phase" msgpack:"phase"`
	Hotbar        Hotbar    `json:"hotbar" msgpack:"hotbar"`

	SysLog   []Line `json:"sys_log" msgpack:"sys_log"`
	Terminal []Line `json:"terminal,omitempty" msgpack:"terminal,omitempty"`

	TerminalOpen       bool `json:"terminal_open" msgpack:"terminal_open"`
	ObjectivesExpanded bool `json:"objectives_expanded" msgpack:"objectives_expanded"`
	Paused             bool `json:"paused" msgpack:"paused"`
	Won                bool `json:"won" msgpack:"won"`
	Evacuated          bool `json:"evacuated" msgpack:"evacuated"`
}

// BuildSnapshot copies the current frame. Terminal lines are included only
// while the terminal is open.
func (w *World) BuildSnapshot() Snapshot {
	enemies := make([]EnemyView, len(w.Enemies))
	for i := range w.Enemies {
		e := &w.Enemies[i]
		enemies[i] = EnemyView{ID: e.ID, Pos: e.Pos, Angle: e.Angle, HP: e.HP, Mode: w.ModeOf(i).String()}
	}

	s := Snapshot{
		Frame:   w.Frame,
		Session: w.SessionID,

		Player:      w.Player,
		LightRadius: w.LightRadius(),
		Enemies:     enemies,
		Structures:  append([]Rect(nil), w.Structures...),
		Fragments:   append([]Fragment(nil), w.Fragments...),
		Projectiles: append([]Projectile(nil), w.Projectiles...),

		Kills:         w.Kills,
		SurvivalTimer: w.SurvivalTimer,
		SafeTimer:     w.SafeTimer,
		Phase:         w.phaseView(),
		Hotbar:        w.Hotbar,

		SysLog: append([]Line(nil), w.SysLog...),

		TerminalOpen:       w.TerminalOpen,
		ObjectivesExpanded: w.ObjectivesExpanded,
		Paused:             w.Paused,
		Won:                w.Won,
		Evacuated:          w.Evacuated,
	}
	if w.Haven != nil {
		h := *w.Haven
		s.Haven = &h
	}
	if w.TerminalOpen {
		s.Terminal = append([]Line(nil), w.Terminal...)
	}
	return s
}

func (w *World) phaseView() PhaseView {
	o := &w.Objectives
	v := PhaseView{Index: o.Cursor, Summary: o.Summary()}

	ph := o.Current()
	if ph == nil {
		v.Name = "ALL SYSTEMS GO"
		v.Complete = true
		v.Tasks = []TaskView{{Text: "Await Extraction", Done: true}}
		return v
	}

	v.Name = ph.Name
	v.Complete = ph.Complete
	v.Tasks = make([]TaskView, len(ph.Tasks))
	for i, t := range ph.Tasks {
		v.Tasks[i] = TaskView{Text: t.Text, Done: t.Done}
	}
	return v
}
