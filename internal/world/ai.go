package world

// AIMode is the behaviour an enemy follows this tick. It is derived from a
// Perception every tick and never stored on the enemy.
type AIMode uint8

const (
	// AIHold keeps the previous target.
	AIHold AIMode = iota
	AIOmniscient
	AIWander
	AIChase
)

func (m AIMode) String() string {
	switch m {
	case AIOmniscient:
		return "omniscient"
	case AIWander:
		return "wander"
	case AIChase:
		return "chase"
	default:
		return "hold"
	}
}

// Perception is what one enemy knows about the player this tick.
type Perception struct {
	Dist       float64
	Blocked    bool // a wall box overlaps the enemy-player segment box
	Cloaked    bool
	Kills      int
	SightRange float64
}

// CanSee is true when the player is in range, unobstructed and not cloaked.
func (p Perception) CanSee() bool {
	return p.Dist < p.SightRange && !p.Blocked && !p.Cloaked
}

// ResolveMode picks the behaviour in priority order: omniscient, wander,
// chase, hold.
func (c Config) ResolveMode(p Perception) AIMode {
	switch {
	case p.Kills >= c.OmniscientKills && !p.Cloaked:
		return AIOmniscient
	case p.Dist > c.WanderDistance || p.Blocked:
		return AIWander
	case p.CanSee():
		return AIChase
	default:
		return AIHold
	}
}

func (w *World) perceive(e *Enemy) Perception {
	return Perception{
		Dist:       Dist(e.Pos, w.Player.Pos),
		Blocked:    RayBlocked(e.Pos, w.Player.Pos, w.Structures, w.Cfg.RayCullDistance),
		Cloaked:    w.Player.Cloaked,
		Kills:      w.Kills,
		SightRange: e.SightRange,
	}
}

// ModeOf reports the mode enemy i would resolve to right now.
func (w *World) ModeOf(i int) AIMode {
	return w.Cfg.ResolveMode(w.perceive(&w.Enemies[i]))
}

// separation sums the push away from every other enemy within SeparationRadius.
func (w *World) separation(i int) Vec2 {
	var sep Vec2
	me := w.Enemies[i].Pos
	for j := range w.Enemies {
		if j == i {
			continue
		}
		other := w.Enemies[j].Pos
		if Dist(me, other) < w.Cfg.SeparationRadius {
			sep = sep.Add(me.Sub(other).Mul(w.Cfg.SeparationWeight))
		}
	}
	return sep
}

func (w *World) updateEnemies(dt float64) {
	for i := range w.Enemies {
		w.stepEnemy(i, dt)
	}
}

// stepEnemy runs one perception, targeting, movement and firing step. Enemies
// are updated in slice order and see positions already moved this tick.
func (w *World) stepEnemy(i int, dt float64) {
	sep := w.separation(i)
	e := &w.Enemies[i]

	if e.Cooldown > 0 {
		e.Cooldown -= dt
	}

	per := w.perceive(e)
	mode := w.Cfg.ResolveMode(per)
	canSee := per.CanSee()

	switch mode {
	case AIOmniscient, AIChase:
		e.Target = w.Player.Pos
	case AIWander:
		if e.WanderTimer <= 0 {
			e.Target = Vec2{X: e.Pos.X + w.randSpan(w.Cfg.WanderSpan), Y: e.Pos.Y + w.randSpan(w.Cfg.WanderSpan)}
			e.WanderTimer = w.Cfg.WanderTimerMin + w.randFloat()*w.Cfg.WanderTimerRange
		}
		e.WanderTimer -= dt
	}

	d := e.Target.Sub(e.Pos)
	if d.Len() > w.Cfg.ArriveRadius {
		next := e.Pos.Add(d.Norm().Mul(e.Speed * dt)).Add(sep.Mul(w.Cfg.SeparationBias))
		if w.hitsWall(next) {
			e.Target = Vec2{X: e.Pos.X + w.randSpan(w.Cfg.StuckSpan), Y: e.Pos.Y + w.randSpan(w.Cfg.StuckSpan)}
			e.WanderTimer = w.Cfg.StuckTimer
		} else {
			e.Pos = next
			e.Angle = d.Angle()
		}
	} else if mode != AIOmniscient && !canSee {
		e.WanderTimer = 0
	}

	if !canSee {
		return
	}
	aim := w.Player.Pos.Sub(e.Pos)
	e.Angle = aim.Angle()
	if e.Cooldown <= 0 {
		w.Projectiles = append(w.Projectiles, Projectile{
			Pos:   e.Pos,
			Vel:   FromAngle(e.Angle, w.Cfg.EnemyBulletSpeed),
			Owner: OwnerEnemy,
			Life:  w.Cfg.EnemyBulletLife,
		})
		e.Cooldown = w.Cfg.EnemyFireCooldown(w.Kills)
	}
}
