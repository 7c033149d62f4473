package world

type UpgradeKind int

const (
	UpSpeed UpgradeKind = iota
	UpFireRate
)

// Level returns the purchased level of an upgrade track.
func (s UpgradeStats) Level(k UpgradeKind) int {
	switch k {
	case UpSpeed:
		return s.SpeedLevel
	case UpFireRate:
		return s.FireRateLevel
	}
	return 0
}

func (w *World) applyUpgrade(k UpgradeKind) {
	switch k {
	case UpSpeed:
		w.Player.Stats.SpeedLevel++
		w.logf(LineNew, "VELOCITY INCREASED")
	case UpFireRate:
		w.Player.Stats.FireRateLevel++
		// a shorter cooldown applies to the shot already waiting
		w.Player.FireCooldown = minf(w.Player.FireCooldown, w.FireCooldown())
		w.logf(LineNew, "WEAPON OVERCLOCKED")
	}
}

// MaxSpeed is the soft velocity cap after speed upgrades.
func (w *World) MaxSpeed() float64 {
	return w.Cfg.PlayerMaxSpeed + float64(w.Player.Stats.SpeedLevel)*w.Cfg.SpeedStepMax
}

// Accel is the per-tick input impulse after speed upgrades.
func (w *World) Accel() float64 {
	return w.Cfg.PlayerAccel + float64(w.Player.Stats.SpeedLevel)*w.Cfg.SpeedStepAccel
}

// FireCooldown is the number of ticks between player shots.
func (w *World) FireCooldown() float64 {
	return maxf(w.Cfg.MinFireCooldown, w.Cfg.BaseFireCooldown-float64(w.Player.Stats.FireRateLevel)*w.Cfg.FireCooldownStep)
}

// LightRadius is the visible radius around the player.
func (w *World) LightRadius() float64 {
	return w.Cfg.BaseLightRadius * w.Player.LightLevel
}
