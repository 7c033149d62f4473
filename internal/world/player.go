package world

import "math"

// updatePlayer integrates input, velocity and wall collisions, then runs the
// cloak and scan countdowns.
func (w *World) updatePlayer(dt float64) {
	p := &w.Player
	if p.Dead {
		return
	}

	mul := 1.0
	if p.Mode == ModeCombat {
		mul = w.Cfg.CombatSpeedMul
	}
	a := w.Accel() * dt * mul

	if w.input.Up {
		p.Vel.Y -= a
	}
	if w.input.Down {
		p.Vel.Y += a
	}
	if w.input.Left {
		p.Vel.X -= a
	}
	if w.input.Right {
		p.Vel.X += a
	}

	// soft cap: over-speed decays instead of being clamped
	limit := w.MaxSpeed()
	if math.Abs(p.Vel.X) > limit {
		p.Vel.X *= w.Cfg.SpeedDamping
	}
	if math.Abs(p.Vel.Y) > limit {
		p.Vel.Y *= w.Cfg.SpeedDamping
	}

	p.Vel = p.Vel.Mul(w.Cfg.PlayerFriction)

	nextX := p.Pos.X + p.Vel.X*dt
	nextY := p.Pos.Y + p.Vel.Y*dt

	// x is tested against the current y first so the player slides along walls
	for _, s := range w.Structures {
		if Overlaps(Vec2{X: nextX, Y: p.Pos.Y}, s, w.Cfg.WallPadding) {
			p.Vel.X *= w.Cfg.WallBounce
			nextX = p.Pos.X
		}
		if Overlaps(Vec2{X: nextX, Y: nextY}, s, w.Cfg.WallPadding) {
			p.Vel.Y *= w.Cfg.WallBounce
			nextY = p.Pos.Y
		}
	}
	p.Pos = Vec2{X: nextX, Y: nextY}

	if p.Cloaked {
		p.CloakTimer--
		if p.CloakTimer <= 0 {
			p.CloakTimer = 0
			p.Cloaked = false
		}
	}
	if p.ScanActive {
		p.ScanTimer--
		if p.ScanTimer <= 0 {
			p.ScanTimer = 0
			p.ScanActive = false
		}
	}

	if p.FireCooldown > 0 {
		p.FireCooldown = maxf(0, p.FireCooldown-dt)
	}
}

// fire launches a player projectile at angle. It needs combat mode, an
// unlocked weapon, a live player, BulletCost data and an expired cooldown.
func (w *World) fire(angle float64) bool {
	p := &w.Player
	if p.Mode != ModeCombat || !p.CombatUnlocked || p.Dead || w.Won {
		return false
	}
	if p.FireCooldown > 0 {
		return false
	}
	if p.Data < w.Cfg.BulletCost {
		w.logf(LineError, "ERR: NO DATA")
		return false
	}

	p.Data -= w.Cfg.BulletCost
	p.FireCooldown = w.FireCooldown()
	w.Projectiles = append(w.Projectiles, Projectile{
		Pos:   p.Pos,
		Vel:   FromAngle(angle, w.Cfg.BulletSpeed),
		Owner: OwnerPlayer,
		Life:  w.Cfg.BulletLife,
	})
	return true
}
