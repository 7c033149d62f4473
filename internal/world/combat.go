package world

import "fmt"

// updateProjectiles moves every projectile and resolves wall, player and
// enemy hits. Survivors are compacted in place.
func (w *World) updateProjectiles(dt float64) {
	kept := w.Projectiles[:0]

	for _, p := range w.Projectiles {
		p.Pos = p.Pos.Add(p.Vel.Mul(dt))
		p.Life -= dt

		if p.Life <= 0 || w.hitsWall(p.Pos) {
			continue
		}

		switch p.Owner {
		case OwnerEnemy:
			if Dist(p.Pos, w.Player.Pos) < w.Player.Size+w.Cfg.HitPadding {
				w.damagePlayer()
				continue
			}
		case OwnerPlayer:
			if w.hitEnemy(p.Pos) {
				continue
			}
		}

		kept = append(kept, p)
	}

	for i := len(kept); i < len(w.Projectiles); i++ {
		w.Projectiles[i] = Projectile{}
	}
	w.Projectiles = kept
}

// damagePlayer applies one enemy hit. The haven blocks all damage; otherwise
// the shield absorbs a hit before health does.
func (w *World) damagePlayer() {
	p := &w.Player
	if p.Dead || w.Haven.Contains(p.Pos) {
		return
	}

	if p.Shield > 0 {
		p.Shield = clampInt(p.Shield-w.Cfg.ShieldAbsorb, 0, w.Cfg.PlayerMaxShield)
		w.logf(LineSafe, "SHIELD ABSORB")
		w.cue(CueShieldAbsorb)
	} else {
		p.Health = clampInt(p.Health-w.Cfg.HitDamage, 0, w.Cfg.PlayerMaxHealth)
		w.logf(LineError, "HULL DAMAGE")
		w.cue(CueHit)
	}

	if p.Health <= 0 {
		w.killPlayer()
	}
}

func (w *World) killPlayer() {
	w.Player.Dead = true
	w.Player.Vel = Vec2{}
	w.print(LineError, "CRITICAL FAILURE: HULL BREACHED")
	w.cue(CueDeath)
	w.log.WithField("kills", w.Kills).Info("player died")
}

// hitEnemy damages one enemy within EnemyHitRadius of pos, scanning from the
// most recently added. A kill removes the enemy and credits the player in the
// same step.
func (w *World) hitEnemy(pos Vec2) bool {
	for i := len(w.Enemies) - 1; i >= 0; i-- {
		e := &w.Enemies[i]
		if Dist(pos, e.Pos) >= w.Cfg.EnemyHitRadius {
			continue
		}

		e.HP--
		if e.HP <= 0 {
			w.removeEnemyAt(i)
			w.Kills++
			w.Player.Data += w.Cfg.EnemyKillReward
			w.logf(LineNew, fmt.Sprintf("ENEMY ELIMINATED [%d]", w.Kills))
			w.cue(CueKill)
		}
		return true
	}
	return false
}

// updateEscalation may send a ring after the player while the population is
// under the cap for the current kill count.
func (w *World) updateEscalation() {
	if !w.Player.CombatUnlocked {
		return
	}
	chance, limit := w.Cfg.SpawnRule(w.Kills)
	if float64(len(w.Enemies)) >= limit {
		return
	}
	if w.randFloat() < chance {
		w.SpawnEnemyRing()
	}
}

// updateFragments collects fragments under the player and tops the field up
// from the player's position when it runs low.
func (w *World) updateFragments() {
	kept := w.Fragments[:0]
	for _, f := range w.Fragments {
		if f.Active && Dist(w.Player.Pos, f.Pos) < w.Cfg.PickupRadius {
			w.Player.Data += w.Cfg.FragmentValue
			w.logf(LineNew, fmt.Sprintf("DATA: +%d MB", w.Cfg.FragmentValue))
			continue
		}
		kept = append(kept, f)
	}
	for i := len(kept); i < len(w.Fragments); i++ {
		w.Fragments[i] = Fragment{}
	}
	w.Fragments = kept

	if w.activeFragments() < w.Cfg.FragmentFloor {
		w.spawnInChunk(w.Player.Pos, spawnFragment)
	}
}
