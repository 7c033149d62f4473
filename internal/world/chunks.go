package world

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/sirupsen/logrus"
)

// ChunkKey is the integer grid coordinate of a ChunkSize x ChunkSize square.
type ChunkKey struct{ X, Y int }

func (k ChunkKey) String() string { return fmt.Sprintf("%d,%d", k.X, k.Y) }

// ChunkOf returns the chunk containing p.
func ChunkOf(p Vec2, size float64) ChunkKey {
	return ChunkKey{X: int(math.Floor(p.X / size)), Y: int(math.Floor(p.Y / size))}
}

type spawnKind uint8

const (
	spawnFragment spawnKind = iota
	spawnWall
)

// Visited reports whether the chunk at (cx, cy) has been generated.
func (w *World) Visited(cx, cy int) bool {
	_, ok := w.visited[ChunkKey{cx, cy}]
	return ok
}

// VisitedCount is the number of generated chunks.
func (w *World) VisitedCount() int { return len(w.visited) }

// GenerateChunk populates chunk (cx, cy) once. Later calls for the same
// coordinates do nothing and return false.
func (w *World) GenerateChunk(cx, cy int) bool {
	key := ChunkKey{cx, cy}
	if _, ok := w.visited[key]; ok {
		return false
	}
	w.visited[key] = struct{}{}

	origin := Vec2{X: float64(cx) * w.Cfg.ChunkSize, Y: float64(cy) * w.Cfg.ChunkSize}

	for i := 0; i < w.Cfg.FragmentsPerChunk; i++ {
		w.spawnInChunk(origin, spawnFragment)
	}

	if w.Player.CombatUnlocked {
		for i := 0; i < w.Cfg.WallsPerChunk; i++ {
			w.spawnInChunk(origin, spawnWall)
		}
		if w.randFloat() > 0.5 {
			w.spawnEnemyInChunk(origin)
		}
	}

	w.log.WithField("chunk", key.String()).Debug("chunk generated")
	return true
}

// ensureChunks generates every chunk within RenderDistance of the player.
func (w *World) ensureChunks() {
	c := ChunkOf(w.Player.Pos, w.Cfg.ChunkSize)
	r := w.Cfg.RenderDistance
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			w.GenerateChunk(c.X+x, c.Y+y)
		}
	}
}

// spawnInChunk tries up to SpawnAttempts random points in the square starting
// at origin and places one entity at the first point that is outside the
// safe zone and clear of walls.
func (w *World) spawnInChunk(origin Vec2, kind spawnKind) bool {
	for i := 0; i < w.Cfg.SpawnAttempts; i++ {
		p := Vec2{
			X: origin.X + w.randFloat()*w.Cfg.ChunkSize,
			Y: origin.Y + w.randFloat()*w.Cfg.ChunkSize,
		}

		if Dist(p, Vec2{}) < w.Cfg.SafeZoneRadius {
			continue
		}
		if w.hitsWall(p) {
			continue
		}

		switch kind {
		case spawnFragment:
			w.Fragments = append(w.Fragments, Fragment{Pos: p, Size: w.Cfg.FragmentSize, Active: true})
		case spawnWall:
			w.Structures = append(w.Structures, Rect{
				X: p.X,
				Y: p.Y,
				W: w.Cfg.WallMinSize + w.randFloat()*w.Cfg.WallSizeRange,
				H: w.Cfg.WallMinSize + w.randFloat()*w.Cfg.WallSizeRange,
			})
		}
		return true
	}
	return false
}

// spawnEnemyInChunk makes one placement attempt and gives up if the point is
// too close to the player.
func (w *World) spawnEnemyInChunk(origin Vec2) bool {
	p := Vec2{
		X: origin.X + w.randFloat()*w.Cfg.ChunkSize,
		Y: origin.Y + w.randFloat()*w.Cfg.ChunkSize,
	}
	if Dist(p, w.Player.Pos) < w.Cfg.EnemyPlayerBuffer {
		return false
	}
	w.addEnemy(p)
	return true
}

// addEnemy appends an enemy at p with stats scaled by the current kill count.
func (w *World) addEnemy(p Vec2) {
	k := w.Kills
	w.nextEnemyID++
	w.Enemies = append(w.Enemies, Enemy{
		ID:         w.nextEnemyID,
		Pos:        p,
		Target:     p,
		Speed:      w.Cfg.EnemyBaseSpeed + float64(k)*w.Cfg.EnemySpeedPerKill,
		HP:         w.Cfg.EnemyBaseHP + k/2,
		SightRange: w.Cfg.EnemyBaseSight + float64(k)*w.Cfg.EnemySightPerKill,
	})
}

// SpawnEnemyRing makes RingSize(kills) independent placements around the
// player. Each placement tries RingAttempts angle/distance pairs and keeps the
// first one clear of walls. It returns how many enemies were placed.
func (w *World) SpawnEnemyRing() int {
	count := w.Cfg.RingSize(w.Kills)
	placed := 0

	for k := 0; k < count; k++ {
		for i := 0; i < w.Cfg.RingAttempts; i++ {
			angle := w.randFloat() * math.Pi * 2
			dist := w.Cfg.RingMinDist + w.randFloat()*w.Cfg.RingDistRange
			p := w.Player.Pos.Add(FromAngle(angle, dist))

			if w.hitsWall(p) {
				continue
			}
			w.addEnemy(p)
			placed++
			break
		}
	}

	w.log.WithFields(logrus.Fields{"kills": w.Kills, "size": count, "placed": placed}).Debug("enemy ring spawned")
	return placed
}

// SpawnSafeHaven places the haven diagonally away from the player, clears
// walls around it and sends AmbushRings rings after the player.
func (w *World) SpawnSafeHaven() {
	off := Vec2{
		X: w.randSign() * (w.Cfg.HavenMinOffset + w.randFloat()*w.Cfg.HavenOffsetRange),
		Y: w.randSign() * (w.Cfg.HavenMinOffset + w.randFloat()*w.Cfg.HavenOffsetRange),
	}
	pos := w.Player.Pos.Add(off)
	pos = Vec2{X: math.Floor(pos.X), Y: math.Floor(pos.Y)}

	w.Haven = &SafeHaven{Pos: pos, R: w.Cfg.HavenRadius, Active: true}

	w.logf(LineSafe, "SIGNAL DETECTED: SAFE HAVEN")
	w.logf(LineSafe, fmt.Sprintf("COORDINATES: [%d, %d]", int(pos.X), int(pos.Y)))

	kept := w.Structures[:0]
	for _, s := range w.Structures {
		if Dist(Vec2{X: s.X, Y: s.Y}, pos) > w.Cfg.HavenClearRadius {
			kept = append(kept, s)
		}
	}
	w.Structures = kept

	for i := 0; i < w.Cfg.AmbushRings; i++ {
		w.SpawnEnemyRing()
	}

	w.log.WithFields(logrus.Fields{"x": pos.X, "y": pos.Y}).Info("safe haven placed")
}

// combatEvent fires a short while after combat is unlocked: walls are
// retrofitted into every chunk generated so far and the first rings arrive.
func (w *World) combatEvent() {
	w.print(LineError, "WARNING: ARCHITECTURE RE-WRITTEN")
	w.print(LineError, ">> HOSTILES DETECTED")
	w.logf(LineNew, "PRESS 'X' FOR COMBAT MODE")

	keys := make([]ChunkKey, 0, len(w.visited))
	for k := range w.visited {
		keys = append(keys, k)
	}
	// sorted so a seed replays the same walls
	sortChunkKeys(keys)

	for _, k := range keys {
		origin := Vec2{X: float64(k.X) * w.Cfg.ChunkSize, Y: float64(k.Y) * w.Cfg.ChunkSize}
		for i := 0; i < w.Cfg.WallsPerChunk; i++ {
			w.spawnInChunk(origin, spawnWall)
		}
	}

	for i := 0; i < w.Cfg.CombatEventRings; i++ {
		w.SpawnEnemyRing()
	}
}

func sortChunkKeys(keys []ChunkKey) {
	slices.SortFunc(keys, func(a, b ChunkKey) int {
		if a.X != b.X {
			return cmp.Compare(a.X, b.X)
		}
		return cmp.Compare(a.Y, b.Y)
	})
}
