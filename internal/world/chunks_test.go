package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateChunkIsIdempotent(t *testing.T) {
	w := NewWorld(3)
	w.Player.CombatUnlocked = true

	require.True(t, w.GenerateChunk(5, 5))
	frags, walls, enemies := len(w.Fragments), len(w.Structures), len(w.Enemies)
	require.Positive(t, frags)

	assert.False(t, w.GenerateChunk(5, 5))
	assert.Len(t, w.Fragments, frags)
	assert.Len(t, w.Structures, walls)
	assert.Len(t, w.Enemies, enemies)
}

func TestGenerateChunkContentsStayInChunk(t *testing.T) {
	w := bareWorld(t)
	w.Player.CombatUnlocked = true
	w.Player.Pos = Vec2{-50000, -50000}

	require.True(t, w.GenerateChunk(3, -2))

	lo := Vec2{X: 3 * w.Cfg.ChunkSize, Y: -2 * w.Cfg.ChunkSize}
	hi := lo.Add(Vec2{X: w.Cfg.ChunkSize, Y: w.Cfg.ChunkSize})
	in := func(p Vec2) bool { return p.X >= lo.X && p.X < hi.X && p.Y >= lo.Y && p.Y < hi.Y }

	assert.LessOrEqual(t, len(w.Fragments), w.Cfg.FragmentsPerChunk)
	assert.LessOrEqual(t, len(w.Structures), w.Cfg.WallsPerChunk)
	assert.LessOrEqual(t, len(w.Enemies), 1)
	for _, f := range w.Fragments {
		assert.True(t, in(f.Pos), "fragment at %v", f.Pos)
		assert.True(t, f.Active)
	}
	for _, s := range w.Structures {
		assert.True(t, in(Vec2{s.X, s.Y}), "wall at %v", s)
		assert.GreaterOrEqual(t, s.W, w.Cfg.WallMinSize)
		assert.Less(t, s.W, w.Cfg.WallMinSize+w.Cfg.WallSizeRange)
		assert.GreaterOrEqual(t, s.H, w.Cfg.WallMinSize)
		assert.Less(t, s.H, w.Cfg.WallMinSize+w.Cfg.WallSizeRange)
	}
}

func TestGenerateChunkWithoutCombatHasNoWallsOrEnemies(t *testing.T) {
	w := bareWorld(t)
	require.True(t, w.GenerateChunk(8, 8))
	assert.Empty(t, w.Structures)
	assert.Empty(t, w.Enemies)
	assert.NotEmpty(t, w.Fragments)
}

func TestSpawnsAvoidSafeZone(t *testing.T) {
	w := NewWorld(11)
	w.Player.CombatUnlocked = true
	for x := -2; x <= 2; x++ {
		for y := -2; y <= 2; y++ {
			w.GenerateChunk(x, y)
		}
	}

	for _, f := range w.Fragments {
		assert.GreaterOrEqual(t, Dist(f.Pos, Vec2{}), w.Cfg.SafeZoneRadius)
	}
	for _, s := range w.Structures {
		assert.GreaterOrEqual(t, Dist(Vec2{s.X, s.Y}, Vec2{}), w.Cfg.SafeZoneRadius)
	}
}

func TestSpawnInChunkRejectsWallOverlap(t *testing.T) {
	w := bareWorld(t)
	// one wall covering the whole chunk leaves no free point
	w.Structures = append(w.Structures, Rect{X: 10000, Y: 10000, W: 2000, H: 2000})

	assert.False(t, w.spawnInChunk(Vec2{10000, 10000}, spawnFragment))
	assert.Empty(t, w.Fragments)
}

func TestSpawnEnemyInChunkKeepsDistanceFromPlayer(t *testing.T) {
	w := bareWorld(t)
	w.Cfg.ChunkSize = 100

	for range 20 {
		assert.False(t, w.spawnEnemyInChunk(Vec2{}))
	}
	assert.Empty(t, w.Enemies)
}

func TestEnemyStatsScaleWithKills(t *testing.T) {
	w := bareWorld(t)
	w.Kills = 10
	w.addEnemy(Vec2{1, 2})
	w.Kills = 11
	w.addEnemy(Vec2{3, 4})

	require.Len(t, w.Enemies, 2)
	e := w.Enemies[0]
	assert.InDelta(t, 1.5, e.Speed, 1e-9)
	assert.Equal(t, 8, e.HP)
	assert.InDelta(t, 650, e.SightRange, 1e-9)
	assert.Equal(t, e.Pos, e.Target)

	assert.Equal(t, 8, w.Enemies[1].HP, "hp uses floor(kills/2)")
	assert.NotEqual(t, w.Enemies[0].ID, w.Enemies[1].ID)
}

func TestSpawnEnemyRingSize(t *testing.T) {
	tests := []struct {
		kills int
		want  int
	}{
		{0, 1},
		{5, 1},
		{6, 3},
		{11, 3},
		{12, 4},
		{19, 4},
		{20, 5},
		{40, 5},
	}
	for _, tt := range tests {
		w := bareWorld(t)
		w.Kills = tt.kills

		assert.Equal(t, tt.want, w.SpawnEnemyRing(), "kills=%d", tt.kills)
		assert.Len(t, w.Enemies, tt.want, "kills=%d", tt.kills)
	}
}

func TestSpawnEnemyRingDistance(t *testing.T) {
	w := bareWorld(t)
	w.Kills = 20
	w.Player.Pos = Vec2{500, -300}
	w.SpawnEnemyRing()

	for _, e := range w.Enemies {
		d := Dist(e.Pos, w.Player.Pos)
		assert.GreaterOrEqual(t, d, w.Cfg.RingMinDist-1e-9)
		assert.Less(t, d, w.Cfg.RingMinDist+w.Cfg.RingDistRange+1e-9)
	}
}

func TestSpawnSafeHaven(t *testing.T) {
	probe := bareWorld(t)
	probe.SpawnSafeHaven()
	require.NotNil(t, probe.Haven)
	at := probe.Haven.Pos

	// same seed and same draws: the haven lands at the same spot
	w := bareWorld(t)
	near := Rect{X: at.X + 50, Y: at.Y - 50, W: 20, H: 20}
	far := Rect{X: at.X + 900, Y: at.Y, W: 20, H: 20}
	w.Structures = append(w.Structures, near, far)
	w.SpawnSafeHaven()

	h := w.Haven
	require.NotNil(t, h)
	assert.Equal(t, at, h.Pos)
	assert.True(t, h.Active)
	assert.InDelta(t, 80, h.R, 1e-9)
	assert.Equal(t, math.Floor(h.Pos.X), h.Pos.X)
	assert.Equal(t, math.Floor(h.Pos.Y), h.Pos.Y)

	dx, dy := math.Abs(h.Pos.X-w.Player.Pos.X), math.Abs(h.Pos.Y-w.Player.Pos.Y)
	assert.GreaterOrEqual(t, dx, 1499.0)
	assert.LessOrEqual(t, dx, 2000.0)
	assert.GreaterOrEqual(t, dy, 1499.0)
	assert.LessOrEqual(t, dy, 2000.0)

	assert.Equal(t, []Rect{far}, w.Structures)
	assert.Len(t, w.Enemies, w.Cfg.AmbushRings, "five single-enemy rings at zero kills")
}

func TestCombatEventRetrofitsVisitedChunks(t *testing.T) {
	w := NewWorld(5)
	require.Empty(t, w.Structures)

	w.Player.CombatUnlocked = true
	w.combatEvent()

	assert.NotEmpty(t, w.Structures)
	assert.LessOrEqual(t, len(w.Structures), w.VisitedCount()*w.Cfg.WallsPerChunk)
	assert.Len(t, w.Enemies, w.Cfg.CombatEventRings)
	assert.Contains(t, lastLine(w.SysLog).Text, "COMBAT MODE")
}

func TestChunkOf(t *testing.T) {
	assert.Equal(t, ChunkKey{0, 0}, ChunkOf(Vec2{10, 1999}, 2000))
	assert.Equal(t, ChunkKey{-1, 0}, ChunkOf(Vec2{-0.5, 0}, 2000))
	assert.Equal(t, ChunkKey{2, -3}, ChunkOf(Vec2{4000, -4001}, 2000))
	assert.Equal(t, "2,-3", ChunkKey{2, -3}.String())
}
