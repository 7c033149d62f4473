package world

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"nullsector/internal/shared/input"
	"nullsector/internal/timeline"
)

type Mode string

const (
	ModeRoam   Mode = "roam"
	ModeCombat Mode = "combat"
)

type Owner string

const (
	OwnerPlayer Owner = "player"
	OwnerEnemy  Owner = "enemy"
)

type Fragment struct {
	Pos    Vec2    `json:"pos" msgpack:"pos"`
	Size   float64 `json:"size" msgpack:"size"`
	Active bool    `json:"active" msgpack:"active"`
}

type Projectile struct {
	Pos   Vec2    `json:"pos" msgpack:"pos"`
	Vel   Vec2    `json:"vel" msgpack:"vel"`
	Owner Owner   `json:"owner" msgpack:"owner"`
	Life  float64 `json:"life" msgpack:"life"`
}

type SafeHaven struct {
	Pos    Vec2    `json:"pos" msgpack:"pos"`
	R      float64 `json:"r" msgpack:"r"`
	Active bool    `json:"active" msgpack:"active"`
}

// Contains reports whether p is strictly inside an active haven.
func (h *SafeHaven) Contains(p Vec2) bool {
	return h != nil && h.Active && Dist(p, h.Pos) < h.R
}

type UpgradeStats struct {
	SpeedLevel    int `json:"speedLevel" msgpack:"speedLevel"`
	FireRateLevel int `json:"fireRateLevel" msgpack:"fireRateLevel"`
}

type Player struct {
	Pos  Vec2    `json:"pos" msgpack:"pos"`
	Vel  Vec2    `json:"vel" msgpack:"vel"`
	Size float64 `json:"size" msgpack:"size"`

	Health int `json:"health" msgpack:"health"` // 0..PlayerMaxHealth
	Shield int `json:"shield" msgpack:"shield"` // 0..PlayerMaxShield
	Data   int `json:"data" msgpack:"data"`

	LightLevel float64 `json:"lightLevel" msgpack:"lightLevel"`
	Mode       Mode    `json:"mode" msgpack:"mode"`

	Cloaked    bool `json:"cloaked" msgpack:"cloaked"`
	CloakTimer int  `json:"cloakTimer" msgpack:"cloakTimer"`
	ScanActive bool `json:"scanActive" msgpack:"scanActive"`
	ScanTimer  int  `json:"scanTimer" msgpack:"scanTimer"`

	Stats          UpgradeStats `json:"stats" msgpack:"stats"`
	CombatUnlocked bool         `json:"combatUnlocked" msgpack:"combatUnlocked"`
	Dead           bool         `json:"dead" msgpack:"dead"`

	FireCooldown float64 `json:"-" msgpack:"-"`
}

type Enemy struct {
	ID int `json:"id" msgpack:"id"`

	Pos    Vec2    `json:"pos" msgpack:"pos"`
	Target Vec2    `json:"target" msgpack:"target"`
	Angle  float64 `json:"angle" msgpack:"angle"`
	Speed  float64 `json:"speed" msgpack:"speed"`

	// combat
	HP       int     `json:"hp" msgpack:"hp"`
	Cooldown float64 `json:"cooldown" msgpack:"cooldown"`

	SightRange  float64 `json:"sightRange" msgpack:"sightRange"`
	WanderTimer float64 `json:"wanderTimer" msgpack:"wanderTimer"`
}

// Hotbar holds command names bound to keys 1..5 (index = key-1).
type Hotbar [5]string

type World struct {
	inbox []Msg

	Cfg         Config
	Player      Player
	Enemies     []Enemy
	Structures  []Rect
	Fragments   []Fragment
	Projectiles []Projectile
	Haven       *SafeHaven

	// progression
	Kills         int
	SurvivalTimer int
	SafeTimer     int
	Objectives    Objectives
	Hotbar        Hotbar

	// run state
	Frame              uint64
	Won                bool
	Evacuated          bool
	Paused             bool
	TerminalOpen       bool
	ObjectivesExpanded bool
	SessionID          string

	// text surfaces
	Terminal []Line
	SysLog   []Line

	input input.State
	visited map[ChunkKey]struct{}
	clock timeline.Timeline
	loads int // bumped by ApplySave; scheduled events from before a load are dropped
	cues  []Cue

	nextEnemyID int

	rng      *rand.Rand
	rngSeed  int64
	rngCalls uint64

	log *logrus.Entry
}
