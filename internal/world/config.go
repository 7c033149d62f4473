package world

// SpawnTier is one row of the ambient escalation table.
type SpawnTier struct {
	MinKills int
	Chance   float64
	Cap      float64
}

// RingTier is one row of the ring-size table.
type RingTier struct {
	MinKills int
	Count    int
}

type Config struct {
	// World / generation
	ChunkSize         float64
	RenderDistance    int
	SafeZoneRadius    float64
	WallPadding       float64
	WallMinSize       float64
	WallSizeRange     float64
	FragmentSize      float64
	FragmentsPerChunk int
	WallsPerChunk     int
	SpawnAttempts     int
	FragmentFloor     int // replenish when fewer active fragments remain

	// Player
	PlayerSize      float64
	PlayerMaxHealth int
	PlayerMaxShield int
	PlayerAccel     float64
	PlayerFriction  float64
	PlayerMaxSpeed  float64
	SpeedDamping    float64
	CombatSpeedMul  float64
	WallBounce      float64
	PickupRadius    float64
	FragmentValue   int
	BaseLightRadius float64
	MaxLightLevel   float64
	LightStep       float64

	// Upgrades
	SpeedStepMax   float64
	SpeedStepAccel float64

	// Player weapon
	BulletSpeed      float64
	BulletCost       int
	BulletLife       float64
	BaseFireCooldown float64
	FireCooldownStep float64
	MinFireCooldown  float64

	// Enemy
	EnemyBaseSpeed      float64
	EnemySpeedPerKill   float64
	EnemyBaseHP         int
	EnemyBaseSight      float64
	EnemySightPerKill   float64
	EnemyPlayerBuffer   float64 // chunk spawns never land this close to the player
	EnemyBulletSpeed    float64
	EnemyBulletLife     float64
	EnemyHitRadius      float64
	EnemyKillReward     int
	SeparationRadius    float64
	SeparationWeight    float64
	SeparationBias      float64
	WanderDistance      float64 // wander chase gives up beyond this
	WanderSpan          float64
	WanderTimerMin      float64
	WanderTimerRange    float64
	StuckSpan           float64
	StuckTimer          float64
	ArriveRadius        float64
	OmniscientKills     int
	FireCooldownBase    float64
	FireCooldownPerKill float64
	FireCooldownMin     float64
	RayCullDistance     float64

	// Damage
	HitDamage    int
	ShieldAbsorb int
	HitPadding   float64

	// Escalation
	BaseSpawnChance float64
	BaseCapOffset   float64
	BaseCapDivisor  float64
	SpawnTiers      []SpawnTier // highest MinKills first
	RingTiers       []RingTier  // highest MinKills first
	RingAttempts    int
	RingMinDist     float64
	RingDistRange   float64

	// Survival / safe haven
	SurvivalNear      float64
	SurvivalTooClose  float64
	SurvivalThreshold int
	SafeThreshold     int
	HavenMinOffset    float64
	HavenOffsetRange  float64
	HavenRadius       float64
	HavenClearRadius  float64
	AmbushRings       int

	// Command effects
	ScanTicks     int
	CloakTicks    int
	HealAmount    int
	ShieldCharge  int
	LightReqLevel float64

	// Scripted delays (ticks)
	PhaseAdvanceDelay int
	CombatEventDelay  int
	CombatEventRings  int
	EvacuateDelay     int

	// UI buffers
	SystemLogSize   int
	TerminalLogSize int
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:         2000,
		RenderDistance:    1,
		SafeZoneRadius:    300,
		WallPadding:       10,
		WallMinSize:       40,
		WallSizeRange:     100,
		FragmentSize:      8,
		FragmentsPerChunk: 5,
		WallsPerChunk:     8,
		SpawnAttempts:     10,
		FragmentFloor:     20,

		PlayerSize:      10,
		PlayerMaxHealth: 100,
		PlayerMaxShield: 50,
		PlayerAccel:     0.15,
		PlayerFriction:  0.96,
		PlayerMaxSpeed:  4.0,
		SpeedDamping:    0.9,
		CombatSpeedMul:  0.7,
		WallBounce:      -0.5,
		PickupRadius:    20,
		FragmentValue:   10,
		BaseLightRadius: 300,
		MaxLightLevel:   2.0,
		LightStep:       0.2,

		SpeedStepMax:   1.0,
		SpeedStepAccel: 0.05,

		BulletSpeed:      8,
		BulletCost:       2,
		BulletLife:       100,
		BaseFireCooldown: 12,
		FireCooldownStep: 3,
		MinFireCooldown:  3,

		EnemyBaseSpeed:      1.0,
		EnemySpeedPerKill:   0.05,
		EnemyBaseHP:         3,
		EnemyBaseSight:      450,
		EnemySightPerKill:   20,
		EnemyPlayerBuffer:   500,
		EnemyBulletSpeed:    6,
		EnemyBulletLife:     100,
		EnemyHitRadius:      15,
		EnemyKillReward:     50,
		SeparationRadius:    60,
		SeparationWeight:    1.5,
		SeparationBias:      0.1,
		WanderDistance:      700,
		WanderSpan:          400,
		WanderTimerMin:      100,
		WanderTimerRange:    100,
		StuckSpan:           300,
		StuckTimer:          50,
		ArriveRadius:        10,
		OmniscientKills:     15,
		FireCooldownBase:    60,
		FireCooldownPerKill: 2,
		FireCooldownMin:     20,
		RayCullDistance:     1000,

		HitDamage:    10,
		ShieldAbsorb: 10,
		HitPadding:   5,

		BaseSpawnChance: 0.01,
		BaseCapOffset:   5,
		BaseCapDivisor:  3,
		SpawnTiers: []SpawnTier{
			{MinKills: 20, Chance: 0.08, Cap: 30},
			{MinKills: 15, Chance: 0.03, Cap: 15},
		},
		RingTiers: []RingTier{
			{MinKills: 20, Count: 5},
			{MinKills: 12, Count: 4},
			{MinKills: 6, Count: 3},
		},
		RingAttempts:  50,
		RingMinDist:   600,
		RingDistRange: 600,

		SurvivalNear:      600,
		SurvivalTooClose:  250,
		SurvivalThreshold: 600,
		SafeThreshold:     180,
		HavenMinOffset:    1500,
		HavenOffsetRange:  500,
		HavenRadius:       80,
		HavenClearRadius:  200,
		AmbushRings:       5,

		ScanTicks:     600,
		CloakTicks:    300,
		HealAmount:    50,
		ShieldCharge:  50,
		LightReqLevel: 1.3,

		PhaseAdvanceDelay: 90,
		CombatEventDelay:  60,
		CombatEventRings:  4,
		EvacuateDelay:     180,

		SystemLogSize:   6,
		TerminalLogSize: 200,
	}
}

// SpawnRule returns the ambient spawn chance and enemy cap for a kill count.
func (c Config) SpawnRule(kills int) (chance, cap float64) {
	for _, t := range c.SpawnTiers {
		if kills >= t.MinKills {
			return t.Chance, t.Cap
		}
	}
	return c.BaseSpawnChance, c.BaseCapOffset + float64(kills)/c.BaseCapDivisor
}

// RingSize returns how many independent ring placements a ring spawn makes.
func (c Config) RingSize(kills int) int {
	for _, t := range c.RingTiers {
		if kills >= t.MinKills {
			return t.Count
		}
	}
	return 1
}

// EnemyFireCooldown shortens as the kill count rises.
func (c Config) EnemyFireCooldown(kills int) float64 {
	return maxf(c.FireCooldownMin, c.FireCooldownBase-float64(kills)*c.FireCooldownPerKill)
}
