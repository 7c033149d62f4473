package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"nullsector/internal/assets"
	"nullsector/internal/commons/env_config"
	"nullsector/internal/commons/logger_config"
	"nullsector/internal/jobs"
	"nullsector/internal/spectate"
	"nullsector/internal/telemetry"
	"nullsector/internal/world"
)

type Game struct {
	w        *world.World
	settings env_config.Settings

	// fixed tick
	accum     time.Duration
	last      time.Time
	fixedStep time.Duration

	// asset loader
	loader *assets.Loader
	assets *AssetManager

	// telemetry sink
	telemetry *telemetry.Sink

	// disk work (saves, highscores)
	io *jobs.Pool

	// optional spectator fan-out
	hub *spectate.Hub

	ground *backdrop

	// terminal line being typed
	typed []rune

	screenW, screenH int

	// cumulative stat baselines (for delta events)
	lastKills  int
	lastHealth int
	lastShield int
	recorded   string // session whose run has been recorded

	log *logrus.Entry
}

func New(s env_config.Settings) *Game {
	cfg := world.DefaultConfig()
	applySettings(&cfg, s)

	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		w:         world.NewWorldWithConfig(cfg, seed),
		settings:  s,
		last:      time.Now(),
		fixedStep: time.Second / 60,
		log:       logger_config.With("game"),
		ground:    newBackdrop(seed),
	}
	g.loader = assets.NewLoader(s.AssetDir)
	g.assets = NewAssetManager(g.loader)
	g.telemetry = telemetry.NewSink(time.Duration(s.TelemetryEvery) * time.Second)
	g.io = jobs.NewPool(1, 8)
	g.resetBaselines()

	// schedule loads early
	g.assets.Request(spritePlayer, "player.webp")
	g.assets.Request(spriteHaven, "haven.png")

	g.log.WithField("seed", seed).Info("new run")
	return g
}

// applySettings overlays the non-zero environment overrides on cfg.
func applySettings(cfg *world.Config, s env_config.Settings) {
	if s.ChunkSize > 0 {
		cfg.ChunkSize = s.ChunkSize
	}
	if s.RenderDistance > 0 {
		cfg.RenderDistance = s.RenderDistance
	}
}

// AttachHub makes the game broadcast snapshots to spectators.
func (g *Game) AttachHub(h *spectate.Hub) { g.hub = h }

func (g *Game) Update() error {
	now := time.Now()
	g.assets.Poll()
	g.pollJobs()

	frameDt := now.Sub(g.last)
	g.last = now

	// avoid spiral of death on long pauses
	if frameDt > 250*time.Millisecond {
		frameDt = 250 * time.Millisecond
	}
	g.telemetry.Send(telemetry.Event{
		Kind: telemetry.KindFrame,
		F:    float32(frameDt.Seconds()),
		At:   now,
	})

	g.accum += frameDt

	// edge-triggered controls are read once per frame, not once per step
	for _, m := range g.readControls() {
		g.w.Enqueue(m)
	}
	in := ReadInput()

	// fixed-step simulation
	for g.accum >= g.fixedStep {
		g.w.Enqueue(world.MsgInput{Input: in})
		g.w.Tick()
		g.afterTick(now)
		g.accum -= g.fixedStep
	}

	return nil
}

func (g *Game) afterTick(at time.Time) {
	for _, c := range g.w.DrainCues() {
		g.telemetry.Send(telemetry.Event{Kind: string(c), At: at})
	}
	g.emitWorldDeltas(at)

	every := uint64(max(1, g.settings.BroadcastEvery))
	if g.hub != nil && g.w.Now()%every == 0 {
		if err := g.hub.Broadcast(g.w.BuildSnapshot()); err != nil {
			g.log.WithError(err).Warn("broadcast failed")
		}
	}

	if (g.w.Player.Dead || g.w.Evacuated) && g.recorded != g.w.SessionID {
		g.recorded = g.w.SessionID
		g.recordRun()
	}
}

func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	g.screenW, g.screenH = outsideW, outsideH
	return outsideW, outsideH
}

func (g *Game) Close() {
	if g.loader != nil {
		g.loader.Close()
		g.loader = nil
	}
	if g.telemetry != nil {
		g.telemetry.Close()
		g.telemetry = nil
	}
	if g.io != nil {
		g.io.Close()
		g.io = nil
	}
}

func (g *Game) resetBaselines() {
	g.lastKills = g.w.Kills
	g.lastHealth = g.w.Player.Health
	g.lastShield = g.w.Player.Shield
}

func (g *Game) emitWorldDeltas(at time.Time) {
	p := g.w.Player

	// a restart or a loaded save moves the counters backwards
	if g.w.Kills < g.lastKills {
		g.lastKills = g.w.Kills
	} else if d := g.w.Kills - g.lastKills; d > 0 {
		g.telemetry.Send(telemetry.Event{Kind: telemetry.KindKill, I: d, At: at})
		g.lastKills = g.w.Kills
	}

	lost := max(0, g.lastHealth-p.Health) + max(0, g.lastShield-p.Shield)
	if lost > 0 {
		g.telemetry.Send(telemetry.Event{Kind: telemetry.KindDamage, I: lost, At: at})
	}
	g.lastHealth = p.Health
	g.lastShield = p.Shield
}

var _ ebiten.Game = (*Game)(nil)
