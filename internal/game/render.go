package game

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"nullsector/internal/world"
)

const (
	lineHeight    = 16
	terminalLines = 14
)

var (
	colBackground = color.RGBA{8, 8, 12, 255}
	colLight      = color.RGBA{22, 24, 32, 255}
	colWall       = color.RGBA{70, 72, 86, 255}
	colFragment   = color.RGBA{80, 220, 240, 255}
	colPlayer     = color.RGBA{230, 230, 240, 255}
	colCloaked    = color.RGBA{230, 230, 240, 90}
	colShield     = color.RGBA{90, 150, 255, 255}
	colHaven      = color.RGBA{80, 240, 140, 255}
	colHavenFill  = color.RGBA{80, 240, 140, 40}
	colShotPlayer = color.RGBA{255, 230, 90, 255}
	colShotEnemy  = color.RGBA{255, 70, 70, 255}
	colOverlay    = color.RGBA{0, 0, 0, 180}
	colTerminal   = color.RGBA{0, 8, 4, 220}
)

var enemyColors = map[string]color.RGBA{
	"chase":      {230, 60, 60, 255},
	"omniscient": {220, 60, 220, 255},
	"wander":     {230, 140, 50, 255},
	"hold":       {120, 80, 80, 255},
}

func (g *Game) Draw(screen *ebiten.Image) {
	s := g.w.BuildSnapshot()
	screen.Fill(colBackground)

	// camera centered on player
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	camX := float32(float64(sw)/2 - s.Player.Pos.X)
	camY := float32(float64(sh)/2 - s.Player.Pos.Y)
	at := func(p world.Vec2) (float32, float32) {
		return camX + float32(p.X), camY + float32(p.Y)
	}

	g.ground.draw(screen, camX, camY, sw, sh)

	// light radius
	px, py := at(s.Player.Pos)
	vector.FillCircle(screen, px, py, float32(s.LightRadius), colLight, true)

	if s.Haven != nil && s.Haven.Active {
		hx, hy := at(s.Haven.Pos)
		if img := g.assets.Get(spriteHaven); img != nil {
			drawSprite(screen, img, hx, hy, float32(s.Haven.R*2))
		} else {
			vector.FillCircle(screen, hx, hy, float32(s.Haven.R), colHavenFill, true)
			vector.StrokeCircle(screen, hx, hy, float32(s.Haven.R), 2, colHaven, true)
		}
	}

	for _, r := range s.Structures {
		x, y := at(world.Vec2{X: r.X, Y: r.Y})
		vector.FillRect(screen, x, y, float32(r.W), float32(r.H), colWall, false)
	}

	// fragments show inside the light, or everywhere while a scan runs
	for _, f := range s.Fragments {
		if !f.Active {
			continue
		}
		if !s.Player.ScanActive && world.Dist(f.Pos, s.Player.Pos) > s.LightRadius {
			continue
		}
		x, y := at(f.Pos)
		vector.FillCircle(screen, x, y, float32(f.Size/2), colFragment, true)
	}

	for _, e := range s.Enemies {
		x, y := at(e.Pos)
		clr, ok := enemyColors[e.Mode]
		if !ok {
			clr = enemyColors["hold"]
		}
		vector.FillRect(screen, x-8, y-8, 16, 16, clr, false)
		vector.StrokeLine(screen, x, y,
			x+float32(math.Cos(e.Angle)*14), y+float32(math.Sin(e.Angle)*14),
			2, clr, true)
	}

	for _, p := range s.Projectiles {
		x, y := at(p.Pos)
		clr := colShotPlayer
		if p.Owner == world.OwnerEnemy {
			clr = colShotEnemy
		}
		vector.FillCircle(screen, x, y, 3, clr, true)
	}

	g.drawPlayer(screen, s, px, py)
	g.drawHUD(screen, s, sw, sh)

	if s.TerminalOpen {
		g.drawTerminal(screen, s, sw, sh)
	}
	drawOverlay(screen, s, sw, sh)
}

func (g *Game) drawPlayer(screen *ebiten.Image, s world.Snapshot, px, py float32) {
	p := s.Player
	size := float32(p.Size)

	if img := g.assets.Get(spritePlayer); img != nil && !p.Cloaked {
		drawSprite(screen, img, px, py, size*2)
	} else {
		clr := colPlayer
		if p.Cloaked {
			clr = colCloaked
		}
		vector.FillCircle(screen, px, py, size, clr, true)
	}
	if p.Shield > 0 {
		vector.StrokeCircle(screen, px, py, size+6, 2, colShield, true)
	}
	if p.Mode == world.ModeCombat {
		vector.StrokeCircle(screen, px, py, size+3, 1, colShotPlayer, true)
	}
}

func drawSprite(screen, img *ebiten.Image, cx, cy, size float32) {
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	op.GeoM.Scale(float64(size)/float64(b.Dx()), float64(size)/float64(b.Dy()))
	op.GeoM.Translate(float64(cx), float64(cy))
	screen.DrawImage(img, op)
}

func (g *Game) drawHUD(screen *ebiten.Image, s world.Snapshot, sw, sh int) {
	p := s.Player
	hud := fmt.Sprintf(
		"HULL: %d  SHIELD: %d  DATA: %d MB\nMODE: %s  LIGHT: %.1f  KILLS: %d\n%s",
		p.Health, p.Shield, p.Data,
		strings.ToUpper(string(p.Mode)), p.LightLevel, s.Kills,
		s.Phase.Summary,
	)
	ebitenutil.DebugPrintAt(screen, hud, 8, 8)

	y := 8 + 3*lineHeight
	if s.ObjectivesExpanded {
		ebitenutil.DebugPrintAt(screen, "-- "+s.Phase.Name+" --", 8, y)
		y += lineHeight
		for _, t := range s.Phase.Tasks {
			mark := "[ ]"
			if t.Done {
				mark = "[x]"
			}
			ebitenutil.DebugPrintAt(screen, mark+" "+t.Text, 8, y)
			y += lineHeight
		}
	}
	if s.Haven != nil {
		pct := min(100, s.SafeTimer*100/max(1, g.w.Cfg.SafeThreshold))
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("EXTRACTION: %d%%", pct), 8, y)
	} else if s.SurvivalTimer > 0 {
		pct := min(100, s.SurvivalTimer*100/max(1, g.w.Cfg.SurvivalThreshold))
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SIGNAL TRACE: %d%%", pct), 8, y)
	}

	// system log, bottom left
	ly := sh - 40 - len(s.SysLog)*lineHeight
	for _, l := range s.SysLog {
		ebitenutil.DebugPrintAt(screen, l.Text, 8, ly)
		ly += lineHeight
	}

	// hotbar, bottom centre
	var hb strings.Builder
	for i, name := range s.Hotbar {
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(&hb, "[%d] %s  ", i+1, name)
	}
	text := strings.TrimSpace(hb.String())
	ebitenutil.DebugPrintAt(screen, text, sw/2-len(text)*3, sh-20)
}

func (g *Game) drawTerminal(screen *ebiten.Image, s world.Snapshot, sw, sh int) {
	top := sh / 3
	vector.FillRect(screen, 0, float32(top), float32(sw), float32(sh-top), colTerminal, false)

	lines := s.Terminal
	if len(lines) > terminalLines {
		lines = lines[len(lines)-terminalLines:]
	}
	y := top + 8
	for _, l := range lines {
		ebitenutil.DebugPrintAt(screen, l.Text, 12, y)
		y += lineHeight
	}
	ebitenutil.DebugPrintAt(screen, "> "+string(g.typed)+"_", 12, sh-24)
}

// drawOverlay covers the field for terminal run states (dead > won > paused).
func drawOverlay(screen *ebiten.Image, s world.Snapshot, sw, sh int) {
	var lines []string
	switch {
	case s.Player.Dead:
		lines = []string{"CRITICAL FAILURE: HULL BREACHED", fmt.Sprintf("Kills: %d", s.Kills), "Press R to reboot"}
	case s.Evacuated:
		lines = []string{"EVACUATED", fmt.Sprintf("Kills: %d", s.Kills), "Press R to start over"}
	case s.Won:
		lines = []string{">> SIGNAL LOCK. TRANSPORTING..."}
	case s.Paused:
		lines = []string{"PAUSED", "Press Esc to resume"}
	default:
		return
	}

	vector.FillRect(screen, 0, 0, float32(sw), float32(sh), colOverlay, false)
	y := sh/2 - len(lines)*lineHeight/2
	for _, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, sw/2-len(l)*3, y)
		y += lineHeight + 4
	}
}
