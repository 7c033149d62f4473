package game

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"nullsector/internal/shared/input"
	"nullsector/internal/world"
)

const maxTypedLen = 64

var hotbarKeys = [...]ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}

func ReadInput() input.State {
	return input.State{
		Up:    ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:  ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:  ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right: ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	}
}

// readControls turns this frame's key and mouse edges into world messages.
// While the terminal is open the keyboard types into it instead.
func (g *Game) readControls() []world.Msg {
	var out []world.Msg

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.typed = g.typed[:0]
		return append(out, world.MsgToggleTerminal{})
	}

	if g.w.TerminalOpen {
		return g.readTerminal(out)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		out = append(out, world.MsgTogglePause{})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && (g.w.Player.Dead || g.w.Won) {
		out = append(out, world.MsgRestart{})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		out = append(out, world.MsgToggleObjectives{})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		out = append(out, world.MsgToggleMode{})
	}
	for i, k := range hotbarKeys {
		if inpututil.IsKeyJustPressed(k) {
			out = append(out, world.MsgHotbar{Slot: i + 1})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.requestSave()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		g.requestLoad()
	}

	// held fire; the world's cooldown paces the shots
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		out = append(out, world.MsgFire{Angle: aimAngle(mx, my, g.screenW, g.screenH)})
	}
	return out
}

func (g *Game) readTerminal(out []world.Msg) []world.Msg {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.typed = g.typed[:0]
		return append(out, world.MsgToggleTerminal{})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		line := string(g.typed)
		g.typed = g.typed[:0]
		return append(out, world.MsgExecute{Line: line})
	}

	backspace := repeating(ebiten.KeyBackspace)
	g.typed = editLine(g.typed, ebiten.AppendInputChars(nil), backspace)
	return out
}

// repeating reports a key press plus auto-repeat while held.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d > 30 && d%4 == 0)
}

// editLine applies typed characters and a backspace to buf.
func editLine(buf, typed []rune, backspace bool) []rune {
	if backspace && len(buf) > 0 {
		buf = buf[:len(buf)-1]
	}
	for _, r := range typed {
		if r < 0x20 || r == 0x7f || len(buf) >= maxTypedLen {
			continue
		}
		buf = append(buf, r)
	}
	return buf
}

// aimAngle is the heading from the screen centre (where the camera keeps the
// player) to the cursor.
func aimAngle(mx, my, sw, sh int) float64 {
	return math.Atan2(float64(my)-float64(sh)/2, float64(mx)-float64(sw)/2)
}
