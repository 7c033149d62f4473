package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// ground tiles are purely cosmetic; the world never sees them
const (
	groundTile  = 160.0
	groundScale = 0.004
)

type backdrop struct {
	noise opensimplex.Noise
}

func newBackdrop(seed int64) *backdrop {
	return &backdrop{noise: opensimplex.New(seed)}
}

// shade maps a world position to a tile brightness in [0, 1].
func (b *backdrop) shade(x, y float64) float64 {
	return (b.noise.Eval2(x*groundScale, y*groundScale) + 1) / 2
}

// draw fills the visible area with faint tiles. camX/camY is the
// world-to-screen offset.
func (b *backdrop) draw(screen *ebiten.Image, camX, camY float32, sw, sh int) {
	x0 := math.Floor(float64(-camX)/groundTile) * groundTile
	y0 := math.Floor(float64(-camY)/groundTile) * groundTile
	x1 := float64(-camX) + float64(sw)
	y1 := float64(-camY) + float64(sh)

	for y := y0; y < y1; y += groundTile {
		for x := x0; x < x1; x += groundTile {
			v := b.shade(x, y)
			if v < 0.55 {
				continue
			}
			c := uint8(8 + (v-0.55)*30)
			vector.FillRect(screen, camX+float32(x), camY+float32(y),
				groundTile-2, groundTile-2, color.RGBA{c, c, c + 4, 255}, false)
		}
	}
}
