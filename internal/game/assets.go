package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"nullsector/internal/assets"
	"nullsector/internal/commons/logger_config"
)

// Sprite keys. Every sprite is optional: the renderer falls back to shapes.
const (
	spritePlayer = "player"
	spriteHaven  = "haven"
)

type spriteState int

const (
	spriteQueued spriteState = iota + 1
	spriteReady
	spriteMissing
)

type sprite struct {
	state spriteState
	img   *ebiten.Image
}

// AssetManager owns the game-thread side of the loader: it tracks which
// sprites were asked for and turns decoded images into ebiten images.
type AssetManager struct {
	loader  *assets.Loader
	sprites map[string]*sprite
}

func NewAssetManager(loader *assets.Loader) *AssetManager {
	return &AssetManager{loader: loader, sprites: map[string]*sprite{}}
}

// Request queues path under key. Each key is asked for at most once; a full
// queue leaves it unrequested.
func (am *AssetManager) Request(key, path string) {
	if _, seen := am.sprites[key]; seen {
		return
	}
	select {
	case am.loader.Req <- assets.Request{Key: key, Path: path}:
		am.sprites[key] = &sprite{state: spriteQueued}
	default:
		logger_config.Warnf("[assets] queue full, %s not requested", key)
	}
}

func (am *AssetManager) Poll() {
	for {
		select {
		case r := <-am.loader.Res:
			sp := am.sprites[r.Key]
			if sp == nil {
				sp = &sprite{}
				am.sprites[r.Key] = sp
			}
			if r.Err != nil {
				sp.state = spriteMissing
				logger_config.Debugf("[assets] %s missing, drawing shapes: %v", r.Key, r.Err)
				continue
			}
			sp.state = spriteReady
			sp.img = ebiten.NewImageFromImage(r.Image)
		default:
			return
		}
	}
}

// Get returns nil until the sprite for key is ready.
func (am *AssetManager) Get(key string) *ebiten.Image {
	if sp := am.sprites[key]; sp != nil && sp.state == spriteReady {
		return sp.img
	}
	return nil
}
