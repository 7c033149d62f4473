package env_config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"nullsector/internal/commons/logger_config"
)

// Settings are the runtime knobs read from the environment (and an optional .env).
// Zero numeric values mean "keep the world default".
type Settings struct {
	SavePath       string
	AssetDir       string
	SpectateAddr   string // empty disables the spectator server
	Seed           int64
	ChunkSize      float64
	RenderDistance int
	BroadcastEvery int
	TelemetryEvery int // seconds between telemetry batches
}

func Defaults() Settings {
	return Settings{
		SavePath:       "saves/null_sector.json",
		AssetDir:       "assets",
		BroadcastEvery: 3,
		TelemetryEvery: 2,
	}
}

// LoadDotEnv loads the given env files (".env" when none are given).
// A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger_config.Debugf("[env] %s not found, using process environment", f)
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
		logger_config.Infof("[env] loaded %s", f)
	}
	return nil
}

// Load reads NS_* variables on top of Defaults. Malformed values are logged and ignored.
func Load() Settings {
	s := Defaults()
	if v, ok := lookup("NS_SAVE_PATH"); ok {
		s.SavePath = v
	}
	if v, ok := lookup("NS_ASSET_DIR"); ok {
		s.AssetDir = v
	}
	if v, ok := lookup("NS_SPECTATE_ADDR"); ok {
		s.SpectateAddr = v
	}
	s.Seed = intVar("NS_SEED", s.Seed)
	s.ChunkSize = floatVar("NS_CHUNK_SIZE", s.ChunkSize)
	s.RenderDistance = int(intVar("NS_RENDER_DISTANCE", int64(s.RenderDistance)))
	s.BroadcastEvery = int(intVar("NS_BROADCAST_EVERY", int64(s.BroadcastEvery)))
	s.TelemetryEvery = int(intVar("NS_TELEMETRY_EVERY", int64(s.TelemetryEvery)))
	return s
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func intVar(key string, def int64) int64 {
	v, ok := lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logger_config.Warnf("[env] %s=%q is not an integer, keeping %d", key, v, def)
		return def
	}
	return n
}

func floatVar(key string, def float64) float64 {
	v, ok := lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger_config.Warnf("[env] %s=%q is not a number, keeping %g", key, v, def)
		return def
	}
	return f
}
