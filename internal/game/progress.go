package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"nullsector/internal/jobs"
	"nullsector/internal/world"
)

const (
	highscoreVersion = 1
	maxHighscores    = 20

	jobSave   = "save"
	jobLoad   = "load"
	jobRecord = "record"
)

type HighscoreEntry struct {
	At        time.Time `json:"at"`
	Session   string    `json:"session"`
	Kills     int       `json:"kills"`
	Phase     int       `json:"phase"`
	Frames    uint64    `json:"frames"`
	Evacuated bool      `json:"evacuated"`
	Score     int       `json:"score"`
}

type HighscoreFile struct {
	Version int              `json:"version"`
	Entries []HighscoreEntry `json:"entries"`
}

func (g *Game) highscorePath() string {
	return filepath.Join(filepath.Dir(g.settings.SavePath), "highscores.json")
}

// requestSave copies the save on the game thread and writes it in the pool.
func (g *Game) requestSave() {
	data := g.w.SaveData()
	path := g.settings.SavePath
	g.io.Submit(jobs.Job{Label: jobSave, Run: func() ([]byte, error) {
		blob, err := world.EncodeSave(data)
		if err != nil {
			return nil, err
		}
		return nil, world.WriteFileAtomic(path, blob)
	}})
}

func (g *Game) requestLoad() {
	path := g.settings.SavePath
	g.io.Submit(jobs.Job{Label: jobLoad, Run: func() ([]byte, error) {
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read save file: %w", err)
		}
		return blob, nil
	}})
}

func (g *Game) recordRun() {
	e := HighscoreEntry{
		At:        time.Now().UTC(),
		Session:   g.w.SessionID,
		Kills:     g.w.Kills,
		Phase:     g.w.Objectives.Cursor,
		Frames:    g.w.Frame,
		Evacuated: g.w.Evacuated,
	}
	e.Score = calcScore(e)
	path := g.highscorePath()

	g.io.Submit(jobs.Job{Label: jobRecord, Run: func() ([]byte, error) {
		hs, err := loadHighscores(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		hs.Entries = append(hs.Entries, e)
		sortHighscores(hs.Entries)
		if len(hs.Entries) > maxHighscores {
			hs.Entries = hs.Entries[:maxHighscores]
		}
		return nil, saveHighscores(path, hs)
	}})
}

// pollJobs applies finished disk work to the world. Runs on the game thread.
func (g *Game) pollJobs() {
	for _, r := range g.io.Drain() {
		log := g.log.WithField("job", r.Label).WithField("took", r.Took)
		if r.Err != nil {
			log.WithError(r.Err).Warn("job failed")
		}

		switch r.Label {
		case jobSave:
			if r.Err != nil {
				g.w.Notify(world.LineError, "ERR: SAVE FAILED")
				continue
			}
			g.w.NoteSaved()
		case jobLoad:
			if r.Err != nil {
				g.w.Notify(world.LineError, "ERR: NO SAVE FOUND")
				continue
			}
			g.w.ApplySave(g.w.Cfg.DecodeSave(r.Data))
			g.resetBaselines()
		case jobRecord:
			if r.Err == nil {
				log.Debug("run recorded")
			}
		}
	}
}

func saveJSONAtomic(path string, v any) error {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return world.WriteFileAtomic(path, blob)
}

func loadHighscores(path string) (HighscoreFile, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return HighscoreFile{Version: highscoreVersion}, err
	}
	var hs HighscoreFile
	if err := json.Unmarshal(blob, &hs); err != nil {
		return HighscoreFile{}, err
	}
	if hs.Version == 0 {
		hs.Version = highscoreVersion
	}
	return hs, nil
}

func saveHighscores(path string, hs HighscoreFile) error {
	hs.Version = highscoreVersion
	return saveJSONAtomic(path, hs)
}

func calcScore(e HighscoreEntry) int {
	score := e.Kills*100 + e.Phase*500 + int(e.Frames/60)
	if e.Evacuated {
		score += 2000
	}
	return score
}

func sortHighscores(entries []HighscoreEntry) {
	slices.SortFunc(entries, func(a, b HighscoreEntry) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		if a.Kills != b.Kills {
			if a.Kills > b.Kills {
				return -1
			}
			return 1
		}
		if a.Frames > b.Frames {
			return -1
		}
		if a.Frames < b.Frames {
			return 1
		}
		return 0
	})
}
