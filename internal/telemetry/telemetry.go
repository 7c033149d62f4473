package telemetry

import (
	"sync"
	"time"

	"nullsector/internal/commons/logger_config"
)

// Event kinds understood by the sink. Anything else is counted as a cue.
const (
	KindKill   = "kill"
	KindDamage = "damage"
	KindFrame  = "frame"
)

type Event struct {
	Kind string
	I    int
	F    float32
	At   time.Time
}

// Batch is what the sink accumulated over one flush interval.
type Batch struct {
	Kills  int
	Dmg    int
	Frames int
	AvgDt  float32
	Cues   map[string]int
}

func (b Batch) empty() bool {
	return b.Kills == 0 && b.Dmg == 0 && b.Frames == 0 && len(b.Cues) == 0
}

type Sink struct {
	In   chan Event
	quit chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewSink logs a batch every interval.
func NewSink(interval time.Duration) *Sink {
	return newSink(interval, logBatch)
}

func newSink(interval time.Duration, flush func(Batch)) *Sink {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	s := &Sink{
		In:   make(chan Event, 256),
		quit: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop(interval, flush)

	return s
}

// Send queues ev without blocking; it is dropped when the sink is backed up.
func (s *Sink) Send(ev Event) bool {
	if s == nil {
		return false
	}
	select {
	case s.In <- ev:
		return true
	default:
		return false
	}
}

func (s *Sink) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		s.wg.Wait()
	})
}

func (s *Sink) loop(interval time.Duration, flush func(Batch)) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var b Batch
	var dtSum float32

	for {
		select {
		case <-s.quit:
			return

		case ev := <-s.In:
			switch ev.Kind {
			case KindKill:
				b.Kills += ev.I
			case KindDamage:
				b.Dmg += ev.I
			case KindFrame:
				b.Frames++
				dtSum += ev.F
			default:
				if b.Cues == nil {
					b.Cues = map[string]int{}
				}
				b.Cues[ev.Kind]++
			}

		case <-ticker.C:
			if b.Frames > 0 {
				b.AvgDt = dtSum / float32(b.Frames)
			}
			if flush != nil {
				flush(b)
			}
			// reset batch
			b = Batch{}
			dtSum = 0
		}
	}
}

func logBatch(b Batch) {
	if b.empty() {
		return
	}
	logger_config.With("telemetry").WithField("cues", b.Cues).Infof(
		"kills=%d dmg=%d frames=%d avgDt=%.4fs",
		b.Kills, b.Dmg, b.Frames, b.AvgDt,
	)
}
