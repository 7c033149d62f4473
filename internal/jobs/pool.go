// Package jobs runs blocking work (disk writes, file reads) off the game
// thread. Results come back on a channel the game drains once per frame.
package jobs

import (
	"sync"
	"time"

	"nullsector/internal/commons/logger_config"
)

type Job struct {
	Label string
	Run   func() ([]byte, error)
}

type Result struct {
	Label string
	Data  []byte
	Err   error
	Took  time.Duration
}

type Pool struct {
	Req  chan Job
	Res  chan Result
	quit chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewPool(workerCount, queueSize int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	p := &Pool{
		Req:  make(chan Job, queueSize),
		Res:  make(chan Result, queueSize),
		quit: make(chan struct{}),
	}

	p.wg.Add(workerCount)
	for range workerCount {
		go p.worker()
	}

	return p
}

// Submit queues j without blocking. It reports false when the queue is full.
func (p *Pool) Submit(j Job) bool {
	select {
	case p.Req <- j:
		return true
	default:
		logger_config.Warnf("[jobs] queue full, dropped %s", j.Label)
		return false
	}
}

// Drain returns every result that is ready.
func (p *Pool) Drain() []Result {
	var out []Result
	for {
		select {
		case r := <-p.Res:
			out = append(out, r)
		default:
			return out
		}
	}
}

func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.quit:
			return

		case j := <-p.Req:
			res := run(j)

			// Never block worker shutdown on a full result queue.
			select {
			case <-p.quit:
				return
			case p.Res <- res:
			default:
				logger_config.Warnf("[jobs] result queue full, dropped %s", j.Label)
			}
		}
	}
}

func run(j Job) Result {
	start := time.Now()
	res := Result{Label: j.Label}
	if j.Run != nil {
		res.Data, res.Err = j.Run()
	}
	res.Took = time.Since(start)
	return res
}
