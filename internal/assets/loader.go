package assets

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/webp"
)

type Request struct {
	Key  string
	Path string
}

type Result struct {
	Key   string
	Image image.Image
	Err   error
}

// Loader decodes images off the game thread. Paths are resolved against Root
// unless they are absolute.
type Loader struct {
	Root string

	Req  chan Request
	Res  chan Result
	quit chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewLoader(root string) *Loader {
	l := &Loader{
		Root: root,
		Req:  make(chan Request, 16),
		Res:  make(chan Result, 16),
		quit: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.loop()

	return l
}

func (l *Loader) Close() {
	l.closeOnce.Do(func() {
		close(l.quit)
		l.wg.Wait()
	})
}

func (l *Loader) loop() {
	defer l.wg.Done()
	for {
		select {
		case <-l.quit:
			return
		case req := <-l.Req:
			img, err := loadImage(l.resolve(req.Path))
			// never block shutdown on a full result queue
			select {
			case <-l.quit:
				return
			case l.Res <- Result{Key: req.Key, Image: img, Err: err}:
			}
		}
	}
}

func (l *Loader) resolve(path string) string {
	if l.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.Root, path)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
