package gravityrun

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/gravityrun/tile"
)

// DefaultWorkers is the number of images imported concurrently.
const DefaultWorkers = 4

func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png", ".gif", ".jpg", ".jpeg":
		return true
	}
	return false
}

func (g *GravityRun) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.WalkDir(base, func(file string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if file != base && d.Name()[0] == '.' {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() || !isImage(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (g *GravityRun) imageWorker(ctx context.Context, in <-chan string, e *tile.Encoder) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			if err := g.db.ImportImage(name, file, e); err != nil {
				errc <- &ImportError{File: file, Err: err}
				return
			}
			g.logger.Printf("Imported \"%s\" as \"%s\"\n", file, name)
		}
	}()
	return errc, nil
}

// ImportError records a failure to import a file.
type ImportError struct {
	File string
	Err  error
}

func (e *ImportError) Error() string {
	return e.File + ": " + e.Err.Error()
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Import walks path and imports every image found into the block
// database, each named after its file without the extension. Images are
// encoded with e, or the default encoder if e is nil, by the given number
// of workers.
func (g *GravityRun) Import(path string, workers int, e *tile.Encoder) error {
	if g.db == nil {
		return errNoDB
	}
	if workers < 1 {
		workers = DefaultWorkers
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := g.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := g.imageWorker(ctx, files, e)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
