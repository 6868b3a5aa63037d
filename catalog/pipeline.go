package catalog

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/tga"
)

// Options control a Scan.
type Options struct {
	// Workers is the number of images decoded concurrently.
	Workers int
	// ThumbnailWidth and ThumbnailHeight bound the size of each
	// thumbnail, the aspect ratio is preserved.
	ThumbnailWidth  int
	ThumbnailHeight int
}

// DefaultOptions are used for any zero field in the Options passed to Scan.
var DefaultOptions = Options{
	Workers:         10,
	ThumbnailWidth:  64,
	ThumbnailHeight: 64,
}

type record struct {
	entry     Entry
	thumbnail []byte
}

// fit returns the largest size no bigger than maxWidth by maxHeight with
// the same aspect ratio as width by height
func fit(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}
	w, h := maxWidth, height*maxWidth/width
	if h > maxHeight {
		w, h = width*maxHeight/height, maxHeight
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func (c *Catalog) process(file string, o Options) (*record, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(bufio.NewReader(f), h)

	m, err := tga.Decode(r)
	if err != nil {
		return nil, err
	}

	// Hash the footer and anything else after the pixel data
	if _, err := io.Copy(ioutil.Discard, r); err != nil {
		return nil, err
	}

	img := m.(*tga.Image)
	hdr := img.Header()

	entry := Entry{
		Path:   file,
		SHA1:   fmt.Sprintf("%X", h.Sum(nil)),
		Width:  img.Width(),
		Height: img.Height(),
		Format: img.Format(),
		RLE:    hdr.IsRLE(),
	}

	if err := img.Scale(fit(img.Width(), img.Height(), o.ThumbnailWidth, o.ThumbnailHeight)); err != nil {
		return nil, err
	}

	b := new(bytes.Buffer)
	if err := tga.Encode(b, img, &tga.Options{RLE: true}); err != nil {
		return nil, err
	}

	return &record{entry, b.Bytes()}, nil
}

func (c *Catalog) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(file), ".tga") {
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

func (c *Catalog) fileWorker(ctx context.Context, in <-chan string, out chan<- *record, o Options, wg *sync.WaitGroup) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer wg.Done()
		defer close(errc)
		for file := range in {
			r, err := c.process(file, o)
			if err != nil {
				// A bad image shouldn't stop the scan
				c.logger.Warn("skipping image", "path", file, "error", err)
				continue
			}

			select {
			case out <- r:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return errc, nil
}

func (c *Catalog) storeWorker(in <-chan *record) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for r := range in {
			if err := c.add(&r.entry, r.thumbnail); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
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

// Scan walks path and indexes every file with a .tga extension. Files that
// cannot be decoded are logged and skipped.
func (c *Catalog) Scan(ctx context.Context, path string, o Options) error {
	if o.Workers <= 0 {
		o.Workers = DefaultOptions.Workers
	}
	if o.ThumbnailWidth <= 0 {
		o.ThumbnailWidth = DefaultOptions.ThumbnailWidth
	}
	if o.ThumbnailHeight <= 0 {
		o.ThumbnailHeight = DefaultOptions.ThumbnailHeight
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	records := make(chan *record)

	var wg sync.WaitGroup
	wg.Add(o.Workers)
	for i := 0; i < o.Workers; i++ {
		errc, err := c.fileWorker(ctx, files, records, o, &wg)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	// Close records once every worker has finished so the store loop ends
	go func() {
		wg.Wait()
		close(records)
	}()

	errc, err = c.storeWorker(records)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	c.logger.Info("scanning", "path", dir, "workers", o.Workers)

	return waitForPipeline(errcList...)
}
