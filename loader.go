package gscene

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io/fs"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
	"golang.org/x/sync/semaphore"
)

// ErrNotFound is returned by fetchers for URLs that do not resolve to an asset.
var ErrNotFound = errors.New("gscene: asset not found")

// Fetcher loads and decodes the image at url. It is called from a background
// goroutine and must honor ctx cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// FetcherFunc adapts a function into a Fetcher.
type FetcherFunc func(ctx context.Context, url string) (image.Image, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) (image.Image, error) {
	return f(ctx, url)
}

// FSFetcher decodes images read from a file system. URLs are slash-separated
// paths relative to the root of FS; a leading slash is ignored.
type FSFetcher struct {
	FS fs.FS
}

// Fetch reads and decodes url from f.FS. PNG, JPEG, GIF, BMP, TIFF and WebP
// are supported.
func (f FSFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := path.Clean(strings.TrimPrefix(url, "/"))
	file, err := f.FS.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("fetch %s: %w", url, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}

// --- Image ---

// Image is a bitmap handle returned by the loader. Its content is populated
// asynchronously; until then it reports zero size and is skipped when drawn.
type Image struct {
	url  string
	img  image.Image
	err  error
	done bool
}

// URL returns the URL the image was fetched from.
func (i *Image) URL() string {
	return i.url
}

// Size returns the natural pixel size, or zero if not loaded.
func (i *Image) Size() (width, height int) {
	if i == nil || i.img == nil {
		return 0, 0
	}
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

// Loaded reports whether the fetch finished, successfully or not.
func (i *Image) Loaded() bool {
	return i != nil && i.done
}

// Complete reports whether the image loaded successfully and has pixels.
func (i *Image) Complete() bool {
	if i == nil || !i.done || i.err != nil || i.img == nil {
		return false
	}
	w, h := i.Size()
	return w > 0 && h > 0
}

// Image returns the decoded image, or nil.
func (i *Image) Image() image.Image {
	return i.img
}

// Err returns the load failure, or nil.
func (i *Image) Err() error {
	return i.err
}

// --- Loader ---

// Loader deduplicates and tracks in-flight image fetches for one scene.
// All methods must be called on the event thread; fetches run in background
// goroutines and report back through the Poster.
type Loader struct {
	images  map[string]*Image
	loading int

	fetcher Fetcher
	poster  Poster
	sem     *semaphore.Weighted
	ctx     context.Context
	cancel  context.CancelFunc
	log     *logger

	// onIdle runs every time the outstanding count drops to zero.
	onIdle func()
}

func newLoader(fetcher Fetcher, poster Poster, maxConcurrent int, log *logger, onIdle func()) *Loader {
	if poster == nil {
		panic("gscene: image loading requires a Poster")
	}
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentFetches
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		images:  make(map[string]*Image),
		fetcher: fetcher,
		poster:  poster,
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
		onIdle:  onIdle,
	}
}

// Fetch returns the handle for url, starting an asynchronous load the first
// time url is seen. Repeated calls return the same handle without fetching
// again.
func (ld *Loader) Fetch(url string) *Image {
	if img, ok := ld.images[url]; ok {
		return img
	}
	img := &Image{url: url}
	ld.images[url] = img
	ld.loading++
	go ld.load(img)
	return img
}

// Outstanding returns the number of fetches started but not yet completed.
func (ld *Loader) Outstanding() int {
	return ld.loading
}

// Close cancels fetches still in flight. They complete with a context error.
func (ld *Loader) Close() {
	ld.cancel()
}

func (ld *Loader) load(img *Image) {
	var res image.Image
	err := ld.sem.Acquire(ld.ctx, 1)
	if err == nil {
		res, err = ld.fetcher.Fetch(ld.ctx, img.url)
		ld.sem.Release(1)
	}
	ld.poster.Post(func() { ld.complete(img, res, err) })
}

// complete records a finished fetch. Failures leave the handle unusable for
// drawing but still count as completed.
func (ld *Loader) complete(img *Image, res image.Image, err error) {
	img.img = res
	img.err = err
	img.done = true

	ld.loading--
	if ld.loading < 0 {
		panic("gscene: outstanding fetch count went negative")
	}
	if err != nil {
		ld.log.warnf("error loading %s: %v", img.url, err)
	} else {
		ld.log.debugf("loaded: %s", img.url)
	}
	if ld.loading == 0 {
		ld.log.debugf("all assets loaded")
		if ld.onIdle != nil {
			ld.onIdle()
		}
	}
}
