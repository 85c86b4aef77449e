package present

import (
	"image"
	"image/png"
	"os"
	"sync"
)

// Presenter receives each finished frame.
type Presenter interface {
	Present(f Frame) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(Frame) error

// Present calls fn(f).
func (fn PresenterFunc) Present(f Frame) error { return fn(f) }

// Discard drops every frame.
var Discard Presenter = PresenterFunc(func(Frame) error { return nil })

// ImagePresenter keeps a copy of the most recent frame as an *image.RGBA.
// It is used for headless rendering and tests.
//
// Thread safety: ImagePresenter is safe for concurrent use.
type ImagePresenter struct {
	mu     sync.Mutex
	img    *image.RGBA
	frames uint64
}

// NewImagePresenter returns an empty ImagePresenter.
func NewImagePresenter() *ImagePresenter {
	return &ImagePresenter{}
}

// Present copies f into the held image.
func (p *ImagePresenter) Present(f Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.img = f.CopyTo(p.img)
	p.frames++
	return nil
}

// Image returns a copy of the last presented frame, or nil before the first.
func (p *ImagePresenter) Image() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.img == nil {
		return nil
	}
	out := image.NewRGBA(p.img.Rect)
	copy(out.Pix, p.img.Pix)
	return out
}

// Frames returns the number of frames presented so far.
func (p *ImagePresenter) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// SavePNG writes the last presented frame to path.
func (p *ImagePresenter) SavePNG(path string) error {
	img := p.Image()
	if img == nil {
		return ErrNoFrame
	}

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
