package present

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/sprite/internal/logger"
)

// TexturePresenter uploads frames into a host-owned GPU texture and draws it.
//
// The first frame creates the texture through the drawer's TextureCreator.
// Later frames of the same size update it in place when the texture
// implements gpucontext.TextureUpdater, and recreate it otherwise.
//
// Thread safety: TexturePresenter is not safe for concurrent use; call it
// from the thread that owns the GPU context.
type TexturePresenter struct {
	drawer gpucontext.TextureDrawer
	tex    gpucontext.Texture

	// X and Y position the texture on the host surface.
	X, Y float32

	scratch []byte
}

// NewTexturePresenter returns a presenter drawing through d.
func NewTexturePresenter(d gpucontext.TextureDrawer) *TexturePresenter {
	return &TexturePresenter{drawer: d}
}

// Present uploads the frame and draws it. RGBA frames without row padding
// are uploaded straight from the rasterizer's buffer; others are expanded
// to packed RGBA first.
func (p *TexturePresenter) Present(f Frame) error {
	data := f.RGBA(p.scratch)
	if !f.Tight() {
		p.scratch = data
	}

	if err := p.upload(f.Extent(), data); err != nil {
		return err
	}
	if err := p.drawer.DrawTexture(p.tex, p.X, p.Y); err != nil {
		return fmt.Errorf("present: draw texture: %w", err)
	}
	return nil
}

// upload pushes data into the held texture, creating it if needed.
func (p *TexturePresenter) upload(size gputypes.Extent3D, data []byte) error {
	width, height := int(size.Width), int(size.Height)
	if p.tex != nil && p.tex.Width() == width && p.tex.Height() == height {
		if u, ok := p.tex.(gpucontext.TextureUpdater); ok {
			if err := u.UpdateData(data); err != nil {
				return fmt.Errorf("present: update texture: %w", err)
			}
			return nil
		}
	}

	creator := p.drawer.TextureCreator()
	if creator == nil {
		return ErrNoTextureCreator
	}
	p.release()
	tex, err := creator.NewTextureFromRGBA(width, height, data)
	if err != nil {
		return fmt.Errorf("present: create texture: %w", err)
	}
	p.tex = tex
	logger.Get().Debug("present: texture created", "width", width, "height", height)
	return nil
}

// Texture returns the current host texture, or nil before the first frame.
func (p *TexturePresenter) Texture() gpucontext.Texture {
	return p.tex
}

// Close releases the held texture if it supports Destroy.
func (p *TexturePresenter) Close() {
	p.release()
}

func (p *TexturePresenter) release() {
	if d, ok := p.tex.(interface{ Destroy() }); ok {
		d.Destroy()
	}
	p.tex = nil
}
