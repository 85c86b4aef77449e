package present

import "errors"

var (
	// ErrNoFrame is returned when an operation needs a presented frame and
	// none has been presented yet.
	ErrNoFrame = errors.New("present: no frame presented")

	// ErrNoTextureCreator is returned when a TextureDrawer exposes no
	// TextureCreator.
	ErrNoTextureCreator = errors.New("present: drawer has no texture creator")
)
