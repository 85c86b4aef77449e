package sprite

import (
	"log/slog"

	"github.com/gogpu/sprite/present"
)

// ContextOption configures a Context during creation. Options are applied
// after the Config and take precedence over it.
//
// Example:
//
//	// Headless rendering to a custom presenter
//	ctx, err := sprite.NewContext(cfg, sprite.WithPresenter(myPresenter))
//
//	// Presenter selected by name from a host registry
//	reg := present.NewRegistry()
//	reg.Register("window", func() present.Presenter { return win })
//	cfg.Presenter = "window"
//	ctx, err := sprite.NewContext(cfg, sprite.WithPresenterRegistry(reg))
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	workers   *int
	tileSize  float64
	presenter present.Presenter
	registry  *present.Registry
	logger    *slog.Logger
}

// WithWorkers overrides Config.Workers.
func WithWorkers(n int) ContextOption {
	return func(o *contextOptions) {
		o.workers = &n
	}
}

// WithTileSize overrides Config.TileSize. Non-positive values are ignored.
func WithTileSize(px float64) ContextOption {
	return func(o *contextOptions) {
		if px > 0 {
			o.tileSize = px
		}
	}
}

// WithPresenter sets the presenter directly, bypassing the registry and
// Config.Presenter.
func WithPresenter(p present.Presenter) ContextOption {
	return func(o *contextOptions) {
		o.presenter = p
	}
}

// WithPresenterRegistry sets the registry Config.Presenter is looked up in.
// The default is present.NewRegistry().
func WithPresenterRegistry(r *present.Registry) ContextOption {
	return func(o *contextOptions) {
		o.registry = r
	}
}

// WithLogger installs l as the package logger before the context is built.
// It is equivalent to calling SetLogger(l) first.
func WithLogger(l *slog.Logger) ContextOption {
	return func(o *contextOptions) {
		o.logger = l
	}
}
