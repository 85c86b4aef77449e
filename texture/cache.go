package texture

import (
	"errors"
	"fmt"
	"image"
	"io/fs"

	// Decoders for Load.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/gogpu/sprite/internal/cache"
	"github.com/gogpu/sprite/internal/logger"
	"github.com/gogpu/sprite/pixel"
)

// DefaultCacheSize is the number of textures a Cache keeps by default.
const DefaultCacheSize = 128

// Stats are the counters reported by Cache.Stats.
type Stats = cache.Stats

// Cache keeps decoded, pre-scaled textures by key, evicting the least
// recently used past its capacity.
//
// Thread safety: Cache is safe for concurrent use.
type Cache struct {
	textures *cache.Cache[string, *pixel.Texture]
}

// NewCache returns a cache for up to size textures. Zero or negative size
// selects DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c := &Cache{textures: cache.New[string, *pixel.Texture](size)}
	c.textures.OnEvict(func(key string, _ *pixel.Texture) {
		logger.Get().Debug("texture: evicted", "key", key)
	})
	return c
}

// Get returns the texture stored under key.
func (c *Cache) Get(key string) (*pixel.Texture, bool) {
	return c.textures.Get(key)
}

// Put stores tex under key.
func (c *Cache) Put(key string, tex *pixel.Texture) {
	c.textures.Set(key, tex)
}

// GetOrLoad returns the texture under key, calling load on a miss. A failed
// load is not cached.
func (c *Cache) GetOrLoad(key string, load func() (*pixel.Texture, error)) (*pixel.Texture, error) {
	return c.textures.GetOrCreate(key, load)
}

// Load decodes the image name from fsys, scales it to width×height (see
// FromImage) and caches the result per name and size.
func (c *Cache) Load(fsys fs.FS, name string, width, height int) (*pixel.Texture, error) {
	key := fmt.Sprintf("%s@%dx%d", name, width, height)
	return c.GetOrLoad(key, func() (*pixel.Texture, error) {
		f, err := fsys.Open(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
			}
			return nil, fmt.Errorf("texture: open %s: %w", name, err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("texture: decode %s: %w", name, err)
		}
		tex, err := FromImage(img, width, height)
		if err != nil {
			return nil, fmt.Errorf("texture: convert %s: %w", name, err)
		}
		logger.Get().Debug("texture: loaded", "name", name, "width", tex.Width(), "height", tex.Height())
		return tex, nil
	})
}

// Delete drops key from the cache.
func (c *Cache) Delete(key string) bool {
	return c.textures.Delete(key)
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	return c.textures.Len()
}

// Stats returns the cache counters.
func (c *Cache) Stats() Stats {
	return c.textures.Stats()
}

// Clear drops every texture.
func (c *Cache) Clear() {
	c.textures.Clear()
}
