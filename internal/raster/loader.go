package raster

import (
	"fmt"
	"os"
	"sync"
)

// Cache provides thread-safe caching of decoded rasters keyed by file path.
//
// The server keeps one Cache for its lifetime so repeated tool calls on the
// same program image decode it once. Different paths to the same file are
// separate entries.
//
// # Memory Management
//
// Cached rasters stay in memory until removed via Evict or Clear.
type Cache struct {
	mu      sync.RWMutex
	rasters map[string]*Raster
}

// NewCache creates an empty cache ready for concurrent use.
func NewCache() *Cache {
	return &Cache{
		rasters: make(map[string]*Raster),
	}
}

// Load returns the cached raster for path, decoding the file on first use.
// Every caller shares the returned raster and must not modify it; use Clone
// to get a private copy.
func (c *Cache) Load(path string) (*Raster, error) {
	c.mu.RLock()
	if r, ok := c.rasters[path]; ok {
		c.mu.RUnlock()
		return r, nil
	}
	c.mu.RUnlock()

	r, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.rasters[path] = r
	c.mu.Unlock()

	return r, nil
}

// Clear removes all rasters from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.rasters = make(map[string]*Raster)
	c.mu.Unlock()
}

// Evict removes the raster cached for path, if any.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.rasters, path)
	c.mu.Unlock()
}

// LoadFile reads the whole file at path and decodes it. The file is closed
// before decoding starts.
func LoadFile(path string) (*Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	r, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return r, nil
}

// ImageInfo contains metadata about a program image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// Chunks lists every chunk up to and including IEND, in file order.
	Chunks []ChunkInfo `json:"chunks"`
}

// LoadImageInfo reads path and reports its dimensions and chunk layout. Pixel
// data is not inflated, so a file with a corrupt IDAT stream still reports.
func LoadImageInfo(path string) (*ImageInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	w, h, chunks, err := Describe(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &ImageInfo{
		Width:         w,
		Height:        h,
		FileSizeBytes: int64(len(data)),
		Chunks:        chunks,
	}, nil
}

// WriteFile encodes r with adaptive filtering and writes it to path.
func WriteFile(path string, r *Raster) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	if err := Encode(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return f.Close()
}
