package raster

import (
	"errors"
	"fmt"
)

var (
	ErrBadSignature  = errors.New("png: bad signature")
	ErrBadChunkOrder = errors.New("png: chunk out of order")
	ErrChunkCRC      = errors.New("png: chunk crc mismatch")
	ErrUnsupported   = errors.New("png: unsupported image profile")
	ErrTruncated     = errors.New("png: truncated data")
	ErrDecompress    = errors.New("png: decompression failed")
)

// ChunkError reports a failure tied to a specific chunk.
type ChunkError struct {
	// Type is the four-character chunk tag, empty if the tag itself could not be read.
	Type string

	// Offset is the byte offset of the chunk's length field within the file.
	Offset int

	// Reason is a short human-readable description.
	Reason string

	// Err is one of the package's sentinel errors.
	Err error
}

func (e *ChunkError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%v at offset %d: %s", e.Err, e.Offset, e.Reason)
	}
	return fmt.Sprintf("%v in %s chunk at offset %d: %s", e.Err, e.Type, e.Offset, e.Reason)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
