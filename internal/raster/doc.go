// Package raster decodes and encodes the PNG images that carry image-based
// Brainfuck programs.
//
// The decoder is deliberately narrow: it accepts only 8-bit truecolor images
// without alpha or interlacing, which is the profile every program image is
// stored in. Anything else is rejected with ErrUnsupported rather than
// converted. Decoding is all-or-nothing; a single bad chunk fails the load.
//
// # Pixel Layout
//
// A decoded Raster stores pixels row-major as RGB triples:
//   - (0,0) is the top-left pixel
//   - X increases rightward, Y increases downward
//   - Pix[y*Width+x] is the pixel at (x, y)
//
// # Chunk Handling
//
// Chunks are read in file order. Every chunk's CRC is verified, including
// ancillary chunks whose contents are otherwise ignored. IHDR must come first
// and appear once; IDAT payloads are concatenated and inflated as a single
// zlib stream; IEND ends parsing.
//
// # Scanline Filters
//
// All five PNG filter types are reversed (None, Sub, Up, Average, Paeth).
// Rows are reconstructed in order since Up, Average and Paeth read the row
// above after it has been reconstructed.
//
// # Error Handling
//
// Decode failures wrap one of the sentinel errors below and can be matched
// with errors.Is:
//   - ErrBadSignature: the 8-byte PNG signature is missing
//   - ErrBadChunkOrder: IHDR is missing, repeated or not first
//   - ErrChunkCRC: a chunk's CRC does not match its type and payload
//   - ErrUnsupported: bit depth, color type, interlace or filter not supported
//   - ErrTruncated: the file or the inflated pixel data ends early
//   - ErrDecompress: the IDAT stream is not valid zlib data
//
// # Encoding
//
// Encoder writes rasters back out in the same profile. It can force a single
// filter type for every row, which the tests use to exercise each
// reconstruction path, or pick one per row.
//
// # Thread Safety
//
// Cache is safe for concurrent use. A decoded Raster is never modified by this
// package after Decode returns. Rasters handed out by Cache.Load are shared
// between callers, so callers treat them as read-only and Clone before
// painting over one.
package raster
