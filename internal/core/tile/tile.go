// Package tile provides tile coordinates and payload format descriptors.
package tile

import "fmt"

// Coord identifies a tile in the XYZ quad-tree pyramid.
type Coord struct {
	Z uint8
	X uint32
	Y uint32
}

// String renders the coordinate as "z/x/y" for logs and error messages.
func (c Coord) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Z, c.X, c.Y)
}

// Format is the container format of a tile payload.
type Format string

const (
	FormatMVT  Format = "mvt"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
	FormatGIF  Format = "gif"
	FormatJSON Format = "json"
)

// ContentType returns the HTTP Content-Type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMVT:
		return "application/x-protobuf"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	case FormatGIF:
		return "image/gif"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// Encoding is the compression applied to a tile payload.
type Encoding string

const (
	EncodingUncompressed Encoding = "uncompressed"
	EncodingGzip         Encoding = "gzip"
	EncodingZlib         Encoding = "zlib"
	EncodingBrotli       Encoding = "brotli"
	EncodingZstd         Encoding = "zstd"
)

// ContentEncoding returns the HTTP Content-Encoding header value,
// or an empty string when no header should be set.
func (e Encoding) ContentEncoding() string {
	switch e {
	case EncodingGzip:
		return "gzip"
	case EncodingZlib:
		return "deflate"
	case EncodingBrotli:
		return "br"
	case EncodingZstd:
		return "zstd"
	default:
		return ""
	}
}

// Info is the format fingerprint of a tile payload. Two sources can be
// merged into one request only if their Info values are equal.
type Info struct {
	Format   Format
	Encoding Encoding
}

// NewInfo creates a format fingerprint.
func NewInfo(format Format, encoding Encoding) Info {
	return Info{Format: format, Encoding: encoding}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s)", i.Format, i.Encoding)
}
