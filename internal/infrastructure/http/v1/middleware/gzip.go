package middleware

import (
	"io"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

var gzipPool = sync.Pool{
	New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return w
	},
}

// Gzip compresses JSON responses for clients that accept it. Tile payload
// routes must not use it: tiles may already carry their own encoding.
func Gzip() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gz := gzipPool.Get().(*gzip.Writer)
		defer gzipPool.Put(gz)
		gz.Reset(c.Writer)

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")
		gw := &gzipWriter{ResponseWriter: c.Writer, gz: gz}
		c.Writer = gw

		defer func() {
			c.Writer = gw.ResponseWriter
			if !gw.wrote {
				// Handler produced no body (error or status-only
				// response). Closing the compressor here would emit a
				// gzip header that commits the response at 200 and
				// starves the error handler, so hand the untouched
				// writer back instead.
				gz.Reset(io.Discard)
				c.Writer.Header().Del("Content-Encoding")
				c.Writer.Header().Del("Vary")
				return
			}
			_ = gz.Close()
			c.Header("Content-Length", "")
		}()
		c.Next()
	}
}

type gzipWriter struct {
	gin.ResponseWriter
	gz    *gzip.Writer
	wrote bool
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	w.wrote = true
	return w.gz.Write(data)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	w.wrote = true
	return w.gz.Write([]byte(s))
}
